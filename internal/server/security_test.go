package server

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Allow(t *testing.T) {
	t.Parallel()

	// 5 reqs/sec, 10 reqs/min, 1s ban
	rl := NewRateLimiter(5, 10, 1*time.Second)
	defer rl.Stop()
	ip := "127.0.0.1"

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow(ip), "request %d should be allowed", i)
	}

	assert.False(t, rl.Allow(ip), "6th request should be blocked")
	assert.True(t, rl.IsBanned(ip))
	assert.False(t, rl.IsBanned("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.1"), "other IPs keep their own budget")
}

func TestRateLimiter_BanExpires(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 10, 200*time.Millisecond)
	defer rl.Stop()
	ip := "127.0.0.1"

	assert.True(t, rl.Allow(ip))
	assert.False(t, rl.Allow(ip))
	assert.True(t, rl.IsBanned(ip))

	time.Sleep(1100 * time.Millisecond)
	assert.False(t, rl.IsBanned(ip))
	assert.True(t, rl.Allow(ip))
}

func TestRateLimiter_MinuteLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(100, 3, time.Second)
	defer rl.Stop()
	ip := "127.0.0.1"

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow(ip))
	}
	assert.False(t, rl.Allow(ip), "4th request in a minute should be blocked")
}

func TestRateLimiter_Concurrent(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(50, 1000, time.Second)
	defer rl.Stop()

	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("127.0.0.1") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, allowed, 50)
	assert.Positive(t, allowed)
}

func TestRateLimiter_StopTwice(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, 1, time.Second)
	assert.NotPanics(t, func() {
		rl.Stop()
		rl.Stop()
	})
}

func TestOriginChecker(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"wildcard", []string{"*"}, "http://anything.example", true},
		{"listed", []string{"http://maze.example"}, "http://maze.example", true},
		{"case insensitive", []string{"http://Maze.example"}, "HTTP://maze.EXAMPLE", true},
		{"not listed", []string{"http://maze.example"}, "http://evil.example", false},
		{"no origin header", []string{"http://maze.example"}, "", true},
		{"empty list", nil, "http://maze.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, NewOriginChecker(tt.allowed).Check(r))
		})
	}
}

func TestGetClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1"}, "127.0.0.1:5000", "1.2.3.4"},
		{"real ip", map[string]string{"X-Real-IP": "5.6.7.8"}, "127.0.0.1:5000", "5.6.7.8"},
		{"remote addr", nil, "9.9.9.9:1234", "9.9.9.9"},
		{"remote without port", nil, "9.9.9.9", "9.9.9.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(r))
		})
	}
}

func TestMessageRateLimiter(t *testing.T) {
	t.Parallel()

	// 5 msgs/sec
	ml := NewMessageRateLimiter(5)
	clientID := "client1"

	for i := 0; i < 5; i++ {
		assert.True(t, ml.AllowMessage(clientID), "message %d should be allowed", i)
	}
	assert.Zero(t, ml.GetWarningCount(clientID))

	assert.False(t, ml.AllowMessage(clientID))
	assert.False(t, ml.AllowMessage(clientID))
	assert.Equal(t, 2, ml.GetWarningCount(clientID))

	assert.True(t, ml.AllowMessage("client2"), "limits are per client")

	ml.RemoveClient(clientID)
	assert.Zero(t, ml.GetWarningCount(clientID))
	assert.True(t, ml.AllowMessage(clientID))
}

func TestMessageRateLimiter_WindowResets(t *testing.T) {
	t.Parallel()

	ml := NewMessageRateLimiter(1)
	assert.True(t, ml.AllowMessage("c"))
	assert.False(t, ml.AllowMessage("c"))

	time.Sleep(1100 * time.Millisecond)
	assert.True(t, ml.AllowMessage("c"))
}
