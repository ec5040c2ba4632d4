// Package server 通过 websocket 提供迷宫会话，每个连接一个会话
package server

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/palemoky/maze-escape/internal/config"
	"github.com/palemoky/maze-escape/internal/game"
	"github.com/palemoky/maze-escape/internal/storage"
)

// RecordStore 保存通关记录并排名
type RecordStore interface {
	Save(ctx context.Context, r *storage.Record) error
	Best(ctx context.Context, rows, cols, limit int) ([]storage.RankedRecord, error)
	Escapes(ctx context.Context, rows, cols int) (int64, error)
}

// Option 服务器配置项
type Option func(*Server)

// WithRecords 启用通关记录
func WithRecords(rs RecordStore) Option {
	return func(s *Server) { s.records = rs }
}

// WithSourceFactory 替换迷宫随机源
func WithSourceFactory(f game.SourceFactory) Option {
	return func(s *Server) { s.newSource = f }
}

// Server websocket 服务器
type Server struct {
	config     *config.Config
	records    RecordStore
	newSource  game.SourceFactory
	httpServer *http.Server
	upgrader   websocket.Upgrader

	// 安全组件
	rateLimiter    *RateLimiter
	originChecker  *OriginChecker
	messageLimiter *MessageRateLimiter

	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 信号量限制并发连接数
	maxConnections int
	semaphore      chan struct{}

	maintenanceMode bool
	maintenanceMu   sync.RWMutex
}

// NewServer 创建服务器。cfg.Maze.Seed 非零时用固定种子，否则用时钟
func NewServer(cfg *config.Config, opts ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sec := cfg.Security
	s := &Server{
		config:         cfg,
		clients:        make(map[string]*Client),
		maxConnections: cfg.Server.MaxConnections,
		semaphore:      make(chan struct{}, cfg.Server.MaxConnections),
		rateLimiter:    NewRateLimiter(sec.RateLimit.MaxPerSecond, sec.RateLimit.MaxPerMinute, sec.RateLimit.BanDurationTime()),
		originChecker:  NewOriginChecker(sec.AllowedOrigins),
		messageLimiter: NewMessageRateLimiter(sec.MessageLimit.MaxPerSecond),
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.originChecker.Check,
	}
	if cfg.Maze.Seed != 0 {
		s.newSource = game.SeededSource(cfg.Maze.Seed)
	} else {
		s.newSource = game.ClockSource()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Handler 返回路由：/ws 与 /health
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	return mux
}

// Start 开始监听，直到调用 Shutdown
func (s *Server) Start() error {
	addr := s.config.Server.Address()
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go s.monitorStats()

	log.Printf("🚀 Server listening on ws://%s/ws (maze %dx%d)", addr, s.config.Maze.Rows, s.config.Maze.Cols)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown 拒绝新连接，停止监听并断开所有客户端
func (s *Server) Shutdown(ctx context.Context) error {
	s.EnterMaintenanceMode()
	s.rateLimiter.Stop()

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	s.clientsMu.RLock()
	clients := make([]*Client, 0, len(s.clients))
	for _, c := range s.clients {
		clients = append(clients, c)
	}
	s.clientsMu.RUnlock()

	for _, c := range clients {
		c.disconnect()
	}
	return err
}

// handleWebSocket 升级连接并创建新会话
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	clientIP := GetClientIP(r)

	// 维护模式优先
	if s.IsMaintenanceMode() {
		http.Error(w, "Server is shutting down", http.StatusServiceUnavailable)
		return
	}

	if !s.originChecker.Check(r) {
		log.Printf("🚫 Origin %q rejected (IP: %s)", r.Header.Get("Origin"), clientIP)
		http.Error(w, "Origin not allowed", http.StatusForbidden)
		return
	}

	// 先限速再占连接槽，被封禁的 IP 不消耗名额
	if !s.rateLimiter.Allow(clientIP) {
		log.Printf("🚫 IP %s is connecting too often", clientIP)
		http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
		return
	}

	// 名额一直占用到读协程退出
	select {
	case s.semaphore <- struct{}{}:
	default:
		log.Printf("🚫 Connection limit reached (%d), rejecting %s", s.maxConnections, clientIP)
		http.Error(w, "Server Full", http.StatusServiceUnavailable)
		return
	}
	release := func() { <-s.semaphore }

	session, err := game.NewSession(s.config.Maze.Rows, s.config.Maze.Cols, s.newSource)
	if err != nil {
		release()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		release()
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(s, conn, session)
	client.IP = clientIP
	client.release = release
	s.registerClient(client)

	client.sendSnapshot("", "")
	log.Printf("✅ %s (%s) connected", client.Name, client.ID)

	go client.ReadPump()
	go client.WritePump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) registerClient(c *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[c.ID] = c
}

func (s *Server) unregisterClient(c *Client) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()

	if _, ok := s.clients[c.ID]; ok {
		delete(s.clients, c.ID)
		log.Printf("❌ %s (%s) disconnected", c.Name, c.ID)
	}
}

// OnlineCount 在线人数
func (s *Server) OnlineCount() int {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()
	return len(s.clients)
}

// EnterMaintenanceMode 进入维护模式，不再接受新连接
func (s *Server) EnterMaintenanceMode() {
	s.maintenanceMu.Lock()
	defer s.maintenanceMu.Unlock()
	if !s.maintenanceMode {
		s.maintenanceMode = true
		log.Println("🔧 Maintenance mode: refusing new connections")
	}
}

func (s *Server) IsMaintenanceMode() bool {
	s.maintenanceMu.RLock()
	defer s.maintenanceMu.RUnlock()
	return s.maintenanceMode
}

// monitorStats 每 30 秒打印连接统计
func (s *Server) monitorStats() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if s.IsMaintenanceMode() {
			return
		}
		log.Printf("📊 Online: %d | active connections: %d/%d", s.OnlineCount(), len(s.semaphore), s.maxConnections)
	}
}
