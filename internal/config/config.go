package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/palemoky/maze-escape/internal/apperrors"
)

// Default values
const (
	defaultRows           = 10
	defaultCols           = 10
	defaultHost           = "0.0.0.0"
	defaultPort           = 1790
	defaultMaxConnections = 1000
	defaultSoundDir       = "assets/sounds"

	defaultRateLimitPerSecond = 10
	defaultRateLimitPerMinute = 60
	defaultBanDuration        = 60 // seconds
	defaultMessagesPerSecond  = 20
)

// Config holds the settings shared by the client and the server.
type Config struct {
	Maze     MazeConfig     `yaml:"maze"`
	Server   ServerConfig   `yaml:"server"`
	Redis    RedisConfig    `yaml:"redis"`
	Client   ClientConfig   `yaml:"client"`
	Security SecurityConfig `yaml:"security"`
}

// MazeConfig sizes the generated mazes.
type MazeConfig struct {
	Rows int    `yaml:"rows"`
	Cols int    `yaml:"cols"`
	Seed uint64 `yaml:"seed"` // 0 seeds every maze from the clock
}

// ServerConfig configures the websocket server.
type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxConnections int    `yaml:"max_connections"`
}

// RedisConfig locates the escape record store. An empty Addr disables it.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ClientConfig configures the terminal client.
type ClientConfig struct {
	Sound    *bool  `yaml:"sound"`
	SoundDir string `yaml:"sound_dir"`
}

// SecurityConfig guards the websocket endpoint.
type SecurityConfig struct {
	AllowedOrigins []string           `yaml:"allowed_origins"` // "*" allows any origin
	RateLimit      RateLimitConfig    `yaml:"rate_limit"`
	MessageLimit   MessageLimitConfig `yaml:"message_limit"`
}

// RateLimitConfig limits connection attempts per IP.
type RateLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
	MaxPerMinute int `yaml:"max_per_minute"`
	BanDuration  int `yaml:"ban_duration"` // seconds
}

// MessageLimitConfig limits frames per connected client.
type MessageLimitConfig struct {
	MaxPerSecond int `yaml:"max_per_second"`
}

// BanDurationTime returns BanDuration as a time.Duration.
func (c *RateLimitConfig) BanDurationTime() time.Duration {
	return time.Duration(c.BanDuration) * time.Second
}

// SoundEnabled reports whether audio cues are on. Defaults to true.
func (c *ClientConfig) SoundEnabled() bool {
	return c.Sound == nil || *c.Sound
}

// Address returns host:port for the server listener.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load reads a yaml file, fills defaults and applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	cfg.applyEnv()
	return &cfg, nil
}

// Default returns the built-in configuration with environment overrides.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

// Validate rejects settings the game cannot start with.
func (c *Config) Validate() error {
	if c.Maze.Rows < 1 || c.Maze.Cols < 1 {
		return fmt.Errorf("%w: rows=%d cols=%d", apperrors.ErrInvalidDimensions, c.Maze.Rows, c.Maze.Cols)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Server.MaxConnections < 1 {
		return fmt.Errorf("invalid max connections %d", c.Server.MaxConnections)
	}
	sec := c.Security
	if sec.RateLimit.MaxPerSecond < 1 || sec.RateLimit.MaxPerMinute < 1 || sec.RateLimit.BanDuration < 0 {
		return fmt.Errorf("invalid rate limit %+v", sec.RateLimit)
	}
	if sec.MessageLimit.MaxPerSecond < 1 {
		return fmt.Errorf("invalid message limit %d", sec.MessageLimit.MaxPerSecond)
	}
	return nil
}

func (c *Config) applyDefaults() {
	if c.Maze.Rows == 0 {
		c.Maze.Rows = defaultRows
	}
	if c.Maze.Cols == 0 {
		c.Maze.Cols = defaultCols
	}
	if c.Server.Host == "" {
		c.Server.Host = defaultHost
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.MaxConnections == 0 {
		c.Server.MaxConnections = defaultMaxConnections
	}
	if c.Client.SoundDir == "" {
		c.Client.SoundDir = defaultSoundDir
	}

	if len(c.Security.AllowedOrigins) == 0 {
		c.Security.AllowedOrigins = []string{"*"}
	}
	if c.Security.RateLimit.MaxPerSecond == 0 {
		c.Security.RateLimit.MaxPerSecond = defaultRateLimitPerSecond
	}
	if c.Security.RateLimit.MaxPerMinute == 0 {
		c.Security.RateLimit.MaxPerMinute = defaultRateLimitPerMinute
	}
	if c.Security.RateLimit.BanDuration == 0 {
		c.Security.RateLimit.BanDuration = defaultBanDuration
	}
	if c.Security.MessageLimit.MaxPerSecond == 0 {
		c.Security.MessageLimit.MaxPerSecond = defaultMessagesPerSecond
	}
}

func (c *Config) applyEnv() {
	c.Maze.Rows = getEnvInt("MAZE_ROWS", c.Maze.Rows)
	c.Maze.Cols = getEnvInt("MAZE_COLS", c.Maze.Cols)
	if v, ok := os.LookupEnv("MAZE_SEED"); ok {
		if seed, err := strconv.ParseUint(v, 10, 64); err == nil {
			c.Maze.Seed = seed
		}
	}

	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnvInt("SERVER_PORT", c.Server.Port)
	c.Server.MaxConnections = getEnvInt("SERVER_MAX_CONNECTIONS", c.Server.MaxConnections)

	c.Redis.Addr = getEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = getEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = getEnvInt("REDIS_DB", c.Redis.DB)

	if v, ok := os.LookupEnv("CLIENT_SOUND"); ok {
		if enabled, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			c.Client.Sound = &enabled
		}
	}
	c.Client.SoundDir = getEnv("CLIENT_SOUND_DIR", c.Client.SoundDir)

	if v := getEnv("SECURITY_ALLOWED_ORIGINS", ""); v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		if len(origins) > 0 {
			c.Security.AllowedOrigins = origins
		}
	}
	c.Security.RateLimit.MaxPerSecond = getEnvInt("SECURITY_RATE_LIMIT_PER_SECOND", c.Security.RateLimit.MaxPerSecond)
	c.Security.RateLimit.MaxPerMinute = getEnvInt("SECURITY_RATE_LIMIT_PER_MINUTE", c.Security.RateLimit.MaxPerMinute)
	c.Security.RateLimit.BanDuration = getEnvInt("SECURITY_BAN_DURATION", c.Security.RateLimit.BanDuration)
	c.Security.MessageLimit.MaxPerSecond = getEnvInt("SECURITY_MESSAGES_PER_SECOND", c.Security.MessageLimit.MaxPerSecond)
}

// getEnv returns the variable's value, or fallback when it is unset or empty.
func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// getEnvInt is getEnv for integers; unparsable values are ignored.
func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}
