package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server configuration. Values come from the environment;
// callers load a .env file first if they want one.
type Config struct {
	Host             string        `env:"BATTLESHIP_HOST" envDefault:"0.0.0.0"`
	Port             int           `env:"BATTLESHIP_PORT" envDefault:"8080"`
	BoardSize        int           `env:"BATTLESHIP_BOARD_SIZE" envDefault:"10"`
	GameTimeout      time.Duration `env:"BATTLESHIP_GAME_TIMEOUT" envDefault:"30m"`
	ReconnectTimeout time.Duration `env:"BATTLESHIP_RECONNECT_TIMEOUT" envDefault:"5m"`
	LogLevel         string        `env:"BATTLESHIP_LOG_LEVEL" envDefault:"info"`
	LogFile          string        `env:"BATTLESHIP_LOG_FILE"`
	Heartbeat        time.Duration `env:"BATTLESHIP_HEARTBEAT" envDefault:"30s"`
	MaxMessageSize   int64         `env:"BATTLESHIP_MAX_MESSAGE_SIZE" envDefault:"65536"`
	SessionsDir      string        `env:"BATTLESHIP_SESSIONS_DIR" envDefault:"sessions"`
	Persist          bool          `env:"BATTLESHIP_PERSIST" envDefault:"true"`
}

// Load parses the configuration from the environment
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config: port must be 1-65535, got %d", c.Port)
	}
	if c.BoardSize < 1 {
		return fmt.Errorf("config: board size must be at least 1, got %d", c.BoardSize)
	}
	if c.GameTimeout <= 0 {
		return fmt.Errorf("config: game timeout must be positive, got %s", c.GameTimeout)
	}
	if c.ReconnectTimeout <= 0 {
		return fmt.Errorf("config: reconnect timeout must be positive, got %s", c.ReconnectTimeout)
	}
	if c.Heartbeat <= 0 {
		return fmt.Errorf("config: heartbeat must be positive, got %s", c.Heartbeat)
	}
	if c.MaxMessageSize < 512 {
		return fmt.Errorf("config: max message size must be at least 512 bytes, got %d", c.MaxMessageSize)
	}
	if c.SessionsDir == "" {
		return fmt.Errorf("config: sessions directory must not be empty")
	}
	return nil
}

// Addr returns the host:port bind address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// BaseURL returns the HTTP origin local clients should target. A wildcard
// bind host is rewritten to localhost since clients cannot dial 0.0.0.0.
func (c *Config) BaseURL() string {
	host := c.Host
	if host == "0.0.0.0" || host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d", host, c.Port)
}
