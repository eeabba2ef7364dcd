// Package config holds the client's configuration, loaded from environment
// variables.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/olmosO/doggys/pkg/config"
)

// Store backends.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
)

// Config holds all configuration for the client.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Backend API
	APIBaseURL string        `env:"API_BASE_URL" envDefault:"http://127.0.0.1:8000"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"15s"`

	// Local store
	StoreBackend string `env:"STORE_BACKEND" envDefault:"sqlite"`
	StorePath    string `env:"STORE_PATH" envDefault:"doggys.db"`

	// Redis (used when STORE_BACKEND=redis)
	RedisHost string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Order-status polling cadence
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`

	// Session inactivity limit
	IdleTimeout time.Duration `env:"IDLE_TIMEOUT" envDefault:"30m"`

	// Ops HTTP server (health + metrics)
	OpsPort int `env:"OPS_PORT" envDefault:"9090"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.StoreBackend != StoreSQLite && c.StoreBackend != StoreRedis {
		return fmt.Errorf("invalid store backend: %q", c.StoreBackend)
	}
	if c.StoreBackend == StoreSQLite && c.StorePath == "" {
		return fmt.Errorf("store path is required for the sqlite backend")
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("API base URL is required")
	}
	if c.OpsPort < 1 || c.OpsPort > 65535 {
		return fmt.Errorf("invalid ops port: %d", c.OpsPort)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	return nil
}
