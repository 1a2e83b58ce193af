package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Clipboard   ClipboardConfig
	Engine      EngineConfig
	Generations GenerationsConfig
	Logging     LogConfig
	RateLimit   RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string   `envconfig:"PORT" default:"8700"`
	Host           string   `envconfig:"HOST" default:"0.0.0.0"`
	AllowedOrigins []string `envconfig:"SERVER_ALLOWED_ORIGINS" default:"*"`
}

// DatabaseConfig holds the clipboard history store configuration.
type DatabaseConfig struct {
	URL          string `envconfig:"DATABASE_URL" default:"postgres://localhost:5432/klipflow?sslmode=disable"`
	MaxOpenConns int    `envconfig:"DATABASE_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns int    `envconfig:"DATABASE_MAX_IDLE_CONNS" default:"5"`
	Enabled      bool   `envconfig:"DATABASE_ENABLED" default:"true"`
}

// ClipboardConfig holds the clipboard bridge client configuration.
type ClipboardConfig struct {
	BridgeURL         string        `envconfig:"CLIPBOARD_BRIDGE_URL" default:"http://localhost:8765"`
	Timeout           time.Duration `envconfig:"CLIPBOARD_TIMEOUT" default:"10s"`
	RetryMax          int           `envconfig:"CLIPBOARD_RETRY_MAX" default:"3"`
	RequestsPerSecond float64       `envconfig:"CLIPBOARD_RPS" default:"20"`
}

// EngineConfig holds workflow engine configuration.
type EngineConfig struct {
	MaxDepth int    `envconfig:"ENGINE_MAX_DEPTH" default:"8"`
	WorkRoot string `envconfig:"ENGINE_WORK_ROOT" default:"."`
}

// GenerationsConfig holds the blueprint generation archive configuration.
type GenerationsConfig struct {
	Dir     string `envconfig:"GENERATIONS_DIR" default:"generations"`
	Seed    bool   `envconfig:"GENERATIONS_SEED" default:"false"`
	SeedDir string `envconfig:"GENERATIONS_SEED_DIR" default:"blueprints"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           "8700",
			Host:           "0.0.0.0",
			AllowedOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			URL:          "postgres://localhost:5432/klipflow?sslmode=disable",
			MaxOpenConns: 10,
			MaxIdleConns: 5,
			Enabled:      true,
		},
		Clipboard: ClipboardConfig{
			BridgeURL:         "http://localhost:8765",
			Timeout:           10 * time.Second,
			RetryMax:          3,
			RequestsPerSecond: 20,
		},
		Engine: EngineConfig{
			MaxDepth: 8,
			WorkRoot: ".",
		},
		Generations: GenerationsConfig{
			Dir:     "generations",
			Seed:    false,
			SeedDir: "blueprints",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}
