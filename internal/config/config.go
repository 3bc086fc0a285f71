package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, loaded from the environment.
// GeminiAPIKey is deliberately required: the relay exists to hold it,
// so there is no degraded mode without one.
type Config struct {
	Port        string `env:"PORT" envDefault:"10000"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	Level       string `env:"LOG_LEVEL" envDefault:"info"`

	GeminiAPIKey string `env:"GEMINI_API_KEY"`
	GeminiModel  string `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash-lite"`

	RedisURL string `env:"REDIS_URL" envDefault:"localhost:6379"`

	StaticDir     string `env:"STATIC_DIR" envDefault:"dist"`
	AssetManifest string `env:"ASSET_MANIFEST"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings a server cannot start without.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set")
	}
	return nil
}

// LogLevel maps the configured level string onto slog levels.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
