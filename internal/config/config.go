// Package config loads herald's runtime configuration from environment
// variables, with an optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is populated from HERALD_* environment variables.
type Config struct {
	Port         string
	DBPath       string
	LogLevel     string
	ReapInterval time.Duration
	CORSOrigins  []string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; missing files are not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:         getenv("HERALD_PORT", "8080"),
		DBPath:       getenv("HERALD_DB_PATH", "herald.db"),
		LogLevel:     getenv("HERALD_LOG_LEVEL", "info"),
		ReapInterval: 10 * time.Minute,
	}

	if raw := os.Getenv("HERALD_REAP_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse HERALD_REAP_INTERVAL: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("HERALD_REAP_INTERVAL must be positive, got %s", d)
		}
		cfg.ReapInterval = d
	}

	if raw := os.Getenv("HERALD_CORS_ORIGINS"); raw != "" {
		for _, origin := range strings.Split(raw, ",") {
			if o := strings.TrimSpace(origin); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
