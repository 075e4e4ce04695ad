// Package config reads service settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the API server settings.
type Config struct {
	HTTPAddr               string
	SessionTTL             time.Duration
	SessionCleanupInterval time.Duration
	ShutdownTimeout        time.Duration
	Debug                  bool
}

// Defaults used when a variable is unset or empty.
const (
	DefaultHTTPAddr               = ":8080"
	DefaultSessionTTL             = 30 * time.Minute
	DefaultSessionCleanupInterval = 5 * time.Minute
	DefaultShutdownTimeout        = 5 * time.Second
)

// LoadDotEnv loads environment variables from path when present.
// Existing process environment variables are not overridden.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err == nil {
		return nil
	}

	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	return fmt.Errorf("load %s: %w", path, err)
}

// Load reads the configuration from the process environment.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr: getenv("HTTP_ADDR", DefaultHTTPAddr),
		Debug:    os.Getenv("LOG_LEVEL") == "debug",
	}

	var err error
	if cfg.SessionTTL, err = duration("SESSION_TTL", DefaultSessionTTL); err != nil {
		return Config{}, err
	}
	if cfg.SessionCleanupInterval, err = duration("SESSION_CLEANUP_INTERVAL", DefaultSessionCleanupInterval); err != nil {
		return Config{}, err
	}
	if cfg.ShutdownTimeout, err = duration("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func duration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("parse %s: duration must be positive, got %s", key, v)
	}
	return d, nil
}
