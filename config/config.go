// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port        string
	Env         string
	DatabaseURL string
	JWTSecret   string
	TokenTTL    time.Duration
	NATSPort    int
}

// Load reads configuration from environment variables with development
// defaults. JWT_SECRET falls back to a dev-only value; deployments must set
// their own.
func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "3001"),
		Env:         getEnv("ENV", "development"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   getEnv("JWT_SECRET", "default-dev-secret-change-me"),
		TokenTTL:    time.Hour,
		NATSPort:    4233,
	}

	if ttl := os.Getenv("TOKEN_TTL"); ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL %q: %w", ttl, err)
		}
		cfg.TokenTTL = d
	}

	if port := os.Getenv("NATS_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid NATS_PORT %q: %w", port, err)
		}
		cfg.NATSPort = p
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable with a default fallback.
func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// String returns the config with secrets masked.
func (c *Config) String() string {
	return fmt.Sprintf("Config{Port: %s, Env: %s, TokenTTL: %s, NATSPort: %d, JWTSecret: ***}",
		c.Port, c.Env, c.TokenTTL, c.NATSPort)
}
