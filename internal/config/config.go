// Package config loads the server's environment-variable configuration
// table, applying the documented defaults.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds every environment-configurable knob of the session server.
type Config struct {
	CORSAllowedOrigins []string

	RateLimitGamesPerMinute int

	CleanupInterval     time.Duration
	InactiveGameTimeout time.Duration
	ActiveGameTimeout   time.Duration

	BindAddress string
}

// Load reads the configuration from the environment, falling back to the
// documented defaults, and validates that numeric knobs are positive.
func Load() (*Config, error) {
	cfg := &Config{
		CORSAllowedOrigins:      splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173")),
		RateLimitGamesPerMinute: 10,
		CleanupInterval:         60 * time.Second,
		InactiveGameTimeout:     300 * time.Second,
		ActiveGameTimeout:       3600 * time.Second,
		BindAddress:             getEnv("BIND_ADDRESS", "0.0.0.0:8000"),
	}

	var err error
	if cfg.RateLimitGamesPerMinute, err = getEnvInt("RATE_LIMIT_GAMES_PER_MINUTE", cfg.RateLimitGamesPerMinute); err != nil {
		return nil, err
	}
	if cfg.CleanupInterval, err = getEnvSeconds("CLEANUP_INTERVAL_SECONDS", cfg.CleanupInterval); err != nil {
		return nil, err
	}
	if cfg.InactiveGameTimeout, err = getEnvSeconds("INACTIVE_GAME_TIMEOUT_SECONDS", cfg.InactiveGameTimeout); err != nil {
		return nil, err
	}
	if cfg.ActiveGameTimeout, err = getEnvSeconds("ACTIVE_GAME_TIMEOUT_SECONDS", cfg.ActiveGameTimeout); err != nil {
		return nil, err
	}

	if cfg.RateLimitGamesPerMinute <= 0 {
		return nil, fmt.Errorf("config: RATE_LIMIT_GAMES_PER_MINUTE must be positive")
	}
	if cfg.CleanupInterval <= 0 || cfg.InactiveGameTimeout <= 0 || cfg.ActiveGameTimeout <= 0 {
		return nil, fmt.Errorf("config: timeout/interval durations must be positive")
	}

	return cfg, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvSeconds(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s: %w", key, err)
	}
	return time.Duration(n) * time.Second, nil
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
