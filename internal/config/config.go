// Package config provides environment-based configuration with
// development-friendly defaults.
package config

import (
	"fmt"
	"os"
	"strconv"

	"go-sse-channel/internal/infrastructure/logger"
)

// Config carries everything the process needs at startup.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// JSONEncode makes the channel serialize every payload to JSON
	// before framing.
	JSONEncode bool

	// RetryMS is the initial client reconnect delay in milliseconds.
	// Zero disables the retry directive until one is set at runtime.
	RetryMS int

	Log *logger.Config
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		Addr: getEnv("ADDR", ":8080"),
		Log:  logger.NewDefaultConfig(),
	}

	var err error
	if cfg.JSONEncode, err = getEnvBool("SSE_JSON_ENCODE", false); err != nil {
		return nil, err
	}
	if cfg.RetryMS, err = getEnvInt("SSE_RETRY_MS", 0); err != nil {
		return nil, err
	}
	if cfg.RetryMS < 0 {
		return nil, fmt.Errorf("SSE_RETRY_MS must not be negative")
	}

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
	cfg.Log.Output = getEnv("LOG_OUTPUT", cfg.Log.Output)
	cfg.Log.FilePath = getEnv("LOG_FILE_PATH", cfg.Log.FilePath)

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s must be a boolean: %w", key, err)
	}
	return b, nil
}
