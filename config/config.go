// Package config materializes the application configuration from the
// environment, optionally seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/farmstead/fcr-engine/fcr"
)

// Config represents the full application configuration surface.
type Config struct {
	Server  ServerConfig
	Storage StorageConfig

	// DefaultCurrency seeds the settings store on first run.
	DefaultCurrency string
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port int
}

// StorageConfig holds the SQLite database location.
type StorageConfig struct {
	DBPath string
}

// Load reads environment variables (optionally from the provided file)
// and materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from
		// the environment directly.
		_ = godotenv.Load()
	}

	port, err := strconv.Atoi(getenvWithDefault("FCR_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("FCR_PORT must be a number: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: port,
		},
		Storage: StorageConfig{
			DBPath: getenvWithDefault("FCR_DB_PATH", "fcr.db"),
		},
		DefaultCurrency: getenvWithDefault("FCR_DEFAULT_CURRENCY", fcr.DefaultCurrency),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("FCR_PORT must be a valid port number")
	}
	if c.Storage.DBPath == "" {
		return errors.New("FCR_DB_PATH must be provided")
	}
	if c.DefaultCurrency == "" {
		return errors.New("FCR_DEFAULT_CURRENCY must not be empty")
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
