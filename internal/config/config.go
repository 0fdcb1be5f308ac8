// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Driver names accepted by STORE_DRIVER.
const (
	DriverJSONFile = "jsonfile"
	DriverPostgres = "postgres"
)

type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Port int
}

type StoreConfig struct {
	Driver      string
	DataDir     string
	DatabaseURL string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// Load builds a Config from the environment, falling back to
// local-development defaults.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Port: getEnvInt("SERVER_PORT", 8080),
		},
		Store: StoreConfig{
			Driver:      getEnv("STORE_DRIVER", DriverJSONFile),
			DataDir:     getEnv("DATA_DIR", "data"),
			DatabaseURL: getEnv("DATABASE_URL", ""),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	switch cfg.Store.Driver {
	case DriverJSONFile:
	case DriverPostgres:
		if cfg.Store.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
