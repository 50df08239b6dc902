package config

import (
	"os"
	"strconv"

	"gomatch/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Paths    PathConfig
}

// DatabaseConfig holds database connection settings. The database is
// optional: without a URL, batches are kept in memory only.
type DatabaseConfig struct {
	URL     string
	SSLMode string
}

// ServerConfig holds API server settings
type ServerConfig struct {
	Port string
}

// PathConfig holds file system paths for the file-driven entry points
type PathConfig struct {
	CatalogFile     string
	MatchConfigFile string
	RespondentsFile string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	config := &Config{
		Database: DatabaseConfig{
			URL:     os.Getenv("DATABASE_URL"),
			SSLMode: getEnvOrDefault("SSL_MODE", "disable"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("SERVER_PORT", "8080"),
		},
		Paths: PathConfig{
			CatalogFile:     getEnvOrDefault("CATALOG_FILE", "catalog.toml"),
			MatchConfigFile: getEnvOrDefault("MATCH_CONFIG_FILE", ""),
			RespondentsFile: getEnvOrDefault("RESPONDENTS_FILE", ""),
		},
	}

	if config.Server.Port == "" {
		return nil, errors.ConfigInvalid("SERVER_PORT must not be empty")
	}
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return nil, errors.ConfigInvalid("SERVER_PORT must be numeric")
	}

	return config, nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
