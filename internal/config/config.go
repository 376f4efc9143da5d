package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Database
	DatabaseURL string

	// Storage
	StoragePath string

	// Background Workers
	WorkerCount int

	// CORS
	AllowedOrigins []string

	// Sentry
	SentryDSN string

	// Contract numbering (PREFIX-YEAR-NNNN)
	ContractNumberPrefix string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8080"),
		Environment:          getEnv("ENVIRONMENT", "development"),
		DatabaseURL:          getEnv("DATABASE_URL", ""),
		StoragePath:          getEnv("STORAGE_PATH", "./storage"),
		WorkerCount:          getEnvAsInt("WORKER_COUNT", 5),
		AllowedOrigins:       getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		SentryDSN:            getEnv("SENTRY_DSN", ""),
		ContractNumberPrefix: getEnv("CONTRACT_NUMBER_PREFIX", "CON"),
	}

	// Validate required configuration
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
