package config

import (
	"os"
	"strconv"
	"strings"

	"uidlens/internal/errors"
)

// Store backends
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config represents the complete application configuration
type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Processing ProcessingConfig
	LogLevel   string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port        string
	CORSOrigins []string
	MaxUploadMB int
}

// StoreConfig selects where workspace snapshots are persisted
type StoreConfig struct {
	Backend     string
	WorkspaceID string
	SnapshotKey string
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// RedisConfig holds redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// ProcessingConfig tunes ingestion and aggregation
type ProcessingConfig struct {
	ChunkSize    int
	ParseWorkers int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:     *loadServerConfig(),
		Store:      *loadStoreConfig(),
		Database:   DatabaseConfig{URL: os.Getenv("DATABASE_URL")},
		Redis:      *loadRedisConfig(),
		Processing: *loadProcessingConfig(),
		LogLevel:   getEnvOrDefault("LOG_LEVEL", "INFO"),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:        getEnvOrDefault("PORT", "8080"),
		CORSOrigins: getEnvListOrDefault("CORS_ORIGINS", []string{"*"}),
		MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 50),
	}
}

func loadStoreConfig() *StoreConfig {
	return &StoreConfig{
		Backend:     strings.ToLower(getEnvOrDefault("STORE_BACKEND", BackendMemory)),
		WorkspaceID: getEnvOrDefault("WORKSPACE_ID", "default"),
		SnapshotKey: getEnvOrDefault("SNAPSHOT_KEY", "uidlens:snapshot:default"),
	}
}

func loadRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:     getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		Password: getEnvOrDefault("REDIS_PASSWORD", ""),
		DB:       getEnvIntOrDefault("REDIS_DB", 0),
	}
}

func loadProcessingConfig() *ProcessingConfig {
	return &ProcessingConfig{
		ChunkSize:    getEnvIntOrDefault("CHUNK_SIZE", 1000),
		ParseWorkers: getEnvIntOrDefault("PARSE_WORKERS", 4),
	}
}

func validateConfig(config *Config) error {
	switch config.Store.Backend {
	case BackendMemory:
	case BackendPostgres:
		if config.Database.URL == "" {
			return errors.ConfigInvalid("DATABASE_URL is required for the postgres store")
		}
	case BackendRedis:
		if config.Redis.Addr == "" {
			return errors.ConfigInvalid("REDIS_ADDR is required for the redis store")
		}
	default:
		return errors.ConfigInvalid("unknown STORE_BACKEND " + strconv.Quote(config.Store.Backend))
	}
	if config.Processing.ChunkSize <= 0 {
		return errors.ConfigInvalid("CHUNK_SIZE must be positive")
	}
	if config.Processing.ParseWorkers <= 0 {
		return errors.ConfigInvalid("PARSE_WORKERS must be positive")
	}
	if config.Server.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
