package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds daemon configuration
type Config struct {
	DatabaseURL      string
	RedisURL         string
	RabbitMQURL      string
	RabbitMQPrefetch int
	ServerPort       string
	BridgeURL        string
	AllowedOrigins   string
	RateLimit        string
	SitesConfigPath  string
	ServerDebugMode  bool
	WorkerDebugMode  bool
	OTELEnabled      bool
	OTELEndpoint     string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RedisURL:         getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RabbitMQURL:      getEnv("RABBITMQ_URL", ""),
		RabbitMQPrefetch: getEnvInt("RABBITMQ_PREFETCH", 1),
		ServerPort:       getEnv("SERVER_PORT", "8347"),
		BridgeURL:        getEnv("BRIDGE_URL", "http://localhost:8348"),
		AllowedOrigins:   getEnv("ALLOWED_ORIGINS", ""),
		RateLimit:        getEnv("RATE_LIMIT", ""),
		SitesConfigPath:  getEnv("SITES_CONFIG", ""),
		ServerDebugMode:  getEnvBool("SERVER_DEBUG_MODE", false),
		WorkerDebugMode:  getEnvBool("WORKER_DEBUG_MODE", false),
		OTELEnabled:      getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.RabbitMQURL == "" {
		return nil, fmt.Errorf("RABBITMQ_URL is required for deferred re-block jobs")
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
