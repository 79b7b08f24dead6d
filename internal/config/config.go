package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the engagement API.
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	Environment    string

	// Redis connection pair. Both must be present for engagement
	// features to be enabled; with either missing the service runs
	// in degraded mode and every endpoint returns safe defaults.
	RedisURL   string
	RedisToken string
}

// Load reads configuration from environment variables, consulting an
// optional .env file first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: parseOrigins(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Environment:    getEnv("ENVIRONMENT", "production"),
		RedisURL:       getEnv("REDIS_URL", ""),
		RedisToken:     getEnv("REDIS_TOKEN", ""),
	}, nil
}

// RedisConfigured reports whether both Redis connection secrets are set.
func (c *Config) RedisConfigured() bool {
	return c.RedisURL != "" && c.RedisToken != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseOrigins(origins string) []string {
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
