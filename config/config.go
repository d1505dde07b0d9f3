package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// CORS
	AllowedOrigins []string

	// Media storage
	MediaBucket string

	// Reference data
	IngredientsCSV string
}

// LoadConfig creates a new Config instance with values from environment
// variables or secret files
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		ServerHost:     getEnv("SERVER_HOST", "0.0.0.0"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", "foodgram"),
		DBSSLMode:      getEnv("DB_SSL_MODE", "disable"),
		RedisHost:      getEnv("REDIS_HOST", "localhost"),
		RedisPort:      getEnv("REDIS_PORT", "6379"),
		RedisURL:       os.Getenv("REDIS_URL"),
		RedisDB:        0,
		MediaBucket:    getEnv("MEDIA_BUCKET", "foodgram-media"),
		IngredientsCSV: getEnv("INGREDIENTS_CSV", "data/ingredients.csv"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173")),
	}

	// Sensitive values come from the environment in CI and from secret
	// files everywhere else.
	if GetEnvironment() == CI {
		cfg.DBUser = os.Getenv("DB_USER")
		cfg.DBPassword = os.Getenv("DB_PASSWORD")
		cfg.JWTSecret = os.Getenv("JWT_SECRET")
		cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	} else {
		cfg.DBUser = readSecretOrEnv("db_user", "DB_USER")
		cfg.DBPassword = readSecretOrEnv("db_password", "DB_PASSWORD")
		cfg.JWTSecret = readSecretOrEnv("jwt_secret", "JWT_SECRET")
		cfg.RedisPassword = readSecretOrEnv("redis_password", "REDIS_PASSWORD")
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// splitList parses a comma-separated value, trimming whitespace and
// dropping empty entries.
func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// readSecretOrEnv reads a Docker secret from the secrets directory,
// falling back to an environment variable.
func readSecretOrEnv(name, envVar string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	if data, err := os.ReadFile(filepath.Join(secretsDir, name)); err == nil {
		return strings.TrimSpace(string(data))
	}
	return os.Getenv(envVar)
}
