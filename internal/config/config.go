package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the Gatehouse server.
type Config struct {
	Environment        string
	HTTPPort           int
	DataStore          string
	DatabaseURL        string
	LogLevel           string
	AllowedOrigins     []string
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
	SessionTTL         time.Duration
}

// Load reads configuration from a .env file (if present) and environment
// variables, with sensible defaults for local development.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	databaseURL, err := getEnvOrFile("DATABASE_URL", "/run/secrets/gatehouse_database_url")
	if err != nil {
		return Config{}, err
	}

	clientSecret, err := getEnvOrFile("GOOGLE_CLIENT_SECRET", "/run/secrets/gatehouse_google_client_secret")
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Environment:        getEnv("APP_ENV", "development"),
		DataStore:          strings.ToLower(getEnv("DATA_STORE", "memory")),
		DatabaseURL:        databaseURL,
		LogLevel:           strings.ToLower(getEnv("LOG_LEVEL", "info")),
		AllowedOrigins:     parseCSV(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		GoogleClientID:     strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID")),
		GoogleClientSecret: strings.TrimSpace(clientSecret),
		GoogleCallbackURL:  strings.TrimSpace(os.Getenv("GOOGLE_CALLBACK_URL")),
	}

	portValue := getEnv("PORT", "3000")
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return Config{}, fmt.Errorf("invalid port %q: %w", portValue, err)
	}
	cfg.HTTPPort = port

	ttlValue := getEnv("SESSION_TTL", "12h")
	ttl, err := time.ParseDuration(ttlValue)
	if err != nil || ttl <= 0 {
		return Config{}, fmt.Errorf("invalid SESSION_TTL %q", ttlValue)
	}
	cfg.SessionTTL = ttl

	if cfg.DataStore != "memory" && cfg.DataStore != "postgres" {
		return Config{}, fmt.Errorf("invalid DATA_STORE %q: must be memory or postgres", cfg.DataStore)
	}
	if cfg.DataStore == "postgres" && cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATA_STORE is postgres but DATABASE_URL is not set")
	}

	if cfg.GoogleClientID == "" {
		return Config{}, fmt.Errorf("GOOGLE_CLIENT_ID is required")
	}
	if cfg.GoogleClientSecret == "" {
		return Config{}, fmt.Errorf("GOOGLE_CLIENT_SECRET is required")
	}
	if cfg.GoogleCallbackURL == "" {
		return Config{}, fmt.Errorf("GOOGLE_CALLBACK_URL is required")
	}

	return cfg, nil
}

// HTTPAddress returns the address the HTTP server should bind to.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

// UseInMemoryStore returns true if the in-memory repository should be used.
func (c Config) UseInMemoryStore() bool {
	return c.DataStore == "memory"
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func parseCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func getEnvOrFile(key, defaultPath string) (string, error) {
	if value := os.Getenv(key); value != "" {
		return value, nil
	}

	fileKey := key + "_FILE"
	if path := os.Getenv(fileKey); path != "" {
		return readSecret(path, fileKey)
	}

	if defaultPath != "" {
		return readSecret(defaultPath, key)
	}

	return "", nil
}

func readSecret(path, name string) (string, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("config: reading %s (%s): %w", name, path, err)
	}

	value := strings.TrimSpace(string(contents))
	if value == "" {
		return "", fmt.Errorf("config: %s (%s) is empty", name, path)
	}
	return value, nil
}
