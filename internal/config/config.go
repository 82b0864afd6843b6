package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleCredentials  string // path to the service-account JSON used by the API gateways
	OAuthRedirectURL   string
	SessionSecret      string

	DatabaseHost     string
	DatabaseUser     string
	DatabasePassword string
	DatabaseName     string
	DatabasePort     int
	DatabaseSSLMode  string

	APIPort   string
	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	// Check current directory first, then walk up to find project root (where go.mod is)
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ { // Limit search depth
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break // Reached filesystem root
			}
			dir = parent
		}
	}

	cfg := &Config{
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCredentials:  os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"),
		OAuthRedirectURL:   getEnv("OAUTH_REDIRECT_URL", "http://localhost:9000/api/auth/callback"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		DatabaseHost:       getEnv("DATABASE_HOST", "localhost"),
		DatabaseUser:       getEnv("DATABASE_USER", "cardsync"),
		DatabasePassword:   os.Getenv("DATABASE_PASSWORD"),
		DatabaseName:       getEnv("DATABASE_NAME", "cardsync"),
		DatabaseSSLMode:    getEnv("DATABASE_SSLMODE", "disable"),
		APIPort:            getEnv("API_PORT", "9000"),
		LogFormat:          getEnv("LOG_FORMAT", "text"),
	}

	portStr := getEnv("DATABASE_PORT", "5432")
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("DATABASE_PORT must be a valid integer: %w", err)
	}
	cfg.DatabasePort = port

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	// Validate required fields
	if cfg.GoogleClientID == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID is required")
	}
	if cfg.GoogleClientSecret == "" {
		return nil, fmt.Errorf("GOOGLE_CLIENT_SECRET is required")
	}
	if cfg.SessionSecret == "" {
		return nil, fmt.Errorf("SESSION_SECRET is required")
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error; got %q", s)
	}
}
