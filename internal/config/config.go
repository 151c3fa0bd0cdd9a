package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Port           int
	DBPath         string
	LogLevel       string
	LogFormat      string // text (colored) or json
	AllowedOrigins []string

	// MeID is the participant id used for the current user when a bill has
	// no explicit payer.
	MeID string
}

// Load reads configuration from environment variables, after loading any
// .env files given (or ./.env when none are). Missing files are ignored.
func Load(files ...string) *Config {
	if err := godotenv.Load(files...); err != nil {
		slog.Debug("No .env file loaded, using environment variables", "error", err)
	}

	return &Config{
		Port:           getEnvInt("PORT", 8080),
		DBPath:         getEnv("DB_PATH", "./data/splitbill.db"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		MeID:           getEnv("ME_ID", "me"),
	}
}

// getEnv retrieves an environment variable or returns a default value
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
	n, err := strconv.Atoi(value)
	if err != nil {
		slog.Warn("Ignoring invalid integer env var", "key", key, "value", value)
		return fallback
	}
	return n
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
