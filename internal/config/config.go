// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/evcraddock/threadline/internal/db"
)

// Config holds server configuration.
type Config struct {
	Port           string
	DBPath         string
	DevMode        bool
	AllowedOrigins []string
}

// Load reads .env files into the environment, then builds a Config from it.
// Missing files are skipped. Variables already set take precedence.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", f, err)
		}
		slog.Debug("loaded env file", "path", f)
	}
	return FromEnv()
}

// FromEnv creates a Config from TL_* environment variables.
func FromEnv() (Config, error) {
	dbPath := os.Getenv("TL_DB")
	if dbPath == "" {
		p, err := db.DefaultPath()
		if err != nil {
			return Config{}, err
		}
		dbPath = p
	}

	return Config{
		Port:           envOrDefault("TL_PORT", "8080"),
		DBPath:         dbPath,
		DevMode:        os.Getenv("TL_DEV_MODE") == "true",
		AllowedOrigins: splitList(os.Getenv("TL_ALLOWED_ORIGINS")),
	}, nil
}

// Addr returns the listen address for the configured port.
func (c Config) Addr() string {
	return ":" + c.Port
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
