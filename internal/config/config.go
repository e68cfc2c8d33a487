// Package config loads application settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/abhisek/lingua/internal/client"
	"github.com/abhisek/lingua/internal/store"
)

// Config holds the settings shared by the practice client and the service.
// LLM settings live in llm.Config.
type Config struct {
	// ServerURL is the tutoring service the practice client talks to.
	ServerURL string

	// Addr is the listen address for `lingua serve`.
	Addr string

	// DBPath is the SQLite database used by the service and history commands.
	DBPath string

	LogLevel string

	// LogFile receives the practice client's log, since the terminal is
	// owned by the UI.
	LogFile string
}

// LoadDotEnv loads variables from the given .env files, or ./.env when none
// are given. A missing file is not an error; variables already set win.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}

	logFile := os.Getenv("LINGUA_LOG_FILE")
	if logFile == "" {
		if dir, err := store.DataDir(); err == nil {
			logFile = filepath.Join(dir, "lingua.log")
		}
	}

	cfg := &Config{
		ServerURL: getEnv("LINGUA_SERVER_URL", client.DefaultBaseURL),
		Addr:      getEnv("LINGUA_ADDR", ":8000"),
		DBPath:    dbPath,
		LogLevel:  getEnv("LINGUA_LOG_LEVEL", "info"),
		LogFile:   logFile,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that all required configuration fields are usable.
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("LINGUA_SERVER_URL must be an http(s) URL, got %q", c.ServerURL)
	}
	if c.Addr == "" {
		return fmt.Errorf("LINGUA_ADDR cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("LINGUA_DB cannot be empty")
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LINGUA_LOG_LEVEL: %w", err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
