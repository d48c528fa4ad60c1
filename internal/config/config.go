// Package config loads outage-log settings from the environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/pfrederiksen/outage-log/internal/logger"
)

const (
	EnvDataDir       = "OUTAGE_LOG_DATA_DIR"
	EnvLogLevel      = "OUTAGE_LOG_LOG_LEVEL"
	EnvEncryptionKey = "OUTAGE_LOG_ENCRYPTION_KEY"
	EnvFormat        = "OUTAGE_LOG_FORMAT"
	EnvBackend       = "OUTAGE_LOG_BACKEND"

	DefaultDataDir = "~/.local/share/outage-log"
	DefaultFormat  = "text"
	DefaultBackend = "file"
)

// Formats lists the output formats accepted by the list command.
var Formats = []string{"text", "json", "ics"}

// Backends lists the storage backends events can be kept in.
var Backends = []string{"file", "sqlite"}

// Config holds the CLI defaults, populated from environment variables.
// Command-line flags take precedence over these values.
type Config struct {
	DataDir       string
	LogLevel      logger.Level
	EncryptionKey string
	Format        string
	Backend       string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	level, err := logger.ParseLevel(envOrDefault(EnvLogLevel, string(logger.LevelWarn)))
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", EnvLogLevel, err)
	}

	format := strings.ToLower(envOrDefault(EnvFormat, DefaultFormat))
	if !ValidFormat(format) {
		return nil, fmt.Errorf("invalid %s: %q (must be one of %s)", EnvFormat, format, strings.Join(Formats, ", "))
	}

	backend := strings.ToLower(envOrDefault(EnvBackend, DefaultBackend))
	if !ValidBackend(backend) {
		return nil, fmt.Errorf("invalid %s: %q (must be one of %s)", EnvBackend, backend, strings.Join(Backends, ", "))
	}

	return &Config{
		DataDir:       envOrDefault(EnvDataDir, DefaultDataDir),
		LogLevel:      level,
		EncryptionKey: os.Getenv(EnvEncryptionKey),
		Format:        format,
		Backend:       backend,
	}, nil
}

// ValidFormat reports whether format is one of Formats.
func ValidFormat(format string) bool {
	return contains(Formats, format)
}

// ValidBackend reports whether backend is one of Backends.
func ValidBackend(backend string) bool {
	return contains(Backends, backend)
}

func contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

func envOrDefault(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
