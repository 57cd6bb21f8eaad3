// Package config loads the server configuration from environment
// variables and an optional .env file.
package config

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Host string
	Port uint

	// FontDir holds the TTF files embedded into rendered invoices.
	FontDir string
	// DefaultHourlyRate prefills the rate field of the invoice form.
	DefaultHourlyRate float64
	// MaxUploadMB limits the size of uploaded timesheets.
	MaxUploadMB int64

	LogLevel  slog.Level
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded when present; a custom path may be given
// instead, in which case it must exist.
func Load(envPath ...string) (*Config, error) {
	if len(envPath) > 0 && envPath[0] != "" {
		if err := godotenv.Load(envPath[0]); err != nil {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	port, err := parseUintEnv("PORT", 3000)
	if err != nil {
		return nil, err
	}

	rate, err := parseFloatEnv("DEFAULT_HOURLY_RATE", 0)
	if err != nil {
		return nil, err
	}
	if rate < 0 || math.IsInf(rate, 0) || math.IsNaN(rate) {
		return nil, fmt.Errorf("invalid DEFAULT_HOURLY_RATE: %v", rate)
	}

	maxUpload, err := parseUintEnv("MAX_UPLOAD_MB", 5)
	if err != nil {
		return nil, err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(getEnvOrDefault("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	format := strings.ToLower(getEnvOrDefault("LOG_FORMAT", "text"))
	if format != "text" && format != "json" {
		return nil, fmt.Errorf("invalid LOG_FORMAT %q: expected text or json", format)
	}

	return &Config{
		Host:              getEnvOrDefault("HOST", "localhost"),
		Port:              uint(port),
		FontDir:           os.Getenv("FONT_DIR"),
		DefaultHourlyRate: rate,
		MaxUploadMB:       int64(maxUpload),
		LogLevel:          level,
		LogFormat:         format,
	}, nil
}

// Logger builds the process logger described by c.
func (c *Config) Logger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseUintEnv(key string, defaultValue uint64) (uint64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid integer value for %s: %s", key, value)
	}
	return parsed, nil
}

func parseFloatEnv(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number value for %s: %s", key, value)
	}
	return parsed, nil
}
