package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	Level      string
	Pretty     bool
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port        int
	CORSOrigins []string
}

// LimitsConfig bounds uploads and previews.
type LimitsConfig struct {
	MaxUploadMB  int64
	MaxImageMB   int64
	PreviewWidth int
}

// RunConfig controls pipeline runs and their scratch files.
type RunConfig struct {
	ScratchDir    string
	WaitTimeout   time.Duration
	ScratchMaxAge time.Duration
}

// Config is the top-level configuration.
type Config struct {
	Logging LoggingConfig
	Server  ServerConfig
	Limits  LimitsConfig
	Run     RunConfig
}

// FromEnv loads configuration from environment with sensible defaults.
func FromEnv() Config {
	cfg := Config{}

	cfg.Logging = LoggingConfig{
		Level:      getEnv("LOG_LEVEL", "info"),
		Pretty:     parseBool(getEnv("LOG_PRETTY", devDefaultPretty())),
		File:       getEnv("LOG_FILE", ""),
		MaxSizeMB:  parseInt(getEnv("LOG_MAX_SIZE_MB", "100"), 100),
		MaxBackups: parseInt(getEnv("LOG_MAX_BACKUPS", "10"), 10),
		MaxAgeDays: parseInt(getEnv("LOG_MAX_AGE_DAYS", "30"), 30),
		Compress:   parseBool(getEnv("LOG_COMPRESS", "true")),
	}

	cfg.Server = ServerConfig{
		Port:        parseInt(getEnv("PORT", "8080"), 8080),
		CORSOrigins: parseList(getEnv("CORS_ORIGINS", "http://localhost:3000")),
	}

	cfg.Limits = LimitsConfig{
		MaxUploadMB:  int64(parseInt(getEnv("MAX_UPLOAD_MB", "50"), 50)),
		MaxImageMB:   int64(parseInt(getEnv("MAX_IMAGE_MB", "10"), 10)),
		PreviewWidth: parseInt(getEnv("PREVIEW_WIDTH", "600"), 600),
	}

	cfg.Run = RunConfig{
		ScratchDir:    getEnv("SCRATCH_DIR", filepath.Join(os.TempDir(), "pdftools")),
		WaitTimeout:   parseDuration(getEnv("RUN_WAIT_TIMEOUT", "2m"), 2*time.Minute),
		ScratchMaxAge: parseDuration(getEnv("SCRATCH_MAX_AGE", "5m"), 5*time.Minute),
	}

	return cfg
}

// Helpers
func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

func parseBool(s string) bool {
	v := strings.ToLower(strings.TrimSpace(s))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}

func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return def
}

func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func devDefaultPretty() string {
	env := strings.ToLower(os.Getenv("ENVIRONMENT"))
	if env == "dev" || env == "development" || env == "local" {
		return "true"
	}
	return "false"
}
