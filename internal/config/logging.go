package config

import (
	"io"
	"log/slog"
	"os"
)

// LogConfig selects the slog handler. It is read from the environment rather
// than the YAML file so the same config can be run quietly in batch tools.
type LogConfig struct {
	Level  string
	Format string
}

// LogFromEnv reads LOG_LEVEL (debug|info|warn|error) and LOG_FORMAT (text|json).
func LogFromEnv() LogConfig {
	return LogConfig{
		Level:  getEnv("LOG_LEVEL", "info"),
		Format: getEnv("LOG_FORMAT", "text"),
	}
}

// NewLogger builds a logger writing to w.
func (lc LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{}

	switch lc.Level {
	case "debug":
		opts.Level = slog.LevelDebug
	case "warn":
		opts.Level = slog.LevelWarn
	case "error":
		opts.Level = slog.LevelError
	default:
		opts.Level = slog.LevelInfo
	}

	var h slog.Handler
	switch lc.Format {
	case "json":
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
