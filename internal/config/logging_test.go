package config

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	assert.Equal(t, LogConfig{Level: "info", Format: "text"}, LogFromEnv())

	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "json")
	assert.Equal(t, LogConfig{Level: "debug", Format: "json"}, LogFromEnv())
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	l := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)
	assert.False(t, l.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, l.Enabled(context.Background(), slog.LevelWarn))

	l.Warn("valve", "steps", 3)
	assert.Contains(t, buf.String(), `"msg":"valve"`)
	assert.Contains(t, buf.String(), `"steps":3`)

	buf.Reset()
	LogConfig{Level: "bogus"}.NewLogger(&buf).Info("hello")
	assert.Contains(t, buf.String(), "msg=hello", "unknown values fall back to text at info")
}
