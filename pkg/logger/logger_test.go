package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/library/internal/infrastructure/config"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, config.LogConfig{Level: "warn", Format: "json"}))

	log.Info("ignored")
	log.Warn("book borrowed twice", "book_id", 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "book borrowed twice", entry["msg"])
	assert.Equal(t, float64(1), entry["book_id"])
}

func TestNewHandler_Console(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewHandler(&buf, config.LogConfig{Level: "info", Format: "console"}))

	log.Debug("hidden")
	log.Info("server started")

	assert.Contains(t, buf.String(), "server started")
	assert.NotContains(t, buf.String(), "hidden")
}
