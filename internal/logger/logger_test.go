package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"info":    slog.LevelInfo,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), "level %q", in)
	}
}

func TestNewSlog_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlog(SlogConfig{Level: "info", Format: "json", Output: &buf})

	log.Debug("hidden")
	log.Info("loan created", "loan_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "loan created", entry["msg"])
	assert.EqualValues(t, 7, entry["loan_id"])

	ts, ok := entry["time"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, ts)
	assert.NoError(t, err)
}

func TestNewSlog_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlog(SlogConfig{Level: "debug", Format: "text", Output: &buf})

	log.Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}
