package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-templater/internal/config"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(config.AppConfig{LogLevel: "warn", LogFormat: "json"}, &buf)
	l.Info("hidden")
	l.Warn("shown", "placeholder", "quote:summary")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "quote:summary", rec["placeholder"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	New(config.AppConfig{LogLevel: "debug"}, &buf).Debug("visible")
	assert.Contains(t, buf.String(), "msg=visible")
}
