package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tiff2lerc/contracts"
)

func TestConsoleHandlerFormatsAttributes(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "debug", Format: "console", Writer: &buf})
	require.NoError(t, err)

	logger.With("run_id", "abc").WithGroup("file").Info("converted", "path", "/in/a b.tif", "bytes", 12)
	line := buf.String()

	assert.Contains(t, line, " INFO converted")
	assert.Contains(t, line, "run_id=abc")
	assert.Contains(t, line, `file.path="/in/a b.tif"`)
	assert.Contains(t, line, "file.bytes=12")
	assert.NotContains(t, line, "\033[", "buffers are never colorized")
	assert.True(t, strings.HasSuffix(line, "\n"))
}

func TestConsoleHandlerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Writer: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Debug("hidden too")
	logger.Error("shown", "kind", "io")

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "ERROR shown kind=io")
}

func TestJSONHandler(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Writer: &buf})
	require.NoError(t, err)

	logger.Warn("band override", "band", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "band override", entry["msg"])
	assert.Equal(t, float64(3), entry["band"])
	assert.Contains(t, entry, "ts")
}

func TestNewRejectsUnknownSettings(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.ErrorIs(t, err, contracts.ErrConfig)

	_, err = New(Options{Level: "chatty"})
	assert.ErrorIs(t, err, contracts.ErrConfig)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		" warn ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
}

func TestNopDiscards(t *testing.T) {
	logger := NewNop()
	assert.False(t, logger.Enabled(context.Background(), slog.LevelError))
}
