package util

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufferLogger(level string, format LogFormat) (*Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	l := &Logger{level: ParseLogLevel(level), fields: map[string]interface{}{}}
	l.AddOutput(NewConsoleOutput(buf, format))
	return l, buf
}

func TestLoggerLevelFiltering(t *testing.T) {
	l, buf := newBufferLogger("warn", FormatText)

	l.Debug("hidden")
	l.Info("hidden too")
	l.Warn("shown")
	l.Errorf("also %s", "shown")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "[WARN] shown")
	assert.Contains(t, out, "[ERROR] also shown")
}

func TestLoggerFieldsAreSorted(t *testing.T) {
	l, buf := newBufferLogger("debug", FormatText)

	l.With(F("provider", "git")).Info("query done", F("items", 3), F("duration", "5ms"))

	line := strings.TrimSpace(buf.String())
	assert.True(t, strings.HasSuffix(line, "query done duration=5ms items=3 provider=git"), line)
}

func TestLoggerJSONFormat(t *testing.T) {
	l, buf := newBufferLogger("info", FormatJSON)

	l.Info("registered", F("provider", "git"))

	out := buf.String()
	assert.Contains(t, out, `"message":"registered"`)
	assert.Contains(t, out, `"provider":"git"`)
}

func TestLoggerWithContextQueryID(t *testing.T) {
	l, buf := newBufferLogger("debug", FormatText)

	ctx := ContextWithQueryID(context.Background(), "q-1")
	l.WithContext(ctx).Debug("dispatch")
	l.WithContext(context.Background()).Debug("plain")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "query_id=q-1")
	assert.NotContains(t, lines[1], "query_id")
}

func TestNewLoggerRequiresDestination(t *testing.T) {
	_, err := NewLogger("info", "", false)
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "app.log")
	l, err := NewLogger("info", path, false)
	require.NoError(t, err)
	l.Info("to file")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "to file")
}

func TestGlobalLoggerDiscardsUntilInitialized(t *testing.T) {
	assert.NotPanics(t, func() {
		LogInfof("nothing listens to %s", "this")
	})
}
