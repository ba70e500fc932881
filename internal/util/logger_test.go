package util

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithoutOutputs(t *testing.T) {
	// No file and no console still yields a usable logger; entries are
	// discarded instead of panicking, which is what test binaries rely on.
	var logger *Logger
	assert.NotPanics(t, func() {
		logger = NewLogger("error", "", false)
	})

	assert.NotPanics(t, func() {
		logger.Debug("dropped")
		logger.Infof("dropped %d", 1)
		logger.Warn("dropped")
		logger.Errorf("dropped %v", os.ErrNotExist)
	})
}

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger := NewLogger("debug", path, false)

	logger.Info("sync finished", Field{Key: "events", Value: 12})
	logger.Debugf("scanned %d files", 3)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, "[INFO] sync finished")
	assert.Contains(t, content, "events=12")
	assert.Contains(t, content, "[DEBUG] scanned 3 files")
}

func TestLoggerLevelFilters(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	logger := NewLogger("warn", path, false)

	logger.Info("below threshold")
	logger.Warn("kept")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "below threshold")
	assert.Contains(t, string(data), "kept")
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  LogLevel
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"WARN", LevelWarn},
		{"warning", LevelWarn},
		{"error", LevelError},
		{"fatal", LevelFatal},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestGlobalHelpersSafeWithoutInit(t *testing.T) {
	// The helpers must be callable before InitLogger runs.
	assert.NotPanics(t, func() {
		LogDebug("early")
		LogInfof("early %s", "call")
		LogWarnf("early %s", "call")
		LogError("early")
	})
}

func TestFormatEntry(t *testing.T) {
	entry := LogEntry{
		Timestamp: time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC),
		Level:     "INFO",
		Message:   "hello",
		Fields:    map[string]interface{}{"k": "v"},
	}
	out := formatEntry(entry)
	assert.True(t, strings.HasPrefix(out, "2025/03/10 09:30:00 [INFO] hello"))
	assert.Contains(t, out, "k=v")
}
