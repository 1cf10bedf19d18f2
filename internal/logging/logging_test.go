package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("nonsense"))
	assert.Equal(t, slog.LevelInfo, ParseLevel(""))
	assert.Equal(t, slog.LevelInfo, ParseLevel("  Info  "))
}

func TestInit_WritesToGivenFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.log")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	logger := Init(slog.LevelInfo, "simple", f)
	logger.Info("test message", "key", "value")
	require.NoError(t, f.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "test message")
	assert.Contains(t, string(data), "key=value")
}

func TestInit_SetsDefaultLogger(t *testing.T) {
	w, err := os.CreateTemp(t.TempDir(), "log")
	require.NoError(t, err)
	defer w.Close()

	Init(slog.LevelDebug, "simple", w)
	slog.Default().Debug("default logger active")
	require.NoError(t, w.Sync())

	data, err := os.ReadFile(w.Name())
	require.NoError(t, err)
	assert.Contains(t, string(data), "default logger active")
}

func TestWithQuestion_AttachesID(t *testing.T) {
	logger := WithQuestion(context.Background(), "cvqa12001")
	assert.NotNil(t, logger)
}
