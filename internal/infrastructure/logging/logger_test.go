package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}

func TestNewAppliesLevel(t *testing.T) {
	l, err := New(Config{Level: "warn", OutputPaths: []string{"stderr"}})
	require.NoError(t, err)
	defer func() { _ = l.Sync() }()

	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestTUIConfigWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "desktop.log")
	cfg := TUIConfig("info")
	cfg.OutputPaths = []string{path}

	l, err := New(cfg)
	require.NoError(t, err)
	l.Named("tui").Info("desktop started", App("terminal"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "desktop started")
	assert.Contains(t, string(data), "terminal")
}

func TestNopDiscards(t *testing.T) {
	l := Nop()
	assert.False(t, l.Core().Enabled(zapcore.ErrorLevel))
	l.Info("ignored")
}

func TestFieldHelpers(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := Wrap(zap.New(core)).Named("wm")

	l.Info("opened", Window("win_1"), App("terminal"), Session("term_1"), Path("/home/parth"))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "wm", entries[0].LoggerName)
	fields := entries[0].ContextMap()
	assert.Equal(t, "win_1", fields["window_id"])
	assert.Equal(t, "terminal", fields["app_id"])
	assert.Equal(t, "term_1", fields["session_id"])
	assert.Equal(t, "/home/parth", fields["path"])
}

func TestPresetsBuild(t *testing.T) {
	assert.True(t, NewDefault().Core().Enabled(zapcore.InfoLevel))
	assert.True(t, NewDevelopment().Core().Enabled(zapcore.DebugLevel))
}
