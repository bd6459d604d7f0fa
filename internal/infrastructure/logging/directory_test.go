package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/GriffinCanCode/deskshell/internal/infrastructure/resilience"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDirectoryLogger(t *testing.T, cfg DirectoryConfig) (*Logger, *Directory) {
	t.Helper()

	sink, err := NewDirectorySink(cfg)
	require.NoError(t, err)
	registry, err := NewRegistry(sink)
	require.NoError(t, err)
	gate, err := NewGate(InfoLevel)
	require.NoError(t, err)

	logger := New(gate, registry)
	t.Cleanup(func() { _ = logger.Close() })

	dir, ok := logger.Directory()
	require.True(t, ok)
	return logger, dir
}

func TestDirectorySinkWritesFile(t *testing.T) {
	tmp := t.TempDir()
	logger, dir := newDirectoryLogger(t, DirectoryConfig{Dir: filepath.Join(tmp, "logs"), FileName: "Desk Shell.log"})

	assert.Equal(t, filepath.Join(tmp, "logs", "Desk Shell.log"), dir.Path())

	logger.Info("persisted")
	logger.Debug("filtered")

	data, err := dir.Read()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"message":"persisted"`)
	assert.NotContains(t, string(data), "filtered")
	assert.Equal(t, 1, strings.Count(string(data), "\n"))
}

func TestDirectoryClear(t *testing.T) {
	logger, dir := newDirectoryLogger(t, DirectoryConfig{Dir: t.TempDir(), FileName: "app.log"})

	logger.Info("before")
	require.NoError(t, dir.Clear())

	data, err := dir.Read()
	require.NoError(t, err)
	assert.Empty(t, data)

	logger.Info("after")
	data, err = dir.Read()
	require.NoError(t, err)
	assert.Contains(t, string(data), "after")
	assert.NotContains(t, string(data), "before")
}

func TestDirectoryReadMissingFile(t *testing.T) {
	_, dir := newDirectoryLogger(t, DirectoryConfig{Dir: t.TempDir(), FileName: "app.log"})
	require.NoError(t, os.Remove(dir.Path()))

	data, err := dir.Read()
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestDirectorySinkUnwritable(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	_, err := NewDirectorySink(DirectoryConfig{Dir: filepath.Join(blocker, "logs"), FileName: "app.log"})
	assert.Error(t, err)

	_, err = NewDirectorySink(DirectoryConfig{FileName: "app.log"})
	assert.Error(t, err)
}

func TestDirectoryOpenBreakerDropsWrites(t *testing.T) {
	breaker := resilience.New("test", resilience.Settings{
		ReadyToTrip: func(resilience.Counts) bool { return true },
	})
	_ = breaker.Do(func() error { return assert.AnError })
	require.Equal(t, resilience.StateOpen, breaker.State())

	dir, err := OpenDirectory(DirectoryConfig{Dir: t.TempDir(), FileName: "app.log", Breaker: breaker})
	require.NoError(t, err)
	defer dir.Close()

	_, err = dir.Write([]byte("line\n"))
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)

	data, err := dir.Read()
	require.NoError(t, err)
	assert.Empty(t, data)
}
