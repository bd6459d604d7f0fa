package logging

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/GriffinCanCode/deskshell/internal/infrastructure/resilience"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// DirectoryConfig configures the rotating log file.
type DirectoryConfig struct {
	Dir        string
	FileName   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	// Breaker guards writes. Nil uses resilience.DefaultSettings.
	Breaker *resilience.Breaker
}

// Directory is the rotating log file behind a directory sink. Writes, Clear
// and Close share one mutex so a clear never interleaves with a record.
type Directory struct {
	mu      sync.Mutex
	path    string
	roller  *lumberjack.Logger
	breaker *resilience.Breaker
}

// OpenDirectory creates the log directory and verifies the file can be
// opened for appending.
func OpenDirectory(cfg DirectoryConfig) (*Directory, error) {
	if cfg.Dir == "" {
		return nil, errors.New("log directory not set")
	}
	if cfg.FileName == "" {
		return nil, errors.New("log file name not set")
	}
	if cfg.MaxSizeMB <= 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.Breaker == nil {
		cfg.Breaker = resilience.New("log-directory", resilience.DefaultSettings())
	}

	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	path := filepath.Join(cfg.Dir, cfg.FileName)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	return &Directory{
		path:    path,
		breaker: cfg.Breaker,
		roller: &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		},
	}, nil
}

// Path returns the current log file path.
func (d *Directory) Path() string {
	return d.path
}

// Write appends p. While the breaker is open the write is dropped and
// resilience.ErrCircuitOpen is returned.
func (d *Directory) Write(p []byte) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	var n int
	err := d.breaker.Do(func() error {
		var err error
		n, err = d.roller.Write(p)
		return err
	})
	return n, err
}

// Sync is a no-op; lumberjack writes straight to the file.
func (d *Directory) Sync() error {
	return nil
}

// Read returns the whole current log file. A missing file reads as empty.
func (d *Directory) Read() ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := os.ReadFile(d.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return data, err
}

// Clear truncates the current log file. Rotated backups are kept.
func (d *Directory) Clear() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.roller.Close(); err != nil {
		return err
	}
	err := os.Truncate(d.path, 0)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// Close closes the underlying file. A later write reopens it.
func (d *Directory) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.roller.Close()
}

// NewDirectorySink writes JSON lines to a rotating file.
func NewDirectorySink(cfg DirectoryConfig) (*Sink, error) {
	dir, err := OpenDirectory(cfg)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig(false)), dir, acceptAll)
	sink := NewSink(SinkDirectory, SinkDirectory.String(), core)
	sink.closer = dir
	sink.dir = dir
	return sink, nil
}
