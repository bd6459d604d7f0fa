package logging

import (
	"bytes"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// SinkKind identifies one of the fixed sink variants.
type SinkKind int

const (
	SinkStdout SinkKind = iota
	SinkDirectory
	SinkUI
)

func (k SinkKind) String() string {
	switch k {
	case SinkStdout:
		return "stdout"
	case SinkDirectory:
		return "directory"
	case SinkUI:
		return "ui"
	default:
		return "unknown"
	}
}

// acceptAll leaves filtering to the gate.
var acceptAll = zap.LevelEnablerFunc(func(zapcore.Level) bool { return true })

// Sink is a destination that accepts every record handed to it. Severity
// filtering happens once, in front of all sinks.
type Sink struct {
	kind   SinkKind
	name   string
	core   zapcore.Core
	closer io.Closer
	dir    *Directory
}

// NewSink wraps an arbitrary core. The core's own level filter is bypassed.
func NewSink(kind SinkKind, name string, core zapcore.Core) *Sink {
	return &Sink{kind: kind, name: name, core: core}
}

// Kind returns the sink variant.
func (s *Sink) Kind() SinkKind { return s.kind }

// Name returns the unique sink name used in diagnostics and metrics.
func (s *Sink) Name() string { return s.name }

// Write delivers one record.
func (s *Sink) Write(r Record) error {
	return s.core.Write(r.entry(), r.Fields)
}

// Sync flushes buffered output.
func (s *Sink) Sync() error {
	return s.core.Sync()
}

// Close releases the sink's resources.
func (s *Sink) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Directory returns the backing log file for directory sinks.
func (s *Sink) Directory() (*Directory, bool) {
	return s.dir, s.dir != nil
}

// nopSyncer drops Sync, which fails with EINVAL on terminals and pipes.
type nopSyncer struct {
	io.Writer
}

func (nopSyncer) Sync() error { return nil }

// NewStdoutSink writes human-readable (development) or JSON lines to w.
// A nil w means os.Stdout.
func NewStdoutSink(w io.Writer, development bool) *Sink {
	if w == nil {
		w = os.Stdout
	}
	ws := zapcore.Lock(nopSyncer{Writer: w})
	return NewSink(SinkStdout, SinkStdout.String(), zapcore.NewCore(newEncoder(development), ws, acceptAll))
}

// Broadcaster pushes a frame to every connected UI client. Implementations
// must not log through the Logger that owns the sink.
type Broadcaster interface {
	Broadcast(frame []byte)
}

// NewUISink frames each record as {"type":"log","record":{...}} and hands it
// to b. Every record carries a fresh id so clients can deduplicate.
func NewUISink(b Broadcaster) *Sink {
	w := &uiWriter{out: b}
	inner := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig(false)), w, acceptAll)
	return NewSink(SinkUI, SinkUI.String(), &idCore{Core: inner})
}

type uiWriter struct {
	mu  sync.Mutex
	out Broadcaster
}

var (
	framePrefix = []byte(`{"type":"log","record":`)
	frameSuffix = []byte(`}`)
)

func (w *uiWriter) Write(p []byte) (int, error) {
	record := bytes.TrimRight(p, "\r\n")
	frame := make([]byte, 0, len(framePrefix)+len(record)+len(frameSuffix))
	frame = append(frame, framePrefix...)
	frame = append(frame, record...)
	frame = append(frame, frameSuffix...)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.out.Broadcast(frame)
	return len(p), nil
}

func (w *uiWriter) Sync() error { return nil }

// idCore tags each entry with a uuid before encoding.
type idCore struct {
	zapcore.Core
}

func (c *idCore) With(fields []zapcore.Field) zapcore.Core {
	return &idCore{Core: c.Core.With(fields)}
}

func (c *idCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *idCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	tagged := make([]zapcore.Field, 0, len(fields)+1)
	tagged = append(tagged, zap.String("id", uuid.NewString()))
	tagged = append(tagged, fields...)
	return c.Core.Write(ent, tagged)
}
