package logging

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Observer receives delivery outcomes. Implementations must not log through
// the Logger reporting to them.
type Observer interface {
	RecordDelivered(sink, level string)
	RecordFailed(sink, level string, err error)
	LevelChanged(level string)
}

type nopObserver struct{}

func (nopObserver) RecordDelivered(string, string)     {}
func (nopObserver) RecordFailed(string, string, error) {}
func (nopObserver) LevelChanged(string)                {}

// Logger wraps zap.Logger with the severity gate and the sink registry.
// Loggers derived with With or Named share both.
type Logger struct {
	*zap.Logger

	gate     *Gate
	registry *Registry
	observer Observer
	core     *fanoutCore
	trace    *zap.Logger
}

type options struct {
	observer    Observer
	errorOutput zapcore.WriteSyncer
	development bool
}

// Option configures a Logger.
type Option func(*options)

// WithObserver reports per-sink outcomes and level changes.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		if o != nil {
			opts.observer = o
		}
	}
}

// WithErrorOutput replaces stderr as the destination for sink failures.
func WithErrorOutput(ws zapcore.WriteSyncer) Option {
	return func(opts *options) {
		if ws != nil {
			opts.errorOutput = ws
		}
	}
}

// WithDevelopment enables zap's development behavior and stack traces on
// error records.
func WithDevelopment(dev bool) Option {
	return func(opts *options) {
		opts.development = dev
	}
}

// New builds the logging façade over gate and registry.
func New(gate *Gate, registry *Registry, opts ...Option) *Logger {
	o := options{
		observer:    nopObserver{},
		errorOutput: zapcore.Lock(os.Stderr),
	}
	for _, opt := range opts {
		opt(&o)
	}

	sinks := registry.Sinks()
	cores := make([]zapcore.Core, len(sinks))
	for i, s := range sinks {
		cores[i] = s.core
	}
	core := &fanoutCore{
		gate:     gate,
		sinks:    sinks,
		cores:    cores,
		observer: o.observer,
		errOut:   o.errorOutput,
	}

	zapOpts := []zap.Option{zap.AddCaller(), zap.ErrorOutput(o.errorOutput)}
	if o.development {
		zapOpts = append(zapOpts, zap.Development(), zap.AddStacktrace(zapcore.ErrorLevel))
	}
	base := zap.New(core, zapOpts...)

	return &Logger{
		Logger:   base,
		gate:     gate,
		registry: registry,
		observer: o.observer,
		core:     core,
		trace:    base.WithOptions(zap.AddCallerSkip(1)),
	}
}

// Emit delivers r to every sink when it passes the gate. Sink failures are
// reported out of band and never returned.
func (l *Logger) Emit(r Record) {
	if !l.gate.Allows(r.Level) {
		return
	}
	_ = l.core.Write(r.entry(), r.Fields)
}

// Trace logs below debug.
func (l *Logger) Trace(msg string, fields ...zap.Field) {
	l.trace.Log(TraceLevel.Zap(), msg, fields...)
}

// Gate returns the severity gate.
func (l *Logger) Gate() *Gate {
	return l.gate
}

// Level returns the current threshold.
func (l *Logger) Level() Level {
	return l.gate.Get()
}

// SetLevel changes the threshold for every subsequent record.
func (l *Logger) SetLevel(level Level) error {
	if err := l.gate.Set(level); err != nil {
		return err
	}
	l.observer.LevelChanged(level.String())
	return nil
}

// Sinks returns the registered sinks in order.
func (l *Logger) Sinks() []*Sink {
	return l.registry.Sinks()
}

// Directory returns the log file of the directory sink, if one is registered.
func (l *Logger) Directory() (*Directory, bool) {
	s, ok := l.registry.Lookup(SinkDirectory)
	if !ok {
		return nil, false
	}
	return s.Directory()
}

// Close flushes and closes every sink.
func (l *Logger) Close() error {
	return multierr.Append(l.registry.Sync(), l.registry.Close())
}

// fanoutCore writes each entry to every sink independently. Unlike
// zapcore.NewTee it keeps going after a failing sink and never returns the
// failure to the caller.
type fanoutCore struct {
	gate     *Gate
	sinks    []*Sink
	cores    []zapcore.Core
	observer Observer
	errOut   zapcore.WriteSyncer
}

func (c *fanoutCore) Enabled(l zapcore.Level) bool {
	return c.gate.Enabled(l)
}

func (c *fanoutCore) With(fields []zapcore.Field) zapcore.Core {
	cores := make([]zapcore.Core, len(c.cores))
	for i, core := range c.cores {
		cores[i] = core.With(fields)
	}
	clone := *c
	clone.cores = cores
	return &clone
}

func (c *fanoutCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *fanoutCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	level := FromZap(ent.Level).String()
	for i, core := range c.cores {
		name := c.sinks[i].name
		if err := core.Write(ent, fields); err != nil {
			c.observer.RecordFailed(name, level, err)
			fmt.Fprintf(c.errOut, "%v log sink %q write error: %v\n", time.Now().UTC(), name, err)
			_ = c.errOut.Sync()
			continue
		}
		c.observer.RecordDelivered(name, level)
	}
	return nil
}

func (c *fanoutCore) Sync() error {
	var err error
	for _, core := range c.cores {
		err = multierr.Append(err, core.Sync())
	}
	return err
}
