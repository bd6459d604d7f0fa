package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type failingCore struct {
	zapcore.Core
}

func (failingCore) Write(zapcore.Entry, []zapcore.Field) error {
	return errors.New("disk full")
}

type recordingObserver struct {
	mu        sync.Mutex
	delivered map[string]int
	failed    map[string]int
	levels    []string
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{delivered: map[string]int{}, failed: map[string]int{}}
}

func (o *recordingObserver) RecordDelivered(sink, _ string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.delivered[sink]++
}

func (o *recordingObserver) RecordFailed(sink, _ string, _ error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.failed[sink]++
}

func (o *recordingObserver) LevelChanged(level string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.levels = append(o.levels, level)
}

func newObservedLogger(t *testing.T, level Level, opts ...Option) (*Logger, *observer.ObservedLogs, *observer.ObservedLogs) {
	t.Helper()

	firstCore, first := observer.New(zapcore.Level(TraceLevel))
	secondCore, second := observer.New(zapcore.Level(TraceLevel))
	registry, err := NewRegistry(
		NewSink(SinkStdout, "first", firstCore),
		NewSink(SinkUI, "second", secondCore),
	)
	require.NoError(t, err)

	gate, err := NewGate(level)
	require.NoError(t, err)
	return New(gate, registry, opts...), first, second
}

func TestEmitBelowGateIsDropped(t *testing.T) {
	logger, first, second := newObservedLogger(t, InfoLevel)

	logger.Emit(NewRecord(DebugLevel, "x"))
	logger.Debug("y")
	logger.Trace("z")

	assert.Zero(t, first.Len())
	assert.Zero(t, second.Len())
}

func TestEmitReachesEverySinkOnce(t *testing.T) {
	logger, first, second := newObservedLogger(t, InfoLevel)

	logger.Emit(NewRecord(InfoLevel, "y", zap.String("k", "v")))

	for _, logs := range []*observer.ObservedLogs{first, second} {
		entries := logs.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "y", entries[0].Message)
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, "v", entries[0].ContextMap()["k"])
	}
}

func TestRaisingAndLoweringTheGate(t *testing.T) {
	logger, first, _ := newObservedLogger(t, InfoLevel)

	require.NoError(t, logger.SetLevel(DebugLevel))
	logger.Debug("now visible")
	assert.Equal(t, 1, first.FilterMessage("now visible").Len())

	require.NoError(t, logger.SetLevel(ErrorLevel))
	logger.Warn("hidden")
	logger.Error("shown")
	assert.Zero(t, first.FilterMessage("hidden").Len())
	assert.Equal(t, 1, first.FilterMessage("shown").Len())
}

func TestTraceLevel(t *testing.T) {
	logger, first, _ := newObservedLogger(t, TraceLevel)

	logger.Trace("deep")

	entries := first.All()
	require.Len(t, entries, 1)
	assert.Equal(t, TraceLevel.Zap(), entries[0].Level)
	assert.Contains(t, entries[0].Caller.File, "logger_test.go")
}

func TestDerivedLoggersShareGate(t *testing.T) {
	logger, first, _ := newObservedLogger(t, WarnLevel)
	child := logger.Named("child").With(zap.Int("n", 1))

	child.Info("dropped")
	require.NoError(t, logger.SetLevel(InfoLevel))
	child.Info("kept")

	entries := first.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, "child", entries[0].LoggerName)
	assert.Equal(t, int64(1), entries[0].ContextMap()["n"])
}

func TestFailingSinkDoesNotStopOthers(t *testing.T) {
	goodCore, good := observer.New(zapcore.DebugLevel)
	registry, err := NewRegistry(
		NewSink(SinkDirectory, "broken", failingCore{Core: zapcore.NewNopCore()}),
		NewSink(SinkUI, "good", goodCore),
	)
	require.NoError(t, err)
	gate, err := NewGate(InfoLevel)
	require.NoError(t, err)

	var stderr bytes.Buffer
	obs := newRecordingObserver()
	logger := New(gate, registry, WithErrorOutput(zapcore.AddSync(&stderr)), WithObserver(obs))

	assert.NotPanics(t, func() { logger.Info("still delivered") })

	assert.Equal(t, 1, good.Len())
	assert.Contains(t, stderr.String(), `log sink "broken" write error: disk full`)
	assert.Equal(t, 1, obs.failed["broken"])
	assert.Equal(t, 1, obs.delivered["good"])
}

func TestSetLevelNotifiesObserver(t *testing.T) {
	obs := newRecordingObserver()
	logger, _, _ := newObservedLogger(t, InfoLevel, WithObserver(obs))

	require.NoError(t, logger.SetLevel(TraceLevel))
	assert.ErrorIs(t, logger.SetLevel(Level(40)), ErrInvalidLevel)

	assert.Equal(t, []string{"trace"}, obs.levels)
	assert.Equal(t, TraceLevel, logger.Level())
}

func TestConcurrentEmitAndSetLevel(t *testing.T) {
	logger, first, _ := newObservedLogger(t, InfoLevel)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				logger.Error("always")
			}
		}()
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = logger.SetLevel(Levels()[(i+j)%5])
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 400, first.FilterMessage("always").Len())
}

type frameCollector struct {
	mu     sync.Mutex
	frames [][]byte
}

func (c *frameCollector) Broadcast(frame []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, frame)
}

func TestUISinkFramesRecords(t *testing.T) {
	collector := &frameCollector{}
	registry, err := NewRegistry(NewUISink(collector))
	require.NoError(t, err)
	gate, err := NewGate(InfoLevel)
	require.NoError(t, err)

	logger := New(gate, registry)
	logger.Info("hello", zap.String("window", "main"))
	logger.Warn("again")

	require.Len(t, collector.frames, 2)

	var frame struct {
		Type   string         `json:"type"`
		Record map[string]any `json:"record"`
	}
	require.NoError(t, json.Unmarshal(collector.frames[0], &frame))
	assert.Equal(t, "log", frame.Type)
	assert.Equal(t, "hello", frame.Record["message"])
	assert.Equal(t, "info", frame.Record["level"])
	assert.Equal(t, "main", frame.Record["window"])
	assert.NotEmpty(t, frame.Record["id"])

	var second struct {
		Record map[string]any `json:"record"`
	}
	require.NoError(t, json.Unmarshal(collector.frames[1], &second))
	assert.NotEqual(t, frame.Record["id"], second.Record["id"])
}

func TestStdoutSinkJSON(t *testing.T) {
	var out bytes.Buffer
	registry, err := NewRegistry(NewStdoutSink(&out, false))
	require.NoError(t, err)
	gate, err := NewGate(TraceLevel)
	require.NoError(t, err)

	New(gate, registry).Trace("tiny")

	var line map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &line))
	assert.Equal(t, "trace", line["level"])
	assert.Equal(t, "tiny", line["message"])
}

func TestStdoutSinkDevelopment(t *testing.T) {
	var out bytes.Buffer
	registry, err := NewRegistry(NewStdoutSink(&out, true))
	require.NoError(t, err)
	gate, err := NewGate(InfoLevel)
	require.NoError(t, err)

	New(gate, registry, WithDevelopment(true)).Info("console")

	assert.Contains(t, out.String(), "INFO")
	assert.Contains(t, out.String(), "console")
}

func TestRegistryValidation(t *testing.T) {
	core := zapcore.NewNopCore()

	_, err := NewRegistry(NewSink(SinkStdout, "a", core), nil)
	assert.Error(t, err)

	_, err = NewRegistry(NewSink(SinkStdout, "a", core), NewSink(SinkUI, "a", core))
	assert.Error(t, err)

	_, err = NewRegistry(NewSink(SinkStdout, "", core))
	assert.Error(t, err)

	registry, err := NewRegistry(NewSink(SinkStdout, "a", core), NewSink(SinkUI, "b", core))
	require.NoError(t, err)
	assert.Equal(t, 2, registry.Len())

	sink, ok := registry.Lookup(SinkUI)
	require.True(t, ok)
	assert.Equal(t, "b", sink.Name())

	_, ok = registry.Lookup(SinkDirectory)
	assert.False(t, ok)
}

func TestSinkKindString(t *testing.T) {
	assert.Equal(t, "stdout", SinkStdout.String())
	assert.Equal(t, "directory", SinkDirectory.String())
	assert.Equal(t, "ui", SinkUI.String())
	assert.Equal(t, "unknown", SinkKind(9).String())
}
