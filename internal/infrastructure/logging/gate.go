package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Gate is the process-wide minimum severity. Reads and writes are single
// atomic operations, so emitters on any goroutine observe either the old or
// the new threshold, never a mix.
type Gate struct {
	level zap.AtomicLevel
}

// NewGate creates a gate at the given threshold.
func NewGate(initial Level) (*Gate, error) {
	if !initial.Valid() {
		return nil, &InvalidLevelError{Requested: initial.String()}
	}
	return &Gate{level: zap.NewAtomicLevelAt(initial.Zap())}, nil
}

// Get returns the current threshold.
func (g *Gate) Get() Level {
	return Level(g.level.Level())
}

// Set replaces the threshold. Invalid values leave the gate unchanged.
func (g *Gate) Set(level Level) error {
	if !level.Valid() {
		return &InvalidLevelError{Requested: level.String()}
	}
	g.level.SetLevel(level.Zap())
	return nil
}

// Enabled implements zapcore.LevelEnabler.
func (g *Gate) Enabled(l zapcore.Level) bool {
	return g.level.Enabled(l)
}

// Allows reports whether a record at level would pass the gate.
func (g *Gate) Allows(level Level) bool {
	return g.Enabled(level.Zap())
}
