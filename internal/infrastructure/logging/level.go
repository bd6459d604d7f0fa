package logging

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Level is the severity of a log record. Values share zap's numbering so a
// Level converts to a zapcore.Level with a plain cast.
type Level int8

const (
	// TraceLevel sits one step below zap's debug level.
	TraceLevel Level = Level(zapcore.DebugLevel) - 1
	DebugLevel Level = Level(zapcore.DebugLevel)
	InfoLevel  Level = Level(zapcore.InfoLevel)
	WarnLevel  Level = Level(zapcore.WarnLevel)
	ErrorLevel Level = Level(zapcore.ErrorLevel)
)

// ErrInvalidLevel is matched by every level parsing or validation failure.
var ErrInvalidLevel = errors.New("invalid log level")

// InvalidLevelError reports a level name or value outside the enumeration.
type InvalidLevelError struct {
	Requested string
}

func (e *InvalidLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q", e.Requested)
}

func (e *InvalidLevelError) Unwrap() error {
	return ErrInvalidLevel
}

// UserMessage is the text shown to the UI.
func (e *InvalidLevelError) UserMessage() string {
	return "Invalid log level"
}

// Levels returns every level in ascending order.
func Levels() []Level {
	return []Level{TraceLevel, DebugLevel, InfoLevel, WarnLevel, ErrorLevel}
}

// ParseLevel matches s case-insensitively against the level names.
// Surrounding whitespace is not trimmed.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(s) {
	case "trace":
		return TraceLevel, nil
	case "debug":
		return DebugLevel, nil
	case "info":
		return InfoLevel, nil
	case "warn":
		return WarnLevel, nil
	case "error":
		return ErrorLevel, nil
	}
	return InfoLevel, &InvalidLevelError{Requested: s}
}

// FromZap converts a zap level. Levels above error (dpanic, panic, fatal)
// collapse to ErrorLevel.
func FromZap(l zapcore.Level) Level {
	switch {
	case l < zapcore.Level(TraceLevel):
		return TraceLevel
	case l > zapcore.ErrorLevel:
		return ErrorLevel
	}
	return Level(l)
}

// Valid reports whether l is one of the five levels.
func (l Level) Valid() bool {
	return l >= TraceLevel && l <= ErrorLevel
}

// Zap returns the equivalent zap level.
func (l Level) Zap() zapcore.Level {
	return zapcore.Level(l)
}

func (l Level) String() string {
	switch l {
	case TraceLevel:
		return "trace"
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	}
	return fmt.Sprintf("Level(%d)", int8(l))
}

// MarshalText implements encoding.TextMarshaler, so a Level encodes as its
// name in JSON responses.
func (l Level) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, &InvalidLevelError{Requested: l.String()}
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler with ParseLevel
// semantics.
func (l *Level) UnmarshalText(text []byte) error {
	parsed, err := ParseLevel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// lowercaseLevelEncoder is zap's lowercase encoder with a name for trace.
func lowercaseLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == TraceLevel.Zap() {
		enc.AppendString("trace")
		return
	}
	zapcore.LowercaseLevelEncoder(l, enc)
}

// capitalColorLevelEncoder renders trace in magenta like zap renders debug.
func capitalColorLevelEncoder(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == TraceLevel.Zap() {
		enc.AppendString("\x1b[35mTRACE\x1b[0m")
		return
	}
	zapcore.CapitalColorLevelEncoder(l, enc)
}
