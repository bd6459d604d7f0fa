package logging

import (
	"runtime"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Record is a single log event on its way to the sinks.
type Record struct {
	Level      Level
	Message    string
	Time       time.Time
	LoggerName string
	Caller     zapcore.EntryCaller
	Fields     []zap.Field
}

// NewRecord stamps the current time and the calling location.
func NewRecord(level Level, msg string, fields ...zap.Field) Record {
	return Record{
		Level:   level,
		Message: msg,
		Time:    time.Now(),
		Caller:  zapcore.NewEntryCaller(runtime.Caller(1)),
		Fields:  fields,
	}
}

func (r Record) entry() zapcore.Entry {
	return zapcore.Entry{
		Level:      r.Level.Zap(),
		Time:       r.Time,
		LoggerName: r.LoggerName,
		Message:    r.Message,
		Caller:     r.Caller,
	}
}
