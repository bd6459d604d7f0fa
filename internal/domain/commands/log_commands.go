package commands

import (
	"context"
	"errors"

	"github.com/GriffinCanCode/deskshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"go.uber.org/zap"
)

// LevelControl is the part of the logger the level commands need.
type LevelControl interface {
	Level() logging.Level
	SetLevel(logging.Level) error
}

// LogFile is the current log file behind the directory sink.
type LogFile interface {
	Path() string
	Read() ([]byte, error)
	Clear() error
}

// ErrNoLogFile is returned by read_logs and clear_logs when no directory sink
// is configured.
var ErrNoLogFile = errors.New("log file not configured")

// SetLogLevel changes the severity gate. The level name is matched
// case-insensitively; on failure the gate keeps its previous value.
func SetLogLevel(levels LevelControl) Command {
	return NewFunc(types.CommandDef{
		Name:        "set_log_level",
		Description: "Set the minimum severity of emitted log records",
		Category:    types.CategoryLogging,
		Parameters: []types.Parameter{
			{Name: "level", Type: "string", Description: "trace, debug, info, warn or error", Required: true},
		},
	}, func(_ context.Context, args map[string]interface{}) (map[string]interface{}, error) {
		name, _ := args["level"].(string)
		level, err := logging.ParseLevel(name)
		if err != nil {
			return nil, err
		}
		previous := levels.Level()
		if err := levels.SetLevel(level); err != nil {
			return nil, err
		}
		zap.L().Info("Log level changed",
			zap.Stringer("from", previous),
			zap.Stringer("to", level))
		return nil, nil
	})
}

// GetLogLevel reports the current severity gate.
func GetLogLevel(levels LevelControl) Command {
	return NewFunc(types.CommandDef{
		Name:        "get_log_level",
		Description: "Get the minimum severity of emitted log records",
		Category:    types.CategoryLogging,
		Parameters:  []types.Parameter{},
	}, func(context.Context, map[string]interface{}) (map[string]interface{}, error) {
		return map[string]interface{}{"level": levels.Level().String()}, nil
	})
}

// ReadLogs returns the contents of the current log file.
func ReadLogs(file LogFile) Command {
	return NewFunc(types.CommandDef{
		Name:        "read_logs",
		Description: "Read the current log file",
		Category:    types.CategoryLogging,
		Parameters:  []types.Parameter{},
	}, func(context.Context, map[string]interface{}) (map[string]interface{}, error) {
		if file == nil {
			return nil, ErrNoLogFile
		}
		data, err := file.Read()
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{
			"path":     file.Path(),
			"contents": string(data),
		}, nil
	})
}

// ClearLogs truncates the current log file.
func ClearLogs(file LogFile) Command {
	return NewFunc(types.CommandDef{
		Name:        "clear_logs",
		Description: "Truncate the current log file",
		Category:    types.CategoryLogging,
		Parameters:  []types.Parameter{},
	}, func(context.Context, map[string]interface{}) (map[string]interface{}, error) {
		if file == nil {
			return nil, ErrNoLogFile
		}
		if err := file.Clear(); err != nil {
			return nil, err
		}
		return map[string]interface{}{"cleared": true}, nil
	})
}

// LogCommands returns the logging command set for logger. read_logs and
// clear_logs are included only when a directory sink exists.
func LogCommands(logger *logging.Logger) []Command {
	cmds := []Command{SetLogLevel(logger), GetLogLevel(logger)}
	if dir, ok := logger.Directory(); ok {
		cmds = append(cmds, ReadLogs(dir), ClearLogs(dir))
	}
	return cmds
}
