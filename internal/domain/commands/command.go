package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/GriffinCanCode/deskshell/internal/shared/types"
)

// Command is a named operation invoked from the UI.
type Command interface {
	Definition() types.CommandDef
	Execute(ctx context.Context, args map[string]interface{}) (*types.Result, error)
}

// Handler does the work of a Func command and returns the result data.
type Handler func(ctx context.Context, args map[string]interface{}) (map[string]interface{}, error)

// Func adapts a definition and a handler to Command.
type Func struct {
	Def     types.CommandDef
	Handler Handler
}

// NewFunc creates a Func command.
func NewFunc(def types.CommandDef, h Handler) *Func {
	return &Func{Def: def, Handler: h}
}

// Definition returns the command metadata
func (f *Func) Definition() types.CommandDef {
	return f.Def
}

// Execute runs the handler
func (f *Func) Execute(ctx context.Context, args map[string]interface{}) (*types.Result, error) {
	data, err := f.Handler(ctx, args)
	if err != nil {
		return nil, err
	}
	return types.Success(data), nil
}

// ErrUnknownCommand matches lookups of unregistered command names.
var ErrUnknownCommand = errors.New("unknown command")

// UnknownCommandError names the command that was not found.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Name)
}

func (e *UnknownCommandError) Unwrap() error {
	return ErrUnknownCommand
}

// UserMessage is the text shown to the UI.
func (e *UnknownCommandError) UserMessage() string {
	return fmt.Sprintf("Unknown command: %s", e.Name)
}

// ErrInvalidArgument matches malformed or missing arguments.
var ErrInvalidArgument = errors.New("invalid argument")

// InvalidArgumentError reports a bad argument by name.
type InvalidArgumentError struct {
	Name   string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Name, e.Reason)
}

func (e *InvalidArgumentError) Unwrap() error {
	return ErrInvalidArgument
}

// UserMessage is the text shown to the UI.
func (e *InvalidArgumentError) UserMessage() string {
	return fmt.Sprintf("Invalid argument %s: %s", e.Name, e.Reason)
}

type userMessager interface {
	UserMessage() string
}

// UserMessage returns the user-facing text for err. Errors that do not
// carry one fall back to err.Error().
func UserMessage(err error) string {
	var um userMessager
	if errors.As(err, &um) {
		return um.UserMessage()
	}
	return err.Error()
}

// StringArg returns a required string argument.
func StringArg(args map[string]interface{}, name string) (string, error) {
	raw, ok := args[name]
	if !ok {
		return "", &InvalidArgumentError{Name: name, Reason: "required"}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &InvalidArgumentError{Name: name, Reason: "must be a string"}
	}
	return s, nil
}

// OptionalString returns a string argument or def when it is absent.
func OptionalString(args map[string]interface{}, name, def string) (string, error) {
	if _, ok := args[name]; !ok {
		return def, nil
	}
	return StringArg(args, name)
}

// OptionalBool returns a bool argument or def when it is absent.
func OptionalBool(args map[string]interface{}, name string, def bool) (bool, error) {
	raw, ok := args[name]
	if !ok {
		return def, nil
	}
	b, ok := raw.(bool)
	if !ok {
		return false, &InvalidArgumentError{Name: name, Reason: "must be a boolean"}
	}
	return b, nil
}

// OptionalNumber returns a numeric argument or def when it is absent. JSON
// numbers decode as float64.
func OptionalNumber(args map[string]interface{}, name string, def float64) (float64, error) {
	raw, ok := args[name]
	if !ok {
		return def, nil
	}
	switch n := raw.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	}
	return 0, &InvalidArgumentError{Name: name, Reason: "must be a number"}
}
