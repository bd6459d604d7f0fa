// Package testutil provides mocks and helpers shared by package tests.
package testutil

import (
	"context"
	"testing"

	"github.com/GriffinCanCode/deskshell/internal/domain/window"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest/observer"
)

// MockWindow is a mock focusable window.
type MockWindow struct {
	mock.Mock
}

// Label mocks the Label method.
func (m *MockWindow) Label() string {
	return m.Called().String(0)
}

// IsVisible mocks the IsVisible method.
func (m *MockWindow) IsVisible() bool {
	return m.Called().Bool(0)
}

// Show mocks the Show method.
func (m *MockWindow) Show() error {
	return m.Called().Error(0)
}

// SetFocus mocks the SetFocus method.
func (m *MockWindow) SetFocus() error {
	return m.Called().Error(0)
}

// MockResolver is a mock window.Resolver.
type MockResolver struct {
	mock.Mock
}

// Window mocks the Window method.
func (m *MockResolver) Window(label string) (window.Window, bool) {
	args := m.Called(label)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(window.Window), args.Bool(1)
}

// NewResolverWith returns a resolver that knows only the given window.
func NewResolverWith(t *testing.T, w window.Window) *MockResolver {
	t.Helper()
	m := new(MockResolver)
	if w == nil {
		m.On("Window", mock.Anything).Return(nil, false)
		return m
	}
	m.On("Window", w.Label()).Return(w, true)
	m.On("Window", mock.Anything).Return(nil, false).Maybe()
	return m
}

// MockCommand is a mock command.
type MockCommand struct {
	mock.Mock
}

// Definition mocks the Definition method.
func (m *MockCommand) Definition() types.CommandDef {
	return m.Called().Get(0).(types.CommandDef)
}

// Execute mocks the Execute method.
func (m *MockCommand) Execute(ctx context.Context, args map[string]interface{}) (*types.Result, error) {
	ret := m.Called(ctx, args)
	if ret.Get(0) == nil {
		return nil, ret.Error(1)
	}
	return ret.Get(0).(*types.Result), ret.Error(1)
}

// NewMockCommand creates a mock command with a fixed definition.
func NewMockCommand(t *testing.T, name string) *MockCommand {
	t.Helper()
	m := new(MockCommand)
	m.On("Definition").Return(types.CommandDef{
		Name:        name,
		Description: "Test command " + name,
		Category:    types.CategorySystem,
	})
	return m
}

// NewObservedLogger builds a logging.Logger whose only sink records entries
// in memory.
func NewObservedLogger(t *testing.T, level logging.Level) (*logging.Logger, *observer.ObservedLogs) {
	t.Helper()

	core, logs := observer.New(logging.TraceLevel.Zap())
	registry, err := logging.NewRegistry(logging.NewSink(logging.SinkStdout, "observed", core))
	require.NoError(t, err)
	gate, err := logging.NewGate(level)
	require.NoError(t, err)
	return logging.New(gate, registry), logs
}

// NewDirectoryLogger builds a logging.Logger with a directory sink in a
// temporary directory.
func NewDirectoryLogger(t *testing.T, level logging.Level) *logging.Logger {
	t.Helper()

	sink, err := logging.NewDirectorySink(logging.DirectoryConfig{Dir: t.TempDir(), FileName: "test.log"})
	require.NoError(t, err)
	registry, err := logging.NewRegistry(sink)
	require.NoError(t, err)
	gate, err := logging.NewGate(level)
	require.NoError(t, err)

	logger := logging.New(gate, registry)
	t.Cleanup(func() { _ = logger.Close() })
	return logger
}
