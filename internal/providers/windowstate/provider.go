// Package windowstate persists window geometry across runs in a YAML file.
package windowstate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/GriffinCanCode/deskshell/internal/domain/commands"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/GriffinCanCode/deskshell/internal/shell"
	"github.com/goccy/go-yaml"
	"go.uber.org/zap"
)

// State is the file format.
type State struct {
	Windows []types.WindowSnapshot `yaml:"windows"`
}

// Options configures the provider.
type Options struct {
	Path string
	// RestoreVisibility also reapplies the saved visible flag. Otherwise
	// windows keep the visibility they were created with.
	RestoreVisibility bool
}

// Provider restores window state at setup and saves it at shutdown.
type Provider struct {
	opts Options

	mu sync.Mutex
	rt *shell.Runtime
}

// New creates the provider.
func New(opts Options) *Provider {
	return &Provider{opts: opts}
}

// Name implements shell.Provider.
func (p *Provider) Name() string { return "windowstate" }

// Setup implements shell.Provider. A missing or unreadable file leaves the
// windows as configured.
func (p *Provider) Setup(rt *shell.Runtime) error {
	if p.opts.Path == "" {
		return errors.New("window state path required")
	}
	p.mu.Lock()
	p.rt = rt
	p.mu.Unlock()

	state, err := Load(p.opts.Path)
	if err != nil {
		rt.Logger().Warn("Ignoring saved window state", zap.String("path", p.opts.Path), zap.Error(err))
	} else {
		p.apply(rt, state)
	}
	return rt.RegisterCommands(p.Commands()...)
}

func (p *Provider) apply(rt *shell.Runtime, state *State) {
	for _, snap := range state.Windows {
		w, ok := rt.Lookup(snap.Label)
		if !ok {
			continue
		}
		if !p.opts.RestoreVisibility {
			snap.Visible = w.IsVisible()
		}
		w.Restore(snap)
	}
}

// Shutdown implements shell.Shutdowner.
func (p *Provider) Shutdown(context.Context) error {
	_, err := p.Save()
	return err
}

// Save writes the current state of every window.
func (p *Provider) Save() (*State, error) {
	p.mu.Lock()
	rt := p.rt
	p.mu.Unlock()
	if rt == nil {
		return nil, errors.New("window state provider not set up")
	}

	state := &State{}
	for _, w := range rt.Windows() {
		state.Windows = append(state.Windows, w.Snapshot())
	}
	if err := Write(p.opts.Path, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Commands returns the provider's command set.
func (p *Provider) Commands() []commands.Command {
	return []commands.Command{
		commands.NewFunc(types.CommandDef{
			Name:        "save_window_state",
			Description: "Persist the position, size and visibility of every window",
			Category:    types.CategoryWindow,
			Parameters:  []types.Parameter{},
		}, func(context.Context, map[string]interface{}) (map[string]interface{}, error) {
			state, err := p.Save()
			if err != nil {
				return nil, err
			}
			return map[string]interface{}{"path": p.opts.Path, "windows": len(state.Windows)}, nil
		}),
	}
}

// Load reads a state file. A missing file is an empty state.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &State{}, nil
	}
	if err != nil {
		return nil, err
	}
	var state State
	if err := yaml.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &state, nil
}

// Write replaces the state file atomically.
func Write(path string, state *State) error {
	data, err := yaml.Marshal(state)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".windowstate-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
