package commands

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/GriffinCanCode/deskshell/internal/shared/types"
)

// Observer records command outcomes.
type Observer interface {
	CommandExecuted(name, status string, duration time.Duration)
}

// Registry manages command lookup and execution
type Registry struct {
	commands sync.Map
	observer Observer
}

// NewRegistry creates a new command registry
func NewRegistry() *Registry {
	return &Registry{}
}

// WithObserver adds outcome tracking to the registry
func (r *Registry) WithObserver(o Observer) *Registry {
	r.observer = o
	return r
}

// Register adds a command. Names are unique.
func (r *Registry) Register(cmd Command) error {
	def := cmd.Definition()
	if def.Name == "" {
		return fmt.Errorf("command name cannot be empty")
	}
	if _, loaded := r.commands.LoadOrStore(def.Name, cmd); loaded {
		return fmt.Errorf("command %q already registered", def.Name)
	}
	return nil
}

// MustRegister registers commands and panics on the first failure. Only for
// wiring fixed command sets at startup.
func (r *Registry) MustRegister(cmds ...Command) {
	for _, cmd := range cmds {
		if err := r.Register(cmd); err != nil {
			panic(err)
		}
	}
}

// Get retrieves a command by name
func (r *Registry) Get(name string) (Command, bool) {
	val, ok := r.commands.Load(name)
	if !ok {
		return nil, false
	}
	return val.(Command), true
}

// List returns all command definitions sorted by name
func (r *Registry) List(category *types.Category) []types.CommandDef {
	defs := []types.CommandDef{}
	r.commands.Range(func(_, value interface{}) bool {
		def := value.(Command).Definition()
		if category == nil || def.Category == *category {
			defs = append(defs, def)
		}
		return true
	})
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// Execute runs a command by name. On failure the returned Result carries the
// user-facing message and the error is returned alongside it.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]interface{}) (*types.Result, error) {
	cmd, ok := r.Get(name)
	if !ok {
		err := &UnknownCommandError{Name: name}
		r.record("unknown", "unknown", 0)
		return types.Failure(err.UserMessage()), err
	}

	if args == nil {
		args = map[string]interface{}{}
	}

	start := time.Now()
	result, err := cmd.Execute(ctx, args)
	duration := time.Since(start)

	if err != nil {
		r.record(name, "error", duration)
		return types.Failure(UserMessage(err)), err
	}
	if result == nil {
		result = types.Success(nil)
	}
	r.record(name, "success", duration)
	return result, nil
}

// Stats returns registry statistics
func (r *Registry) Stats() map[string]interface{} {
	total := 0
	categories := make(map[string]int)

	r.commands.Range(func(_, value interface{}) bool {
		total++
		categories[string(value.(Command).Definition().Category)]++
		return true
	})

	return map[string]interface{}{
		"total_commands": total,
		"categories":     categories,
	}
}

func (r *Registry) record(name, status string, duration time.Duration) {
	if r.observer != nil {
		r.observer.CommandExecuted(name, status, duration)
	}
}
