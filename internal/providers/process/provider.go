// Package process lets the UI end or restart the application.
package process

import (
	"context"
	"math"

	"github.com/GriffinCanCode/deskshell/internal/domain/commands"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/GriffinCanCode/deskshell/internal/shell"
)

// Exiter ends the event loop.
type Exiter interface {
	RequestExit(code int)
	RequestRestart()
}

// Provider implements exit and restart.
type Provider struct{}

// New creates the provider.
func New() *Provider { return &Provider{} }

// Name implements shell.Provider.
func (p *Provider) Name() string { return "process" }

// Setup implements shell.Provider.
func (p *Provider) Setup(rt *shell.Runtime) error {
	return rt.RegisterCommands(Commands(rt)...)
}

// Commands returns exit and restart bound to target.
func Commands(target Exiter) []commands.Command {
	return []commands.Command{
		commands.NewFunc(types.CommandDef{
			Name:        "exit",
			Description: "Exit the application",
			Category:    types.CategoryProcess,
			Parameters: []types.Parameter{
				{Name: "code", Type: "number", Description: "Exit code, default 0"},
			},
		}, func(_ context.Context, args map[string]interface{}) (map[string]interface{}, error) {
			code, err := commands.OptionalNumber(args, "code", 0)
			if err != nil {
				return nil, err
			}
			if code != math.Trunc(code) || code < 0 || code > 255 {
				return nil, &commands.InvalidArgumentError{Name: "code", Reason: "must be an integer between 0 and 255"}
			}
			target.RequestExit(int(code))
			return map[string]interface{}{"code": int(code)}, nil
		}),
		commands.NewFunc(types.CommandDef{
			Name:        "restart",
			Description: "Restart the application",
			Category:    types.CategoryProcess,
			Parameters:  []types.Parameter{},
		}, func(context.Context, map[string]interface{}) (map[string]interface{}, error) {
			target.RequestRestart()
			return nil, nil
		}),
	}
}
