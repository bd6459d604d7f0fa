package commands

import (
	"context"

	"github.com/GriffinCanCode/deskshell/internal/shared/types"
)

// Revealer makes the main window visible.
type Revealer interface {
	Reveal() error
}

// ShowMainWindow reveals and focuses the main window.
func ShowMainWindow(r Revealer) Command {
	return NewFunc(types.CommandDef{
		Name:        "show_main_window",
		Description: "Show and focus the main window",
		Category:    types.CategoryWindow,
		Parameters:  []types.Parameter{},
	}, func(context.Context, map[string]interface{}) (map[string]interface{}, error) {
		return nil, r.Reveal()
	})
}
