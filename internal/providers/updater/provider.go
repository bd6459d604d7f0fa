package updater

import (
	"context"

	"github.com/GriffinCanCode/deskshell/internal/domain/commands"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/GriffinCanCode/deskshell/internal/shell"
	"go.uber.org/zap"
)

// Provider implements check_update and install_update.
type Provider struct {
	updater *Updater
}

// NewProvider wraps u.
func NewProvider(u *Updater) *Provider {
	return &Provider{updater: u}
}

// Name implements shell.Provider.
func (p *Provider) Name() string { return "updater" }

// Setup implements shell.Provider.
func (p *Provider) Setup(rt *shell.Runtime) error {
	if !p.updater.Enabled() {
		rt.Logger().Debug("Updater disabled", zap.String("repo", p.updater.Slug()))
	}
	return rt.RegisterCommands(p.Commands()...)
}

// Commands returns the provider's command set.
func (p *Provider) Commands() []commands.Command {
	return []commands.Command{
		commands.NewFunc(types.CommandDef{
			Name:        "check_update",
			Description: "Check for a newer release",
			Category:    types.CategoryUpdater,
			Parameters:  []types.Parameter{},
		}, func(ctx context.Context, _ map[string]interface{}) (map[string]interface{}, error) {
			st, err := p.updater.Check(ctx)
			if err != nil {
				return nil, err
			}
			return statusData(st), nil
		}),
		commands.NewFunc(types.CommandDef{
			Name:        "install_update",
			Description: "Download and install the newest release",
			Category:    types.CategoryUpdater,
			Parameters:  []types.Parameter{},
		}, func(ctx context.Context, _ map[string]interface{}) (map[string]interface{}, error) {
			st, err := p.updater.Install(ctx)
			if err != nil {
				return nil, err
			}
			data := statusData(st)
			data["restart_required"] = st.Available
			if st.Available {
				zap.L().Info("Update installed",
					zap.String("from", st.Current),
					zap.String("to", st.Latest))
			}
			return data, nil
		}),
	}
}

func statusData(st *Status) map[string]interface{} {
	return map[string]interface{}{
		"current":      st.Current,
		"latest":       st.Latest,
		"available":    st.Available,
		"notes":        st.Notes,
		"published_at": st.PublishedAt,
		"url":          st.URL,
	}
}
