// Package osinfo reports facts about the host operating system.
package osinfo

import (
	"context"
	"os"
	"runtime"
	"strings"

	"github.com/GriffinCanCode/deskshell/internal/domain/commands"
	"github.com/GriffinCanCode/deskshell/internal/shared/types"
	"github.com/GriffinCanCode/deskshell/internal/shell"
)

// Info describes the host.
type Info struct {
	Platform     string `json:"platform"`
	Arch         string `json:"arch"`
	Family       string `json:"family"`
	Hostname     string `json:"hostname"`
	ExeExtension string `json:"exe_extension"`
	Locale       string `json:"locale"`
	NumCPU       int    `json:"num_cpu"`
}

// Provider implements os_info.
type Provider struct {
	hostname func() (string, error)
	getenv   func(string) string
}

// New creates a provider reading the live host.
func New() *Provider {
	return &Provider{hostname: os.Hostname, getenv: os.Getenv}
}

// Name implements shell.Provider.
func (p *Provider) Name() string { return "osinfo" }

// Setup implements shell.Provider.
func (p *Provider) Setup(rt *shell.Runtime) error {
	return rt.RegisterCommands(p.Commands()...)
}

// Commands returns the provider's command set.
func (p *Provider) Commands() []commands.Command {
	return []commands.Command{
		commands.NewFunc(types.CommandDef{
			Name:        "os_info",
			Description: "Get platform, architecture and host details",
			Category:    types.CategorySystem,
			Parameters:  []types.Parameter{},
		}, func(context.Context, map[string]interface{}) (map[string]interface{}, error) {
			info := p.Info()
			return map[string]interface{}{
				"platform":      info.Platform,
				"arch":          info.Arch,
				"family":        info.Family,
				"hostname":      info.Hostname,
				"exe_extension": info.ExeExtension,
				"locale":        info.Locale,
				"num_cpu":       info.NumCPU,
			}, nil
		}),
	}
}

// Info collects the current host facts. An unknown hostname is reported empty.
func (p *Provider) Info() Info {
	host, err := p.hostname()
	if err != nil {
		host = ""
	}
	return Info{
		Platform:     platform(runtime.GOOS),
		Arch:         runtime.GOARCH,
		Family:       family(runtime.GOOS),
		Hostname:     host,
		ExeExtension: exeExtension(runtime.GOOS),
		Locale:       locale(p.getenv),
		NumCPU:       runtime.NumCPU(),
	}
}

func platform(goos string) string {
	if goos == "darwin" {
		return "macos"
	}
	return goos
}

func family(goos string) string {
	if goos == "windows" {
		return "windows"
	}
	return "unix"
}

func exeExtension(goos string) string {
	if goos == "windows" {
		return "exe"
	}
	return ""
}

// locale reads the POSIX locale variables in precedence order and strips
// the encoding suffix, so "en_US.UTF-8" becomes "en-US".
func locale(getenv func(string) string) string {
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		v := getenv(key)
		if v == "" || v == "C" || v == "POSIX" {
			continue
		}
		if i := strings.IndexAny(v, ".@"); i >= 0 {
			v = v[:i]
		}
		return strings.ReplaceAll(v, "_", "-")
	}
	return ""
}
