// Package paths resolves the per-user directories the shell writes to.
//
// Log directory layout:
//
//	linux    $XDG_CONFIG_HOME/<identifier>   (~/.config/<identifier>)
//	darwin   ~/Library/Logs/<identifier>
//	windows  %AppData%\<identifier>
//
// The data directory is <config dir>/<identifier> on every platform.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// App holds the resolved directories for one application identifier.
type App struct {
	Identifier string
	LogDir     string
	DataDir    string
}

// LogFile returns the path of a file inside the log directory.
func (a App) LogFile(name string) string {
	return filepath.Join(a.LogDir, name)
}

// Resolve computes the directories for identifier on the running platform.
func Resolve(identifier string) (App, error) {
	return resolve(runtime.GOOS, identifier, os.UserConfigDir, os.UserHomeDir)
}

func resolve(goos, identifier string, configDir, homeDir func() (string, error)) (App, error) {
	if err := ValidateIdentifier(identifier); err != nil {
		return App{}, err
	}

	cfg, err := configDir()
	if err != nil {
		return App{}, fmt.Errorf("resolve config directory: %w", err)
	}
	app := App{
		Identifier: identifier,
		LogDir:     filepath.Join(cfg, identifier),
		DataDir:    filepath.Join(cfg, identifier),
	}

	if goos == "darwin" {
		home, err := homeDir()
		if err != nil {
			return App{}, fmt.Errorf("resolve home directory: %w", err)
		}
		app.LogDir = filepath.Join(home, "Library", "Logs", identifier)
	}
	return app, nil
}

// ValidateIdentifier checks that an identifier is usable as a single path
// component, e.g. "com.example.deskshell".
func ValidateIdentifier(identifier string) error {
	if identifier == "" {
		return fmt.Errorf("app identifier cannot be empty")
	}
	if filepath.IsAbs(identifier) || strings.ContainsAny(identifier, `/\`) {
		return fmt.Errorf("app identifier %q cannot contain path separators", identifier)
	}
	if identifier == "." || identifier == ".." {
		return fmt.Errorf("app identifier %q is not a directory name", identifier)
	}
	return nil
}

// LogFileName returns the default log file name for an application.
func LogFileName(appName string) string {
	return appName + ".log"
}
