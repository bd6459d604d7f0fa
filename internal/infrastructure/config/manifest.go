package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// Manifest is the optional deskshell.toml shipped next to the binary. It
// describes the product; the environment still wins for every key it sets.
//
//	identifier = "com.example.notes"
//	product_name = "Notes"
//	version = "1.2.0"
//
//	[window]
//	title = "Notes"
//	width = 1280
//	height = 800
//
//	[log]
//	level = "debug"
//
//	[updater]
//	repo = "example/notes"
type Manifest struct {
	Identifier  string         `toml:"identifier"`
	ProductName string         `toml:"product_name"`
	Version     string         `toml:"version"`
	Window      WindowManifest `toml:"window"`
	Log         LogManifest    `toml:"log"`
	Updater     UpdaterSection `toml:"updater"`
}

// WindowManifest configures the main window.
type WindowManifest struct {
	Title   string  `toml:"title"`
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Visible *bool   `toml:"visible"`
}

// LogManifest configures logging.
type LogManifest struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// UpdaterSection configures self-update.
type UpdaterSection struct {
	Repo string `toml:"repo"`
}

// LoadManifest reads and strictly decodes a TOML manifest.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer f.Close()

	var m Manifest
	dec := toml.NewDecoder(f).DisallowUnknownFields()
	if err := dec.Decode(&m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}
	return &m, nil
}

// Apply copies manifest values into cfg for keys the environment left unset.
func (m *Manifest) Apply(cfg *Config) {
	setString(&cfg.App.Identifier, "APP_IDENTIFIER", m.Identifier)
	setString(&cfg.App.Name, "APP_NAME", m.ProductName)
	setString(&cfg.App.Version, "APP_VERSION", m.Version)
	setString(&cfg.Window.Title, "WINDOW_TITLE", m.Window.Title)
	setFloat(&cfg.Window.Width, "WINDOW_WIDTH", m.Window.Width)
	setFloat(&cfg.Window.Height, "WINDOW_HEIGHT", m.Window.Height)
	if m.Window.Visible != nil && !envSet("WINDOW_VISIBLE") {
		cfg.Window.Visible = *m.Window.Visible
	}
	setString(&cfg.Logging.Level, "LOG_LEVEL", m.Log.Level)
	setString(&cfg.Logging.File, "LOG_FILE", m.Log.File)
	setString(&cfg.Update.Repo, "UPDATE_REPO", m.Updater.Repo)
}

func envSet(key string) bool {
	_, ok := os.LookupEnv(key)
	return ok
}

func setString(dst *string, key, value string) {
	if value != "" && !envSet(key) {
		*dst = value
	}
}

func setFloat(dst *float64, key string, value float64) {
	if value != 0 && !envSet(key) {
		*dst = value
	}
}
