package config

import (
	"fmt"
	"net"

	"github.com/GriffinCanCode/deskshell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/deskshell/internal/shared/paths"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Logging   LogConfig
	Window    WindowConfig
	Update    UpdateConfig
	RateLimit RateLimitConfig
	Debug     DebugConfig
}

// AppConfig identifies the application.
type AppConfig struct {
	Identifier string `envconfig:"APP_IDENTIFIER" default:"com.deskshell.app"`
	Name       string `envconfig:"APP_NAME" default:"Desk Shell"`
	Version    string `envconfig:"APP_VERSION" default:"dev"`
}

// ServerConfig holds the IPC server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"1420"`
	Host string `envconfig:"HOST" default:"127.0.0.1"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, s.Port)
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
	// Dir overrides the platform log directory.
	Dir string `envconfig:"LOG_DIR"`
	// File overrides "<app name>.log".
	File       string `envconfig:"LOG_FILE"`
	MaxSizeMB  int    `envconfig:"LOG_MAX_SIZE_MB" default:"10"`
	MaxBackups int    `envconfig:"LOG_MAX_BACKUPS" default:"1"`
	MaxAgeDays int    `envconfig:"LOG_MAX_AGE_DAYS" default:"0"`
	Compress   bool   `envconfig:"LOG_COMPRESS" default:"false"`
	Stdout     bool   `envconfig:"LOG_STDOUT" default:"true"`
	UI         bool   `envconfig:"LOG_UI" default:"true"`
}

// WindowConfig holds the main window configuration.
type WindowConfig struct {
	Label string `envconfig:"WINDOW_LABEL" default:"main"`
	// Title defaults to the application name.
	Title   string  `envconfig:"WINDOW_TITLE"`
	Width   float64 `envconfig:"WINDOW_WIDTH" default:"1024"`
	Height  float64 `envconfig:"WINDOW_HEIGHT" default:"768"`
	Visible bool    `envconfig:"WINDOW_VISIBLE" default:"false"`
	// StateFile overrides <data dir>/window-state.yaml.
	StateFile string `envconfig:"WINDOW_STATE_FILE"`
}

// UpdateConfig holds self-update configuration.
type UpdateConfig struct {
	// Repo is the GitHub "owner/name" slug releases are fetched from.
	Repo string `envconfig:"UPDATE_REPO"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// DebugConfig holds switches for development surfaces.
type DebugConfig struct {
	TrayEndpoint bool `envconfig:"TRAY_DEBUG_ENDPOINT" default:"false"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadWithManifest loads the environment and then fills every setting the
// environment left unset from the TOML manifest at path.
func LoadWithManifest(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return cfg, nil
	}
	m, err := LoadManifest(path)
	if err != nil {
		return nil, err
	}
	m.Apply(cfg)
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		App: AppConfig{
			Identifier: "com.deskshell.app",
			Name:       "Desk Shell",
			Version:    "dev",
		},
		Server: ServerConfig{
			Port: "1420",
			Host: "127.0.0.1",
		},
		Logging: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 1,
			Stdout:     true,
			UI:         true,
		},
		Window: WindowConfig{
			Label:  "main",
			Width:  1024,
			Height: 768,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Validate checks values envconfig cannot.
func (c *Config) Validate() error {
	if err := paths.ValidateIdentifier(c.App.Identifier); err != nil {
		return err
	}
	if c.App.Name == "" {
		return fmt.Errorf("app name cannot be empty")
	}
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("LOG_LEVEL: %w", err)
	}
	if c.Logging.MaxSizeMB <= 0 {
		return fmt.Errorf("LOG_MAX_SIZE_MB must be positive")
	}
	if c.Logging.MaxBackups < 0 || c.Logging.MaxAgeDays < 0 {
		return fmt.Errorf("log retention values cannot be negative")
	}
	if c.Window.Label == "" {
		return fmt.Errorf("window label cannot be empty")
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive")
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit values must be positive")
	}
	return nil
}

// WindowTitle returns the configured title or the application name.
func (c *Config) WindowTitle() string {
	if c.Window.Title != "" {
		return c.Window.Title
	}
	return c.App.Name
}

// LogFileName returns the configured log file name or "<app name>.log".
func (c *Config) LogFileName() string {
	if c.Logging.File != "" {
		return c.Logging.File
	}
	return paths.LogFileName(c.App.Name)
}
