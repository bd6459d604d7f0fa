package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/GriffinCanCode/deskshell/internal/infrastructure/config"
	"github.com/GriffinCanCode/deskshell/internal/infrastructure/server"
	"github.com/spf13/cobra"
)

// relaunch starts a fresh copy of the running executable with the same
// arguments. Replaced in tests.
var relaunch = func() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	return cmd.Start()
}

func loadConfig(cmd *cobra.Command, flags *runFlags) (*config.Config, error) {
	cfg, err := config.LoadWithManifest(flags.manifest)
	if err != nil {
		return nil, err
	}
	if cfg.App.Version == "dev" && version != "dev" {
		cfg.App.Version = version
	}

	fs := cmd.Flags()
	if fs.Changed("log-level") {
		cfg.Logging.Level = flags.logLevel
	}
	if fs.Changed("port") {
		cfg.Server.Port = flags.port
	}
	if fs.Changed("dev") {
		cfg.Logging.Development = flags.dev
	}
	if fs.Changed("show") {
		cfg.Window.Visible = flags.show
	}
	return cfg, nil
}

func runApp(cmd *cobra.Command, flags *runFlags) error {
	cfg, err := loadConfig(cmd, flags)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	srv, err := server.New(cfg)
	if err != nil {
		return fmt.Errorf("startup failed: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	status, err := srv.Run(ctx)
	if err != nil {
		return err
	}
	if status.Restart {
		if err := relaunch(); err != nil {
			return fmt.Errorf("restart: %w", err)
		}
		return nil
	}
	if status.Code != 0 {
		return &exitError{code: status.Code}
	}
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
