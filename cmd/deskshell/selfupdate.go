package main

import (
	"errors"
	"fmt"

	"github.com/GriffinCanCode/deskshell/internal/infrastructure/config"
	"github.com/GriffinCanCode/deskshell/internal/providers/updater"
	"github.com/spf13/cobra"
)

func newSelfUpdateCmd() *cobra.Command {
	var repo string
	cmd := &cobra.Command{
		Use:   "self-update",
		Short: "Update deskshell to the latest version",
		Long: `Checks the configured GitHub repository for the latest release and
replaces the current binary if a newer version is found.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelfUpdate(cmd, repo)
		},
	}
	cmd.Flags().StringVar(&repo, "repo", "", "GitHub owner/name slug (default UPDATE_REPO)")
	return cmd
}

func runSelfUpdate(cmd *cobra.Command, repo string) error {
	if updater.IsDevVersion(version) {
		return errors.New("cannot self-update a development version")
	}
	if repo == "" {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		repo = cfg.Update.Repo
	}
	if repo == "" {
		return errors.New("no update repository configured")
	}

	u, err := updater.New(repo, version)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Current version: %s\n", version)
	fmt.Fprintln(out, "Checking for updates...")

	st, err := u.Install(cmd.Context())
	if err != nil {
		return err
	}
	if !st.Available {
		fmt.Fprintln(out, "Current version is the latest.")
		return nil
	}
	fmt.Fprintf(out, "Successfully updated to version %s\n", st.Latest)
	return nil
}
