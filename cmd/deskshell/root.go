package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Exit codes for the CLI.
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

// exitError carries a requested exit code without printing anything.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

type runFlags struct {
	manifest string
	logLevel string
	port     string
	dev      bool
	show     bool
}

func newRootCmd() *cobra.Command {
	flags := &runFlags{}
	root := &cobra.Command{
		Use:   "deskshell",
		Short: "Run the desktop shell",
		Long: `deskshell hosts the main window and tray, fans application logs out to
stdout, a rotating log file and the UI, and serves the IPC bridge the UI
talks to.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd, flags)
		},
	}
	root.SetVersionTemplate(`{{printf "deskshell version %s\n" .Version}}`)

	f := root.Flags()
	f.StringVar(&flags.manifest, "manifest", "", "path to a TOML product manifest")
	f.StringVar(&flags.logLevel, "log-level", "", "initial log level (trace, debug, info, warn, error)")
	f.StringVar(&flags.port, "port", "", "IPC server port")
	f.BoolVar(&flags.dev, "dev", false, "human-readable console logs and debug router")
	f.BoolVar(&flags.show, "show", false, "show the main window at startup")

	root.AddCommand(newVersionCmd(), newSelfUpdateCmd())
	return root
}

// execute runs the CLI and maps the outcome to a process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return ExitCodeSuccess
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(stderr, "deskshell: %v\n", err)
	return ExitCodeError
}
