// Command deskshell runs the native side of the desktop shell.
//
// Usage:
//
//	deskshell [flags]            start the shell (default)
//	deskshell version            print the version
//	deskshell self-update        install the newest GitHub release
//
// Flags override the environment, which overrides the optional TOML
// manifest:
//
//	--manifest deskshell.toml
//	--log-level debug
//	--port 1420
//	--dev
//	--show
//
// A failure while composing the application is printed to stderr and the
// process exits with status 1.
package main
