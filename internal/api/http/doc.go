// Package http implements the gin handlers of the IPC bridge: command
// invocation, command listing, health, UI log intake and the debug tray
// endpoint.
package http
