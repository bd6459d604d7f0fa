// Package server composes the application: platform paths, the log sinks
// and severity gate, the logging façade, the shell runtime with its
// providers and commands, and the HTTP/WebSocket bridge.
//
// Composition is ordered and all-or-nothing. New either returns a fully
// wired Server or an error with everything it opened released again.
package server
