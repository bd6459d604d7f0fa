// Package logging provides the process-wide structured logger.
//
// Records pass through one severity gate and are then fanned out to every
// registered sink:
//   - stdout: console output in development, JSON otherwise
//   - directory: JSON lines in a rotating file (lumberjack)
//   - ui: JSON frames pushed to connected clients over the IPC websocket
//
// Levels, lowest first: trace, debug, info, warn, error. The gate can be
// changed at runtime with Logger.SetLevel and takes effect for the next
// record on every goroutine.
//
// A sink that fails does not affect the others. The failure goes to stderr
// and to the Observer, never back to the code that logged.
//
// Example Usage:
//
//	gate, _ := logging.NewGate(logging.InfoLevel)
//	registry, _ := logging.NewRegistry(logging.NewStdoutSink(nil, true))
//	logger := logging.New(gate, registry)
//	logger.Info("Shell starting", zap.String("version", version))
//	_ = logger.SetLevel(logging.DebugLevel)
package logging
