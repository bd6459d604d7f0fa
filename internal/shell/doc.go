// Package shell is the host runtime the rest of the application runs in.
//
// It owns the windows, the command registry and a single event loop that
// plays the role of the platform main thread: tray events and other work
// posted with RunOnMain execute there, one at a time, in order.
//
// A Runtime is assembled once with a Builder:
//
//	rt, err := shell.NewBuilder().
//		WithLogger(logger).
//		Window(shell.WindowConfig{Label: "main", Title: "Desk Shell"}).
//		Provider(windowstate.New(path)).
//		Command(commands.ShowMainWindow(ctrl)).
//		OnTrayEvent(ctrl.HandleTrayEvent).
//		Build()
//
//	status := rt.Run(ctx)
//
// Providers are set up in the order given and shut down in reverse when the
// loop ends.
package shell
