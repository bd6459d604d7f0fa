// Package window reveals the main application window.
//
// The controller never holds a window. It asks a Resolver for the window
// labelled "main" each time, so a window destroyed and recreated by the
// runtime is picked up without rewiring.
//
// Two entry points share the same reveal logic:
//   - the show_main_window command from the UI
//   - a left click on the tray icon
//
// Hiding is not handled here; the runtime or the UI decides when the
// window goes away.
package window
