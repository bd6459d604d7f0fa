// Package commands holds the named operations the UI can invoke.
//
// Every command has a definition (name, category, parameters) and an
// Execute method taking a JSON-shaped argument map. The Registry looks
// commands up by name and turns failures into a Result whose error text
// is safe to show to the user.
//
// Core commands:
//   - set_log_level, get_log_level, read_logs, clear_logs
//   - show_main_window
//
// Providers register further commands during shell setup.
package commands
