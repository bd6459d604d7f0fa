// Package config provides 12-factor configuration management for the shell.
//
// Configuration is loaded from environment variables with sensible defaults.
// An optional TOML manifest describes the product (identifier, name, window)
// and fills whatever the environment leaves unset. CLI flags override both.
//
// Configuration Sections:
//   - App: identifier, product name, version
//   - Server: IPC server address
//   - Logging: level, format, log file rotation, enabled sinks
//   - Window: main window label, title, size, initial visibility
//   - Update: GitHub release source for self-update
//   - RateLimit: per-client rate limiting
//   - Debug: development-only endpoints
//
// Example Usage:
//
//	cfg, err := config.LoadWithManifest("deskshell.toml")
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("Listening on %s\n", cfg.Server.Addr())
//
// Environment Variables:
//   - APP_IDENTIFIER, APP_NAME, APP_VERSION
//   - PORT, HOST
//   - LOG_LEVEL, LOG_DEV, LOG_DIR, LOG_FILE, LOG_MAX_SIZE_MB, LOG_MAX_BACKUPS,
//     LOG_MAX_AGE_DAYS, LOG_COMPRESS, LOG_STDOUT, LOG_UI
//   - WINDOW_LABEL, WINDOW_TITLE, WINDOW_WIDTH, WINDOW_HEIGHT, WINDOW_VISIBLE,
//     WINDOW_STATE_FILE
//   - UPDATE_REPO
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - TRAY_DEBUG_ENDPOINT
package config
