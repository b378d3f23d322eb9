// Package logging provides structured logging using uber/zap.
//
// Two modes are offered:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// The terminal client uses TUIConfig so log output never lands on the
// screen it draws. Field helpers (Window, App, Session, Path) keep key names
// consistent across the window manager, the file tree and the shell.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Info("Server starting", zap.String("port", "8000"))
//	logger.Error("Failed to connect", zap.Error(err))
package logging
