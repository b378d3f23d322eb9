// Package main is the entry point for the ParthOS desktop backend.
//
// Usage:
//
//	# Production mode
//	deskd serve --port 8000
//
//	# Development mode (colored logs, debug level)
//	deskd serve --dev
//
//	# With a config file
//	deskd serve --config deskd.toml
//
// Configuration precedence: defaults, environment, TOML file, flags.
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
