// Package config provides 12-factor configuration management for the desktop backend.
//
// Configuration is loaded from environment variables with defaults, then an
// optional TOML file (DESKD_CONFIG) is overlaid. CLI flags override both.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host)
//   - AI: remote generation service (key, models, retries, polling)
//   - Desktop: close animation delay, window jitter
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST
//   - AI_API_KEY, AI_BASE_URL, AI_TEXT_MODEL, AI_IMAGE_MODEL, AI_VIDEO_MODEL
//   - AI_TIMEOUT, AI_RPS, AI_MAX_RETRIES, AI_POLL_INTERVAL
//   - DESKTOP_CLOSE_DELAY, DESKTOP_JITTER
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
