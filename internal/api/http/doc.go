// Package http exposes the desktop over REST.
//
// Routes fall in four groups:
//   - desktop shell: chrome, snapshot, app catalog, start menu
//   - windows: focus, minimize, move, deferred close, content views
//   - terminal and generation panels mounted in windows
//   - the generation gateway under /ai
//
// Failures answer {"error": ..., "details": ...}; upstream generation
// failures map to 502, an unconfigured or tripped collaborator to 503.
package http
