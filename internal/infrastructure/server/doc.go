// Package server assembles the desktop backend: logging, metrics, tracing,
// the generation client, the desktop session and the HTTP and WebSocket
// routes behind the shared middleware chain.
package server
