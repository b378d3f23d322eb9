// Command parthos runs the ParthOS desktop in a terminal.
//
// Usage:
//
//	parthos [--log-file path] [--log-level warn] [--no-mouse]
//
// AI_API_KEY enables the chat, image and video panels and the
// terminal's web query. The other deskd environment settings, such as
// DESKTOP_CLOSE_DELAY and AI_POLL_INTERVAL, apply here too.
package main
