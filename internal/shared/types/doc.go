// Package types provides shared data structures for the desktop backend.
//
// Core Types:
//   - WindowInstance: one open application window
//   - DesktopState: snapshot of windows, focus, z counter and start menu
//   - AppDescriptor: catalog record (title, icon, default size)
//   - Cue: audio cue names emitted by window operations
//
// Window geometry uses Position (float offsets) and Size (fixed at creation).
package types
