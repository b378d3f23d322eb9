// Package app implements the desktop window manager.
//
// Manager tracks open windows, their stacking order, focus, minimize state
// and position. A single monotonic counter assigns z-indexes on creation and
// on every focus, so the highest value is always the most recently raised
// window and ties cannot occur. Operations on unknown ids are no-ops.
//
// Rendering contract:
//   - Stack: visible windows in ascending z-index (last is topmost)
//   - Taskbar: all windows, minimized included, in insertion order
//
// Example Usage:
//
//	mgr := app.NewManager(registry.Default(), app.WithCues(player))
//	win, _ := mgr.OpenApp("terminal")
//	mgr.ToggleMinimize(win.ID)
package app
