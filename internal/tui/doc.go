// Package tui draws the desktop in a terminal with bubbletea.
//
// The screen is a teal desktop with the app icons in columns, the open
// windows painted bottom to top and a taskbar on the last row. Desktop
// pixels map to cells at 8x16, so window sizes and drag offsets are the
// same numbers the web desktop uses.
//
// Keys:
//
//	arrows, enter   pick and open a desktop icon (desktop focus)
//	ctrl+o          start menu
//	tab             next window
//	esc             back to the desktop
//	ctrl+n          minimize the active window
//	ctrl+w          close the active window
//	ctrl+c          quit
//
// Terminal windows take typed lines and up/down history. A nano session
// takes over the screen until ^X; ^S saves. With the mouse, title bars
// drag, [_] and [x] minimize and close, and taskbar entries focus.
package tui
