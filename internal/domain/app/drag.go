package app

import "github.com/parthos/desktop/backend/internal/shared/types"

// Drag tracks one pointer-driven move of a window's title bar. The window's
// stored position changes only when the drag ends.
type Drag struct {
	mgr      *Manager
	windowID string
	offset   types.Position
	position types.Position
	moved    bool
	done     bool
}

// BeginDrag focuses the window and captures the pointer offset from its
// current position. It returns false for unknown windows.
func (m *Manager) BeginDrag(windowID string, pointer types.Position) (*Drag, bool) {
	if !m.FocusWindow(windowID) {
		return nil, false
	}
	w, ok := m.Get(windowID)
	if !ok {
		return nil, false
	}
	return &Drag{
		mgr:      m,
		windowID: windowID,
		offset:   types.Position{X: pointer.X - w.Position.X, Y: pointer.Y - w.Position.Y},
		position: w.Position,
	}, true
}

// Move updates the live position to pointer minus the captured offset.
func (d *Drag) Move(pointer types.Position) types.Position {
	if d.done {
		return d.position
	}
	d.position = types.Position{X: pointer.X - d.offset.X, Y: pointer.Y - d.offset.Y}
	d.moved = true
	return d.position
}

// Position returns the live position shown while dragging.
func (d *Drag) Position() types.Position {
	return d.position
}

// WindowID returns the dragged window id
func (d *Drag) WindowID() string {
	return d.windowID
}

// End commits the final position once. Nothing is committed when the pointer
// never moved or the drag already ended.
func (d *Drag) End() bool {
	if d.done {
		return false
	}
	d.done = true
	if !d.moved {
		return false
	}
	return d.mgr.UpdateWindowPosition(d.windowID, d.position)
}
