package types

import "sort"

// Position is a window's screen offset. Values may be negative or exceed the
// viewport; windows can be dragged partially or fully off-screen.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size represents window dimensions
type Size struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// WindowInstance is one open application window.
type WindowInstance struct {
	ID          string   `json:"id"`
	AppID       string   `json:"appId"`
	Title       string   `json:"title"`
	Position    Position `json:"position"`
	Size        Size     `json:"size"`
	IsMinimized bool     `json:"isMinimized"`
	ZIndex      int      `json:"zIndex"`
}

// Visible reports whether the window belongs to the rendered stack.
func (w WindowInstance) Visible() bool {
	return !w.IsMinimized
}

// VisibleStack returns the non-minimized windows in ascending z-index, the
// order they are drawn in. The last one is topmost.
func VisibleStack(windows []WindowInstance) []WindowInstance {
	out := make([]WindowInstance, 0, len(windows))
	for _, w := range windows {
		if w.Visible() {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex < out[j].ZIndex })
	return out
}

// DesktopState is a point-in-time copy of the window manager state.
type DesktopState struct {
	Windows         []WindowInstance `json:"windows"`
	ActiveWindowID  string           `json:"activeWindowId,omitempty"`
	NextZIndex      int              `json:"nextZIndex"`
	IsStartMenuOpen bool             `json:"isStartMenuOpen"`
}

// Stats contains window manager statistics
type Stats struct {
	TotalWindows     int    `json:"total_windows"`
	VisibleWindows   int    `json:"visible_windows"`
	MinimizedWindows int    `json:"minimized_windows"`
	ActiveWindowID   string `json:"active_window_id,omitempty"`
}
