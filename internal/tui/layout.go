package tui

import (
	"math"

	"github.com/parthos/desktop/backend/internal/domain/desktop"
	"github.com/parthos/desktop/backend/internal/shared/types"
)

// One terminal cell stands for cellW x cellH desktop pixels.
const (
	cellW = 8
	cellH = 16
)

const (
	iconWidth     = 20
	startLabel    = " ▦ Start "
	taskItemWidth = 20
	menuWidth     = 30
	minWindowW    = 18
	minWindowH    = 4
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

func (r rect) inner() rect {
	return rect{x: r.x + 1, y: r.y + 1, w: r.w - 2, h: r.h - 2}
}

// Title bar buttons sit at the right end of the top border.
func (r rect) minimizeButton() rect { return rect{x: r.x + r.w - 7, y: r.y, w: 3, h: 1} }
func (r rect) closeButton() rect    { return rect{x: r.x + r.w - 4, y: r.y, w: 3, h: 1} }

func toCells(pos types.Position) (int, int) {
	return int(math.Floor(pos.X / cellW)), int(math.Floor(pos.Y / cellH))
}

func toPixels(x, y int) types.Position {
	return types.Position{X: float64(x * cellW), Y: float64(y * cellH)}
}

func windowRect(w types.WindowInstance, pos types.Position) rect {
	x, y := toCells(pos)
	return rect{
		x: x,
		y: y,
		w: max(w.Size.Width/cellW, minWindowW),
		h: max(w.Size.Height/cellH, minWindowH),
	}
}

// iconRects lays the desktop icons out in columns from the top left.
func iconRects(n, height int) []rect {
	perColumn := max((height-2)/2, 1)
	out := make([]rect, n)
	for i := range out {
		out[i] = rect{
			x: 1 + (i/perColumn)*iconWidth,
			y: 1 + (i%perColumn)*2,
			w: iconWidth - 2,
			h: 1,
		}
	}
	return out
}

func startButton(height int) rect {
	return rect{x: 0, y: height - 1, w: len([]rune(startLabel)), h: 1}
}

type taskSpan struct {
	rect
	item desktop.TaskbarItem
}

func taskbarSpans(items []desktop.TaskbarItem, width, height int) []taskSpan {
	x := startButton(height).w + 1
	out := make([]taskSpan, 0, len(items))
	for _, it := range items {
		if x+taskItemWidth > width {
			break
		}
		out = append(out, taskSpan{rect: rect{x: x, y: height - 1, w: taskItemWidth, h: 1}, item: it})
		x += taskItemWidth + 1
	}
	return out
}

func menuRect(entries, height int) rect {
	h := entries + 2
	return rect{x: 0, y: max(height-1-h, 0), w: menuWidth, h: h}
}

// wrap hard-wraps s to width columns, keeping explicit line breaks.
func wrap(s string, width int) []string {
	if width <= 0 {
		return nil
	}
	var out []string
	line := make([]rune, 0, width)
	for _, r := range s {
		if r == '\n' {
			out = append(out, string(line))
			line = line[:0]
			continue
		}
		if len(line) == width {
			out = append(out, string(line))
			line = line[:0]
		}
		line = append(line, r)
	}
	return append(out, string(line))
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
