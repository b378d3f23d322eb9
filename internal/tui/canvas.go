package tui

import "strings"

type cell struct {
	r rune
	s styleKey
}

// canvas is a grid of styled cells. Later draws cover earlier ones, so the
// window stack is painted bottom to top.
type canvas struct {
	w, h  int
	cells []cell
}

func newCanvas(w, h int, fill styleKey) *canvas {
	c := &canvas{w: w, h: h, cells: make([]cell, w*h)}
	for i := range c.cells {
		c.cells[i] = cell{r: ' ', s: fill}
	}
	return c
}

func (c *canvas) set(x, y int, r rune, s styleKey) {
	if x < 0 || y < 0 || x >= c.w || y >= c.h {
		return
	}
	c.cells[y*c.w+x] = cell{r: r, s: s}
}

func (c *canvas) fill(r rect, s styleKey) {
	for y := r.y; y < r.y+r.h; y++ {
		for x := r.x; x < r.x+r.w; x++ {
			c.set(x, y, ' ', s)
		}
	}
}

// text writes s from (x, y), at most limit columns. It returns the columns used.
func (c *canvas) text(x, y int, s string, style styleKey, limit int) int {
	n := 0
	for _, r := range s {
		if n >= limit {
			break
		}
		if r == '\t' {
			r = ' '
		}
		c.set(x+n, y, r, style)
		n++
	}
	return n
}

// render groups each row into runs of equal style.
func (c *canvas) render(styles Styles) string {
	var b strings.Builder
	var run []rune
	for y := 0; y < c.h; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := c.cells[y*c.w : (y+1)*c.w]
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && row[x].s == row[start].s {
				continue
			}
			run = run[:0]
			for _, cl := range row[start:x] {
				run = append(run, cl.r)
			}
			b.WriteString(styles[row[start].s].Render(string(run)))
			start = x
		}
	}
	return b.String()
}
