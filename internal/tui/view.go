package tui

import (
	"fmt"
	"strings"

	"github.com/parthos/desktop/backend/internal/domain/ai"
	"github.com/parthos/desktop/backend/internal/domain/desktop"
	"github.com/parthos/desktop/backend/internal/domain/shell"
	"github.com/parthos/desktop/backend/internal/shared/types"
)

// styledLine is one body row before wrapping.
type styledLine struct {
	text  string
	style styleKey
}

func (m *Model) View() string {
	if m.editing != "" {
		return m.editorView()
	}

	view := m.d.View()
	c := newCanvas(m.width, m.height, sDesktop)
	m.drawIcons(c, view.Icons)
	for _, w := range view.Stack {
		m.drawWindow(c, w, w.ID == view.ActiveWindowID)
	}
	if view.StartMenuOpen {
		m.drawMenu(c, view.StartMenu)
	}
	m.drawTaskbar(c, view.Taskbar)
	return c.render(m.styles)
}

func (m *Model) editorView() string {
	term, err := m.d.Terminal(m.editing)
	if err != nil {
		return ""
	}
	ed := term.View().Editor
	if ed == nil {
		return ""
	}
	status := ed.Status
	if m.status != "" {
		status = m.status
	}
	header := editorHeader.Width(m.width).Render(ed.Title())
	return strings.Join([]string{
		header,
		m.editor.View(),
		editorStatus.Render(status),
		editorHelp.Render("^S Save  ^X Exit"),
	}, "\n")
}

func (m *Model) drawIcons(c *canvas, icons []types.AppDescriptor) {
	for i, r := range iconRects(len(icons), m.height-1) {
		style := sIcon
		if m.focus == focusDesktop && i == m.icon {
			style = sIconSelected
		}
		label := string(glyph(icons[i].Icon)) + " " + icons[i].Title
		c.text(r.x, r.y, truncate(label, r.w), style, r.w)
	}
}

func (m *Model) drawWindow(c *canvas, w types.WindowInstance, active bool) {
	pos := w.Position
	if m.drag != nil && m.drag.WindowID() == w.ID {
		pos = m.drag.Position()
	}
	r := windowRect(w, pos)

	border, title := sBorder, sTitle
	if active {
		border, title = sBorderActive, sTitleActive
	}
	c.fill(r, sBody)
	for y := r.y + 1; y < r.y+r.h-1; y++ {
		c.set(r.x, y, '│', border)
		c.set(r.x+r.w-1, y, '│', border)
	}
	bottom := r.y + r.h - 1
	c.set(r.x, bottom, '└', border)
	c.set(r.x+r.w-1, bottom, '┘', border)
	for x := r.x + 1; x < r.x+r.w-1; x++ {
		c.set(x, bottom, '─', border)
	}

	c.fill(rect{x: r.x, y: r.y, w: r.w, h: 1}, title)
	c.text(r.x+1, r.y, truncate(string(glyph(m.iconOf(w.AppID)))+" "+w.Title, r.w-9), title, r.w-9)
	minBtn, closeBtn := r.minimizeButton(), r.closeButton()
	c.text(minBtn.x, minBtn.y, "[_]", title, 3)
	c.text(closeBtn.x, closeBtn.y, "[x]", title, 3)

	m.drawBody(c, r.inner(), w, active)
}

func (m *Model) iconOf(appID string) string {
	if desc, ok := m.d.Catalog().Lookup(appID); ok {
		return desc.Icon
	}
	return ""
}

func (m *Model) drawBody(c *canvas, in rect, w types.WindowInstance, active bool) {
	if in.w <= 0 || in.h <= 0 {
		return
	}
	input := ""
	if active && m.focus == focusWindow {
		input = m.inputWithCursor()
	}

	content, _ := m.d.ContentView(w.ID)
	var lines []styledLine
	fill := sBody
	switch v := content.(type) {
	case shell.View:
		fill = sConsole
		lines = terminalLines(v, input)
	case ai.ChatView:
		lines = chatLines(v, input)
	case ai.ImageView:
		lines = imageLines(v, input)
	case ai.VideoView:
		lines = videoLines(v, input)
	default:
		lines = []styledLine{
			{text: w.Title, style: sBody},
			{},
			{text: "This app runs in the web desktop.", style: sMuted},
		}
	}

	c.fill(in, fill)
	var rows []styledLine
	for _, l := range lines {
		for _, part := range wrap(l.text, in.w) {
			rows = append(rows, styledLine{text: part, style: l.style})
		}
	}
	// Conversation panes keep their newest rows in view.
	if len(rows) > in.h {
		rows = rows[len(rows)-in.h:]
	}
	for i, row := range rows {
		c.text(in.x, in.y+i, row.text, row.style, in.w)
	}
}

func (m *Model) inputWithCursor() string {
	r := []rune(m.input.Value())
	pos := min(m.input.Position(), len(r))
	return string(r[:pos]) + "█" + string(r[pos:])
}

func terminalLines(v shell.View, input string) []styledLine {
	out := make([]styledLine, 0, len(v.Lines)+1)
	for _, l := range v.Lines {
		style := sConsole
		switch l.Kind {
		case shell.LineError:
			style = sConsoleError
		case shell.LineInput:
			style = sConsoleInput
		}
		out = append(out, styledLine{text: l.String(), style: style})
	}
	if !v.Busy {
		out = append(out, styledLine{text: v.Prompt + " " + input, style: sConsoleInput})
	}
	return out
}

func chatLines(v ai.ChatView, input string) []styledLine {
	var out []styledLine
	for _, msg := range v.Messages {
		who := "AI: "
		if msg.Role == ai.RoleUser {
			who = "You: "
		}
		text := msg.Text
		if msg.Pending && text == "" {
			text = "…"
		}
		out = append(out, styledLine{text: who + text, style: sBody}, styledLine{})
	}
	if v.Loading {
		out = append(out, styledLine{text: "AI is typing...", style: sMuted})
	}
	return append(out, styledLine{text: "> " + input, style: sBody})
}

func imageLines(v ai.ImageView, input string) []styledLine {
	out := []styledLine{{text: "Describe an image and press Enter.", style: sMuted}}
	if v.Prompt != "" {
		out = append(out, styledLine{text: "Prompt: " + v.Prompt, style: sBody})
	}
	switch {
	case v.Loading:
		out = append(out, styledLine{text: "Generating...", style: sMuted})
	case v.Error != "":
		out = append(out, styledLine{text: v.Error, style: sError})
	case v.ImageURL != "":
		out = append(out, styledLine{text: fmt.Sprintf("Image ready (%d bytes encoded).", len(v.ImageURL)), style: sBody})
	}
	return append(out, styledLine{}, styledLine{text: "> " + input, style: sBody})
}

func videoLines(v ai.VideoView, input string) []styledLine {
	out := []styledLine{{text: "Aspect " + v.AspectRatio + "  Resolution " + v.Resolution, style: sMuted}}
	if v.Prompt != "" {
		out = append(out, styledLine{text: "Prompt: " + v.Prompt, style: sBody})
	}
	switch {
	case v.Loading:
		out = append(out, styledLine{text: v.Status, style: sMuted})
	case v.Error != "":
		out = append(out, styledLine{text: v.Error, style: sError})
	case v.VideoURL != "":
		out = append(out, styledLine{text: "Video ready: " + v.VideoURL, style: sBody})
	}
	return append(out, styledLine{}, styledLine{text: "> " + input, style: sBody})
}

func (m *Model) drawMenu(c *canvas, entries []types.AppDescriptor) {
	r := menuRect(len(entries), m.height)
	c.fill(r, sMenu)
	for x := r.x; x < r.x+r.w; x++ {
		c.set(x, r.y, '─', sMenu)
		c.set(x, r.y+r.h-1, '─', sMenu)
	}
	in := r.inner()
	for i, e := range entries {
		style := sMenu
		if i == m.menu {
			style = sMenuSelected
			c.fill(rect{x: in.x, y: in.y + i, w: in.w, h: 1}, style)
		}
		c.text(in.x+1, in.y+i, string(glyph(e.Icon))+" "+e.Title, style, in.w-1)
	}
}

func (m *Model) drawTaskbar(c *canvas, items []desktop.TaskbarItem) {
	y := m.height - 1
	c.fill(rect{x: 0, y: y, w: m.width, h: 1}, sTaskbar)
	c.text(0, y, startLabel, sStart, m.width)

	end := startButton(m.height).w + 1
	for _, span := range taskbarSpans(items, m.width, m.height) {
		style := sTaskItem
		switch {
		case span.item.Active:
			style = sTaskItemActive
		case span.item.Minimized:
			style = sTaskItemMinimized
		}
		c.fill(span.rect, style)
		label := string(glyph(span.item.Icon)) + " " + span.item.Title
		c.text(span.x+1, y, truncate(label, span.w-2), style, span.w-2)
		end = span.x + span.w + 1
	}

	tray := m.status
	if tray == "" && m.cue != "" {
		tray = "♪ " + string(m.cue)
	}
	if tray == "" {
		return
	}
	width := len([]rune(tray))
	if x := m.width - width - 1; x >= end {
		c.text(x, y, tray, sTaskbar, width)
	}
}
