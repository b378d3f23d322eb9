package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/parthos/desktop/backend/internal/domain/ai"
	"github.com/parthos/desktop/backend/internal/domain/app"
	"github.com/parthos/desktop/backend/internal/domain/desktop"
	"github.com/parthos/desktop/backend/internal/domain/shell"
	"github.com/parthos/desktop/backend/internal/shared/types"
	"github.com/parthos/desktop/backend/internal/shared/utils"
)

// eventMsg carries one desktop event into the update loop.
type eventMsg desktop.Event

// submitDoneMsg reports a finished terminal line.
type submitDoneMsg struct {
	windowID string
	err      error
}

type focusArea int

const (
	focusWindow focusArea = iota
	focusDesktop
)

// Option configures a Model.
type Option func(*Model)

func WithLogger(logger *zap.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

func WithStyles(styles Styles) Option {
	return func(m *Model) { m.styles = styles }
}

// WithContext bounds terminal web queries.
func WithContext(ctx context.Context) Option {
	return func(m *Model) { m.ctx = ctx }
}

// Model is the full-screen desktop. Keyboard input goes to the active
// window unless the desktop has focus; the mouse drives icons, the start
// menu, the taskbar and the title bars.
type Model struct {
	d      *desktop.Desktop
	events <-chan desktop.Event
	styles Styles
	logger *zap.Logger
	ctx    context.Context

	width, height int
	focus         focusArea
	icon          int
	menu          int
	lastActive    string

	input   textinput.Model
	editor  textarea.Model
	editing string

	drag   *app.Drag
	cue    types.Cue
	status string
}

// New builds the model. events is the desktop's event stream; nil disables
// live updates.
func New(d *desktop.Desktop, events <-chan desktop.Event, opts ...Option) *Model {
	input := textinput.New()
	input.Prompt = ""
	input.CharLimit = utils.MaxCommandLength
	input.Focus()

	editor := textarea.New()
	editor.ShowLineNumbers = false
	editor.CharLimit = 0
	editor.MaxHeight = 0

	m := &Model{
		d:      d,
		events: events,
		styles: DefaultStyles(),
		logger: zap.NewNop(),
		ctx:    context.Background(),
		width:  100,
		height: 30,
		focus:  focusDesktop,
		input:  input,
		editor: editor,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.resize(m.width, m.height)
	return m
}

func (m *Model) Init() tea.Cmd {
	return m.waitEvent()
}

func (m *Model) waitEvent() tea.Cmd {
	if m.events == nil {
		return nil
	}
	events := m.events
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return nil
		}
		return eventMsg(ev)
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
	case eventMsg:
		if msg.Type == desktop.EventCue {
			m.cue = msg.Cue
		}
		cmd = m.waitEvent()
	case submitDoneMsg:
		if msg.err != nil {
			m.status = ai.Detail(msg.err)
			m.logger.Debug("terminal line rejected", zap.String("window_id", msg.windowID), zap.Error(msg.err))
		}
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	m.sync()
	return m, cmd
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	m.editor.SetWidth(w)
	m.editor.SetHeight(max(h-3, 1))
}

// sync follows focus changes made by clicks, closes and desktop events.
func (m *Model) sync() {
	active := m.d.Windows().ActiveID()
	if active != m.lastActive {
		m.lastActive = active
		m.input.Reset()
		m.status = ""
		if active != "" {
			m.focus = focusWindow
		}
	}

	var ed *shell.Editor
	if term, err := m.d.Terminal(active); err == nil {
		ed = term.View().Editor
	}
	switch {
	case ed == nil && m.editing != "":
		m.leaveEditor()
	case ed != nil && m.editing != active:
		m.editing = active
		m.editor.SetValue(ed.Content)
		m.editor.Focus()
	}
}

func (m *Model) leaveEditor() {
	m.editing = ""
	m.editor.Blur()
	m.editor.Reset()
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if m.editing != "" {
		return m.editorKey(msg)
	}

	wm := m.d.Windows()
	if wm.Snapshot().IsStartMenuOpen {
		m.menuKey(msg)
		return nil
	}

	switch msg.String() {
	case "ctrl+o":
		wm.ToggleStartMenu()
		m.menu = 0
		return nil
	case "tab":
		m.cycle()
		return nil
	case "esc":
		m.focus = focusDesktop
		return nil
	case "ctrl+w":
		if id := wm.ActiveID(); id != "" {
			wm.RequestClose(id)
		}
		return nil
	case "ctrl+n":
		if id := wm.ActiveID(); id != "" {
			wm.ToggleMinimize(id)
		}
		return nil
	}

	if m.focus == focusDesktop || wm.ActiveID() == "" {
		m.desktopKey(msg)
		return nil
	}
	return m.windowKey(msg)
}

// cycle focuses the next taskbar window, restoring it if minimized.
func (m *Model) cycle() {
	wm := m.d.Windows()
	windows := wm.Taskbar()
	if len(windows) == 0 {
		return
	}
	next := 0
	for i, w := range windows {
		if w.ID == wm.ActiveID() {
			next = (i + 1) % len(windows)
		}
	}
	wm.FocusWindow(windows[next].ID)
	m.focus = focusWindow
}

func (m *Model) menuKey(msg tea.KeyMsg) {
	wm := m.d.Windows()
	entries := m.d.Catalog().List()
	switch msg.String() {
	case "up", "k":
		m.menu = (m.menu - 1 + len(entries)) % len(entries)
	case "down", "j":
		m.menu = (m.menu + 1) % len(entries)
	case "enter":
		wm.OpenApp(entries[m.menu].ID)
	case "esc", "ctrl+o":
		wm.CloseStartMenu()
	}
}

func (m *Model) desktopKey(msg tea.KeyMsg) {
	icons := m.d.Catalog().Desktop()
	if len(icons) == 0 {
		return
	}
	perColumn := max((m.height-3)/2, 1)
	switch msg.String() {
	case "up", "k":
		m.icon--
	case "down", "j":
		m.icon++
	case "left", "h":
		m.icon -= perColumn
	case "right", "l":
		m.icon += perColumn
	case "enter":
		if _, ok := m.d.Windows().OpenApp(icons[m.icon].ID); ok {
			m.focus = focusWindow
		}
	}
	m.icon = min(max(m.icon, 0), len(icons)-1)
}

func (m *Model) windowKey(msg tea.KeyMsg) tea.Cmd {
	id := m.d.Windows().ActiveID()
	content, _ := m.d.Windows().Content(id)

	switch c := content.(type) {
	case *shell.Session:
		switch msg.String() {
		case "enter":
			line := m.input.Value()
			if err := utils.ValidateCommand(line); err != nil {
				m.status = err.Error()
				return nil
			}
			m.input.Reset()
			return m.submit(id, c, line)
		case "up":
			if in, ok := c.HistoryUp(); ok {
				m.input.SetValue(in)
				m.input.CursorEnd()
			}
			return nil
		case "down":
			m.input.SetValue(c.HistoryDown())
			m.input.CursorEnd()
			return nil
		}
	case *ai.ChatPanel:
		if msg.String() == "enter" {
			m.accept(c.Post(m.input.Value()))
			return nil
		}
	case *ai.ImagePanel:
		if msg.String() == "enter" {
			m.accept(c.Submit(m.input.Value()))
			return nil
		}
	case *ai.VideoPanel:
		if msg.String() == "enter" {
			m.accept(c.Submit(m.input.Value(), ai.VideoParams{}))
			return nil
		}
	default:
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// accept clears the input once a panel took it.
func (m *Model) accept(err error) {
	if err != nil {
		m.status = ai.Detail(err)
		return
	}
	m.status = ""
	m.input.Reset()
}

// submit runs a terminal line off the update loop; web queries block until
// the answer arrives.
func (m *Model) submit(id string, term *shell.Session, line string) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return submitDoneMsg{windowID: id, err: term.Submit(ctx, line)}
	}
}

func (m *Model) editorKey(msg tea.KeyMsg) tea.Cmd {
	term, err := m.d.Terminal(m.editing)
	if err != nil {
		m.leaveEditor()
		return nil
	}
	switch msg.String() {
	case "ctrl+s":
		if err := term.SaveEditor(m.editor.Value()); err != nil {
			m.status = err.Error()
		}
		return nil
	case "ctrl+x":
		_ = term.ExitEditor()
		m.leaveEditor()
		return nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return cmd
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && m.editing == "" {
			m.press(msg.X, msg.Y)
		}
	case tea.MouseActionMotion:
		if m.drag != nil {
			m.drag.Move(toPixels(msg.X, msg.Y))
		}
	case tea.MouseActionRelease:
		if m.drag != nil {
			m.drag.End()
			m.drag = nil
		}
	}
}

// press hit-tests from the top: taskbar, start menu, windows (topmost
// first), then desktop icons.
func (m *Model) press(x, y int) {
	wm := m.d.Windows()
	view := m.d.View()

	if startButton(m.height).contains(x, y) {
		wm.ToggleStartMenu()
		m.menu = 0
		return
	}
	for _, span := range taskbarSpans(view.Taskbar, m.width, m.height) {
		if span.contains(x, y) {
			wm.FocusWindow(span.item.WindowID)
			m.focus = focusWindow
			return
		}
	}
	if view.StartMenuOpen {
		r := menuRect(len(view.StartMenu), m.height)
		if in := r.inner(); in.contains(x, y) {
			wm.OpenApp(view.StartMenu[y-in.y].ID)
			return
		}
		wm.CloseStartMenu()
		if r.contains(x, y) {
			return
		}
	}

	for i := len(view.Stack) - 1; i >= 0; i-- {
		w := view.Stack[i]
		r := windowRect(w, w.Position)
		if !r.contains(x, y) {
			continue
		}
		m.focus = focusWindow
		switch {
		case r.closeButton().contains(x, y):
			wm.RequestClose(w.ID)
		case r.minimizeButton().contains(x, y):
			wm.ToggleMinimize(w.ID)
		case y == r.y:
			m.drag, _ = wm.BeginDrag(w.ID, toPixels(x, y))
		default:
			wm.FocusWindow(w.ID)
		}
		return
	}

	for i, r := range iconRects(len(view.Icons), m.height-1) {
		if r.contains(x, y) {
			m.icon = i
			wm.OpenApp(view.Icons[i].ID)
			return
		}
	}
	m.focus = focusDesktop
}
