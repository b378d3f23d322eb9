package desktop

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/parthos/desktop/backend/internal/domain/ai"
	"github.com/parthos/desktop/backend/internal/domain/app"
	"github.com/parthos/desktop/backend/internal/domain/registry"
	"github.com/parthos/desktop/backend/internal/domain/shell"
	"github.com/parthos/desktop/backend/internal/domain/vfs"
	"github.com/parthos/desktop/backend/internal/infrastructure/logging"
	"github.com/parthos/desktop/backend/internal/infrastructure/monitoring"
	"github.com/parthos/desktop/backend/internal/shared/types"
)

// Content kinds with live state on this side.
const (
	KindTerminal = "terminal"
	KindChat     = "chat"
	KindImage    = "image"
	KindVideo    = "video"
)

var (
	ErrNoWindow     = errors.New("window not found")
	ErrWrongContent = errors.New("window does not host this content")
)

// Option configures a Desktop.
type Option func(*Desktop)

func WithLogger(logger *zap.Logger) Option {
	return func(d *Desktop) { d.logger = logger }
}

func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(d *Desktop) { d.metrics = metrics }
}

// WithEvents registers the sink for cues, state changes and content
// changes. It is called outside every lock.
func WithEvents(fn func(Event)) Option {
	return func(d *Desktop) { d.events = fn }
}

func WithCloseDelay(delay time.Duration) Option {
	return func(d *Desktop) { d.closeDelay = &delay }
}

// WithoutJitter opens every window at the same fixed offset.
func WithoutJitter(pos types.Position) Option {
	return func(d *Desktop) {
		d.jitter = func() types.Position { return pos }
	}
}

func WithPollInterval(interval time.Duration) Option {
	return func(d *Desktop) { d.pollInterval = interval }
}

// WithClock overrides the time source of terminal sessions.
func WithClock(clock func() time.Time) Option {
	return func(d *Desktop) { d.clock = clock }
}

// Desktop is one desktop session: the app catalog, the window manager and
// the live content mounted in each window.
type Desktop struct {
	catalog *registry.Manager
	windows *app.Manager
	remote  ai.Collaborator

	events       func(Event)
	logger       *zap.Logger
	metrics      *monitoring.Metrics
	closeDelay   *time.Duration
	jitter       func() types.Position
	pollInterval time.Duration
	clock        func() time.Time
}

// New builds a desktop over catalog and plays the startup cue. A nil
// catalog means the built-in one; a nil remote disables generation.
func New(catalog *registry.Manager, remote ai.Collaborator, opts ...Option) *Desktop {
	if catalog == nil {
		catalog = registry.Default()
	}
	if remote == nil {
		remote = ai.Unavailable{}
	}

	d := &Desktop{
		catalog: catalog,
		remote:  remote,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}

	catalog.Bind(KindTerminal, d.mountTerminal)
	catalog.Bind(KindChat, d.mountChat)
	catalog.Bind(KindImage, d.mountImage)
	catalog.Bind(KindVideo, d.mountVideo)

	wmOpts := []app.Option{
		app.WithCues(app.CueFunc(d.playCue)),
		app.WithOnChange(d.stateChanged),
		app.WithLogger(d.logger),
	}
	if d.metrics != nil {
		wmOpts = append(wmOpts, app.WithMetrics(d.metrics))
	}
	if d.closeDelay != nil {
		wmOpts = append(wmOpts, app.WithCloseDelay(*d.closeDelay))
	}
	if d.jitter != nil {
		wmOpts = append(wmOpts, app.WithJitter(d.jitter))
	}
	d.windows = app.NewManager(catalog, wmOpts...)

	d.playCue(types.CueOpen)
	return d
}

// Windows returns the window manager.
func (d *Desktop) Windows() *app.Manager {
	return d.windows
}

// Catalog returns the application catalog.
func (d *Desktop) Catalog() *registry.Manager {
	return d.catalog
}

// Remote returns the generation collaborator shared by every panel.
func (d *Desktop) Remote() ai.Collaborator {
	return d.remote
}

// Close cancels pending closes and closes all mounted content.
func (d *Desktop) Close() {
	d.windows.Shutdown()
}

func (d *Desktop) Terminal(windowID string) (*shell.Session, error) {
	return contentOf[*shell.Session](d, windowID)
}

func (d *Desktop) Chat(windowID string) (*ai.ChatPanel, error) {
	return contentOf[*ai.ChatPanel](d, windowID)
}

func (d *Desktop) Image(windowID string) (*ai.ImagePanel, error) {
	return contentOf[*ai.ImagePanel](d, windowID)
}

func (d *Desktop) Video(windowID string) (*ai.VideoPanel, error) {
	return contentOf[*ai.VideoPanel](d, windowID)
}

func contentOf[T registry.Content](d *Desktop, windowID string) (T, error) {
	var zero T
	c, ok := d.windows.Content(windowID)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrNoWindow, windowID)
	}
	typed, ok := c.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %s", ErrWrongContent, windowID)
	}
	return typed, nil
}

// TaskbarItem is one taskbar button.
type TaskbarItem struct {
	WindowID  string `json:"windowId"`
	AppID     string `json:"appId"`
	Title     string `json:"title"`
	Icon      string `json:"icon"`
	Active    bool   `json:"active"`
	Minimized bool   `json:"minimized"`
}

// View is the shell chrome derived from one consistent state copy.
type View struct {
	Icons          []types.AppDescriptor  `json:"icons"`
	StartMenu      []types.AppDescriptor  `json:"startMenu"`
	StartMenuOpen  bool                   `json:"startMenuOpen"`
	Taskbar        []TaskbarItem          `json:"taskbar"`
	Stack          []types.WindowInstance `json:"stack"`
	ActiveWindowID string                 `json:"activeWindowId,omitempty"`
}

func (d *Desktop) View() View {
	return d.viewOf(d.windows.Snapshot())
}

func (d *Desktop) viewOf(state types.DesktopState) View {
	v := View{
		Icons:          d.catalog.Desktop(),
		StartMenu:      d.catalog.List(),
		StartMenuOpen:  state.IsStartMenuOpen,
		Taskbar:        make([]TaskbarItem, 0, len(state.Windows)),
		Stack:          types.VisibleStack(state.Windows),
		ActiveWindowID: state.ActiveWindowID,
	}
	for _, w := range state.Windows {
		item := TaskbarItem{
			WindowID:  w.ID,
			AppID:     w.AppID,
			Title:     w.Title,
			Active:    w.ID == state.ActiveWindowID,
			Minimized: w.IsMinimized,
		}
		if desc, ok := d.catalog.Lookup(w.AppID); ok {
			item.Icon = desc.Icon
		}
		v.Taskbar = append(v.Taskbar, item)
	}
	return v
}

// Snapshot is the full desktop: raw state, chrome and the view of every
// window with live content.
type Snapshot struct {
	State    types.DesktopState `json:"state"`
	View     View               `json:"view"`
	Contents map[string]any     `json:"contents"`
}

func (d *Desktop) Snapshot() Snapshot {
	state := d.windows.Snapshot()
	snap := Snapshot{
		State:    state,
		View:     d.viewOf(state),
		Contents: make(map[string]any, len(state.Windows)),
	}
	for _, w := range state.Windows {
		if v, ok := d.ContentView(w.ID); ok {
			snap.Contents[w.ID] = v
		}
	}
	return snap
}

// ContentView returns the rendered state of a window's live content.
// Static mini-apps have none.
func (d *Desktop) ContentView(windowID string) (any, bool) {
	c, ok := d.windows.Content(windowID)
	if !ok {
		return nil, false
	}
	switch c := c.(type) {
	case *shell.Session:
		return c.View(), true
	case *ai.ChatPanel:
		return c.View(), true
	case *ai.ImagePanel:
		return c.View(), true
	case *ai.VideoPanel:
		return c.View(), true
	}
	return nil, false
}

// Each terminal gets its own freshly seeded file tree, like a new login.
func (d *Desktop) mountTerminal(windowID string) registry.Content {
	logger := d.logger.With(logging.Window(windowID))
	opts := []shell.Option{
		shell.WithSearcher(d.remote),
		shell.WithLogger(logger),
		shell.WithOnChange(d.contentChanged(windowID)),
	}
	if d.metrics != nil {
		opts = append(opts, shell.WithMetrics(d.metrics))
	}
	if d.clock != nil {
		opts = append(opts, shell.WithClock(d.clock))
	}
	return shell.NewSession(vfs.NewDefault(vfs.WithLogger(logger)), opts...)
}

func (d *Desktop) panelOptions(windowID string) []ai.PanelOption {
	opts := []ai.PanelOption{
		ai.WithLogger(d.logger.With(logging.Window(windowID))),
		ai.WithNotify(d.contentChanged(windowID)),
	}
	if d.pollInterval > 0 {
		opts = append(opts, ai.WithPollInterval(d.pollInterval))
	}
	return opts
}

func (d *Desktop) mountChat(windowID string) registry.Content {
	panel := ai.NewChatPanel(d.remote, d.panelOptions(windowID)...)
	panel.Open()
	return panel
}

func (d *Desktop) mountImage(windowID string) registry.Content {
	return ai.NewImagePanel(d.remote, d.panelOptions(windowID)...)
}

func (d *Desktop) mountVideo(windowID string) registry.Content {
	return ai.NewVideoPanel(d.remote, d.panelOptions(windowID)...)
}
