package app

import (
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/parthos/desktop/backend/internal/domain/registry"
	"github.com/parthos/desktop/backend/internal/infrastructure/logging"
	"github.com/parthos/desktop/backend/internal/infrastructure/monitoring"
	"github.com/parthos/desktop/backend/internal/shared/id"
	"github.com/parthos/desktop/backend/internal/shared/types"
)

// DefaultCloseDelay matches the window exit animation.
const DefaultCloseDelay = 150 * time.Millisecond

// Catalog resolves app ids and builds window content.
type Catalog interface {
	Lookup(appID string) (types.AppDescriptor, bool)
	Mount(appID, windowID string) registry.Content
}

// CuePlayer plays audio cues. Playback is fire and forget.
type CuePlayer interface {
	Play(cue types.Cue)
}

// CueFunc adapts a function to CuePlayer.
type CueFunc func(types.Cue)

// Play implements CuePlayer.
func (f CueFunc) Play(cue types.Cue) { f(cue) }

// Manager owns the desktop window set: z-order, focus, minimize state,
// position and lifecycle. Every operation is applied atomically under one lock;
// cues and change notifications fire after the lock is released.
type Manager struct {
	mu            sync.RWMutex
	windows       []*types.WindowInstance // insertion order
	contents      map[string]registry.Content
	pendingClose  map[string]*time.Timer
	activeID      string
	nextZ         int
	startMenuOpen bool

	catalog    Catalog
	cues       CuePlayer
	onChange   func(types.DesktopState)
	jitter     func() types.Position
	closeDelay time.Duration
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithCues sets the cue player.
func WithCues(p CuePlayer) Option {
	return func(m *Manager) { m.cues = p }
}

// WithOnChange registers a callback receiving the state after each applied
// operation.
func WithOnChange(fn func(types.DesktopState)) Option {
	return func(m *Manager) { m.onChange = fn }
}

// WithJitter replaces the random initial offset of new windows.
func WithJitter(fn func() types.Position) Option {
	return func(m *Manager) { m.jitter = fn }
}

// WithCloseDelay sets how long RequestClose waits before removal.
func WithCloseDelay(d time.Duration) Option {
	return func(m *Manager) { m.closeDelay = d }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithMetrics adds metrics tracking to the manager
func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(m *Manager) { m.metrics = metrics }
}

// NewManager creates an empty desktop.
func NewManager(catalog Catalog, opts ...Option) *Manager {
	m := &Manager{
		contents:     make(map[string]registry.Content),
		pendingClose: make(map[string]*time.Timer),
		nextZ:        1,
		catalog:      catalog,
		cues:         CueFunc(func(types.Cue) {}),
		jitter:       RandomJitter,
		closeDelay:   DefaultCloseDelay,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// RandomJitter offsets new windows by x in [50,250) and y in [50,150).
func RandomJitter() types.Position {
	return types.Position{
		X: rand.Float64()*200 + 50,
		Y: rand.Float64()*100 + 50,
	}
}

// OpenApp focuses the visible window of appID if one exists, otherwise
// creates a new topmost window. Both paths play the open cue; focusing an
// existing window plays its focus cue after it. Unknown app ids are ignored.
func (m *Manager) OpenApp(appID string) (types.WindowInstance, bool) {
	desc, ok := m.catalog.Lookup(appID)
	if !ok {
		return types.WindowInstance{}, false
	}

	m.mu.Lock()
	for _, w := range m.windows {
		if w.AppID == appID && !w.IsMinimized {
			cue := m.focusLocked(w)
			out := *w
			m.mu.Unlock()
			m.cues.Play(types.CueOpen)
			m.after("focus", cue)
			return out, true
		}
	}

	win := &types.WindowInstance{
		ID:       id.NewWindowID().String(),
		AppID:    desc.ID,
		Title:    desc.Title,
		Position: m.jitter(),
		Size:     desc.DefaultSize,
		ZIndex:   m.nextZ,
	}
	m.windows = append(m.windows, win)
	m.activeID = win.ID
	m.nextZ++
	m.startMenuOpen = false
	out := *win
	m.mu.Unlock()

	// Mount outside the lock; factories may be slow or call back in.
	content := m.catalog.Mount(desc.ID, win.ID)
	m.mu.Lock()
	if m.indexLocked(win.ID) >= 0 {
		m.contents[win.ID] = content
		content = nil
	}
	m.mu.Unlock()
	if content != nil {
		content.Close()
	}

	m.logger.Debug("window opened", logging.Window(out.ID), logging.App(appID))
	m.after("open", types.CueOpen)
	return out, true
}

// CloseWindow removes a window. When it was active, focus passes to the
// remaining visible window with the highest z-index, or to none. Closing an
// absent id is a no-op.
func (m *Manager) CloseWindow(windowID string) bool {
	m.mu.Lock()
	idx := m.indexLocked(windowID)
	if idx < 0 {
		m.mu.Unlock()
		return false
	}

	m.windows = append(m.windows[:idx], m.windows[idx+1:]...)
	if m.activeID == windowID {
		m.activeID = m.topVisibleLocked("")
	}
	content := m.contents[windowID]
	delete(m.contents, windowID)
	if t, ok := m.pendingClose[windowID]; ok {
		t.Stop()
		delete(m.pendingClose, windowID)
	}
	m.mu.Unlock()

	if content != nil {
		content.Close()
	}
	m.logger.Debug("window closed", logging.Window(windowID))
	m.after("close", types.CueClick)
	return true
}

// RequestClose schedules CloseWindow after the close delay so an exit
// animation can play. Repeated requests for the same window are ignored.
func (m *Manager) RequestClose(windowID string) bool {
	if m.closeDelay <= 0 {
		return m.CloseWindow(windowID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.indexLocked(windowID) < 0 {
		return false
	}
	if _, pending := m.pendingClose[windowID]; pending {
		return false
	}
	m.pendingClose[windowID] = time.AfterFunc(m.closeDelay, func() {
		m.CloseWindow(windowID)
	})
	return true
}

// ToggleMinimize hides a visible window, passing focus to the topmost other
// visible window, or restores and focuses a minimized one.
func (m *Manager) ToggleMinimize(windowID string) bool {
	m.mu.Lock()
	idx := m.indexLocked(windowID)
	if idx < 0 {
		m.mu.Unlock()
		return false
	}

	w := m.windows[idx]
	if w.IsMinimized {
		cue := m.focusLocked(w)
		m.mu.Unlock()
		m.after("restore", cue)
		return true
	}

	w.IsMinimized = true
	m.activeID = m.topVisibleLocked(windowID)
	m.mu.Unlock()

	m.after("minimize", types.CueClick)
	return true
}

// FocusWindow raises a window to the top of the stack, restoring it if
// minimized, and makes it active.
func (m *Manager) FocusWindow(windowID string) bool {
	m.mu.Lock()
	idx := m.indexLocked(windowID)
	if idx < 0 {
		m.mu.Unlock()
		return false
	}
	cue := m.focusLocked(m.windows[idx])
	m.mu.Unlock()

	m.after("focus", cue)
	return true
}

// UpdateWindowPosition stores a new offset. No bounds are enforced.
func (m *Manager) UpdateWindowPosition(windowID string, pos types.Position) bool {
	m.mu.Lock()
	idx := m.indexLocked(windowID)
	if idx < 0 {
		m.mu.Unlock()
		return false
	}
	m.windows[idx].Position = pos
	m.mu.Unlock()

	m.after("move", "")
	return true
}

// ToggleStartMenu flips the start menu and returns its new state.
func (m *Manager) ToggleStartMenu() bool {
	m.mu.Lock()
	m.startMenuOpen = !m.startMenuOpen
	open := m.startMenuOpen
	m.mu.Unlock()

	m.after("start_menu", "")
	return open
}

// CloseStartMenu hides the start menu.
func (m *Manager) CloseStartMenu() {
	m.mu.Lock()
	changed := m.startMenuOpen
	m.startMenuOpen = false
	m.mu.Unlock()

	if changed {
		m.after("start_menu", "")
	}
}

// Get retrieves a window by id
func (m *Manager) Get(windowID string) (types.WindowInstance, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx := m.indexLocked(windowID)
	if idx < 0 {
		return types.WindowInstance{}, false
	}
	return *m.windows[idx], true
}

// Content returns the content mounted in a window.
func (m *Manager) Content(windowID string) (registry.Content, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.contents[windowID]
	return c, ok
}

// ActiveID returns the active window id, or "" when none is active.
func (m *Manager) ActiveID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.activeID
}

// Stack returns visible windows in ascending z-index; the last is topmost.
func (m *Manager) Stack() []types.WindowInstance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return types.VisibleStack(m.copyLocked())
}

// Taskbar returns every window, minimized included, in insertion order.
func (m *Manager) Taskbar() []types.WindowInstance {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.copyLocked()
}

// Snapshot returns a copy of the full desktop state.
func (m *Manager) Snapshot() types.DesktopState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

// Stats returns manager statistics
func (m *Manager) Stats() types.Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats := types.Stats{TotalWindows: len(m.windows), ActiveWindowID: m.activeID}
	for _, w := range m.windows {
		if w.IsMinimized {
			stats.MinimizedWindows++
		} else {
			stats.VisibleWindows++
		}
	}
	return stats
}

// Shutdown cancels pending closes and closes every mounted content.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	for wid, t := range m.pendingClose {
		t.Stop()
		delete(m.pendingClose, wid)
	}
	contents := m.contents
	m.contents = make(map[string]registry.Content)
	m.mu.Unlock()

	for _, c := range contents {
		c.Close()
	}
}

// focusLocked assigns the next z-index, clears minimized and activates w.
// It returns the cue to play. Must hold m.mu.
func (m *Manager) focusLocked(w *types.WindowInstance) types.Cue {
	cue := types.CueClick
	if w.IsMinimized {
		cue = types.CueOpen
	}
	w.ZIndex = m.nextZ
	m.nextZ++
	w.IsMinimized = false
	m.activeID = w.ID
	return cue
}

// topVisibleLocked returns the visible window with the highest z-index,
// skipping exclude. Must hold m.mu.
func (m *Manager) topVisibleLocked(exclude string) string {
	best, bestZ := "", 0
	for _, w := range m.windows {
		if w.ID == exclude || w.IsMinimized {
			continue
		}
		if best == "" || w.ZIndex > bestZ {
			best, bestZ = w.ID, w.ZIndex
		}
	}
	return best
}

func (m *Manager) indexLocked(windowID string) int {
	for i, w := range m.windows {
		if w.ID == windowID {
			return i
		}
	}
	return -1
}

func (m *Manager) copyLocked() []types.WindowInstance {
	out := make([]types.WindowInstance, len(m.windows))
	for i, w := range m.windows {
		out[i] = *w
	}
	return out
}

func (m *Manager) snapshotLocked() types.DesktopState {
	return types.DesktopState{
		Windows:         m.copyLocked(),
		ActiveWindowID:  m.activeID,
		NextZIndex:      m.nextZ,
		IsStartMenuOpen: m.startMenuOpen,
	}
}

// after runs post-operation side effects outside the lock.
func (m *Manager) after(op string, cue types.Cue) {
	if cue != "" {
		m.cues.Play(cue)
	}
	if m.metrics != nil {
		m.metrics.RecordWindowOp(op)
		m.metrics.SetWindowsOpen(m.Stats().TotalWindows)
	}
	if m.onChange != nil {
		m.onChange(m.Snapshot())
	}
}
