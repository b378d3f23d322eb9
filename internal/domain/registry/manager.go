package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/parthos/desktop/backend/internal/shared/types"
)

var (
	ErrDuplicateApp = errors.New("app already registered")
	ErrInvalidApp   = errors.New("invalid app descriptor")
)

// Content is whatever an application mounts inside its window frame. The
// window manager only ever closes it.
type Content interface {
	Close()
}

// Factory builds the content for a newly created window.
type Factory func(windowID string) Content

// StaticContent is the content of self-contained mini-apps that keep all of
// their state client side.
type StaticContent struct{}

// Close implements Content.
func (StaticContent) Close() {}

// Manager maps app ids to descriptors and content kinds to factories.
type Manager struct {
	mu        sync.RWMutex
	apps      map[string]types.AppDescriptor
	order     []string
	factories map[string]Factory
}

// NewManager creates an empty catalog
func NewManager() *Manager {
	return &Manager{
		apps:      make(map[string]types.AppDescriptor),
		factories: make(map[string]Factory),
	}
}

// Register adds an application descriptor.
func (m *Manager) Register(desc types.AppDescriptor) error {
	if desc.ID == "" || desc.DefaultSize.Width <= 0 || desc.DefaultSize.Height <= 0 {
		return fmt.Errorf("%w: %q", ErrInvalidApp, desc.ID)
	}
	if desc.Title == "" {
		desc.Title = desc.ID
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.apps[desc.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateApp, desc.ID)
	}
	m.apps[desc.ID] = desc
	m.order = append(m.order, desc.ID)
	return nil
}

// Bind installs the factory used for every app of the given content kind.
func (m *Manager) Bind(kind string, factory Factory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.factories[kind] = factory
}

// Lookup retrieves an app descriptor by id
func (m *Manager) Lookup(appID string) (types.AppDescriptor, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	desc, ok := m.apps[appID]
	return desc, ok
}

// List returns every registered app in registration order.
func (m *Manager) List() []types.AppDescriptor {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.AppDescriptor, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.apps[id])
	}
	return out
}

// Desktop returns the apps shown as desktop icons.
func (m *Manager) Desktop() []types.AppDescriptor {
	var out []types.AppDescriptor
	for _, desc := range m.List() {
		if desc.Desktop {
			out = append(out, desc)
		}
	}
	return out
}

// Mount builds content for a window of appID. Apps whose content kind has no
// bound factory get StaticContent.
func (m *Manager) Mount(appID, windowID string) Content {
	m.mu.RLock()
	desc, ok := m.apps[appID]
	factory := m.factories[desc.Content]
	m.mu.RUnlock()

	if !ok || factory == nil {
		return StaticContent{}
	}
	return factory(windowID)
}

// Len returns the number of registered apps
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.apps)
}
