package ws

import (
	"sync"

	"go.uber.org/zap"

	"github.com/parthos/desktop/backend/internal/domain/desktop"
)

const subscriberBuffer = 64

// subscriber receives the desktop events accepted by filter.
type subscriber struct {
	events chan desktop.Event
	filter func(desktop.Event) bool
}

// Hub fans desktop events out to connected sockets. Publish never blocks:
// a subscriber whose buffer is full loses the event.
type Hub struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	closed bool
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		subs:   make(map[*subscriber]struct{}),
		logger: logger,
	}
}

// Publish is the desktop's event sink.
func (h *Hub) Publish(ev desktop.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		if s.filter != nil && !s.filter(ev) {
			continue
		}
		select {
		case s.events <- ev:
		default:
			h.logger.Debug("dropping event for slow subscriber", zap.String("type", string(ev.Type)))
		}
	}
}

// Subscribe registers a listener. The returned cancel func unregisters it
// and closes the channel.
func (h *Hub) Subscribe(filter func(desktop.Event) bool) (<-chan desktop.Event, func()) {
	s := &subscriber{
		events: make(chan desktop.Event, subscriberBuffer),
		filter: filter,
	}

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(s.events)
		return s.events, func() {}
	}
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return s.events, func() {
		once.Do(func() {
			h.mu.Lock()
			if _, ok := h.subs[s]; ok {
				delete(h.subs, s)
				close(s.events)
			}
			h.mu.Unlock()
		})
	}
}

// Len returns the number of subscribers.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Close ends every subscription. Later subscriptions receive a closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for s := range h.subs {
		close(s.events)
		delete(h.subs, s)
	}
}

// ForWindow accepts content events of one window.
func ForWindow(windowID string) func(desktop.Event) bool {
	return func(ev desktop.Event) bool {
		return ev.Type == desktop.EventContent && ev.WindowID == windowID
	}
}
