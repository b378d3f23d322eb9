package ai

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PanelOption configures a panel.
type PanelOption func(*panelConfig)

type panelConfig struct {
	logger       *zap.Logger
	notify       func()
	pollInterval time.Duration
}

// WithLogger sets the panel logger.
func WithLogger(logger *zap.Logger) PanelOption {
	return func(c *panelConfig) { c.logger = logger }
}

// WithNotify registers a callback run after every visible state change.
// It runs outside the panel lock.
func WithNotify(fn func()) PanelOption {
	return func(c *panelConfig) { c.notify = fn }
}

// WithPollInterval overrides the video status interval.
func WithPollInterval(d time.Duration) PanelOption {
	return func(c *panelConfig) { c.pollInterval = d }
}

func newPanelConfig(opts []PanelOption) panelConfig {
	cfg := panelConfig{logger: zap.NewNop(), pollInterval: DefaultPollInterval}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func (c panelConfig) changed() {
	if c.notify != nil {
		c.notify()
	}
}

// lifetime is cancelled when the hosting window closes.
type lifetime struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func newLifetime() *lifetime {
	ctx, cancel := context.WithCancel(context.Background())
	return &lifetime{ctx: ctx, cancel: cancel}
}

// bind derives a context that ends with either parent or the window.
func (l *lifetime) bind(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

// goBackground runs fn on the window's context.
func (l *lifetime) goBackground(fn func(ctx context.Context)) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		fn(l.ctx)
	}()
}

func (l *lifetime) end() {
	l.cancel()
}

// Wait blocks until background work finished. Tests use it.
func (l *lifetime) wait() {
	l.wg.Wait()
}
