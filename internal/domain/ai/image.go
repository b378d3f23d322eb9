package ai

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const (
	promptMissing = "Please enter a prompt."
	imageFailure  = "An error occurred during image generation. Please try again."
)

type ImageView struct {
	Prompt   string `json:"prompt"`
	ImageURL string `json:"imageUrl,omitempty"`
	Error    string `json:"error,omitempty"`
	Loading  bool   `json:"loading"`
}

// ImagePanel is the content of an image generator window.
type ImagePanel struct {
	mu     sync.Mutex
	remote ImageGenerator
	view   ImageView
	closed bool

	cfg  panelConfig
	life *lifetime
}

func NewImagePanel(remote ImageGenerator, opts ...PanelOption) *ImagePanel {
	return &ImagePanel{remote: remote, cfg: newPanelConfig(opts), life: newLifetime()}
}

// Generate produces one image for prompt and returns when it is shown.
func (p *ImagePanel) Generate(ctx context.Context, prompt string) error {
	if err := p.begin(prompt); err != nil {
		return err
	}
	return p.run(ctx, prompt)
}

// Submit starts a generation in the background.
func (p *ImagePanel) Submit(prompt string) error {
	if err := p.begin(prompt); err != nil {
		return err
	}
	p.life.goBackground(func(ctx context.Context) {
		_ = p.run(ctx, prompt)
	})
	return nil
}

func (p *ImagePanel) begin(prompt string) error {
	p.mu.Lock()
	switch {
	case p.closed:
		p.mu.Unlock()
		return ErrClosed
	case p.view.Loading:
		p.mu.Unlock()
		return ErrBusy
	case strings.TrimSpace(prompt) == "":
		p.view.Error = promptMissing
		p.mu.Unlock()
		p.cfg.changed()
		return ErrPromptRequired
	}
	p.view = ImageView{Prompt: prompt, Loading: true}
	p.mu.Unlock()
	p.cfg.changed()
	return nil
}

func (p *ImagePanel) run(ctx context.Context, prompt string) error {
	ctx, cancel := p.life.bind(ctx)
	defer cancel()
	url, err := p.remote.GenerateImage(ctx, prompt)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.view.Loading = false
	if err != nil {
		p.view.Error = Detail(err)
		if p.view.Error == "" {
			p.view.Error = imageFailure
		}
	} else {
		p.view.ImageURL = url
	}
	p.mu.Unlock()
	p.cfg.changed()

	if err != nil {
		p.cfg.logger.Warn("image generation failed", zap.Error(err))
		return Fail("generate-image", err)
	}
	return nil
}

func (p *ImagePanel) View() ImageView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

func (p *ImagePanel) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.life.end()
}

func (p *ImagePanel) Wait() { p.life.wait() }
