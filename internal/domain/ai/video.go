package ai

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
)

const videoFailure = "An error occurred during video generation. Please try again."

// ErrNoVideo is reported when an operation completes without media.
var ErrNoVideo = errors.New("Video generation finished but no video URI was returned.")

var loadingMessages = []string{
	"Warming up the quantum processors...",
	"Teaching pixels to dance...",
	"Reticulating splines...",
	"Composing a digital symphony...",
	"Unleashing creative photons...",
	"Polishing the final cut...",
}

type VideoView struct {
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspectRatio"`
	Resolution  string `json:"resolution"`
	VideoURL    string `json:"videoUrl,omitempty"`
	Error       string `json:"error,omitempty"`
	Status      string `json:"status,omitempty"`
	Polls       int    `json:"polls"`
	Loading     bool   `json:"loading"`
}

// VideoPanel is the content of a video generator window. Generation polls
// at a fixed interval until done or until the window closes.
type VideoPanel struct {
	mu     sync.Mutex
	remote VideoGenerator
	view   VideoView
	closed bool

	cfg  panelConfig
	life *lifetime
}

func NewVideoPanel(remote VideoGenerator, opts ...PanelOption) *VideoPanel {
	return &VideoPanel{
		remote: remote,
		view:   VideoView{AspectRatio: "16:9", Resolution: "720p"},
		cfg:    newPanelConfig(opts),
		life:   newLifetime(),
	}
}

func (p *VideoPanel) Generate(ctx context.Context, prompt string, params VideoParams) error {
	params, err := p.begin(prompt, params)
	if err != nil {
		return err
	}
	return p.run(ctx, prompt, params)
}

func (p *VideoPanel) Submit(prompt string, params VideoParams) error {
	params, err := p.begin(prompt, params)
	if err != nil {
		return err
	}
	p.life.goBackground(func(ctx context.Context) {
		_ = p.run(ctx, prompt, params)
	})
	return nil
}

func (p *VideoPanel) begin(prompt string, params VideoParams) (VideoParams, error) {
	params, perr := params.Normalize()

	p.mu.Lock()
	switch {
	case p.closed:
		p.mu.Unlock()
		return params, ErrClosed
	case p.view.Loading:
		p.mu.Unlock()
		return params, ErrBusy
	case strings.TrimSpace(prompt) == "":
		p.view.Error = promptMissing
		p.mu.Unlock()
		p.cfg.changed()
		return params, ErrPromptRequired
	case perr != nil:
		p.view.Error = perr.Error()
		p.mu.Unlock()
		p.cfg.changed()
		return params, perr
	}
	p.view = VideoView{
		Prompt:      prompt,
		AspectRatio: params.AspectRatio,
		Resolution:  params.Resolution,
		Status:      loadingMessages[0],
		Loading:     true,
	}
	p.mu.Unlock()
	p.cfg.changed()
	return params, nil
}

func (p *VideoPanel) run(ctx context.Context, prompt string, params VideoParams) error {
	ctx, cancel := p.life.bind(ctx)
	defer cancel()

	url, err := p.produce(ctx, prompt, params)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.view.Loading = false
	p.view.Status = ""
	if err != nil {
		p.view.Error = Detail(err)
		if p.view.Error == "" {
			p.view.Error = videoFailure
		}
	} else {
		p.view.VideoURL = url
	}
	p.mu.Unlock()
	p.cfg.changed()

	if err != nil {
		p.cfg.logger.Warn("video generation failed", zap.Error(err))
		return Fail("generate-video", err)
	}
	return nil
}

func (p *VideoPanel) produce(ctx context.Context, prompt string, params VideoParams) (string, error) {
	op, err := p.remote.StartVideo(ctx, prompt, params)
	if err != nil {
		return "", err
	}

	poller := NewPoller(p.remote, p.cfg.pollInterval, p.progress)
	op, err = poller.Wait(ctx, op)
	if err != nil {
		return "", err
	}
	if op.VideoURI == "" {
		return "", ErrNoVideo
	}
	return p.remote.FetchVideo(ctx, op)
}

func (p *VideoPanel) progress(n int, _ Operation) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.view.Polls = n
	p.view.Status = loadingMessages[n%len(loadingMessages)]
	p.mu.Unlock()
	p.cfg.changed()
}

func (p *VideoPanel) View() VideoView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// Close stops polling; a result arriving afterwards is dropped.
func (p *VideoPanel) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.life.end()
}

func (p *VideoPanel) Wait() { p.life.wait() }
