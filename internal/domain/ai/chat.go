package ai

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	chatConnectFailure   = "Sorry, I am having trouble connecting right now."
	chatStreamFailure    = "Oops, something went wrong."
	chatGreetingFallback = "Welcome."
)

// ChatService is what a chat window needs from the collaborator.
type ChatService interface {
	Chatter
	TextGenerator
}

type ChatMessage struct {
	ID      string `json:"id"`
	Role    Role   `json:"role"`
	Text    string `json:"text"`
	Pending bool   `json:"pending,omitempty"`
}

type ChatView struct {
	Messages []ChatMessage `json:"messages"`
	Loading  bool          `json:"loading"`
}

// ChatPanel is the content of a chat window. At most one exchange is in
// flight; replies stream into a single pending message.
type ChatPanel struct {
	mu       sync.Mutex
	remote   ChatService
	system   string
	history  []Message
	messages []ChatMessage
	loading  bool
	closed   bool

	cfg  panelConfig
	life *lifetime
}

type exchange struct {
	acc *Accumulator
	req ChatRequest
}

func NewChatPanel(remote ChatService, opts ...PanelOption) *ChatPanel {
	return &ChatPanel{
		remote: remote,
		system: SystemInstruction(),
		cfg:    newPanelConfig(opts),
		life:   newLifetime(),
	}
}

// Open requests the greeting in the background.
func (p *ChatPanel) Open() {
	p.life.goBackground(func(ctx context.Context) {
		_ = p.Greet(ctx)
	})
}

// Greet asks the collaborator to introduce itself. The prompt stays out of
// the visible transcript.
func (p *ChatPanel) Greet(ctx context.Context) error {
	p.mu.Lock()
	if err := p.admitLocked(); err != nil {
		p.mu.Unlock()
		return err
	}
	p.loading = true
	p.mu.Unlock()
	p.cfg.changed()

	ctx, cancel := p.life.bind(ctx)
	defer cancel()
	text, err := p.remote.GenerateText(ctx, GreetingPrompt, p.system)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.loading = false
	if err != nil {
		p.messages = append(p.messages, ChatMessage{ID: uuid.NewString(), Role: RoleModel, Text: chatConnectFailure})
		p.mu.Unlock()
		p.cfg.changed()
		p.cfg.logger.Warn("chat greeting failed", zap.Error(err))
		return Fail("chat", err)
	}
	if text == "" {
		text = chatGreetingFallback
	}
	p.history = append(p.history,
		Message{Role: RoleUser, Text: GreetingPrompt},
		Message{Role: RoleModel, Text: text},
	)
	p.messages = append(p.messages, ChatMessage{ID: uuid.NewString(), Role: RoleModel, Text: text})
	p.mu.Unlock()
	p.cfg.changed()
	return nil
}

// Send streams a reply to text and returns when the stream ends.
func (p *ChatPanel) Send(ctx context.Context, text string) error {
	ex, err := p.begin(text)
	if err != nil {
		return err
	}
	return p.stream(ctx, ex)
}

// Post starts an exchange and streams it in the background.
func (p *ChatPanel) Post(text string) error {
	ex, err := p.begin(text)
	if err != nil {
		return err
	}
	p.life.goBackground(func(ctx context.Context) {
		_ = p.stream(ctx, ex)
	})
	return nil
}

func (p *ChatPanel) admitLocked() error {
	if p.closed {
		return ErrClosed
	}
	if p.loading {
		return ErrBusy
	}
	return nil
}

func (p *ChatPanel) begin(text string) (exchange, error) {
	if strings.TrimSpace(text) == "" {
		return exchange{}, ErrPromptRequired
	}

	p.mu.Lock()
	if err := p.admitLocked(); err != nil {
		p.mu.Unlock()
		return exchange{}, err
	}
	ex := exchange{
		acc: NewAccumulator(),
		req: ChatRequest{
			SystemInstruction: p.system,
			History:           append([]Message(nil), p.history...),
			Message:           text,
		},
	}
	p.messages = append(p.messages,
		ChatMessage{ID: uuid.NewString(), Role: RoleUser, Text: text},
		ChatMessage{ID: ex.acc.ID(), Role: RoleModel, Pending: true},
	)
	p.loading = true
	p.mu.Unlock()
	p.cfg.changed()
	return ex, nil
}

func (p *ChatPanel) stream(ctx context.Context, ex exchange) error {
	ctx, cancel := p.life.bind(ctx)
	defer cancel()

	err := p.remote.StreamChat(ctx, ex.req, func(fragment string) error {
		text, err := ex.acc.Append(fragment)
		if err != nil {
			return err
		}
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return ErrClosed
		}
		if m := p.findLocked(ex.acc.ID()); m != nil {
			m.Text = text
		}
		p.mu.Unlock()
		p.cfg.changed()
		return nil
	})
	ex.acc.Finish(err)

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrClosed
	}
	p.loading = false
	reply := ex.acc.Text()

	if err != nil {
		if reply == "" {
			p.removeLocked(ex.acc.ID())
		} else if m := p.findLocked(ex.acc.ID()); m != nil {
			m.Pending = false
		}
		p.messages = append(p.messages, ChatMessage{ID: uuid.NewString(), Role: RoleModel, Text: chatStreamFailure})
		p.mu.Unlock()
		p.cfg.changed()
		p.cfg.logger.Warn("chat stream failed", zap.Error(err), zap.String("exchange_id", ex.acc.ID()))
		return Fail("chat", err)
	}

	if m := p.findLocked(ex.acc.ID()); m != nil {
		m.Text = reply
		m.Pending = false
	}
	p.history = append(p.history,
		Message{Role: RoleUser, Text: ex.req.Message},
		Message{Role: RoleModel, Text: reply},
	)
	p.mu.Unlock()
	p.cfg.changed()
	return nil
}

func (p *ChatPanel) findLocked(id string) *ChatMessage {
	for i := len(p.messages) - 1; i >= 0; i-- {
		if p.messages[i].ID == id {
			return &p.messages[i]
		}
	}
	return nil
}

func (p *ChatPanel) removeLocked(id string) {
	for i := range p.messages {
		if p.messages[i].ID == id {
			p.messages = append(p.messages[:i], p.messages[i+1:]...)
			return
		}
	}
}

// View returns a copy of the visible transcript.
func (p *ChatPanel) View() ChatView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return ChatView{
		Messages: append([]ChatMessage{}, p.messages...),
		Loading:  p.loading,
	}
}

// Close abandons any in-flight exchange; late fragments are dropped.
func (p *ChatPanel) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.life.end()
}

// Wait blocks until background exchanges return.
func (p *ChatPanel) Wait() { p.life.wait() }
