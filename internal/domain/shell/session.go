package shell

import (
	"context"
	"html"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/parthos/desktop/backend/internal/domain/ai"
	"github.com/parthos/desktop/backend/internal/domain/vfs"
	"github.com/parthos/desktop/backend/internal/infrastructure/logging"
	"github.com/parthos/desktop/backend/internal/infrastructure/monitoring"
	"github.com/parthos/desktop/backend/internal/shared/id"
	"github.com/parthos/desktop/backend/internal/shared/paths"
)

const webQueryFailure = "Error fetching response from AI."

// View is a copy of the session state for rendering.
type View struct {
	ID           string  `json:"id"`
	Cwd          string  `json:"cwd"`
	Prompt       string  `json:"prompt"`
	Lines        []Line  `json:"lines"`
	Input        string  `json:"input"`
	HistoryIndex int     `json:"historyIndex"`
	Busy         bool    `json:"busy"`
	Editor       *Editor `json:"editor,omitempty"`
}

// Option configures a Session.
type Option func(*Session)

// WithSearcher sets the collaborator used by "parth getfromweb".
func WithSearcher(searcher ai.WebSearcher) Option {
	return func(s *Session) { s.searcher = searcher }
}

// WithClock overrides the time source used by "date".
func WithClock(clock func() time.Time) Option {
	return func(s *Session) { s.clock = clock }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

func WithMetrics(metrics *monitoring.Metrics) Option {
	return func(s *Session) { s.metrics = metrics }
}

// WithOnChange registers a callback run, unlocked, after every state change.
func WithOnChange(fn func()) Option {
	return func(s *Session) { s.onChange = fn }
}

// Session is one terminal: working directory, scrollback, history and the
// nano editor. Commands run one at a time; only the web query suspends.
type Session struct {
	mu      sync.Mutex
	id      id.SessionID
	tree    *vfs.Tree
	cwd     string
	lines   []Line
	input   string
	history *History
	editor  *Editor
	busy    bool
	closed  bool

	searcher ai.WebSearcher
	policy   *bluemonday.Policy
	clock    func() time.Time
	logger   *zap.Logger
	metrics  *monitoring.Metrics
	onChange func()
}

// NewSession opens a terminal on tree, starting in the home directory.
func NewSession(tree *vfs.Tree, opts ...Option) *Session {
	s := &Session{
		id:      id.NewSessionID(),
		tree:    tree,
		cwd:     paths.Home,
		lines:   []Line{output(Welcome)},
		history: NewHistory(),
		policy:  bluemonday.StrictPolicy(),
		clock:   time.Now,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string { return s.id.String() }

// Submit runs one input line. Command failures become error lines; the
// returned error only reports that the line was not accepted.
func (s *Session) Submit(ctx context.Context, input string) error {
	s.mu.Lock()
	switch {
	case s.closed:
		s.mu.Unlock()
		return ErrClosed
	case s.busy:
		s.mu.Unlock()
		return ErrBusy
	case s.editor != nil:
		s.mu.Unlock()
		return ErrEditing
	}

	s.settleCwdLocked()
	command := strings.TrimSpace(input)
	s.lines = append(s.lines, Line{Kind: LineInput, Content: command, Path: s.cwd})
	s.input = ""
	s.history.Reset()
	if command == "" {
		s.mu.Unlock()
		s.changed()
		return nil
	}
	s.history.Push(command)

	fields := strings.Fields(command)
	name, args := fields[0], fields[1:]
	run, known := builtins[name]
	var res result
	if known {
		res = run(s, args)
	} else {
		res = fail("command not found: " + name)
	}

	if res.query == "" {
		s.applyLocked(res)
		s.mu.Unlock()
		s.record(name, known, res.failed())
		s.changed()
		return nil
	}

	s.busy = true
	searcher := s.searcher
	s.mu.Unlock()
	s.changed()

	lines := s.search(ctx, searcher, res.query)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.busy = false
	s.lines = append(s.lines, lines...)
	s.mu.Unlock()
	s.record(name, known, len(lines) > 0 && lines[0].Kind == LineError)
	s.changed()
	return nil
}

func (s *Session) applyLocked(res result) {
	if res.clear {
		s.lines = nil
		return
	}
	if res.cwd != "" {
		s.cwd = res.cwd
	}
	if res.edit != nil {
		s.editor = res.edit
	}
	s.lines = append(s.lines, res.lines...)
	s.settleCwdLocked()
}

// settleCwdLocked moves cwd up to its nearest surviving directory once a
// removal has taken it away. Trees can be shared, so Submit settles too.
func (s *Session) settleCwdLocked() {
	if cwd := s.tree.NearestDir(s.cwd); cwd != s.cwd {
		s.logger.Debug("working directory removed", logging.Path(s.cwd), zap.String("cwd", cwd))
		s.cwd = cwd
	}
}

// search forwards prompt to the web searcher and formats the answer with
// its cited sources. Markup is stripped from everything remote.
func (s *Session) search(ctx context.Context, searcher ai.WebSearcher, prompt string) []Line {
	if searcher == nil {
		return []Line{failure(ai.ErrUnavailable.Error())}
	}

	answer, err := searcher.SearchWeb(ctx, prompt)
	if err != nil {
		s.logger.Warn("web query failed", logging.Session(s.ID()), zap.Error(err))
		detail := ai.Detail(err)
		if detail == "" {
			detail = webQueryFailure
		}
		return []Line{failure(detail)}
	}

	text := s.plain(answer.Text)
	var sources []string
	for _, src := range answer.Sources {
		if src.URI == "" {
			continue
		}
		title := s.plain(src.Title)
		if title == "" {
			title = "Source"
		}
		sources = append(sources, "["+title+"] "+src.URI)
	}
	if len(sources) > 0 {
		text += "\n\nSources:\n" + strings.Join(sources, "\n")
	}
	if text == "" {
		return nil
	}
	return []Line{output(text)}
}

func (s *Session) plain(text string) string {
	return html.UnescapeString(s.policy.Sanitize(text))
}

// HistoryUp recalls an older command into the input. It reports false when
// already at the oldest entry.
func (s *Session) HistoryUp() (string, bool) {
	s.mu.Lock()
	cmd, ok := s.history.Up()
	if ok {
		s.input = cmd
	}
	input := s.input
	s.mu.Unlock()
	if ok {
		s.changed()
	}
	return input, ok
}

// HistoryDown recalls a newer command, clearing the input past the newest.
func (s *Session) HistoryDown() string {
	s.mu.Lock()
	s.input = s.history.Down()
	input := s.input
	s.mu.Unlock()
	s.changed()
	return input
}

// SaveEditor writes content to the file open in nano.
func (s *Session) SaveEditor(content string) error {
	s.mu.Lock()
	if s.editor == nil {
		s.mu.Unlock()
		return ErrNotEditing
	}
	ed := s.editor
	err := s.tree.WriteFile(ed.resolved, paths.Root, content)
	if err != nil {
		ed.Status = err.Error()
	} else {
		ed.Content = content
		ed.Status = savedStatus(ed.Path)
	}
	s.mu.Unlock()

	if err != nil {
		s.logger.Debug("editor save failed", logging.Path(ed.resolved), zap.Error(err))
	}
	s.changed()
	return err
}

// ExitEditor closes nano and returns to the prompt.
func (s *Session) ExitEditor() error {
	s.mu.Lock()
	if s.editor == nil {
		s.mu.Unlock()
		return ErrNotEditing
	}
	s.editor = nil
	s.mu.Unlock()
	s.changed()
	return nil
}

// Cwd returns the working directory.
func (s *Session) Cwd() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cwd
}

func (s *Session) History() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.history.Entries()
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:           s.ID(),
		Cwd:          s.cwd,
		Prompt:       Prompt(s.cwd),
		Lines:        append([]Line{}, s.lines...),
		Input:        s.input,
		HistoryIndex: s.history.Index(),
		Busy:         s.busy,
	}
	if s.editor != nil {
		ed := *s.editor
		v.Editor = &ed
	}
	return v
}

// Close ends the session. A pending web answer is discarded.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Session) changed() {
	if s.onChange != nil {
		s.onChange()
	}
}

func (s *Session) record(name string, known, failed bool) {
	if s.metrics == nil {
		return
	}
	if !known {
		name = "unknown"
	}
	outcome := "ok"
	if failed {
		outcome = "error"
	}
	s.metrics.RecordCommand(name, outcome)
}
