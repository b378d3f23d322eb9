package shell

import (
	"github.com/parthos/desktop/backend/internal/shared/paths"
)

// LineKind selects how a scrollback line is rendered.
type LineKind string

const (
	LineInput  LineKind = "input"
	LineOutput LineKind = "output"
	LineError  LineKind = "error"
)

// Line is one entry of the scrollback. Path is set on input lines and holds
// the working directory at submission time.
type Line struct {
	Kind    LineKind `json:"type"`
	Content string   `json:"content"`
	Path    string   `json:"path,omitempty"`
}

// String renders the line as plain terminal text.
func (l Line) String() string {
	if l.Kind == LineInput {
		if l.Content == "" {
			return Prompt(l.Path)
		}
		return Prompt(l.Path) + " " + l.Content
	}
	return l.Content
}

// Prompt returns the prompt shown for cwd, e.g. "parth@portfolio:~/Projects$".
func Prompt(cwd string) string {
	return paths.User + "@" + Host + ":" + paths.Display(cwd) + "$"
}

func output(content string) Line { return Line{Kind: LineOutput, Content: content} }

func failure(content string) Line { return Line{Kind: LineError, Content: content} }
