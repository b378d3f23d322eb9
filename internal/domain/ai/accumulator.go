package ai

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Accumulator collects the fragments of one in-flight exchange. Fragments
// are only ever appended; once finished it rejects further input.
type Accumulator struct {
	mu        sync.Mutex
	id        string
	buf       strings.Builder
	fragments int
	done      bool
	err       error
}

func NewAccumulator() *Accumulator {
	return &Accumulator{id: uuid.NewString()}
}

// ID identifies the exchange.
func (a *Accumulator) ID() string { return a.id }

// Append adds a fragment and returns the text so far.
func (a *Accumulator) Append(fragment string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done {
		return a.buf.String(), ErrStreamFinished
	}
	if fragment != "" {
		a.buf.WriteString(fragment)
		a.fragments++
	}
	return a.buf.String(), nil
}

// Finish ends the exchange. Only the first call has effect.
func (a *Accumulator) Finish(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.done {
		return
	}
	a.done = true
	a.err = err
}

func (a *Accumulator) Text() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.buf.String()
}

func (a *Accumulator) Fragments() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.fragments
}

// Done reports whether the exchange ended and with which error.
func (a *Accumulator) Done() (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.done, a.err
}
