// Package id provides identifier generation for the desktop backend.
//
// Identifiers are ULIDs with a short type prefix:
//   - Lexicographic sortability: window ids sort by creation time
//   - Prefixed types: win_*, term_*, req_*, op_* are readable in logs
//   - Type safety: separate string types prevent mixing windows and sessions
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// WindowID identifies an open desktop window.
type WindowID string

// SessionID identifies a terminal session mounted in a window.
type SessionID string

// RequestID identifies an API request or trace span.
type RequestID string

// ExchangeID identifies one in-flight collaborator exchange.
type ExchangeID string

const (
	WindowPrefix   = "win"
	SessionPrefix  = "term"
	RequestPrefix  = "req"
	ExchangePrefix = "op"
)

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the process-wide generator.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator backed by crypto/rand with monotonic entropy,
// so ids minted within the same millisecond still sort in creation order.
func NewGenerator() *Generator {
	return &Generator{
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string.
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewWindowID generates a new window ID.
func NewWindowID() WindowID {
	return WindowID(Default().GenerateWithPrefix(WindowPrefix))
}

// NewSessionID generates a new terminal session ID.
func NewSessionID() SessionID {
	return SessionID(Default().GenerateWithPrefix(SessionPrefix))
}

// NewRequestID generates a new request ID.
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// NewExchangeID generates a new collaborator exchange ID.
func NewExchangeID() ExchangeID {
	return ExchangeID(Default().GenerateWithPrefix(ExchangePrefix))
}

func (id WindowID) String() string   { return string(id) }
func (id SessionID) String() string  { return string(id) }
func (id RequestID) String() string  { return string(id) }
func (id ExchangeID) String() string { return string(id) }

// IsValid checks if an ID string is a valid ULID.
func IsValid(id string) bool {
	_, err := ulid.Parse(id)
	return err == nil
}

// Split separates a prefixed id into its prefix and ULID parts.
func Split(prefixed string) (prefix string, raw string, ok bool) {
	prefix, raw, ok = strings.Cut(prefixed, "_")
	if !ok || !IsValid(raw) {
		return "", "", false
	}
	return prefix, raw, true
}

// Timestamp extracts the creation time from a plain or prefixed id.
func Timestamp(id string) (time.Time, error) {
	raw := id
	if _, r, ok := Split(id); ok {
		raw = r
	}
	parsed, err := ulid.Parse(raw)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
