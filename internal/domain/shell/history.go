package shell

// History is the recall list, most recent first. Index -1 means the user
// is not navigating.
type History struct {
	entries []string
	index   int
}

func NewHistory() *History {
	return &History{index: -1}
}

// Push records a submitted command unless it repeats the most recent one.
func (h *History) Push(cmd string) {
	if len(h.entries) > 0 && h.entries[0] == cmd {
		return
	}
	h.entries = append([]string{cmd}, h.entries...)
}

// Reset leaves navigation mode.
func (h *History) Reset() {
	h.index = -1
}

// Up moves to an older entry. At the oldest entry it stays put and reports false.
func (h *History) Up() (string, bool) {
	if h.index < len(h.entries)-1 {
		h.index++
		return h.entries[h.index], true
	}
	return "", false
}

// Down moves to a newer entry. Stepping past the newest clears the input.
func (h *History) Down() string {
	if h.index > 0 {
		h.index--
		return h.entries[h.index]
	}
	h.index = -1
	return ""
}

func (h *History) Index() int { return h.index }

func (h *History) Len() int { return len(h.entries) }

// Entries returns a copy, most recent first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}
