// Package tui provides a Bubble Tea terminal UI for the Arcanum runtime.
package tui

// History keeps recent input lines in a fixed-size circular buffer and
// tracks a navigation cursor for up/down recall. Consecutive duplicate
// entries collapse into one.
type History struct {
	buf    []string
	head   int // next write position
	count  int
	cursor int // offset back from the newest entry; 0 = not navigating
}

// NewHistory creates a history buffer holding at most max entries.
func NewHistory(max int) *History {
	if max < 1 {
		max = 1
	}
	return &History{buf: make([]string, max)}
}

// Push records an input line, evicting the oldest entry once full.
func (h *History) Push(line string) {
	if h.count > 0 && h.at(1) == line {
		return
	}
	h.buf[h.head] = line
	h.head = (h.head + 1) % len(h.buf)
	if h.count < len(h.buf) {
		h.count++
	}
}

// at returns the entry offset steps back from the write position;
// offset 1 is the newest entry.
func (h *History) at(offset int) string {
	idx := (h.head - offset + 2*len(h.buf)) % len(h.buf)
	return h.buf[idx]
}

// Prev steps the cursor toward older entries. Reports false when the
// history is empty.
func (h *History) Prev() (string, bool) {
	if h.count == 0 {
		return "", false
	}
	if h.cursor < h.count {
		h.cursor++
	}
	return h.at(h.cursor), true
}

// Next steps the cursor toward newer entries. Reports false once past
// the newest entry, returning the player to fresh input.
func (h *History) Next() (string, bool) {
	if h.cursor <= 1 {
		h.cursor = 0
		return "", false
	}
	h.cursor--
	return h.at(h.cursor), true
}

// ResetCursor leaves navigation mode.
func (h *History) ResetCursor() {
	h.cursor = 0
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	return h.count
}
