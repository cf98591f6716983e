package viewport

const (
	// MaxSteps bounds the in-memory history length.
	MaxSteps = 100
	// SavedSteps bounds the persisted history length.
	SavedSteps = 10
)

// History is a bounded sequence of viewports with a cursor. It always
// holds at least one entry (possibly invalid) so Current never fails.
type History struct {
	entries []Viewport
	cursor  int
}

func NewHistory() *History {
	return &History{entries: []Viewport{Invalid()}}
}

func (h *History) Len() int    { return len(h.entries) }
func (h *History) Cursor() int { return h.cursor }

func (h *History) Current() Viewport { return h.entries[h.cursor] }

// SetCurrent overwrites the entry at the cursor without growing the
// history. Used when the page does not change.
func (h *History) SetCurrent(v Viewport) { h.entries[h.cursor] = v }

// Push truncates the forward entries, appends v and moves the cursor to
// it. The head is dropped once MaxSteps is reached.
func (h *History) Push(v Viewport) {
	h.entries = h.entries[:h.cursor+1]
	if len(h.entries) >= MaxSteps {
		h.entries = h.entries[1:]
	}
	h.entries = append(h.entries, v)
	h.cursor = len(h.entries) - 1
}

// Back moves the cursor one step toward the oldest entry. Reports whether
// it moved.
func (h *History) Back() bool {
	if h.cursor == 0 {
		return false
	}
	h.cursor--
	return true
}

// Forward moves the cursor one step toward the newest entry. Reports
// whether it moved.
func (h *History) Forward() bool {
	if h.cursor >= len(h.entries)-1 {
		return false
	}
	h.cursor++
	return true
}

// Recent returns at most SavedSteps entries ending at the cursor, oldest
// first. The last returned entry is the current viewport.
func (h *History) Recent() []Viewport {
	start := h.cursor - (SavedSteps - 1)
	if start < 0 {
		start = 0
	}
	out := make([]Viewport, h.cursor-start+1)
	copy(out, h.entries[start:h.cursor+1])
	return out
}

// Restore replaces the history with persisted entries; the cursor lands
// on the last entry. An empty slice resets to a single invalid viewport.
func (h *History) Restore(entries []Viewport) {
	if len(entries) == 0 {
		h.entries = []Viewport{Invalid()}
		h.cursor = 0
		return
	}
	h.entries = append([]Viewport(nil), entries...)
	h.cursor = len(h.entries) - 1
}
