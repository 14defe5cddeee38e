package sdk

import "sync"

// Well-known locations of the application.
const (
	HomePath   = "/"
	LoginPath  = "/login"
	SignupPath = "/signup"
)

// NavigateMode controls how a navigation affects history.
type NavigateMode int

const (
	// Push adds a new history entry.
	Push NavigateMode = iota
	// Replace overwrites the current entry so "back" cannot return to it.
	Replace
)

// Navigator is the capability to read and change the current location.
// The Gateway and Route Guard receive one explicitly instead of touching global state.
type Navigator interface {
	Location() string
	Navigate(path string, mode NavigateMode)
}

// History is an in-memory Navigator that keeps a browser-like entry stack.
type History struct {
	mu      sync.Mutex
	entries []string
	onMove  func(path string, mode NavigateMode)
}

var _ Navigator = (*History)(nil)

// NewHistory starts a history at the given location ("/" when empty).
func NewHistory(start string) *History {
	if start == "" {
		start = HomePath
	}
	return &History{entries: []string{start}}
}

// OnNavigate registers a callback invoked after every Navigate call.
func (h *History) OnNavigate(fn func(path string, mode NavigateMode)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMove = fn
}

// Location returns the current entry.
func (h *History) Location() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.entries[len(h.entries)-1]
}

// Navigate moves to path.
func (h *History) Navigate(path string, mode NavigateMode) {
	h.mu.Lock()
	if mode == Replace {
		h.entries[len(h.entries)-1] = path
	} else {
		h.entries = append(h.entries, path)
	}
	fn := h.onMove
	h.mu.Unlock()

	if fn != nil {
		fn(path, mode)
	}
}

// Back pops the current entry and returns the new location. The first entry is never popped.
func (h *History) Back() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) > 1 {
		h.entries = h.entries[:len(h.entries)-1]
	}
	return h.entries[len(h.entries)-1]
}

// Entries returns a copy of the history stack, oldest first.
func (h *History) Entries() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
