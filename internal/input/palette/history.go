package palette

import "sync"

// History tracks recently executed command IDs, most recent first.
type History struct {
	mu    sync.Mutex
	items []string
	limit int
}

// NewHistory creates a history holding at most limit IDs.
func NewHistory(limit int) *History {
	if limit <= 0 {
		limit = 100
	}
	return &History{limit: limit}
}

// Add moves id to the front, dropping the oldest entry when full.
func (h *History) Add(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	next := make([]string, 0, min(len(h.items)+1, h.limit))
	next = append(next, id)
	for _, item := range h.items {
		if item != id && len(next) < h.limit {
			next = append(next, item)
		}
	}
	h.items = next
}

// Position returns the recency rank of id (0 = most recent) or -1.
func (h *History) Position(id string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	for i, item := range h.items {
		if item == id {
			return i
		}
	}
	return -1
}

// Recent returns up to n IDs; n <= 0 returns all.
func (h *History) Recent(n int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if n <= 0 || n > len(h.items) {
		n = len(h.items)
	}
	return append([]string(nil), h.items[:n]...)
}

// Len returns the number of IDs held.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.items)
}
