package schedule

import "sync"

// Holder shares the current table between the notification listener and the
// admin API, which may replace it at runtime.
type Holder struct {
	mu    sync.RWMutex
	table Table
}

func NewHolder(t Table) *Holder {
	h := &Holder{}
	h.Set(t)
	return h
}

// Get returns the current table. Callers must not mutate it.
func (h *Holder) Get() Table {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.table
}

// Set replaces the current table with a copy of t.
func (h *Holder) Set(t Table) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.table = t.Clone()
}
