package memory

import (
	"sync"

	"github.com/hupe1980/uipilot/core"
)

// Memory is an append-only, optionally bounded list of step records. When a
// positive limit is configured the oldest entries are dropped as new ones
// arrive, keeping at most limit records. Safe for concurrent use; all reads
// return defensive copies.
type Memory struct {
	mu    sync.RWMutex
	items []core.StepRecord
	limit int
}

// NewMemory creates a working memory. A limit <= 0 means unbounded.
func NewMemory(limit int) *Memory {
	return &Memory{limit: limit}
}

// Add appends a step record, evicting the oldest entry when the configured
// limit would be exceeded.
func (m *Memory) Add(rec core.StepRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, rec)
	if m.limit > 0 && len(m.items) > m.limit {
		m.items = append(m.items[:0:0], m.items[len(m.items)-m.limit:]...)
	}
}

// Recent returns up to n records counted from the end, oldest first. n <= 0
// returns all retained records.
func (m *Memory) Recent(n int) []core.StepRecord {
	m.mu.RLock()
	defer m.mu.RUnlock()
	start := 0
	if n > 0 && len(m.items) > n {
		start = len(m.items) - n
	}
	out := make([]core.StepRecord, len(m.items)-start)
	copy(out, m.items[start:])
	return out
}

// All returns a copy of every retained record, oldest first.
func (m *Memory) All() []core.StepRecord {
	return m.Recent(0)
}

// Last returns the most recent record, if any.
func (m *Memory) Last() (core.StepRecord, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if len(m.items) == 0 {
		return core.StepRecord{}, false
	}
	return m.items[len(m.items)-1], true
}

// Len returns the number of retained records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Clear drops all retained records.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = nil
}
