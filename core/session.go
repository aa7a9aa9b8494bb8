package core

import (
	"sync"
	"time"
)

// Session represents one automation session: mutable key/value state shared
// between the agents plus the ordered step transcript. It is safe for
// concurrent access.
//
// Contract:
//   - State and transcript mutations update the Updated timestamp
//   - GetSteps returns a defensive copy to avoid external mutation
//   - The step counter advances only through AdvanceStep, so error
//     short-circuited steps leave it untouched
//   - Clone performs deep copies of maps/slices for safe divergence.
type Session struct {
	ID       string            `json:"id"`
	Request  string            `json:"request"`
	State    map[string]any    `json:"state"`
	Steps    []StepRecord      `json:"steps"`
	Created  time.Time         `json:"created"`
	Updated  time.Time         `json:"updated"`
	Metadata map[string]string `json:"metadata"`

	step int
	cost float64
	mu   sync.RWMutex
}

// NewSession creates a new session with the given ID.
func NewSession(id string) *Session {
	now := time.Now()
	return &Session{ID: id, State: map[string]any{}, Steps: []StepRecord{}, Created: now, Updated: now, Metadata: map[string]string{}}
}

// GetState returns the value and existence flag for a state key.
func (s *Session) GetState(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.State[key]
	return v, ok
}

// SetState sets a key/value pair in session state updating the Updated timestamp.
func (s *Session) SetState(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.State[key] = value
	s.Updated = time.Now()
}

// ApplyStateDelta merges the provided key/value pairs into State.
func (s *Session) ApplyStateDelta(delta map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for k, v := range delta {
		s.State[k] = v
	}
	s.Updated = time.Now()
}

// AddStep appends a step record to the transcript updating the Updated
// timestamp.
func (s *Session) AddStep(rec StepRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Steps = append(s.Steps, rec)
	s.Updated = time.Now()
}

// GetSteps returns a defensive copy of the full transcript.
func (s *Session) GetSteps() []StepRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	steps := make([]StepRecord, len(s.Steps))
	copy(steps, s.Steps)
	return steps
}

// StepsByAgent returns the transcript entries recorded by the named agent,
// preserving order. Used for prompt history assembly.
func (s *Session) StepsByAgent(name string) []StepRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]StepRecord, 0, len(s.Steps))
	for _, rec := range s.Steps {
		if rec.Agent == name {
			res = append(res, rec)
		}
	}
	return res
}

// Step returns the session-global step counter.
func (s *Session) Step() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.step
}

// AdvanceStep increments the session-global step counter and returns the new
// value.
func (s *Session) AdvanceStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.step++
	s.Updated = time.Now()
	return s.step
}

// AddCost folds one step's model spend into the session total.
func (s *Session) AddCost(c float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cost += c
	s.Updated = time.Now()
}

// TotalCost returns the accumulated model spend for the session.
func (s *Session) TotalCost() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cost
}

// Clone returns a deep copy of the session safe for independent mutation.
func (s *Session) Clone() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	clone := &Session{
		ID:       s.ID,
		Request:  s.Request,
		State:    make(map[string]any, len(s.State)),
		Steps:    make([]StepRecord, len(s.Steps)),
		Created:  s.Created,
		Updated:  s.Updated,
		Metadata: make(map[string]string, len(s.Metadata)),
		step:     s.step,
		cost:     s.cost,
	}
	for k, v := range s.State {
		clone.State[k] = v
	}
	copy(clone.Steps, s.Steps)
	for k, v := range s.Metadata {
		clone.Metadata[k] = v
	}
	return clone
}

// SessionStore persists sessions and their evolving state / step transcript.
type SessionStore interface {
	Create(id string) (*Session, error)
	Get(id string) (*Session, error)
	AppendStep(sessionID string, rec StepRecord) error
	ApplyDelta(sessionID string, delta map[string]any) error
}
