package session

import (
	"sync"

	"github.com/hupe1980/uipilot/core"
)

// InMemoryStore is a volatile SessionStore keeping sessions in a process
// local map. It is safe for concurrent access and best suited for tests and
// single run sessions. Get returns a clone so callers cannot mutate the
// canonical session behind the store's back; mutations flow back through
// AppendStep and ApplyDelta.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*core.Session
}

// NewInMemoryStore constructs an empty in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{sessions: make(map[string]*core.Session)}
}

// Create forces the creation (or overwriting) of a session with the given id.
func (s *InMemoryStore) Create(id string) (*core.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(id).Clone(), nil
}

// Get returns a clone of an existing session, creating one lazily when the
// id is unknown.
func (s *InMemoryStore) Get(id string) (*core.Session, error) {
	s.mu.RLock()
	if sess, ok := s.sessions[id]; ok {
		defer s.mu.RUnlock()
		return sess.Clone(), nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess.Clone(), nil
	}
	return s.createLocked(id).Clone(), nil
}

// AppendStep adds a step record to the transcript of an existing or newly
// created session.
func (s *InMemoryStore) AppendStep(sessionID string, rec core.StepRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = s.createLocked(sessionID)
	}
	sess.AddStep(rec)
	return nil
}

// ApplyDelta merges a key/value delta into the session state.
func (s *InMemoryStore) ApplyDelta(sessionID string, delta map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		sess = s.createLocked(sessionID)
	}
	sess.ApplyStateDelta(delta)
	return nil
}

// createLocked allocates and stores a new session; the caller must hold the
// write lock.
func (s *InMemoryStore) createLocked(id string) *core.Session {
	sess := core.NewSession(id)
	s.sessions[id] = sess
	return sess
}
