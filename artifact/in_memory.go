package artifact

import (
	"sort"
	"sync"
)

// InMemoryStore keeps artifacts in a process local map keyed by session and
// artifact id. Bytes are copied on Save and Get so callers can never mutate
// stored data through a retained slice. Suitable for tests and short demo
// sessions; use FileStore when screenshots should outlive the process.
type InMemoryStore struct {
	mu        sync.RWMutex
	artifacts map[string]map[string][]byte // sessionID -> artifactID -> data
}

// NewInMemoryStore constructs an empty in-memory artifact store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{artifacts: make(map[string]map[string][]byte)}
}

// Save stores a copy of data under the session / artifact pair, overwriting
// any previous artifact with the same id.
func (s *InMemoryStore) Save(sessionID, artifactID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.artifacts[sessionID]; !ok {
		s.artifacts[sessionID] = make(map[string][]byte)
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	s.artifacts[sessionID][artifactID] = cp
	return nil
}

// Get returns a copy of the stored artifact bytes or ErrNotFound.
func (s *InMemoryStore) Get(sessionID, artifactID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessionArtifacts, ok := s.artifacts[sessionID]
	if !ok {
		return nil, ErrNotFound
	}
	data, ok := sessionArtifacts[artifactID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

// List returns the sorted artifact ids recorded for the session. A session
// without artifacts yields an empty slice, never an error.
func (s *InMemoryStore) List(sessionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sessionArtifacts, ok := s.artifacts[sessionID]
	if !ok {
		return []string{}, nil
	}
	ids := make([]string, 0, len(sessionArtifacts))
	for id := range sessionArtifacts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// Delete removes the artifact, returning ErrNotFound when it does not exist.
func (s *InMemoryStore) Delete(sessionID, artifactID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sessionArtifacts, ok := s.artifacts[sessionID]
	if !ok {
		return ErrNotFound
	}
	if _, ok := sessionArtifacts[artifactID]; !ok {
		return ErrNotFound
	}
	delete(sessionArtifacts, artifactID)
	return nil
}
