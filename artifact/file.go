package artifact

import (
	"os"
	"path/filepath"
	"sync"
)

// FileStore persists artifacts as plain files under root/<sessionID>/<artifactID>.
// Artifact ids carry their own extension (the capture layer names screenshots
// "step_0001.png" and similar), so the store writes bytes verbatim and never
// rewrites names. Safe for concurrent use.
type FileStore struct {
	mu   sync.RWMutex
	root string
}

// NewFileStore creates a file backed artifact store rooted at dir. The
// directory is created on first Save, not here, so constructing a store is
// side effect free.
func NewFileStore(dir string) *FileStore {
	return &FileStore{root: dir}
}

// Save writes the artifact bytes, creating the session directory as needed.
func (s *FileStore) Save(sessionID, artifactID string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	path := s.path(sessionID, artifactID)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Get reads the artifact bytes, returning ErrNotFound for unknown pairs.
func (s *FileStore) Get(sessionID, artifactID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, err := os.ReadFile(s.path(sessionID, artifactID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return data, nil
}

// List returns the sorted artifact ids present for the session. A session
// directory that was never created yields an empty slice.
func (s *FileStore) List(sessionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries, err := os.ReadDir(filepath.Join(s.root, clean(sessionID)))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ids = append(ids, e.Name())
	}
	return ids, nil
}

// Delete removes the artifact file, returning ErrNotFound when absent.
func (s *FileStore) Delete(sessionID, artifactID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(sessionID, artifactID))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	return err
}

// path maps a session / artifact pair onto the filesystem. Both components
// are cleaned relative to the root so ids cannot address files outside it.
func (s *FileStore) path(sessionID, artifactID string) string {
	return filepath.Join(s.root, clean(sessionID), clean(artifactID))
}

func clean(component string) string {
	return filepath.Clean(string(filepath.Separator) + component)
}
