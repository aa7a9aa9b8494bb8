package core

import (
	"context"

	"github.com/hupe1980/uipilot/logging"
)

type testLogger struct{}

func (l testLogger) Debug(string, ...any) {}
func (l testLogger) Info(string, ...any)  {}
func (l testLogger) Warn(string, ...any)  {}
func (l testLogger) Error(string, ...any) {}

type mockSessionStore struct {
	applied  map[string]map[string]any
	appended map[string][]StepRecord
}

func (s *mockSessionStore) Create(id string) (*Session, error) { return NewSession(id), nil }
func (s *mockSessionStore) Get(id string) (*Session, error)    { return NewSession(id), nil }

func (s *mockSessionStore) AppendStep(sessionID string, rec StepRecord) error {
	if s.appended == nil {
		s.appended = map[string][]StepRecord{}
	}
	s.appended[sessionID] = append(s.appended[sessionID], rec)
	return nil
}

func (s *mockSessionStore) ApplyDelta(sessionID string, delta map[string]any) error {
	if s.applied == nil {
		s.applied = map[string]map[string]any{}
	}
	cp := map[string]any{}
	for k, v := range delta {
		cp[k] = v
	}
	s.applied[sessionID] = cp
	return nil
}

func newRunContextForTest() (*RunContext, *mockSessionStore, *logging.MemorySink, *logging.MemorySink) {
	store := &mockSessionStore{}
	reqSink := logging.NewMemorySink()
	errSink := logging.NewMemorySink()

	rc := NewRunContext(context.Background(), "sess-x", "open the calculator", NewSession("sess-x"), testLogger{})
	rc.SessionStore = store
	rc.RequestSink = reqSink
	rc.ErrorSink = errSink

	return rc, store, reqSink, errSink
}
