package testutil

import (
	"github.com/hupe1980/uipilot/core"
)

// SessionBuilder helps construct sessions with fluent chaining for tests.
// Example:
//
//	sess := NewSessionBuilder("sess-1").State("k","v").Steps(rec1, rec2).Build()
type SessionBuilder struct {
	id      string
	request string
	state   map[string]any
	steps   []core.StepRecord
}

// NewSessionBuilder creates a new builder for a session with the given id.
// Use chainable methods (Request, State, Step, Steps) then call Build.
func NewSessionBuilder(id string) *SessionBuilder {
	return &SessionBuilder{id: id, state: map[string]any{}}
}

// Request sets the user request the session works on (chainable).
func (b *SessionBuilder) Request(text string) *SessionBuilder {
	b.request = text
	return b
}

// State sets or overwrites a state key/value pair on the resulting session (chainable).
func (b *SessionBuilder) State(key string, val any) *SessionBuilder {
	b.state[key] = val
	return b
}

// Step appends a single step record to the transcript (chainable).
func (b *SessionBuilder) Step(rec core.StepRecord) *SessionBuilder {
	b.steps = append(b.steps, rec)
	return b
}

// Steps appends multiple step records to the transcript (chainable).
func (b *SessionBuilder) Steps(recs ...core.StepRecord) *SessionBuilder {
	b.steps = append(b.steps, recs...)
	return b
}

// Build returns a *core.Session with pre-populated state and transcript.
func (b *SessionBuilder) Build() *core.Session {
	s := core.NewSession(b.id)
	s.Request = b.request

	for k, v := range b.state {
		s.State[k] = v
	}

	for _, rec := range b.steps {
		s.AddStep(rec)
	}

	return s
}
