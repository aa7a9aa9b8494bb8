package core

import (
	"context"
	"fmt"
	"maps"

	"github.com/hupe1980/uipilot/logging"
)

// RunContext carries the session-scoped execution state handed to agents,
// states and step pipelines. It aggregates:
//
//   - The ambient cancellation Context
//   - Identifiers (SessionID, current Round) and the user request
//   - The active window app agents operate against
//   - Collaborators (photographer, control driver, confirmation source)
//   - Backing stores (session transcript, artifacts) plus the two
//     append-only record sinks (request log, response/error log)
//   - A working Session snapshot and a staged StateDelta
//
// State mutations performed via SetState accumulate in StateDelta until
// CommitStateDelta applies them to the session store. The record sinks are
// never consulted for control decisions.
type RunContext struct {
	Context   context.Context
	SessionID string
	Round     int
	Request   string
	Window    Window

	Photographer Photographer
	Driver       ControlDriver
	Confirmer    Confirmer

	SessionStore  SessionStore
	ArtifactStore ArtifactStore
	RequestSink   logging.RecordSink
	ErrorSink     logging.RecordSink

	Session    *Session
	StateDelta map[string]any

	*contextLogger
}

// NewRunContext constructs a RunContext with an empty state delta. Every
// message logged through it carries the session identifier. Collaborators
// and stores are attached by the driver before the first turn.
func NewRunContext(ctx context.Context, sessionID, request string, sess *Session, logger logging.Logger) *RunContext {
	return &RunContext{
		Context:       ctx,
		SessionID:     sessionID,
		Request:       request,
		Session:       sess,
		StateDelta:    map[string]any{},
		contextLogger: newContextLogger(logger, "session_id", sessionID),
	}
}

// Done returns a channel closed when the underlying context is cancelled.
func (rc *RunContext) Done() <-chan struct{} { return rc.Context.Done() }

// Err returns the cancellation error (if any) from the underlying context.
func (rc *RunContext) Err() error { return rc.Context.Err() }

// GetState returns a staged (delta) value if present, else the persisted
// session value.
func (rc *RunContext) GetState(k string) (any, bool) {
	if v, ok := rc.StateDelta[k]; ok {
		return v, true
	}

	if rc.Session != nil {
		return rc.Session.GetState(k)
	}

	return nil, false
}

// SetState stages a state mutation in the in-memory delta buffer.
func (rc *RunContext) SetState(k string, v any) { rc.StateDelta[k] = v }

// ApplyStateDelta merges all pairs from d into the staged StateDelta.
func (rc *RunContext) ApplyStateDelta(d map[string]any) {
	maps.Copy(rc.StateDelta, d)
}

// CommitStateDelta persists the accumulated StateDelta then clears the buffer.
func (rc *RunContext) CommitStateDelta() error {
	if len(rc.StateDelta) == 0 {
		return nil
	}

	if rc.SessionStore == nil {
		return fmt.Errorf("session store not configured")
	}

	if err := rc.SessionStore.ApplyDelta(rc.SessionID, rc.StateDelta); err != nil {
		return err
	}

	if rc.Session != nil {
		rc.Session.ApplyStateDelta(rc.StateDelta)
	}

	rc.StateDelta = map[string]any{}

	return nil
}

// AppendStep persists a step record to the session transcript, mirrors it
// into the working snapshot and writes it to the request sink.
func (rc *RunContext) AppendStep(rec StepRecord) error {
	if rc.SessionStore != nil {
		if err := rc.SessionStore.AppendStep(rc.SessionID, rec); err != nil {
			return err
		}
	}

	if rc.Session != nil {
		rc.Session.AddStep(rec)
	}

	if rc.RequestSink != nil {
		if err := rc.RequestSink.Append(rec.Fields()); err != nil {
			return fmt.Errorf("append step record: %w", err)
		}
	}

	return nil
}

// RecordError writes the per-step error record to the response/error sink.
// The record shape is fixed: step, status "ERROR", the raw response (possibly
// empty) and the error text.
func (rc *RunContext) RecordError(step int, response string, cause error) error {
	if rc.ErrorSink == nil {
		return nil
	}

	msg := ""
	if cause != nil {
		msg = cause.Error()
	}

	return rc.ErrorSink.Append(map[string]any{
		"step":     step,
		"status":   StatusError.String(),
		"response": response,
		"error":    msg,
	})
}

// History returns the transcript entries recorded so far by the named agent.
func (rc *RunContext) History(agent string) []StepRecord {
	if rc.Session == nil {
		return []StepRecord{}
	}
	return rc.Session.StepsByAgent(agent)
}
