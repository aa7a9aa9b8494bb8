package core

import "context"

// Photographer captures the visual context of a window and persists it as a
// session artifact. Implementations decide on annotation (drawing control
// labels onto the capture) and image encoding.
type Photographer interface {
	Capture(ctx context.Context, sessionID string, window Window) (*Screenshot, error)
}

// ControlDriver enumerates and manipulates the controls of target
// application windows. Apply fails with an error on an invalid or stale
// control reference; the step pipeline records such failures as execution
// errors without tearing down the session.
type ControlDriver interface {
	ListWindows(ctx context.Context) ([]Window, error)
	ListControls(ctx context.Context, window Window) ([]ControlInfo, error)
	Apply(ctx context.Context, action Action) (ActionResult, error)
}

// Confirmer supplies the user decision for safeguarded actions. AskYesNo may
// block its calling goroutine until a decision is available; callers needing
// a timeout must wrap the wait themselves.
type Confirmer interface {
	AskYesNo(prompt string) bool
}

// ArtifactStore defines the interface for artifact persistence (screenshots
// and other per-step captures). Implementations should be thread-safe and
// scope artifacts by session identifier. Short method names
// (Save/Get/List/Delete) mirror the other store interfaces for consistency.
type ArtifactStore interface {
	Save(sessionID, artifactID string, data []byte) error
	Get(sessionID, artifactID string) ([]byte, error)
	List(sessionID string) ([]string, error)
	Delete(sessionID, artifactID string) error
}
