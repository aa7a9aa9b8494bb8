package core

// Window identifies one top-level window of a target application as reported
// by the automation backend.
type Window struct {
	ID      string `json:"id"`      // Backend-stable handle
	Title   string `json:"title"`   // Window title bar text
	Process string `json:"process"` // Owning process name (e.g. "WINWORD.EXE")
}

// IsZero reports whether the window handle is unset.
func (w Window) IsZero() bool { return w.ID == "" }

// ControlInfo describes one interactable control of a window. Label is the
// short annotation key models select controls by; Text is the control's
// visible text as rendered.
type ControlInfo struct {
	Label   string `json:"label"`
	Text    string `json:"text"`
	Type    string `json:"type"`
	Enabled bool   `json:"enabled"`
}

// ActionPlan is the structured envelope decoded from a model response. It
// couples the executable action (control selection, operation, arguments)
// with the model's declared follow-up status and its free-form commentary,
// which the transcript retains verbatim.
type ActionPlan struct {
	Observation  string         `json:"observation,omitempty"`
	Thought      string         `json:"thought,omitempty"`
	ControlLabel string         `json:"control_label"`
	ControlText  string         `json:"control_text,omitempty"`
	Operation    string         `json:"operation"`
	Args         map[string]any `json:"args,omitempty"`
	Status       Status         `json:"status"`
	Plan         string         `json:"plan,omitempty"`
	Comment      string         `json:"comment,omitempty"`
}

// Action returns the executable slice of the plan targeting the given window.
func (p ActionPlan) Action(window Window) Action {
	return Action{
		Window:       window,
		ControlLabel: p.ControlLabel,
		ControlText:  p.ControlText,
		Operation:    p.Operation,
		Args:         p.Args,
	}
}

// Action is one concrete manipulation applied to the automation backend.
type Action struct {
	Window       Window         `json:"window"`
	ControlLabel string         `json:"control_label"`
	ControlText  string         `json:"control_text,omitempty"`
	Operation    string         `json:"operation"`
	Args         map[string]any `json:"args,omitempty"`
}

// ActionResult carries the backend's outcome for one applied action. Output
// is backend-defined free text (selected value, typed text echo, ...).
type ActionResult struct {
	Output string `json:"output,omitempty"`
}

// Screenshot references one captured image artifact. Data holds the encoded
// image bytes; ArtifactID locates the persisted copy in the artifact store.
type Screenshot struct {
	ArtifactID string
	Data       []byte
	Annotated  bool
}
