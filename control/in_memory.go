package control

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/uipilot/core"
)

var (
	// ErrUnknownWindow is returned when an action targets a window the
	// driver does not know.
	ErrUnknownWindow = errors.New("control: unknown window")
	// ErrUnknownControl is returned when the selected control cannot be
	// resolved inside the target window.
	ErrUnknownControl = errors.New("control: unknown control")
	// ErrControlDisabled is returned when the resolved control exists but
	// does not accept input.
	ErrControlDisabled = errors.New("control: control disabled")
)

// Handler produces the result of one scripted operation, overriding the
// driver's built-in behavior for that operation name.
type Handler func(ctx context.Context, action core.Action) (core.ActionResult, error)

// InMemoryDriver is a deterministic core.ControlDriver backed by registered
// windows and controls instead of a live desktop. Built-in operation
// behavior keeps the fake stateful (OpSetText updates the stored control
// text, OpTexts reads it back), and Script replaces the behavior of a single
// operation for fault injection. Every accepted action is recorded and can
// be read back with Applied.
type InMemoryDriver struct {
	mu       sync.RWMutex
	windows  []core.Window
	controls map[string][]core.ControlInfo // window id -> controls
	handlers map[string]Handler
	applied  []core.Action
}

// NewInMemoryDriver constructs an empty scripted driver.
func NewInMemoryDriver() *InMemoryDriver {
	return &InMemoryDriver{
		controls: make(map[string][]core.ControlInfo),
		handlers: make(map[string]Handler),
	}
}

// AddWindow registers a window together with its controls, replacing any
// previous registration under the same window id.
func (d *InMemoryDriver) AddWindow(w core.Window, controls ...core.ControlInfo) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if existing := d.findWindowLocked(w.ID); existing == nil {
		d.windows = append(d.windows, w)
	} else {
		*existing = w
	}
	d.controls[w.ID] = append([]core.ControlInfo(nil), controls...)
}

// Script overrides the behavior of one operation name. A nil handler
// restores the built-in behavior.
func (d *InMemoryDriver) Script(operation string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if h == nil {
		delete(d.handlers, operation)
		return
	}
	d.handlers[operation] = h
}

// ListWindows returns a copy of the registered windows.
func (d *InMemoryDriver) ListWindows(ctx context.Context) ([]core.Window, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]core.Window, len(d.windows))
	copy(out, d.windows)
	return out, nil
}

// ListControls returns a copy of the controls registered for the window.
func (d *InMemoryDriver) ListControls(ctx context.Context, window core.Window) ([]core.ControlInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	controls, ok := d.controls[window.ID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownWindow, window.Title)
	}
	out := make([]core.ControlInfo, len(controls))
	copy(out, controls)
	return out, nil
}

// Apply validates the action target and executes the scripted or built-in
// behavior for its operation. Validation failures come back as wrapped
// sentinel errors so the pipeline can classify them as execution errors.
func (d *InMemoryDriver) Apply(ctx context.Context, action core.Action) (core.ActionResult, error) {
	if err := ctx.Err(); err != nil {
		return core.ActionResult{}, err
	}
	d.mu.Lock()
	if w := d.findWindowLocked(action.Window.ID); w == nil {
		d.mu.Unlock()
		return core.ActionResult{}, fmt.Errorf("%w: %q", ErrUnknownWindow, action.Window.Title)
	}
	var ctrl *core.ControlInfo
	if action.ControlLabel != "" || action.ControlText != "" {
		ctrl = d.findControlLocked(action.Window.ID, action.ControlLabel, action.ControlText)
		if ctrl == nil {
			d.mu.Unlock()
			return core.ActionResult{}, fmt.Errorf("%w: label %q text %q", ErrUnknownControl, action.ControlLabel, action.ControlText)
		}
		if !ctrl.Enabled {
			d.mu.Unlock()
			return core.ActionResult{}, fmt.Errorf("%w: label %q", ErrControlDisabled, action.ControlLabel)
		}
	}
	d.applied = append(d.applied, action)
	if h, ok := d.handlers[action.Operation]; ok {
		d.mu.Unlock()
		return h(ctx, action)
	}
	defer d.mu.Unlock()
	return d.applyBuiltinLocked(action, ctrl)
}

// Applied returns a copy of all actions the driver accepted, in order.
func (d *InMemoryDriver) Applied() []core.Action {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]core.Action, len(d.applied))
	copy(out, d.applied)
	return out
}

func (d *InMemoryDriver) findWindowLocked(id string) *core.Window {
	for i := range d.windows {
		if d.windows[i].ID == id {
			return &d.windows[i]
		}
	}
	return nil
}

// findControlLocked resolves a control by annotation label first, then by
// visible text. The returned pointer aliases the stored slice so built-in
// operations can mutate control state.
func (d *InMemoryDriver) findControlLocked(windowID, label, text string) *core.ControlInfo {
	controls := d.controls[windowID]
	if label != "" {
		for i := range controls {
			if controls[i].Label == label {
				return &controls[i]
			}
		}
		return nil
	}
	for i := range controls {
		if controls[i].Text == text {
			return &controls[i]
		}
	}
	return nil
}

func (d *InMemoryDriver) applyBuiltinLocked(action core.Action, ctrl *core.ControlInfo) (core.ActionResult, error) {
	switch action.Operation {
	case OpClick:
		if ctrl == nil {
			return core.ActionResult{}, fmt.Errorf("%w: %s requires a control", ErrUnknownControl, OpClick)
		}
		return core.ActionResult{Output: fmt.Sprintf("clicked %q", ctrl.Text)}, nil
	case OpSetText:
		if ctrl == nil {
			return core.ActionResult{}, fmt.Errorf("%w: %s requires a control", ErrUnknownControl, OpSetText)
		}
		ctrl.Text = stringArg(action.Args, "text")
		return core.ActionResult{Output: fmt.Sprintf("text of %q set", ctrl.Label)}, nil
	case OpKeyboard:
		return core.ActionResult{Output: fmt.Sprintf("sent keys %q", stringArg(action.Args, "keys"))}, nil
	case OpWheel:
		return core.ActionResult{Output: "scrolled"}, nil
	case OpTexts:
		if ctrl == nil {
			return core.ActionResult{}, fmt.Errorf("%w: %s requires a control", ErrUnknownControl, OpTexts)
		}
		return core.ActionResult{Output: ctrl.Text}, nil
	case OpSummary:
		return core.ActionResult{Output: stringArg(action.Args, "text")}, nil
	case OpWait:
		return core.ActionResult{Output: "waited"}, nil
	default:
		return core.ActionResult{Output: fmt.Sprintf("%s applied", action.Operation)}, nil
	}
}

func stringArg(args map[string]any, key string) string {
	if args == nil {
		return ""
	}
	if v, ok := args[key]; ok {
		return fmt.Sprintf("%v", v)
	}
	return ""
}
