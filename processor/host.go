package processor

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/hupe1980/uipilot/core"
	"github.com/hupe1980/uipilot/memory"
	"github.com/hupe1980/uipilot/metrics"
	"github.com/hupe1980/uipilot/model"
	"github.com/hupe1980/uipilot/prompt"
)

// opSetFocus is the desktop-level operation the host applies when it hands
// a window to an application agent.
const opSetFocus = "set_focus"

// HostOptions configures a HostProcessor.
type HostOptions struct {
	// Invoker is the model behind the decision. Required.
	Invoker model.Invoker
	// Builder assembles the prompt. Defaults to prompt.NewHostBuilder().
	Builder *prompt.Builder
	// Memory is the host's working memory of past decisions.
	Memory *memory.Memory
	// Metrics receives step and model observations. Nil-safe.
	Metrics *metrics.Recorder
	// StatusRule computes the closing status. Defaults to the status the
	// plan declared.
	StatusRule func(plan *core.ActionPlan, result core.ActionResult) core.Status
	// AppFactory creates or reuses the application agent for the selected
	// window. Without it decomposition cannot delegate.
	AppFactory SubAgentFactory
}

// HostProcessor runs one decision step of the host agent: observe the open
// windows, ask the model which application handles the next subtask, focus
// that window and create the application agent for it.
type HostProcessor struct {
	Base
	Windows  []core.Window
	Selected core.Window
	Subtask  string

	opts HostOptions
}

// NewHostProcessor seeds a processor for one host decision step.
func NewHostProcessor(owner core.Agent, round, step int, request string, optFns ...func(o *HostOptions)) *HostProcessor {
	opts := HostOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Builder == nil {
		opts.Builder = prompt.NewHostBuilder()
	}
	return &HostProcessor{
		Base: NewBase(owner, round, step, request, core.Window{}),
		opts: opts,
	}
}

// CaptureScreenshot takes a desktop-level capture when a photographer is
// configured.
func (p *HostProcessor) CaptureScreenshot(rc *core.RunContext) error {
	if rc.Photographer == nil {
		rc.LogDebug("no photographer configured, skipping capture")
		return nil
	}
	shot, err := rc.Photographer.Capture(rc.Context, rc.SessionID, core.Window{Title: "desktop"})
	if err != nil {
		return fmt.Errorf("capture desktop: %w", err)
	}
	p.Screenshot = shot
	return nil
}

// GetControlInfo enumerates the open application windows: they are the
// controls of the desktop from the host's point of view.
func (p *HostProcessor) GetControlInfo(rc *core.RunContext) error {
	if rc.Driver == nil {
		return errors.New("processor: control driver not configured")
	}
	windows, err := rc.Driver.ListWindows(rc.Context)
	if err != nil {
		return fmt.Errorf("list windows: %w", err)
	}
	p.Windows = windows
	rc.LogDebug("windows enumerated", "count", len(windows))
	return nil
}

// GetPromptMessage assembles the decomposition request.
func (p *HostProcessor) GetPromptMessage(rc *core.RunContext) error {
	history := rc.History(p.agentName())
	if p.opts.Memory != nil {
		history = p.opts.Memory.All()
	}
	req, err := p.opts.Builder.Build(prompt.Data{
		Request: p.Request,
		Round:   p.Round,
		Step:    p.StepNumber(),
		Windows: p.Windows,
		History: history,
		Notes:   noteSnapshot(rc),
	}, p.Screenshot)
	if err != nil {
		return fmt.Errorf("build prompt: %w", err)
	}
	p.Prompt = req
	return nil
}

// GetResponse invokes the model and accumulates response text and cost.
func (p *HostProcessor) GetResponse(rc *core.RunContext) error {
	return invoke(rc, &p.Base, p.opts.Invoker, p.opts.Metrics)
}

// ParseResponse decodes the decision and resolves the selected window and
// subtask. A missing selection is not an error here; terminal decisions
// (FINISH, FAIL) legitimately select nothing.
func (p *HostProcessor) ParseResponse(rc *core.RunContext) error {
	plan, err := prompt.ParsePlan(p.Response())
	if err != nil {
		return err
	}
	p.Plan = plan
	p.Selected = resolveWindow(p.Windows, plan)
	p.Subtask = strings.TrimSpace(plan.Plan)
	if p.Subtask == "" {
		p.Subtask = p.Request
	}
	return nil
}

// ExecuteAction focuses the selected window through the driver and stages
// the delegation state. Decisions without a selection apply nothing.
func (p *HostProcessor) ExecuteAction(rc *core.RunContext) error {
	if p.Selected.IsZero() || p.planStatus() != core.StatusContinue {
		rc.LogDebug("no window delegation", "status", p.planStatus())
		return nil
	}
	if rc.Driver == nil {
		return errors.New("processor: control driver not configured")
	}
	res, err := rc.Driver.Apply(rc.Context, core.Action{Window: p.Selected, Operation: opSetFocus})
	p.opts.Metrics.ObserveAction(opSetFocus, err == nil)
	if err != nil {
		return fmt.Errorf("focus %q: %w", p.Selected.Title, err)
	}
	p.Result = res
	rc.SetState("active_window", p.Selected.Title)
	rc.SetState("subtask", p.Subtask)
	return nil
}

// UpdateMemory appends the decision record and commits the staged state.
func (p *HostProcessor) UpdateMemory(rc *core.RunContext) error {
	rec := p.record()
	if err := rc.AppendStep(rec); err != nil {
		return fmt.Errorf("append step record: %w", err)
	}
	if p.opts.Memory != nil {
		p.opts.Memory.Add(rec)
	}
	return rc.CommitStateDelta()
}

// ShouldCreateSubAgent fires when the decision delegates to a window:
// decomposition creates the application agent exactly once per CONTINUE
// decision.
func (p *HostProcessor) ShouldCreateSubAgent() bool {
	return p.opts.AppFactory != nil && !p.Selected.IsZero() &&
		p.planStatus() == core.StatusContinue
}

// CreateSubAgent creates or reuses the application agent for the selected
// window and makes that window the active one.
func (p *HostProcessor) CreateSubAgent(rc *core.RunContext) error {
	ag, err := p.opts.AppFactory(rc, p.Selected, p.Subtask)
	if err != nil {
		return fmt.Errorf("create app agent: %w", err)
	}
	rc.Window = p.Selected
	rc.LogInfo("app agent attached", "name", ag.Name(), "window", p.Selected.Title)
	return nil
}

// UpdateStepAndStatus advances the step counter and computes the closing
// status.
func (p *HostProcessor) UpdateStepAndStatus(rc *core.RunContext) error {
	p.Step++
	if p.opts.StatusRule != nil {
		p.SetStatus(p.opts.StatusRule(p.Plan, p.Result))
	} else {
		p.SetStatus(p.planStatus())
	}
	p.opts.Metrics.ObserveStep(p.agentName(), p.Status().String(), time.Since(p.Started).Seconds())
	rc.LogInfo("host step complete", "step", p.Step, "status", p.Status())
	return nil
}

// resolveWindow maps the plan's selection onto the enumerated windows:
// control_label as one-based index first, exact title match second.
func resolveWindow(windows []core.Window, plan *core.ActionPlan) core.Window {
	if plan == nil {
		return core.Window{}
	}
	if idx, err := strconv.Atoi(strings.TrimSpace(plan.ControlLabel)); err == nil {
		if idx >= 1 && idx <= len(windows) {
			return windows[idx-1]
		}
	}
	if plan.ControlText != "" {
		for _, w := range windows {
			if w.Title == plan.ControlText {
				return w
			}
		}
	}
	return core.Window{}
}
