package processor

import (
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/uipilot/core"
	"github.com/hupe1980/uipilot/memory"
	"github.com/hupe1980/uipilot/metrics"
	"github.com/hupe1980/uipilot/model"
	"github.com/hupe1980/uipilot/prompt"
)

// AppOptions configures an AppStepProcessor.
type AppOptions struct {
	// Invoker is the model behind the step. Required.
	Invoker model.Invoker
	// Builder assembles the prompt. Defaults to prompt.NewAppBuilder().
	Builder *prompt.Builder
	// Memory is the agent's working memory; when set, executed steps are
	// appended and its entries feed the prompt history.
	Memory *memory.Memory
	// Safeguard gates sensitive actions behind confirmation.
	Safeguard *Safeguard
	// Metrics receives step, model and action observations. Nil-safe.
	Metrics *metrics.Recorder
	// StatusRule computes the closing status. Defaults to the status the
	// plan declared.
	StatusRule func(plan *core.ActionPlan, result core.ActionResult) core.Status
	// SubAgentPolicy decides whether the executed plan warrants a new
	// sub-agent. Defaults to never.
	SubAgentPolicy func(plan *core.ActionPlan) bool
	// SubAgentFactory builds the sub-agent when the policy fires.
	SubAgentFactory SubAgentFactory
}

// AppStepProcessor runs one step of an application agent: capture the
// window, enumerate controls, ask the model for the next action, apply it
// through the control driver and book the outcome.
type AppStepProcessor struct {
	Base
	Controls []core.ControlInfo

	opts AppOptions
}

// NewAppStepProcessor seeds a processor for one step of the owning agent.
func NewAppStepProcessor(owner core.Agent, round, step int, request string, window core.Window, optFns ...func(o *AppOptions)) *AppStepProcessor {
	opts := AppOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Builder == nil {
		opts.Builder = prompt.NewAppBuilder()
	}
	return &AppStepProcessor{
		Base: NewBase(owner, round, step, request, window),
		opts: opts,
	}
}

// CaptureScreenshot persists the current window image when a photographer
// is configured; headless runs proceed without one.
func (p *AppStepProcessor) CaptureScreenshot(rc *core.RunContext) error {
	if rc.Photographer == nil {
		rc.LogDebug("no photographer configured, skipping capture")
		return nil
	}
	shot, err := rc.Photographer.Capture(rc.Context, rc.SessionID, p.Window)
	if err != nil {
		return fmt.Errorf("capture screenshot: %w", err)
	}
	p.Screenshot = shot
	return nil
}

// GetControlInfo enumerates the interactable controls of the active window.
func (p *AppStepProcessor) GetControlInfo(rc *core.RunContext) error {
	if rc.Driver == nil {
		return errors.New("processor: control driver not configured")
	}
	controls, err := rc.Driver.ListControls(rc.Context, p.Window)
	if err != nil {
		return fmt.Errorf("list controls of %q: %w", p.Window.Title, err)
	}
	p.Controls = controls
	rc.LogDebug("controls enumerated", "window", p.Window.Title, "count", len(controls))
	return nil
}

// GetPromptMessage assembles the model request from the observation, the
// running memory and the shared session notes.
func (p *AppStepProcessor) GetPromptMessage(rc *core.RunContext) error {
	history := rc.History(p.agentName())
	if p.opts.Memory != nil {
		history = p.opts.Memory.All()
	}
	req, err := p.opts.Builder.Build(prompt.Data{
		Request:  p.Request,
		Round:    p.Round,
		Step:     p.StepNumber(),
		Window:   p.Window,
		Controls: p.Controls,
		History:  history,
		Notes:    noteSnapshot(rc),
	}, p.Screenshot)
	if err != nil {
		return fmt.Errorf("build prompt: %w", err)
	}
	p.Prompt = req
	return nil
}

// GetResponse invokes the model and accumulates response text and cost.
func (p *AppStepProcessor) GetResponse(rc *core.RunContext) error {
	return invoke(rc, &p.Base, p.opts.Invoker, p.opts.Metrics)
}

// ParseResponse decodes the raw response into the action plan.
func (p *AppStepProcessor) ParseResponse(rc *core.RunContext) error {
	plan, err := prompt.ParsePlan(p.Response())
	if err != nil {
		return err
	}
	p.Plan = plan
	return nil
}

// ExecuteAction applies the planned action, or parks it for confirmation
// when the safeguard flags it as sensitive.
func (p *AppStepProcessor) ExecuteAction(rc *core.RunContext) error {
	if p.Plan == nil || p.Plan.Operation == "" {
		rc.LogDebug("plan carries no action", "status", p.planStatus())
		return nil
	}
	action := p.Plan.Action(p.Window)
	if p.opts.Safeguard.Requires(p.Plan) {
		p.Suspend(action)
		rc.LogInfo("sensitive action awaiting confirmation",
			"operation", action.Operation,
			"control", action.ControlText,
		)
		return nil
	}
	return p.apply(rc, action)
}

// ExecutePending applies the previously parked action after confirmation.
func (p *AppStepProcessor) ExecutePending(rc *core.RunContext) error {
	action, ok := p.PendingAction()
	if !ok {
		return errors.New("processor: no pending action to resume")
	}
	p.ClearSuspension()
	return p.apply(rc, action)
}

func (p *AppStepProcessor) apply(rc *core.RunContext, action core.Action) error {
	if rc.Driver == nil {
		return errors.New("processor: control driver not configured")
	}
	res, err := rc.Driver.Apply(rc.Context, action)
	p.opts.Metrics.ObserveAction(action.Operation, err == nil)
	if err != nil {
		return fmt.Errorf("apply %s: %w", action.Operation, err)
	}
	p.Result = res
	rc.LogDebug("action applied", "operation", action.Operation, "output", res.Output)
	return nil
}

// UpdateMemory appends the step record to the transcript and the working
// memory, and commits any staged session state.
func (p *AppStepProcessor) UpdateMemory(rc *core.RunContext) error {
	if p.Plan != nil && p.Plan.Comment != "" {
		rc.SetState("last_comment", p.Plan.Comment)
	}
	rec := p.record()
	if err := rc.AppendStep(rec); err != nil {
		return fmt.Errorf("append step record: %w", err)
	}
	if p.opts.Memory != nil {
		p.opts.Memory.Add(rec)
	}
	return rc.CommitStateDelta()
}

// ShouldCreateSubAgent consults the configured policy; without one no
// sub-agent is ever created.
func (p *AppStepProcessor) ShouldCreateSubAgent() bool {
	return p.opts.SubAgentPolicy != nil && p.opts.SubAgentFactory != nil &&
		p.Plan != nil && p.opts.SubAgentPolicy(p.Plan)
}

// CreateSubAgent builds and attaches the new agent via the factory.
func (p *AppStepProcessor) CreateSubAgent(rc *core.RunContext) error {
	ag, err := p.opts.SubAgentFactory(rc, p.Window, p.Request)
	if err != nil {
		return fmt.Errorf("create sub-agent: %w", err)
	}
	rc.LogInfo("sub-agent created", "name", ag.Name())
	return nil
}

// UpdateStepAndStatus advances the step counter and computes the closing
// status.
func (p *AppStepProcessor) UpdateStepAndStatus(rc *core.RunContext) error {
	p.Step++
	if p.opts.StatusRule != nil {
		p.SetStatus(p.opts.StatusRule(p.Plan, p.Result))
	} else {
		p.SetStatus(p.planStatus())
	}
	p.opts.Metrics.ObserveStep(p.agentName(), p.Status().String(), time.Since(p.Started).Seconds())
	rc.LogInfo("app step complete", "step", p.Step, "status", p.Status())
	return nil
}
