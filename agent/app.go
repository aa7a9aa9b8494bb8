package agent

import (
	"errors"
	"fmt"

	"github.com/hupe1980/uipilot/core"
	"github.com/hupe1980/uipilot/memory"
	"github.com/hupe1980/uipilot/metrics"
	"github.com/hupe1980/uipilot/model"
	"github.com/hupe1980/uipilot/processor"
	"github.com/hupe1980/uipilot/prompt"
	"github.com/hupe1980/uipilot/state"
)

// AppAgentOptions configures an AppAgent.
type AppAgentOptions struct {
	// Invoker is the model driving the agent's steps. Required.
	Invoker model.Invoker
	// Builder assembles step prompts. Defaults to prompt.NewAppBuilder().
	Builder *prompt.Builder
	// Memory is the agent's working memory. Defaults to a fresh unbounded
	// memory per agent.
	Memory *memory.Memory
	// Safeguard gates sensitive actions behind user confirmation.
	Safeguard *processor.Safeguard
	// Metrics receives step, model and action observations. Nil-safe.
	Metrics *metrics.Recorder
	// StatusRule overrides the default status-update rule (the status the
	// executed plan declared).
	StatusRule func(plan *core.ActionPlan, result core.ActionResult) core.Status
	// SubAgentPolicy decides whether an executed step warrants a sibling
	// agent (e.g. the action opened a new application window).
	SubAgentPolicy func(plan *core.ActionPlan) bool
	// SubAgentFactory creates the sibling when the policy fires. Host
	// agents install their own dispatch here.
	SubAgentFactory processor.SubAgentFactory
}

// AppAgent drives interactive steps against a single application window. It
// is created by the host's decomposition round, carries the sub-task text
// assigned to it and keeps its step counter, accumulated cost and working
// memory across turns.
type AppAgent struct {
	BaseAgent

	window core.Window
	task   string
	opts   AppAgentOptions
	memory *memory.Memory

	step      int
	cost      float64
	suspended *processor.AppStepProcessor
}

var _ core.Agent = (*AppAgent)(nil)

// NewAppAgent constructs an app agent bound to a window, parented under the
// given host agent.
func NewAppAgent(name string, host core.Agent, window core.Window, optFns ...func(o *AppAgentOptions)) *AppAgent {
	opts := AppAgentOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	mem := opts.Memory
	if mem == nil {
		mem = memory.NewMemory(0)
	}

	a := &AppAgent{
		BaseAgent: NewBaseAgent(name, core.RoleApp),
		window:    window,
		opts:      opts,
		memory:    mem,
	}
	a.setParent(host)
	a.TransitionTo(state.NewAppContinue(a))

	return a
}

// Window returns the window the agent operates against.
func (a *AppAgent) Window() core.Window { return a.window }

// SetWindow rebinds the agent to a window, used when the host re-dispatches
// an existing agent after the window's title changed.
func (a *AppAgent) SetWindow(w core.Window) { a.window = w }

// Task returns the sub-task text the host assigned.
func (a *AppAgent) Task() string { return a.task }

// SetTask assigns the sub-task for the next span of steps.
func (a *AppAgent) SetTask(task string) { a.task = task }

// Steps returns the number of completed steps.
func (a *AppAgent) Steps() int { return a.step }

// Cost returns the accumulated model cost in USD, including steps that
// later failed.
func (a *AppAgent) Cost() float64 { return a.cost }

// Memory returns the agent's working memory.
func (a *AppAgent) Memory() *memory.Memory { return a.memory }

// Process runs one pipeline step and folds the resulting status, step count
// and cost back into the agent. A sensitive action leaves the step
// suspended; the Confirm state resumes it via ProcessResume.
func (a *AppAgent) Process(rc *core.RunContext) error {
	p := processor.NewAppStepProcessor(a, rc.Round, a.step, a.task, a.window, a.processorOptions())
	err := processor.Run(rc, p)
	a.fold(p)

	return err
}

// ProcessResume applies the suspended action and completes the parked step.
func (a *AppAgent) ProcessResume(rc *core.RunContext) error {
	p := a.suspended
	if p == nil {
		return errors.New("agent: no suspended step to resume")
	}

	err := processor.Resume(rc, p)
	a.fold(p)

	return err
}

// PendingAction exposes the suspended action awaiting confirmation.
func (a *AppAgent) PendingAction() (core.Action, bool) {
	if a.suspended == nil {
		return core.Action{}, false
	}
	return a.suspended.PendingAction()
}

// fold copies the processor outcome onto the agent. Cost accumulates when
// the step ends, errored steps included: the model call was made either
// way. A suspended step keeps its cost on the processor until the resumed
// completion folds it, so nothing is counted twice.
func (a *AppAgent) fold(p *processor.AppStepProcessor) {
	a.step = p.Step
	a.SetStatus(p.Status())

	if p.Suspended() {
		a.suspended = p
		return
	}

	a.cost += p.Cost
	a.suspended = nil
}

func (a *AppAgent) processorOptions() func(o *processor.AppOptions) {
	return func(o *processor.AppOptions) {
		o.Invoker = a.opts.Invoker
		o.Builder = a.opts.Builder
		o.Memory = a.memory
		o.Safeguard = a.opts.Safeguard
		o.Metrics = a.opts.Metrics
		o.StatusRule = a.opts.StatusRule
		o.SubAgentPolicy = a.opts.SubAgentPolicy
		o.SubAgentFactory = a.opts.SubAgentFactory
	}
}

// appAgentName derives a stable agent name from the target window.
func appAgentName(w core.Window) string {
	if w.Process != "" {
		return fmt.Sprintf("app/%s", w.Process)
	}
	return fmt.Sprintf("app/%s", w.ID)
}
