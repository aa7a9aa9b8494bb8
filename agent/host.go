package agent

import (
	"errors"

	"github.com/hupe1980/uipilot/core"
	"github.com/hupe1980/uipilot/memory"
	"github.com/hupe1980/uipilot/metrics"
	"github.com/hupe1980/uipilot/model"
	"github.com/hupe1980/uipilot/processor"
	"github.com/hupe1980/uipilot/prompt"
	"github.com/hupe1980/uipilot/state"
)

// HostAgentOptions configures a HostAgent.
type HostAgentOptions struct {
	// Invoker is the model driving decomposition decisions. Required.
	Invoker model.Invoker
	// Builder assembles decomposition prompts. Defaults to
	// prompt.NewHostBuilder().
	Builder *prompt.Builder
	// Memory is the host's working memory of past decisions. Defaults to a
	// fresh unbounded memory.
	Memory *memory.Memory
	// Metrics receives step and model observations. Nil-safe.
	Metrics *metrics.Recorder
	// StatusRule overrides the default status-update rule.
	StatusRule func(plan *core.ActionPlan, result core.ActionResult) core.Status
	// AppOptions is applied to every app agent the host creates, after the
	// inherited defaults (invoker, metrics, dispatch callback).
	AppOptions []func(o *AppAgentOptions)
}

// HostAgent supervises a session: each of its turns is one decomposition
// step that selects the application window responsible for the next
// sub-task and dispatches the app agent bound to it. App agents are created
// once per window and re-dispatched on later rounds, so their memory and
// step counters span the whole session.
type HostAgent struct {
	BaseAgent

	opts   HostAgentOptions
	memory *memory.Memory

	apps     map[string]*AppAgent
	active   *AppAgent
	decision core.Status

	step int
	cost float64
}

var _ core.Agent = (*HostAgent)(nil)

// NewHostAgent constructs a host agent with its lifecycle state seeded to
// Continue, ready for the first decomposition round.
func NewHostAgent(name string, optFns ...func(o *HostAgentOptions)) *HostAgent {
	opts := HostAgentOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	mem := opts.Memory
	if mem == nil {
		mem = memory.NewMemory(0)
	}

	h := &HostAgent{
		BaseAgent: NewBaseAgent(name, core.RoleHost),
		opts:      opts,
		memory:    mem,
		apps:      map[string]*AppAgent{},
	}
	h.TransitionTo(state.NewHostContinue(h))

	return h
}

// ActiveApp returns the app agent the latest decomposition round
// dispatched, or nil when the round delegated nothing.
func (h *HostAgent) ActiveApp() core.Agent {
	if h.active == nil {
		return nil
	}
	return h.active
}

// App returns the app agent bound to a window ID.
func (h *HostAgent) App(windowID string) (*AppAgent, bool) {
	app, ok := h.apps[windowID]
	return app, ok
}

// Decision returns the status the host's own latest decomposition step
// concluded with. Unlike Status it is untouched by state hand-offs, so the
// session loop can tell "the host wants to stop" from "an app agent
// returned control".
func (h *HostAgent) Decision() core.Status { return h.decision }

// Steps returns the number of completed decomposition steps.
func (h *HostAgent) Steps() int { return h.step }

// Cost returns the accumulated model cost in USD.
func (h *HostAgent) Cost() float64 { return h.cost }

// Memory returns the host's working memory.
func (h *HostAgent) Memory() *memory.Memory { return h.memory }

// Process runs one decomposition step. The active app reference is cleared
// first so a round that delegates nothing hands control back to the host
// itself.
func (h *HostAgent) Process(rc *core.RunContext) error {
	h.active = nil

	p := processor.NewHostProcessor(h, rc.Round, h.step, rc.Request, h.processorOptions())
	err := processor.Run(rc, p)
	h.fold(p)

	return err
}

// ProcessResume reports that nothing was suspended: host decomposition has
// no safeguarded actions, so a Confirm hand-off to the host is a protocol
// violation worth surfacing.
func (h *HostAgent) ProcessResume(rc *core.RunContext) error {
	return errors.New("agent: host has no suspended step to resume")
}

func (h *HostAgent) fold(p *processor.HostProcessor) {
	h.step = p.Step
	h.cost += p.Cost
	h.SetStatus(p.Status())
	h.decision = p.Status()
}

func (h *HostAgent) processorOptions() func(o *processor.HostOptions) {
	return func(o *processor.HostOptions) {
		o.Invoker = h.opts.Invoker
		o.Builder = h.opts.Builder
		o.Memory = h.memory
		o.Metrics = h.opts.Metrics
		o.StatusRule = h.opts.StatusRule
		o.AppFactory = h.dispatch
	}
}

// dispatch creates or re-targets the app agent for the selected window and
// marks it active for the hand-off. Re-dispatched agents restart at
// Continue regardless of how their previous sub-task ended.
func (h *HostAgent) dispatch(rc *core.RunContext, window core.Window, request string) (core.Agent, error) {
	app, ok := h.apps[window.ID]
	if !ok {
		optFns := append([]func(o *AppAgentOptions){func(o *AppAgentOptions) {
			o.Invoker = h.opts.Invoker
			o.Metrics = h.opts.Metrics
			o.SubAgentFactory = h.dispatch
		}}, h.opts.AppOptions...)

		app = NewAppAgent(appAgentName(window), h, window, optFns...)
		h.apps[window.ID] = app
		h.AddSubAgent(app)
	}

	app.SetWindow(window)
	app.SetTask(request)
	app.TransitionTo(state.NewAppContinue(app))

	h.active = app

	return app, nil
}
