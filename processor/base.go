package processor

import (
	"errors"
	"maps"
	"time"

	"github.com/hupe1980/uipilot/core"
	"github.com/hupe1980/uipilot/model"
)

// Base carries the bookkeeping shared by all step processors: identity of
// the owning agent, counters, the working status and the scratch state the
// stages populate one after another. Concrete processors embed it and get
// the bookkeeping half of the Stages contract for free.
//
// One Base serves exactly one step. The owning agent folds Status and Step
// back after the run and discards the processor, unless the step suspended
// for confirmation, in which case the processor is retained until Resume.
type Base struct {
	Agent   core.Agent
	Round   int
	Step    int // step counter at entry; advanced by update-step-and-status
	Request string
	Window  core.Window
	Started time.Time

	Screenshot *core.Screenshot
	Prompt     model.Request
	Cost       float64
	Plan       *core.ActionPlan
	Result     core.ActionResult

	status    core.Status
	response  string
	pending   *core.Action
	suspended bool
}

// NewBase seeds the bookkeeping for one step of the given agent.
func NewBase(agent core.Agent, round, step int, request string, window core.Window) Base {
	b := Base{
		Agent:   agent,
		Round:   round,
		Step:    step,
		Request: request,
		Window:  window,
		Started: time.Now(),
	}
	if agent != nil {
		b.status = agent.Status()
	}
	return b
}

// Status returns the working status of the step.
func (b *Base) Status() core.Status { return b.status }

// SetStatus replaces the working status.
func (b *Base) SetStatus(status core.Status) { b.status = status }

// Response returns the raw model response received so far.
func (b *Base) Response() string { return b.response }

// SetResponse stores the raw model response.
func (b *Base) SetResponse(text string) { b.response = text }

// StepNumber returns the number of the step being processed (entry counter
// plus one); transcript and error records carry this number.
func (b *Base) StepNumber() int { return b.Step + 1 }

// Suspended reports whether the step is parked awaiting confirmation.
func (b *Base) Suspended() bool { return b.suspended }

// Suspend parks the action for confirmation and moves the status to
// CONFIRM. The remaining stages stay unexecuted until Resume.
func (b *Base) Suspend(action core.Action) {
	cp := action
	b.pending = &cp
	b.suspended = true
	b.status = core.StatusConfirm
}

// ClearSuspension drops the parked action.
func (b *Base) ClearSuspension() {
	b.pending = nil
	b.suspended = false
}

// PendingAction returns the parked action, if any.
func (b *Base) PendingAction() (core.Action, bool) {
	if b.pending == nil {
		return core.Action{}, false
	}
	return *b.pending, true
}

// PrintStepInfo is the default diagnostic stage; it only logs.
func (b *Base) PrintStepInfo(rc *core.RunContext) {
	rc.LogInfo("step starting",
		"agent", b.agentName(),
		"round", b.Round,
		"step", b.StepNumber(),
		"window", b.Window.Title,
	)
}

// ShouldCreateSubAgent is the default creation predicate: never.
func (b *Base) ShouldCreateSubAgent() bool { return false }

// CreateSubAgent is the default creation stage: nothing to create.
func (b *Base) CreateSubAgent(rc *core.RunContext) error { return nil }

// ExecutePending fails by default; processors that can suspend override it.
func (b *Base) ExecutePending(rc *core.RunContext) error {
	return errors.New("processor: no pending action to resume")
}

// planStatus returns the status the decoded plan declared, or NONE when no
// plan (or no declaration) exists.
func (b *Base) planStatus() core.Status {
	if b.Plan == nil {
		return core.StatusNone
	}
	return b.Plan.Status
}

// record builds the transcript entry for the completing step.
func (b *Base) record() core.StepRecord {
	rec := core.NewStepRecord(b.StepNumber(), b.Round, b.agentName(), b.planStatus())
	rec.Request = b.Request
	rec.Response = b.response
	rec.Plan = b.Plan
	rec.Result = b.Result.Output
	rec.Cost = b.Cost
	if b.Screenshot != nil {
		rec.Screenshot = b.Screenshot.ArtifactID
	}
	return rec
}

func (b *Base) agentName() string {
	if b.Agent == nil {
		return ""
	}
	return b.Agent.Name()
}

// noteSnapshot merges persisted session state with the staged delta,
// yielding the shared notes surfaced to prompts.
func noteSnapshot(rc *core.RunContext) map[string]any {
	notes := map[string]any{}
	if rc.Session != nil {
		maps.Copy(notes, rc.Session.Clone().State)
	}
	maps.Copy(notes, rc.StateDelta)
	return notes
}
