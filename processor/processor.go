package processor

import (
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/uipilot/core"
	"github.com/hupe1980/uipilot/metrics"
	"github.com/hupe1980/uipilot/model"
)

// SubAgentFactory creates (or reuses) an agent for the given window and
// request. Supplied by the agent layer so processors stay free of agent
// construction details.
type SubAgentFactory func(rc *core.RunContext, window core.Window, request string) (core.Agent, error)

// Stages is the contract one step processor fulfils. The bookkeeping half
// (Status through ExecutePending) comes from embedding Base; the stage half
// is implemented per role. Run and Resume drive the fixed order and own the
// short-circuit and suspension checks, so stage implementations never chain
// into each other.
type Stages interface {
	// Bookkeeping, provided by Base.
	Status() core.Status
	SetStatus(status core.Status)
	Response() string
	StepNumber() int
	Suspended() bool
	ExecutePending(rc *core.RunContext) error

	// Stages in fixed execution order.
	PrintStepInfo(rc *core.RunContext)
	CaptureScreenshot(rc *core.RunContext) error
	GetControlInfo(rc *core.RunContext) error
	GetPromptMessage(rc *core.RunContext) error
	GetResponse(rc *core.RunContext) error
	ParseResponse(rc *core.RunContext) error
	ExecuteAction(rc *core.RunContext) error
	UpdateMemory(rc *core.RunContext) error
	ShouldCreateSubAgent() bool
	CreateSubAgent(rc *core.RunContext) error
	UpdateStepAndStatus(rc *core.RunContext) error
}

// Run executes one step through the fixed stage order. Failures in the
// model, parse and execution stages are recorded, collapse the status to
// ERROR and return nil: the session recovers at round level. Failures in
// the observation stages are infrastructure errors and propagate. A run
// that suspends for confirmation returns nil with Suspended() true and the
// closing stages still outstanding.
func Run(rc *core.RunContext, s Stages) error {
	if err := rc.Err(); err != nil {
		return err
	}

	s.PrintStepInfo(rc)
	if err := s.CaptureScreenshot(rc); err != nil {
		return err
	}
	if err := s.GetControlInfo(rc); err != nil {
		return err
	}
	if err := s.GetPromptMessage(rc); err != nil {
		return err
	}

	if err := s.GetResponse(rc); err != nil {
		return recordFailure(rc, s, &ResponseError{Stage: StageGetResponse, Err: err})
	}
	if s.Status() == core.StatusError { // short-circuit check A
		return nil
	}

	if err := s.ParseResponse(rc); err != nil {
		return recordFailure(rc, s, &ResponseError{Stage: StageParseResponse, Err: err})
	}
	if s.Status() == core.StatusError { // short-circuit check B
		return nil
	}

	if err := s.ExecuteAction(rc); err != nil {
		return recordFailure(rc, s, &ExecutionError{Err: err})
	}
	if s.Suspended() {
		return nil
	}

	return completeStep(rc, s)
}

// Resume continues a step that suspended in ExecuteAction: the parked
// action is applied and the closing stages run, yielding the single
// transcript record and step increment the step still owes.
func Resume(rc *core.RunContext, s Stages) error {
	if err := rc.Err(); err != nil {
		return err
	}
	if !s.Suspended() {
		return errors.New("processor: resume without a suspended step")
	}
	if err := s.ExecutePending(rc); err != nil {
		return recordFailure(rc, s, &ExecutionError{Err: err})
	}
	return completeStep(rc, s)
}

// completeStep runs the closing stages: update-memory, conditional
// sub-agent creation and update-step-and-status.
func completeStep(rc *core.RunContext, s Stages) error {
	if err := s.UpdateMemory(rc); err != nil {
		return err
	}
	if s.ShouldCreateSubAgent() {
		if err := s.CreateSubAgent(rc); err != nil {
			return err
		}
	}
	return s.UpdateStepAndStatus(rc)
}

// recordFailure collapses a stage failure to status ERROR, writes the error
// record and consumes the error: the step is over, the session continues.
func recordFailure(rc *core.RunContext, s Stages, cause error) error {
	s.SetStatus(core.StatusError)
	if err := rc.RecordError(s.StepNumber(), s.Response(), cause); err != nil {
		rc.LogWarn("error record write failed", "error", err)
	}
	rc.LogError("step failed", "step", s.StepNumber(), "error", cause)
	return nil
}

// invoke performs the model call shared by the concrete processors,
// folding usage into metrics and the raw text and cost into the base.
func invoke(rc *core.RunContext, b *Base, inv model.Invoker, rec *metrics.Recorder) error {
	if inv == nil {
		return errors.New("processor: model invoker not configured")
	}

	start := time.Now()
	completion, err := inv.Invoke(rc.Context, b.Prompt)
	info := inv.Info()
	rec.ObserveModelCall(info.Provider, info.Name, err == nil)
	if err != nil {
		return fmt.Errorf("model invocation failed: %w", err)
	}

	b.SetResponse(completion.Text)
	b.Cost += completion.Cost
	rec.AddTokens(completion.Model, completion.Usage.PromptTokens, completion.Usage.CompletionTokens)
	rec.AddCost(completion.Cost)

	rc.LogDebug("model responded",
		"model", completion.Model,
		"prompt_tokens", completion.Usage.PromptTokens,
		"completion_tokens", completion.Usage.CompletionTokens,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
