package testutil

import (
	"github.com/hupe1980/uipilot/core"
)

// RecordBuilder provides a fluent helper for constructing step records in
// tests. Example:
//
//	rec := NewRecordBuilder().Agent("app/calc.exe").Step(3).Operation("click_input", "Seven").Build()
//
// Chain only the parts you need; sensible defaults are applied.
type RecordBuilder struct {
	step       int
	round      int
	agent      string
	status     core.Status
	request    string
	response   string
	plan       *core.ActionPlan
	result     string
	cost       float64
	screenshot string
	errText    string
}

// NewRecordBuilder creates a builder with default agent "app" and status
// CONTINUE.
func NewRecordBuilder() *RecordBuilder {
	return &RecordBuilder{agent: "app", status: core.StatusContinue, step: 1}
}

// Agent sets the acting agent name (chainable).
func (b *RecordBuilder) Agent(name string) *RecordBuilder { b.agent = name; return b }

// Step sets the session-global step number (chainable).
func (b *RecordBuilder) Step(n int) *RecordBuilder { b.step = n; return b }

// Round sets the round index (chainable).
func (b *RecordBuilder) Round(n int) *RecordBuilder { b.round = n; return b }

// Status sets the closing status of the step (chainable).
func (b *RecordBuilder) Status(s core.Status) *RecordBuilder { b.status = s; return b }

// Request sets the request text the step worked on (chainable).
func (b *RecordBuilder) Request(text string) *RecordBuilder { b.request = text; return b }

// Response sets the raw model response (chainable).
func (b *RecordBuilder) Response(text string) *RecordBuilder { b.response = text; return b }

// Plan attaches a full action plan (chainable).
func (b *RecordBuilder) Plan(plan core.ActionPlan) *RecordBuilder { b.plan = &plan; return b }

// Operation attaches a minimal plan carrying just the executed operation and
// its target control text (chainable).
func (b *RecordBuilder) Operation(operation, controlText string) *RecordBuilder {
	b.plan = &core.ActionPlan{Operation: operation, ControlText: controlText, Status: b.status}
	return b
}

// Result sets the backend output of the applied action (chainable).
func (b *RecordBuilder) Result(output string) *RecordBuilder { b.result = output; return b }

// Cost sets the model spend booked to the step (chainable).
func (b *RecordBuilder) Cost(usd float64) *RecordBuilder { b.cost = usd; return b }

// Screenshot sets the persisted capture's artifact id (chainable).
func (b *RecordBuilder) Screenshot(artifactID string) *RecordBuilder {
	b.screenshot = artifactID
	return b
}

// Error sets the error text of a short-circuited step (chainable).
func (b *RecordBuilder) Error(text string) *RecordBuilder { b.errText = text; return b }

// Build constructs the core.StepRecord value.
func (b *RecordBuilder) Build() core.StepRecord {
	rec := core.NewStepRecord(b.step, b.round, b.agent, b.status)
	rec.Request = b.request
	rec.Response = b.response
	rec.Plan = b.plan
	rec.Result = b.result
	rec.Cost = b.cost
	rec.Screenshot = b.screenshot
	rec.Error = b.errText

	return rec
}
