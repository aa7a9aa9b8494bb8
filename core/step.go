package core

import "time"

// StepRecord is the append-only transcript entry for one pipeline step.
// After emission it should be treated as immutable. It captures:
//   - Correlation (session-global step number, round, acting agent)
//   - The request the step worked on and the raw model response
//   - The decoded ActionPlan and its execution result, when the step
//     progressed that far
//   - Accounting (model cost) and the persisted screenshot reference
//   - Error detail for steps that short-circuited
type StepRecord struct {
	Step       int         `json:"step"`
	Round      int         `json:"round"`
	Agent      string      `json:"agent"`
	Status     Status      `json:"status"`
	Request    string      `json:"request,omitempty"`
	Response   string      `json:"response,omitempty"`
	Plan       *ActionPlan `json:"plan,omitempty"`
	Result     string      `json:"result,omitempty"`
	Cost       float64     `json:"cost"`
	Screenshot string      `json:"screenshot,omitempty"`
	Error      string      `json:"error,omitempty"`
	Timestamp  time.Time   `json:"timestamp"`
}

// NewStepRecord creates a record stamped with the current UTC time.
func NewStepRecord(step, round int, agent string, status Status) StepRecord {
	return StepRecord{
		Step:      step,
		Round:     round,
		Agent:     agent,
		Status:    status,
		Timestamp: time.Now().UTC(),
	}
}

// Fields returns the record in the map shape consumed by append-only record
// sinks. Zero-valued optional fields are omitted to keep log lines compact.
func (r StepRecord) Fields() map[string]any {
	fields := map[string]any{
		"step":      r.Step,
		"round":     r.Round,
		"agent":     r.Agent,
		"status":    r.Status.String(),
		"cost":      r.Cost,
		"timestamp": r.Timestamp.Format(time.RFC3339Nano),
	}
	if r.Request != "" {
		fields["request"] = r.Request
	}
	if r.Response != "" {
		fields["response"] = r.Response
	}
	if r.Plan != nil {
		fields["plan"] = *r.Plan
	}
	if r.Result != "" {
		fields["result"] = r.Result
	}
	if r.Screenshot != "" {
		fields["screenshot"] = r.Screenshot
	}
	if r.Error != "" {
		fields["error"] = r.Error
	}
	return fields
}
