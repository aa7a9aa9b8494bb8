package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder bundles the collectors instrumenting a session. All observe
// methods are nil-receiver safe.
type Recorder struct {
	stepsTotal    *prometheus.CounterVec
	stepDuration  *prometheus.HistogramVec
	modelCalls    *prometheus.CounterVec
	modelTokens   *prometheus.CounterVec
	modelCost     prometheus.Counter
	actionsTotal  *prometheus.CounterVec
	confirmsTotal *prometheus.CounterVec
	roundsTotal   *prometheus.CounterVec
}

// NewRecorder creates and registers the collectors. A nil registerer falls
// back to the default Prometheus registry.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	r := &Recorder{
		stepsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uipilot_steps_total",
			Help: "Completed pipeline steps by agent and resulting status.",
		}, []string{"agent", "status"}),
		stepDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "uipilot_step_duration_seconds",
			Help:    "Wall time of one pipeline step.",
			Buckets: prometheus.DefBuckets,
		}, []string{"agent"}),
		modelCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uipilot_model_calls_total",
			Help: "Model invocations by provider, model and outcome.",
		}, []string{"provider", "model", "outcome"}),
		modelTokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uipilot_model_tokens_total",
			Help: "Tokens exchanged with models by direction.",
		}, []string{"model", "direction"}),
		modelCost: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "uipilot_model_cost_usd_total",
			Help: "Accumulated model spend in USD.",
		}),
		actionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uipilot_actions_total",
			Help: "Applied control actions by operation and outcome.",
		}, []string{"operation", "outcome"}),
		confirmsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uipilot_confirmations_total",
			Help: "Safeguard confirmation decisions.",
		}, []string{"decision"}),
		roundsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "uipilot_rounds_total",
			Help: "Finished rounds by closing status.",
		}, []string{"status"}),
	}
	reg.MustRegister(
		r.stepsTotal, r.stepDuration, r.modelCalls, r.modelTokens,
		r.modelCost, r.actionsTotal, r.confirmsTotal, r.roundsTotal,
	)
	return r
}

// ObserveStep records one completed pipeline step.
func (r *Recorder) ObserveStep(agent, status string, seconds float64) {
	if r == nil {
		return
	}
	r.stepsTotal.WithLabelValues(agent, status).Inc()
	r.stepDuration.WithLabelValues(agent).Observe(seconds)
}

// ObserveModelCall records one model invocation.
func (r *Recorder) ObserveModelCall(provider, model string, success bool) {
	if r == nil {
		return
	}
	r.modelCalls.WithLabelValues(provider, model, outcome(success)).Inc()
}

// AddTokens records prompt and completion token usage for a model.
func (r *Recorder) AddTokens(model string, prompt, completion int) {
	if r == nil {
		return
	}
	r.modelTokens.WithLabelValues(model, "prompt").Add(float64(prompt))
	r.modelTokens.WithLabelValues(model, "completion").Add(float64(completion))
}

// AddCost accumulates model spend.
func (r *Recorder) AddCost(usd float64) {
	if r == nil || usd <= 0 {
		return
	}
	r.modelCost.Add(usd)
}

// ObserveAction records one applied control action.
func (r *Recorder) ObserveAction(operation string, success bool) {
	if r == nil {
		return
	}
	r.actionsTotal.WithLabelValues(operation, outcome(success)).Inc()
}

// ObserveConfirmation records a safeguard decision.
func (r *Recorder) ObserveConfirmation(accepted bool) {
	if r == nil {
		return
	}
	decision := "declined"
	if accepted {
		decision = "accepted"
	}
	r.confirmsTotal.WithLabelValues(decision).Inc()
}

// ObserveRound records a finished round and the status that closed it.
func (r *Recorder) ObserveRound(status string) {
	if r == nil {
		return
	}
	r.roundsTotal.WithLabelValues(status).Inc()
}

func outcome(success bool) string {
	if success {
		return "success"
	}
	return "error"
}
