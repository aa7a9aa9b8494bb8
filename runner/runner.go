package runner

import (
	"context"
	"fmt"

	"github.com/hupe1980/uipilot/agent"
	"github.com/hupe1980/uipilot/artifact"
	"github.com/hupe1980/uipilot/core"
	"github.com/hupe1980/uipilot/logging"
	"github.com/hupe1980/uipilot/metrics"
	"github.com/hupe1980/uipilot/session"
	"github.com/hupe1980/uipilot/state"
)

// Options holds dependency and configuration overrides passed to New().
type Options struct {
	// SessionStore persists transcripts and session state. Defaults to an
	// in-memory implementation.
	SessionStore core.SessionStore
	// ArtifactStore persists screenshots and other captures. Defaults to an
	// in-memory implementation.
	ArtifactStore core.ArtifactStore
	// Driver is the control backend sessions act against. Required.
	Driver core.ControlDriver
	// Photographer captures the visual context per step. Optional; without
	// one, steps run without screenshots.
	Photographer core.Photographer
	// Confirmer supplies user decisions for safeguarded actions. Optional;
	// without one, safeguarded actions stay suspended until the turn budget
	// aborts the round.
	Confirmer core.Confirmer
	// RequestSink receives one record per executed step. Optional.
	RequestSink logging.RecordSink
	// ErrorSink receives one record per errored step. Optional.
	ErrorSink logging.RecordSink
	// Logger receives structured session diagnostics. Defaults to NoOp.
	Logger logging.Logger
	// Metrics receives round observations. Nil-safe.
	Metrics *metrics.Recorder
	// MaxRounds bounds the number of decomposition rounds per session.
	MaxRounds int
	// MaxTurns bounds the state-machine turns within one round, guarding
	// against non-terminating statuses (a parked PENDING agent, a Confirm
	// decision that never resolves).
	MaxTurns int
}

// Runner executes sessions: it owns the collaborator wiring, the per-round
// turn loop and the session-level round loop.
type Runner struct {
	opts Options
}

// New creates a Runner. Stores default to in-memory implementations so a
// Runner is usable without external services.
func New(optFns ...func(o *Options)) *Runner {
	opts := Options{
		SessionStore:  session.NewInMemoryStore(),
		ArtifactStore: artifact.NewInMemoryStore(),
		Logger:        logging.NoOpLogger{},
		MaxRounds:     10,
		MaxTurns:      50,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Runner{opts: opts}
}

// Result summarizes a finished session.
type Result struct {
	SessionID string
	// Status is the host's final decomposition decision. A non-terminal
	// value (CONTINUE, PENDING) means the round budget ran out first.
	Status core.Status
	// Rounds is the number of decomposition rounds executed.
	Rounds int
	// Steps is the total number of completed steps across the host and all
	// app agents.
	Steps int
	// Cost is the accumulated model cost in USD across all agents.
	Cost float64
}

// Run executes one session for the given request, driving the host agent
// through decomposition rounds until it reaches a terminal decision or the
// round budget is exhausted. The returned Result is valid even when an
// error aborted the session early.
func (r *Runner) Run(ctx context.Context, sessionID, request string, host *agent.HostAgent) (*Result, error) {
	res := &Result{SessionID: sessionID, Status: host.Decision()}

	if r.opts.Driver == nil {
		return res, fmt.Errorf("runner: control driver not configured")
	}

	sess, err := r.opts.SessionStore.Get(sessionID)
	if err != nil {
		return res, fmt.Errorf("get session: %w", err)
	}

	rc := core.NewRunContext(ctx, sessionID, request, sess, r.opts.Logger)
	rc.Driver = r.opts.Driver
	rc.Photographer = r.opts.Photographer
	rc.Confirmer = r.opts.Confirmer
	rc.SessionStore = r.opts.SessionStore
	rc.ArtifactStore = r.opts.ArtifactStore
	rc.RequestSink = r.opts.RequestSink
	rc.ErrorSink = r.opts.ErrorSink

	rc.LogInfo("session started", "request", request)

	for round := 0; round < r.opts.MaxRounds; round++ {
		rc.Round = round
		host.TransitionTo(state.NewHostContinue(host))

		if err := r.runRound(rc, host); err != nil {
			r.summarize(res, host)
			return res, fmt.Errorf("round %d: %w", round, err)
		}

		res.Rounds = round + 1
		r.opts.Metrics.ObserveRound(host.Decision().String())
		rc.LogInfo("round complete", "round", round, "decision", host.Decision())

		if terminal(host.Decision()) {
			break
		}
	}

	r.summarize(res, host)
	rc.LogInfo("session finished", "status", res.Status, "rounds", res.Rounds, "steps", res.Steps)

	return res, nil
}

// runRound drives the state machine for one round: handle the current
// state, resolve successor agent and state, install it, stop on round end.
func (r *Runner) runRound(rc *core.RunContext, host *agent.HostAgent) error {
	ag := core.Agent(host)

	for turn := 0; turn < r.opts.MaxTurns; turn++ {
		if err := rc.Err(); err != nil {
			return err
		}

		st := ag.State()
		if st == nil {
			st = state.Construct(ag.Role(), ag.Status(), ag)
			ag.TransitionTo(st)
		}

		rc.LogDebug("turn", "agent", ag.Name(), "state", st.Name())

		if err := st.Handle(rc); err != nil {
			return fmt.Errorf("%s %s: %w", ag.Role(), st.Name(), err)
		}

		ended := st.IsRoundEnd()

		next := st.NextAgent()
		if next == nil {
			rc.LogWarn("state resolved no successor agent, ending round", "state", st.Name())
			return nil
		}
		next.TransitionTo(st.NextState())

		if ended {
			return nil
		}

		ag = next
	}

	return fmt.Errorf("turn budget of %d exhausted", r.opts.MaxTurns)
}

// summarize folds per-agent counters into the session result.
func (r *Runner) summarize(res *Result, host *agent.HostAgent) {
	res.Status = host.Decision()
	res.Steps = host.Steps()
	res.Cost = host.Cost()

	for _, sub := range host.SubAgents() {
		if app, ok := sub.(*agent.AppAgent); ok {
			res.Steps += app.Steps()
			res.Cost += app.Cost()
		}
	}
}

// terminal reports whether the host's decision ends the session. Anything
// except an explicit CONTINUE or PENDING stops: unknown decisions stop the
// session rather than loop on them.
func terminal(d core.Status) bool {
	return d != core.StatusContinue && d != core.StatusPending
}
