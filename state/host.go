package state

import "github.com/hupe1980/uipilot/core"

// appSelector is implemented by host agents that track which app agent the
// last decomposition round activated.
type appSelector interface {
	ActiveApp() core.Agent
}

// hostState supplies the host-role defaults, mirroring appState: no entry
// action, the owner acts again, the successor is derived from the owner's
// current status and the round continues.
type hostState struct {
	owner core.Agent
}

// Role reports the host machine.
func (s hostState) Role() core.Role { return core.RoleHost }

// Handle is a no-op by default.
func (s hostState) Handle(rc *core.RunContext) error { return nil }

// NextAgent returns the owning agent.
func (s hostState) NextAgent() core.Agent { return s.owner }

// NextState derives the successor from the next agent's role and status, so
// a hand-off to a freshly activated app agent lands in that agent's machine.
func (s hostState) NextState() core.State {
	return derivedFor(s.owner)
}

// IsRoundEnd keeps the round going by default.
func (s hostState) IsRoundEnd() bool { return false }

// derivedFor derives the state matching an agent's own role and status.
func derivedFor(ag core.Agent) core.State {
	return Construct(ag.Role(), ag.Status(), ag)
}

// HostContinue is the only host state that performs work: one decomposition
// round that observes the desktop, picks the target application and
// dispatches (or creates) the app agent for the next sub-task.
type HostContinue struct {
	hostState
}

// NewHostContinue constructs the host Continue state.
func NewHostContinue(owner core.Agent) core.State {
	return &HostContinue{hostState: hostState{owner: owner}}
}

// Name returns the status code this state is registered under.
func (s *HostContinue) Name() core.Status { return core.StatusContinue }

// Handle runs the host's decomposition round exactly once per call.
func (s *HostContinue) Handle(rc *core.RunContext) error {
	return s.owner.Process(rc)
}

// NextAgent returns the app agent the decomposition round activated, or the
// host itself when no app agent was dispatched.
func (s *HostContinue) NextAgent() core.Agent {
	if sel, ok := s.owner.(appSelector); ok {
		if app := sel.ActiveApp(); app != nil {
			return app
		}
	}
	return s.owner
}

// NextState derives the successor from the receiving agent's own machine.
func (s *HostContinue) NextState() core.State {
	return derivedFor(s.NextAgent())
}

// HostPending parks the host until an external condition clears. Parking
// ends the round; the session loop re-enters decomposition on the next one.
type HostPending struct {
	hostState
}

// NewHostPending constructs the host Pending state.
func NewHostPending(owner core.Agent) core.State {
	return &HostPending{hostState: hostState{owner: owner}}
}

// Name returns the status code this state is registered under.
func (s *HostPending) Name() core.Status { return core.StatusPending }

// IsRoundEnd stops the round.
func (s *HostPending) IsRoundEnd() bool { return true }

// HostConfirm awaits the user decision on a safeguarded host-level action,
// mirroring the app Confirm semantics.
type HostConfirm struct {
	hostState

	accepted bool
}

// NewHostConfirm constructs the host Confirm state.
func NewHostConfirm(owner core.Agent) core.State {
	return &HostConfirm{hostState: hostState{owner: owner}}
}

// Name returns the status code this state is registered under.
func (s *HostConfirm) Name() core.Status { return core.StatusConfirm }

// Handle solicits the confirmation decision and resumes the suspended round
// when accepted. Declining leaves status and state untouched.
func (s *HostConfirm) Handle(rc *core.RunContext) error {
	if rc.Confirmer == nil {
		rc.LogWarn("No confirmer attached, action stays suspended", "agent", s.owner.Name())
		return nil
	}

	if !rc.Confirmer.AskYesNo(confirmPrompt(s.owner)) {
		rc.LogInfo("Safeguarded action declined", "agent", s.owner.Name())
		return nil
	}

	s.accepted = true

	return s.owner.ProcessResume(rc)
}

// NextState keeps the identical state while the decision is outstanding.
func (s *HostConfirm) NextState() core.State {
	if s.owner.Status() == core.StatusConfirm {
		return s
	}
	return s.hostState.NextState()
}

// HostFinish ends the session's work: the request is fulfilled or abandoned.
type HostFinish struct {
	hostState
}

// NewHostFinish constructs the host Finish state.
func NewHostFinish(owner core.Agent) core.State {
	return &HostFinish{hostState: hostState{owner: owner}}
}

// Name returns the status code this state is registered under.
func (s *HostFinish) Name() core.Status { return core.StatusFinish }

// IsRoundEnd stops the round.
func (s *HostFinish) IsRoundEnd() bool { return true }

// HostError records an unrecoverable host-level failure and stops the round.
type HostError struct {
	hostState
}

// NewHostError constructs the host Error state.
func NewHostError(owner core.Agent) core.State {
	return &HostError{hostState: hostState{owner: owner}}
}

// Name returns the status code this state is registered under.
func (s *HostError) Name() core.Status { return core.StatusError }

// IsRoundEnd stops the round.
func (s *HostError) IsRoundEnd() bool { return true }

// HostFail folds a given-up request into the Finish state on the next turn,
// mirroring the app machine's Fail asymmetry: the round itself keeps going.
type HostFail struct {
	hostState
}

// NewHostFail constructs the host Fail state.
func NewHostFail(owner core.Agent) core.State {
	return &HostFail{hostState: hostState{owner: owner}}
}

// Name returns the status code this state is registered under.
func (s *HostFail) Name() core.Status { return core.StatusFail }

// NextState installs the host Finish state.
func (s *HostFail) NextState() core.State {
	return NewHostFinish(s.owner)
}

// HostNone is the fallback for unknown or empty host status codes. Like its
// app counterpart it is a safe terminal default that stops the round.
type HostNone struct {
	hostState
}

// NewHostNone constructs the host None state.
func NewHostNone(owner core.Agent) core.State {
	return &HostNone{hostState: hostState{owner: owner}}
}

// Name returns the empty status code by convention.
func (s *HostNone) Name() core.Status { return core.StatusNone }

// IsRoundEnd stops the round.
func (s *HostNone) IsRoundEnd() bool { return true }
