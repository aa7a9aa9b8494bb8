package state

import (
	"fmt"

	"github.com/hupe1980/uipilot/core"
)

// pendingActionHolder is implemented by agents that retain a suspended
// action awaiting user confirmation.
type pendingActionHolder interface {
	PendingAction() (core.Action, bool)
}

// appState supplies the app-role defaults: no entry action, the owner acts
// again, the successor is derived from the owner's current status and the
// round continues.
type appState struct {
	owner core.Agent
}

// Role reports the app machine.
func (s appState) Role() core.Role { return core.RoleApp }

// Handle is a no-op by default.
func (s appState) Handle(rc *core.RunContext) error { return nil }

// NextAgent returns the owning agent.
func (s appState) NextAgent() core.Agent { return s.owner }

// NextState derives the successor from the owner's current status.
func (s appState) NextState() core.State {
	return Construct(core.RoleApp, s.owner.Status(), s.owner)
}

// IsRoundEnd keeps the round going by default.
func (s appState) IsRoundEnd() bool { return false }

// host returns the paired host agent.
func (s appState) host() core.Agent { return s.owner.Parent() }

// AppContinue runs one step of the owner's pipeline and keeps stepping until
// the resulting status says otherwise.
type AppContinue struct {
	appState
}

// NewAppContinue constructs the app Continue state.
func NewAppContinue(owner core.Agent) core.State {
	return &AppContinue{appState: appState{owner: owner}}
}

// Name returns the status code this state is registered under.
func (s *AppContinue) Name() core.Status { return core.StatusContinue }

// Handle runs the owner's step pipeline.
func (s *AppContinue) Handle(rc *core.RunContext) error {
	return s.owner.Process(rc)
}

// AppScreenshot behaves exactly like AppContinue; the status exists so a
// step can demand a fresh full capture before acting.
type AppScreenshot struct {
	AppContinue
}

// NewAppScreenshot constructs the app Screenshot state.
func NewAppScreenshot(owner core.Agent) core.State {
	return &AppScreenshot{AppContinue: AppContinue{appState: appState{owner: owner}}}
}

// Name returns the status code this state is registered under.
func (s *AppScreenshot) Name() core.Status { return core.StatusScreenshot }

// AppSwitch hands control to the host so it can re-target the session to a
// different application.
type AppSwitch struct {
	appState
}

// NewAppSwitch constructs the app Switch state.
func NewAppSwitch(owner core.Agent) core.State {
	return &AppSwitch{appState: appState{owner: owner}}
}

// Name returns the status code this state is registered under.
func (s *AppSwitch) Name() core.Status { return core.StatusSwitch }

// NextAgent returns the paired host agent.
func (s *AppSwitch) NextAgent() core.Agent { return s.host() }

// NextState installs the host Continue state so decomposition resumes.
func (s *AppSwitch) NextState() core.State { return hostHandoff(s.Name(), s.host()) }

// AppPending parks the agent until an external condition clears. The entry
// action is deliberately empty; the driver re-invokes Handle each turn.
type AppPending struct {
	appState
}

// NewAppPending constructs the app Pending state.
func NewAppPending(owner core.Agent) core.State {
	return &AppPending{appState: appState{owner: owner}}
}

// Name returns the status code this state is registered under.
func (s *AppPending) Name() core.Status { return core.StatusPending }

// AppConfirm awaits the user decision on a safeguarded action. Declining is
// a no-op for the turn: the agent keeps its status and state and the driver
// asks again. Accepting resumes the suspended pipeline exactly once.
type AppConfirm struct {
	appState

	accepted bool
}

// NewAppConfirm constructs the app Confirm state.
func NewAppConfirm(owner core.Agent) core.State {
	return &AppConfirm{appState: appState{owner: owner}}
}

// Name returns the status code this state is registered under.
func (s *AppConfirm) Name() core.Status { return core.StatusConfirm }

// Handle solicits the confirmation decision and resumes the pipeline when
// accepted.
func (s *AppConfirm) Handle(rc *core.RunContext) error {
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

// NextState keeps the identical state while the decision is outstanding and
// derives the successor once the status moved on.
func (s *AppConfirm) NextState() core.State {
	if s.owner.Status() == core.StatusConfirm {
		return s
	}
	return s.appState.NextState()
}

// confirmPrompt renders the question shown to the user for the owner's
// suspended action.
func confirmPrompt(owner core.Agent) string {
	if holder, ok := owner.(pendingActionHolder); ok {
		if action, ok := holder.PendingAction(); ok {
			return fmt.Sprintf("Apply %q on control %q of %s?", action.Operation, action.ControlText, action.Window.Process)
		}
	}
	return "Apply the suspended action?"
}

// AppFinish marks the sub-task as completed and returns control to the host.
type AppFinish struct {
	appState
}

// NewAppFinish constructs the app Finish state.
func NewAppFinish(owner core.Agent) core.State {
	return &AppFinish{appState: appState{owner: owner}}
}

// Name returns the status code this state is registered under.
func (s *AppFinish) Name() core.Status { return core.StatusFinish }

// NextAgent returns the paired host agent.
func (s *AppFinish) NextAgent() core.Agent { return s.host() }

// NextState installs the host Finish state.
func (s *AppFinish) NextState() core.State { return hostHandoff(s.Name(), s.host()) }

// AppError aborts the in-progress sub-task after an unrecoverable step
// failure. The round ends here even though control returns to the host; the
// session itself continues at host level.
type AppError struct {
	appState
}

// NewAppError constructs the app Error state.
func NewAppError(owner core.Agent) core.State {
	return &AppError{appState: appState{owner: owner}}
}

// Name returns the status code this state is registered under.
func (s *AppError) Name() core.Status { return core.StatusError }

// NextAgent returns the paired host agent.
func (s *AppError) NextAgent() core.Agent { return s.host() }

// NextState installs the host Finish state.
func (s *AppError) NextState() core.State { return hostHandoff(s.Name(), s.host()) }

// IsRoundEnd stops the round.
func (s *AppError) IsRoundEnd() bool { return true }

// AppFail gives the sub-task up without aborting the round. Unlike AppError
// the round keeps going, so the host still takes a regular turn.
type AppFail struct {
	appState
}

// NewAppFail constructs the app Fail state.
func NewAppFail(owner core.Agent) core.State {
	return &AppFail{appState: appState{owner: owner}}
}

// Name returns the status code this state is registered under.
func (s *AppFail) Name() core.Status { return core.StatusFail }

// NextAgent returns the paired host agent.
func (s *AppFail) NextAgent() core.Agent { return s.host() }

// NextState installs the host Finish state.
func (s *AppFail) NextState() core.State { return hostHandoff(s.Name(), s.host()) }

// AppNone is the fallback for unknown or empty status codes: a safe terminal
// default that ends the round and hands control back toward the host.
type AppNone struct {
	appState
}

// NewAppNone constructs the app None state.
func NewAppNone(owner core.Agent) core.State {
	return &AppNone{appState: appState{owner: owner}}
}

// Name returns the empty status code by convention.
func (s *AppNone) Name() core.Status { return core.StatusNone }

// NextAgent returns the paired host agent.
func (s *AppNone) NextAgent() core.Agent { return s.host() }

// NextState installs the host None state.
func (s *AppNone) NextState() core.State { return hostHandoff(s.Name(), s.host()) }

// IsRoundEnd stops the round.
func (s *AppNone) IsRoundEnd() bool { return true }
