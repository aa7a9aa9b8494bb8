package core

// Agent is a stateful participant in an automation session.
//
// An agent owns a mutable status code plus the lifecycle state constructed
// from it. The driver loop consults the state for control-flow decisions
// (who acts next, does the round end) and calls back into the agent for the
// actual work of a turn.
//
// Implementations must:
//   - Hold at most one State reference at a time; TransitionTo replaces the
//     reference, it never mutates the old state in place
//   - Accept any status string; unknown codes resolve to the None state at
//     the registry, not here
//   - Serialize Process/ProcessResume per agent (the driver is single
//     threaded by contract, so no internal locking is required for the
//     status/state pair beyond what embedding types provide)
type Agent interface {
	Name() string
	Role() Role
	Status() Status
	SetStatus(status Status)
	State() State
	TransitionTo(next State)
	Parent() Agent
	SubAgents() []Agent
	Process(rc *RunContext) error
	ProcessResume(rc *RunContext) error
}
