package core

// Status is the free-form status code an agent carries between steps. Step
// execution produces a status; a state registry resolves it to the next
// lifecycle state. Unknown codes are legal and resolve to the role's None
// state, so a Status is never validated beyond string comparison.
type Status string

// Canonical status codes. The app role uses all of them; the host role uses
// the subset without StatusSwitch and StatusScreenshot.
const (
	// StatusContinue keeps the current agent stepping.
	StatusContinue Status = "CONTINUE"
	// StatusScreenshot requests a step with a fresh full capture first.
	StatusScreenshot Status = "SCREENSHOT"
	// StatusSwitch hands control to the host to re-target the application.
	StatusSwitch Status = "SWITCH"
	// StatusPending parks the agent until an external condition clears.
	StatusPending Status = "PENDING"
	// StatusConfirm awaits a user decision on a safeguarded action.
	StatusConfirm Status = "CONFIRM"
	// StatusFinish marks the agent's sub-task as completed.
	StatusFinish Status = "FINISH"
	// StatusError marks an unrecoverable step failure; the round is aborted.
	StatusError Status = "ERROR"
	// StatusFail marks the sub-task as given up without aborting the round.
	StatusFail Status = "FAIL"
	// StatusNone is the empty code carried by freshly constructed agents and
	// returned by states that have no specific status. It doubles as the
	// registry fallback key.
	StatusNone Status = ""
)

// String returns the raw status code.
func (s Status) String() string { return string(s) }

// Role tags the two agent families of a session.
type Role string

const (
	// RoleHost supervises: it decomposes the user request and routes
	// sub-tasks to app agents.
	RoleHost Role = "host"
	// RoleApp executes: it drives interactive steps against a single target
	// application.
	RoleApp Role = "app"
)

// String returns the role tag.
func (r Role) String() string { return string(r) }

// State is one node of a per-role lifecycle machine, freshly constructed on
// every transition and bound to its owning agent. A state answers four
// questions: what happens now (Handle), who acts next (NextAgent), which
// state the next actor enters (NextState) and whether the round stops here
// (IsRoundEnd).
//
// Cross-role hand-offs (app terminal states passing control to the host) are
// fixed wiring baked into the variant, never a status lookup; same-role
// successors are derived from the owner's current status via the registry.
type State interface {
	// Name returns the canonical status code the state is registered under.
	// None variants return StatusNone.
	Name() Status
	// Role reports which machine the state belongs to.
	Role() Role
	// Handle performs the state's entry action. Most variants are no-ops;
	// the app Continue and Screenshot variants run the owner's step
	// pipeline, Confirm variants solicit a user decision and resume a
	// suspended pipeline on acceptance.
	Handle(rc *RunContext) error
	// NextAgent returns the agent acting on the following turn.
	NextAgent() Agent
	// NextState resolves the state the next agent should enter.
	NextState() State
	// IsRoundEnd reports whether the round stops after this state executed.
	IsRoundEnd() bool
}

// StateFactory constructs a state bound to its owning agent. Factories are
// what registries store and invoke; they must tolerate a nil owner so a
// registry can probe Name and Role at registration time.
type StateFactory func(owner Agent) State
