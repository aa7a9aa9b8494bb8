package agent

import (
	"sync"

	"github.com/hupe1980/uipilot/core"
)

// BaseAgent bundles the identity, status/state pair and hierarchy bookkeeping
// shared by both roles. Embed it in a concrete agent and supply Process and
// ProcessResume to satisfy core.Agent. Methods are safe for concurrent use,
// though the driver contract keeps each agent single-threaded.
type BaseAgent struct {
	name string
	role core.Role

	mu        sync.Mutex
	status    core.Status
	state     core.State
	parent    core.Agent
	subAgents []core.Agent
}

// NewBaseAgent constructs a BaseAgent with the given identity and an initial
// CONTINUE status. The lifecycle state starts unset; the driver or the
// embedding constructor installs the first state via TransitionTo.
func NewBaseAgent(name string, role core.Role) BaseAgent {
	return BaseAgent{
		name:   name,
		role:   role,
		status: core.StatusContinue,
	}
}

// Name returns the agent's name.
func (b *BaseAgent) Name() string { return b.name }

// Role returns the agent's role.
func (b *BaseAgent) Role() core.Role { return b.role }

// Status returns the current status code.
func (b *BaseAgent) Status() core.Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

// SetStatus replaces the current status code. Any string is accepted;
// unknown codes resolve to the None state at the registry.
func (b *BaseAgent) SetStatus(status core.Status) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.status = status
}

// State returns the current lifecycle state, nil before the first
// transition.
func (b *BaseAgent) State() core.State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// TransitionTo installs the next lifecycle state and aligns the status code
// with the state's canonical name, keeping the pair consistent for derived
// successor lookups. A nil next state is ignored.
func (b *BaseAgent) TransitionTo(next core.State) {
	if next == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = next
	b.status = next.Name()
}

// Parent returns the parent agent, nil for root-level agents.
func (b *BaseAgent) Parent() core.Agent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.parent
}

// setParent establishes the parent reference. Constructors wire it to the
// concrete outer agent, never to the embedded base itself.
func (b *BaseAgent) setParent(p core.Agent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.parent = p
}

// AddSubAgent appends a child to the managed set. Adding the same child
// twice is a no-op. The child's parent link is established by its own
// constructor, not here.
func (b *BaseAgent) AddSubAgent(child core.Agent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, existing := range b.subAgents {
		if existing == child {
			return
		}
	}
	b.subAgents = append(b.subAgents, child)
}

// SubAgents returns a copy of the current child set.
func (b *BaseAgent) SubAgents() []core.Agent {
	b.mu.Lock()
	defer b.mu.Unlock()
	result := make([]core.Agent, len(b.subAgents))
	copy(result, b.subAgents)
	return result
}
