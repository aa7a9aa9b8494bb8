package state

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hupe1980/uipilot/core"
)

// ErrConflict indicates a duplicate (role, name) registration. Duplicate
// registrations are configuration errors and must surface at load time, not
// during a session.
var ErrConflict = errors.New("state: duplicate registration")

// Registry maps (role, status code) pairs to state factories. It is safe
// for concurrent use; in practice all registrations happen at load time and
// lookups dominate afterwards.
type Registry struct {
	mu      sync.RWMutex
	entries map[core.Role]map[core.Status]core.StateFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: map[core.Role]map[core.Status]core.StateFactory{}}
}

// Register probes the factory for its state's name and role and stores it
// under that pair. A second registration of the same pair fails with
// ErrConflict, keeping the status mapping conflict-free per role.
func (r *Registry) Register(f core.StateFactory) error {
	if f == nil {
		return fmt.Errorf("state: nil factory")
	}

	probe := f(nil)
	if probe == nil {
		return fmt.Errorf("state: factory returned nil state")
	}

	role, name := probe.Role(), probe.Name()

	r.mu.Lock()
	defer r.mu.Unlock()

	byName, ok := r.entries[role]
	if !ok {
		byName = map[core.Status]core.StateFactory{}
		r.entries[role] = byName
	}

	if _, exists := byName[name]; exists {
		return fmt.Errorf("%w: %s %q", ErrConflict, role, name.String())
	}

	byName[name] = f

	return nil
}

// MustRegister registers the factory and panics on conflict. Intended for
// load-time registration of state variants.
func (r *Registry) MustRegister(f core.StateFactory) {
	if err := r.Register(f); err != nil {
		panic(err)
	}
}

// Lookup returns the factory registered for the exact status code. Unknown
// codes resolve to the role's None factory, never to a failure, so every
// reachable status maps to some state.
func (r *Registry) Lookup(role core.Role, status core.Status) core.StateFactory {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if byName, ok := r.entries[role]; ok {
		if f, ok := byName[status]; ok {
			return f
		}
		if f, ok := byName[core.StatusNone]; ok {
			return f
		}
	}

	return noneFactory(role)
}

// Construct combines Lookup with instantiation bound to the owning agent.
func (r *Registry) Construct(role core.Role, status core.Status, owner core.Agent) core.State {
	return r.Lookup(role, status)(owner)
}

// noneFactory keeps Lookup total on registries without an explicit None
// registration.
func noneFactory(role core.Role) core.StateFactory {
	if role == core.RoleHost {
		return NewHostNone
	}
	return NewAppNone
}

// Default is the process-wide registry the built-in variants register into
// at load time.
var Default = NewRegistry()

// Register adds a factory to the default registry.
func Register(f core.StateFactory) error { return Default.Register(f) }

// MustRegister adds a factory to the default registry, panicking on conflict.
func MustRegister(f core.StateFactory) { Default.MustRegister(f) }

// Lookup resolves a factory from the default registry.
func Lookup(role core.Role, status core.Status) core.StateFactory {
	return Default.Lookup(role, status)
}

// Construct instantiates a state from the default registry bound to owner.
func Construct(role core.Role, status core.Status, owner core.Agent) core.State {
	return Default.Construct(role, status, owner)
}

func init() {
	for _, f := range []core.StateFactory{
		NewAppContinue, NewAppScreenshot, NewAppSwitch, NewAppPending,
		NewAppConfirm, NewAppFinish, NewAppError, NewAppFail, NewAppNone,
		NewHostContinue, NewHostPending, NewHostConfirm, NewHostFinish,
		NewHostError, NewHostFail, NewHostNone,
	} {
		MustRegister(f)
	}
}
