package processor

import (
	"github.com/hupe1980/uipilot/core"
)

// SafeguardOptions configures a Safeguard.
type SafeguardOptions struct {
	// Operations lists operation names that always require confirmation.
	Operations []string
	// Matcher, when set, flags additional plans as sensitive (e.g. by
	// inspecting arguments or the targeted control).
	Matcher func(plan *core.ActionPlan) bool
}

// Safeguard decides which planned actions need an explicit user
// confirmation before they are applied. The zero value and a nil receiver
// flag nothing.
type Safeguard struct {
	operations map[string]struct{}
	matcher    func(plan *core.ActionPlan) bool
}

// NewSafeguard constructs a Safeguard from the given options.
func NewSafeguard(optFns ...func(o *SafeguardOptions)) *Safeguard {
	opts := SafeguardOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}
	ops := make(map[string]struct{}, len(opts.Operations))
	for _, op := range opts.Operations {
		ops[op] = struct{}{}
	}
	return &Safeguard{operations: ops, matcher: opts.Matcher}
}

// Requires reports whether the plan's action must be confirmed.
func (g *Safeguard) Requires(plan *core.ActionPlan) bool {
	if g == nil || plan == nil || plan.Operation == "" {
		return false
	}
	if _, ok := g.operations[plan.Operation]; ok {
		return true
	}
	return g.matcher != nil && g.matcher(plan)
}
