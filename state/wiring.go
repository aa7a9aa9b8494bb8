package state

import "github.com/hupe1980/uipilot/core"

// handoff holds the fixed cross-machine wiring: which host state an app
// state installs when it returns control. These pairings are literal table
// entries, never a status lookup, so the two machines stay decoupled.
var handoff = map[core.Status]core.StateFactory{
	core.StatusFinish: NewHostFinish,
	core.StatusError:  NewHostFinish,
	core.StatusFail:   NewHostFinish,
	core.StatusSwitch: NewHostContinue,
	core.StatusNone:   NewHostNone,
}

// hostHandoff resolves the host state installed when the app state named
// from hands control back. Unlisted names fall back to the host None state,
// keeping the table total.
func hostHandoff(from core.Status, host core.Agent) core.State {
	f, ok := handoff[from]
	if !ok {
		f = NewHostNone
	}
	return f(host)
}
