// Package state implements the two per-role lifecycle machines and the
// registry that maps status codes to state implementations.
//
// Each state variant is registered once at load time into the Default
// registry; registering two variants under the same (role, name) pair is a
// configuration error surfaced immediately. Lookup is total: an unknown
// status code resolves to the role's None state, a safe terminal default
// that ends the round and hands control back toward the host.
//
// The app machine's terminal states (Finish, Error, Fail, Switch, None) pass
// control to the paired host agent. Which host state they install is fixed
// wiring held in a single hand-off table, keeping the two machines free of
// imports into each other's transition logic.
package state
