// Package session houses concrete implementations of core.SessionStore.
// The interface itself (and the Session struct with its state map and step
// transcript) live in the core package so that agents and the runner depend
// on the contract rather than on concrete storage.
//
// Add additional backends (Redis, Postgres, ...) in sub-packages without
// changing any calling code; only the wiring layer decides which
// implementation to instantiate.
package session
