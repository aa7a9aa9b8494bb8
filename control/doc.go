// Package control provides core.ControlDriver implementations: the layer
// that enumerates application windows, inspects their controls and applies
// grounded actions to them.
//
// The in-memory driver in this package is a deterministic, scripted desktop.
// Windows, controls and per-operation behavior are registered up front,
// which makes it the backend for tests, examples and dry runs. A driver for
// a real accessibility API (UIA, AT-SPI, ...) would live in a sub-package
// and satisfy the same interface.
package control
