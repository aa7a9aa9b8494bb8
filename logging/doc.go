// Package logging provides a minimal logging interface and adapters for
// uipilot.
//
// The Logger interface defines the standard logging methods (Debug, Info,
// Warn, Error) that the runner, agents and pipelines use for observability.
// This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - SessionLogger with contextual helpers (session, round, component) and
//     domain helpers for model calls, applied actions and rounds
//   - RecordSink append-only sinks for the per-step request and error logs
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "json", false)
//	pilot := uipilot.New(driver, invoker, uipilot.WithLogger(logger))
//
// The design intentionally keeps the interface minimal to avoid vendor
// lock-in while supporting structured logging where available.
package logging
