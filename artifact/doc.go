// Package artifact contains concrete implementations of core.ArtifactStore.
//
// Artifacts are the binary captures a session produces, screenshots above
// all. The canonical store interface lives in the core package so that the
// capture and pipeline code depend on the contract rather than on a concrete
// backend; this package supplies the backends (process memory for tests and
// demos, the local filesystem for sessions whose captures should survive the
// process). Implementations are safe for concurrent use and scope every
// artifact by session identifier.
package artifact
