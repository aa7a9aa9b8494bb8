// Package core provides the foundational domain types, interfaces and the
// execution context used by uipilot. It defines the core abstractions for:
//
//   - Agents (the supervising host role and the executing app role)
//   - States (nodes of the per-role lifecycle machines and their hand-offs)
//   - Sessions (transcript containers with step history and running cost)
//   - StepRecords (immutable per-step transcript entries)
//   - RunContext (session-scoped execution state handed to agents)
//   - Collaborator contracts for the screenshot, control-automation and
//     confirmation subsystems, plus pluggable stores for transcripts and
//     artifacts
//
// The package intentionally keeps implementation concerns (state variants,
// step pipelines, concrete agents, persistence backends) out of scope,
// exposing small interfaces to enable custom backends and extensions.
package core
