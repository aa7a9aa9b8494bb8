// Package runner drives automation sessions over the agent state machines.
//
// A session is a sequence of rounds against one user request. Every round
// re-enters the host agent at its Continue state for a fresh decomposition
// step; the round then follows the state hand-offs (host to app agent, app
// steps, terminal hand-off back to the host) until a state reports round
// end. The session stops when the host's own decomposition concludes with a
// terminal decision, or when the round budget runs out.
//
// The runner owns the turn loop contract: call the current state's Handle,
// resolve the next agent and its state, install it, stop on round end. It
// performs no work itself; all behavior lives in the states and the step
// pipelines they delegate to.
package runner
