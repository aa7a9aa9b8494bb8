// Package memory provides the per-agent working memory: the ordered list of
// step records an agent has produced during the session. The step pipeline
// appends to it after each executed action and the prompt layer reads the
// most recent entries back to give the model its own history.
//
// The session transcript in the core package is the durable, cross-agent
// record; this package is the short lived, per-agent view used for prompt
// assembly, optionally bounded so long sessions cannot grow prompts without
// limit.
package memory
