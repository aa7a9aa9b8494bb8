// Package prompt assembles model requests for the two agent roles and
// parses the structured plans coming back.
//
// Builders render a system and a user template against the current
// observation (window, controls, screenshot), the request, the agent's
// recent history and shared session notes, producing a model.Request. When
// a token budget is configured the history window shrinks until the request
// fits. ParsePlan is the inverse direction: it extracts the single JSON
// object a model was instructed to return, tolerating code fences and
// surrounding prose, and normalizes the declared status.
package prompt
