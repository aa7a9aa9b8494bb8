// Package model defines the synchronous model-invocation contract the step
// pipeline drives generation through, plus shared accounting helpers
// (pricing table, token estimation) and an in-memory mock for tests.
//
// Provider adapters live in the openai and anthropic subpackages. Adapters
// attach screenshot images to user turns using each provider's vision input
// format and fold token usage into a USD cost figure via the pricing table.
package model
