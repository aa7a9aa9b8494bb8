// Package metrics exposes the session's operational counters as Prometheus
// collectors: steps by agent and status, model calls with token and cost
// accounting, applied actions, confirmation decisions and round outcomes.
//
// A nil *Recorder is valid and records nothing, so instrumented code never
// has to guard call sites. Registration happens against a caller supplied
// Registerer; serving /metrics is the embedding application's concern.
package metrics
