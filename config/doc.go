// Package config loads the YAML run configuration for sessions: model
// selection per role, round and step budgets, safeguarded operations, log
// destinations and storage locations.
//
// Values support environment expansion in the ${VAR}, ${VAR:-default} and
// $VAR forms, resolved against the process environment after optional .env
// loading, so secrets like API keys stay out of the file itself.
package config
