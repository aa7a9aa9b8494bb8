package core

import (
	"github.com/google/uuid"

	"github.com/hupe1980/uipilot/logging"
)

// NewID generates a new unique identifier for sessions, steps and artifacts.
//
// Returns a string representation of a new UUID.
func NewID() string { return uuid.NewString() }

// contextLogger wraps a logging.Logger with base key-value pairs stamped on
// every message logged through a RunContext. Call sites add per-event fields
// without repeating the session identity. A nil logger is replaced with a
// NoOpLogger so logging calls never need a guard.
type contextLogger struct {
	logger logging.Logger
	base   []any
}

// newContextLogger constructs a contextLogger with a non-nil logger. The
// base pairs lead every logged line.
func newContextLogger(l logging.Logger, base ...any) *contextLogger {
	if l == nil {
		l = logging.NoOpLogger{}
	}
	return &contextLogger{logger: l, base: base}
}

// Logger returns the underlying logger.
func (l *contextLogger) Logger() logging.Logger {
	return l.logger
}

func (l *contextLogger) merge(args []any) []any {
	if len(l.base) == 0 {
		return args
	}
	out := make([]any, 0, len(l.base)+len(args))
	out = append(out, l.base...)
	return append(out, args...)
}

// LogDebug logs a debug message with the base pairs attached.
func (l *contextLogger) LogDebug(msg string, args ...any) {
	l.logger.Debug(msg, l.merge(args)...)
}

// LogInfo logs an info message with the base pairs attached.
func (l *contextLogger) LogInfo(msg string, args ...any) {
	l.logger.Info(msg, l.merge(args)...)
}

// LogWarn logs a warning message with the base pairs attached.
func (l *contextLogger) LogWarn(msg string, args ...any) {
	l.logger.Warn(msg, l.merge(args)...)
}

// LogError logs an error message with the base pairs attached.
func (l *contextLogger) LogError(msg string, args ...any) {
	l.logger.Error(msg, l.merge(args)...)
}
