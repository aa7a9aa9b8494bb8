package processor

import "fmt"

// Stage names used in error records and diagnostics.
const (
	StageGetResponse   = "get-response"
	StageParseResponse = "parse-response"
	StageExecuteAction = "execute-action"
)

// ResponseError marks a failed model call or an undecodable response. The
// pipeline maps it to status ERROR; the original cause stays reachable via
// Unwrap for the error record.
type ResponseError struct {
	Stage string
	Err   error
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("response error in %s: %v", e.Stage, e.Err)
}

func (e *ResponseError) Unwrap() error { return e.Err }

// ExecutionError marks an action that could not be applied to the
// automation backend. Same ERROR treatment as ResponseError.
type ExecutionError struct {
	Operation string
	Err       error
}

func (e *ExecutionError) Error() string {
	if e.Operation == "" {
		return fmt.Sprintf("execution error: %v", e.Err)
	}
	return fmt.Sprintf("execution error in %s: %v", e.Operation, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }
