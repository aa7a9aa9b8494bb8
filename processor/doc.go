// Package processor implements the per-step execution pipeline that turns
// one agent turn into observation, model call, parsed plan and applied
// action.
//
// The pipeline is a fixed stage order driven by Run: print-step-info,
// capture-screenshot, get-control-info, get-prompt-message, get-response,
// parse-response, execute-action, update-memory, conditional sub-agent
// creation and update-step-and-status. Model and parse failures become
// ResponseError, action failures ExecutionError; both collapse to status
// ERROR, write one record to the error sink and short-circuit the remaining
// stages. A step that runs to completion appends exactly one transcript
// record and advances the step counter by exactly one.
//
// Sensitive actions suspend the pipeline instead of applying: ExecuteAction
// parks the action, sets status CONFIRM and Run returns with the step half
// done. Resume applies the parked action and completes the remaining stages
// once the confirmation decision arrives.
//
// Concrete processors embed Base for bookkeeping and implement the stage
// methods; AppStepProcessor drives application windows, HostProcessor
// decomposes the request and delegates to application agents.
package processor
