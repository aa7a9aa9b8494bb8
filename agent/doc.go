// Package agent implements the two agent roles of an automation session.
//
// A HostAgent supervises: each of its turns is one decomposition step that
// observes the open windows, picks the application responsible for the next
// sub-task and creates (or re-dispatches) the AppAgent bound to that window.
// An AppAgent executes: each of its turns runs one step of the interactive
// pipeline against its window.
//
// Agents carry a status code and the lifecycle state constructed from it;
// the driver loop consults the state for control flow and calls back into
// Process/ProcessResume for the actual work. Step counters and accumulated
// cost survive across turns on the agent, so a session's transcript numbers
// steps continuously per agent.
package agent
