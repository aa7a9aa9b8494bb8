package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/uipilot/control"
	"github.com/hupe1980/uipilot/core"
	"github.com/hupe1980/uipilot/memory"
	"github.com/hupe1980/uipilot/model"
	"github.com/hupe1980/uipilot/session"
)

const delegatePlan = `{"observation": "notepad and calculator are open", "thought": "arithmetic belongs to the calculator", "control_label": "2", "control_text": "Calculator", "operation": "set_focus", "status": "CONTINUE", "plan": "add 7 and 2"}`

type hostFixture struct {
	rc      *core.RunContext
	driver  *control.InMemoryDriver
	invoker *model.MockInvoker
	memory  *memory.Memory
	owner   *stubAgent

	created []struct {
		window  core.Window
		request string
	}
}

func newHostFixture(t *testing.T) *hostFixture {
	t.Helper()
	f := &hostFixture{
		driver:  control.NewInMemoryDriver(),
		invoker: model.NewMockInvoker("mock", "mock"),
		memory:  memory.NewMemory(0),
		owner:   &stubAgent{name: "host", role: core.RoleHost, status: core.StatusContinue},
	}
	f.driver.AddWindow(core.Window{ID: "w1", Title: "Notepad", Process: "notepad.exe"})
	f.driver.AddWindow(core.Window{ID: "w2", Title: "Calculator", Process: "calc.exe"})

	rc, _, _ := newRunContext(t)
	rc.Driver = f.driver
	rc.SessionStore = session.NewInMemoryStore()
	f.rc = rc
	return f
}

func (f *hostFixture) newProcessor(optFns ...func(o *HostOptions)) *HostProcessor {
	base := []func(o *HostOptions){func(o *HostOptions) {
		o.Invoker = f.invoker
		o.Memory = f.memory
		o.AppFactory = func(rc *core.RunContext, window core.Window, request string) (core.Agent, error) {
			f.created = append(f.created, struct {
				window  core.Window
				request string
			}{window, request})
			return &stubAgent{name: "app-" + window.ID, role: core.RoleApp}, nil
		}
	}}
	return NewHostProcessor(f.owner, 0, 0, "Open the calculator and add 7 and 2", append(base, optFns...)...)
}

func TestHostProcessor_DelegatesToSelectedWindow(t *testing.T) {
	f := newHostFixture(t)
	f.invoker.AddCompletion(delegatePlan)
	p := f.newProcessor()

	require.NoError(t, Run(f.rc, p))

	assert.Equal(t, core.StatusContinue, p.Status())
	assert.Equal(t, 1, p.Step)

	// the selected window was focused through the driver
	applied := f.driver.Applied()
	require.Len(t, applied, 1)
	assert.Equal(t, "set_focus", applied[0].Operation)
	assert.Equal(t, "w2", applied[0].Window.ID)

	// decomposition created the app agent exactly once, with the subtask
	require.Len(t, f.created, 1)
	assert.Equal(t, "Calculator", f.created[0].window.Title)
	assert.Equal(t, "add 7 and 2", f.created[0].request)

	// the delegated window became the active one
	assert.Equal(t, "w2", f.rc.Window.ID)

	// delegation state is visible in the session after the step
	v, ok := f.rc.Session.GetState("active_window")
	require.True(t, ok)
	assert.Equal(t, "Calculator", v)
	v, ok = f.rc.Session.GetState("subtask")
	require.True(t, ok)
	assert.Equal(t, "add 7 and 2", v)

	// one decision record in transcript and host memory
	require.Len(t, f.rc.Session.GetSteps(), 1)
	assert.Equal(t, "host", f.rc.Session.GetSteps()[0].Agent)
	assert.Equal(t, 1, f.memory.Len())

	// the prompt enumerated both windows
	reqs := f.invoker.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Messages[0].Text, `1: "Notepad" (notepad.exe)`)
	assert.Contains(t, reqs[0].Messages[0].Text, `2: "Calculator" (calc.exe)`)
}

func TestHostProcessor_SelectsByTitleWhenLabelIsNotAnIndex(t *testing.T) {
	f := newHostFixture(t)
	f.invoker.AddCompletion(`{"thought": "text editing", "control_label": "the editor", "control_text": "Notepad", "status": "CONTINUE", "plan": "write a note"}`)
	p := f.newProcessor()

	require.NoError(t, Run(f.rc, p))
	require.Len(t, f.created, 1)
	assert.Equal(t, "w1", f.created[0].window.ID)
}

func TestHostProcessor_FinishDecisionDelegatesNothing(t *testing.T) {
	f := newHostFixture(t)
	f.invoker.AddCompletion(`{"observation": "request already satisfied", "status": "FINISH", "comment": "nothing to do"}`)
	p := f.newProcessor()

	require.NoError(t, Run(f.rc, p))
	assert.Equal(t, core.StatusFinish, p.Status())
	assert.Equal(t, 1, p.Step)
	assert.Empty(t, f.created)
	assert.Empty(t, f.driver.Applied())
	require.Len(t, f.rc.Session.GetSteps(), 1)
	assert.Equal(t, core.StatusFinish, f.rc.Session.GetSteps()[0].Status)
}

func TestHostProcessor_UnresolvableSelectionDelegatesNothing(t *testing.T) {
	f := newHostFixture(t)
	f.invoker.AddCompletion(`{"thought": "pick a window", "control_label": "9", "control_text": "Paint", "status": "CONTINUE", "plan": "draw"}`)
	p := f.newProcessor()

	require.NoError(t, Run(f.rc, p))
	assert.Empty(t, f.created)
	assert.Empty(t, f.driver.Applied())
	assert.Equal(t, 1, p.Step, "the decision is still booked as a step")
}

func TestHostProcessor_SubtaskFallsBackToRequest(t *testing.T) {
	f := newHostFixture(t)
	f.invoker.AddCompletion(`{"control_label": "1", "status": "CONTINUE"}`)
	p := f.newProcessor()

	require.NoError(t, Run(f.rc, p))
	require.Len(t, f.created, 1)
	assert.Equal(t, "Open the calculator and add 7 and 2", f.created[0].request)
}

func TestResolveWindow(t *testing.T) {
	windows := []core.Window{
		{ID: "w1", Title: "Notepad"},
		{ID: "w2", Title: "Calculator"},
	}

	tests := []struct {
		name string
		plan *core.ActionPlan
		want string
	}{
		{name: "nil plan", plan: nil, want: ""},
		{name: "index", plan: &core.ActionPlan{ControlLabel: "2"}, want: "w2"},
		{name: "index with surrounding space", plan: &core.ActionPlan{ControlLabel: " 1 "}, want: "w1"},
		{name: "out of range falls back to title", plan: &core.ActionPlan{ControlLabel: "7", ControlText: "Calculator"}, want: "w2"},
		{name: "title only", plan: &core.ActionPlan{ControlText: "Notepad"}, want: "w1"},
		{name: "no match", plan: &core.ActionPlan{ControlLabel: "zero", ControlText: "Paint"}, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveWindow(windows, tt.plan)
			assert.Equal(t, tt.want, got.ID)
		})
	}
}
