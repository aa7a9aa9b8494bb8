package processor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/uipilot/artifact"
	"github.com/hupe1980/uipilot/control"
	"github.com/hupe1980/uipilot/core"
	"github.com/hupe1980/uipilot/logging"
	"github.com/hupe1980/uipilot/memory"
	"github.com/hupe1980/uipilot/model"
	"github.com/hupe1980/uipilot/screen"
	"github.com/hupe1980/uipilot/session"
)

// Interface compliance (compile-time assertions)
var (
	_ Stages = (*AppStepProcessor)(nil)
	_ Stages = (*HostProcessor)(nil)
)

const clickPlan = `{"observation": "calculator open", "thought": "press seven", "control_label": "1", "control_text": "Seven", "operation": "click_input", "args": {"button": "left"}, "status": "CONTINUE", "plan": "press plus next", "comment": "going well"}`

type appFixture struct {
	rc      *core.RunContext
	driver  *control.InMemoryDriver
	invoker *model.MockInvoker
	memory  *memory.Memory
	store   *artifact.InMemoryStore
	reqSink *logging.MemorySink
	errSink *logging.MemorySink
	owner   *stubAgent
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()
	f := &appFixture{
		driver:  control.NewInMemoryDriver(),
		invoker: model.NewMockInvoker("mock", "mock"),
		memory:  memory.NewMemory(0),
		store:   artifact.NewInMemoryStore(),
		owner:   &stubAgent{name: "calc-app", role: core.RoleApp, status: core.StatusContinue},
	}
	f.driver.AddWindow(core.Window{ID: "w1", Title: "Calculator", Process: "calc.exe"},
		core.ControlInfo{Label: "1", Text: "Seven", Type: "Button", Enabled: true},
		core.ControlInfo{Label: "2", Text: "Display", Type: "Edit", Enabled: true},
	)

	rc, reqSink, errSink := newRunContext(t)
	rc.Driver = f.driver
	rc.Photographer = screen.NewPhotographer(screen.NewStaticSource([]byte("png")), f.store)
	rc.SessionStore = session.NewInMemoryStore()
	rc.ArtifactStore = f.store
	rc.Window = core.Window{ID: "w1", Title: "Calculator", Process: "calc.exe"}
	f.rc = rc
	f.reqSink = reqSink
	f.errSink = errSink
	return f
}

func (f *appFixture) newProcessor(optFns ...func(o *AppOptions)) *AppStepProcessor {
	base := []func(o *AppOptions){func(o *AppOptions) {
		o.Invoker = f.invoker
		o.Memory = f.memory
	}}
	return NewAppStepProcessor(f.owner, 0, 0, "Add 7 and 2", f.rc.Window, append(base, optFns...)...)
}

func TestAppStepProcessor_HappyPath(t *testing.T) {
	f := newAppFixture(t)
	f.invoker.AddReply(model.Completion{Text: clickPlan, Cost: 0.01, Model: "mock", Usage: model.Usage{PromptTokens: 100, CompletionTokens: 20}})
	p := f.newProcessor()

	require.NoError(t, Run(f.rc, p))

	assert.Equal(t, core.StatusContinue, p.Status())
	assert.Equal(t, 1, p.Step, "step counter advances by exactly one")
	assert.False(t, p.Suspended())

	// one transcript record with the full step detail
	steps := f.rc.Session.GetSteps()
	require.Len(t, steps, 1)
	rec := steps[0]
	assert.Equal(t, 1, rec.Step)
	assert.Equal(t, "calc-app", rec.Agent)
	assert.Equal(t, core.StatusContinue, rec.Status)
	assert.Equal(t, clickPlan, rec.Response)
	require.NotNil(t, rec.Plan)
	assert.Equal(t, "click_input", rec.Plan.Operation)
	assert.Contains(t, rec.Result, "Seven")
	assert.Equal(t, 0.01, rec.Cost)
	assert.Equal(t, "step_0001.png", rec.Screenshot)

	// side effects: action applied, memory updated, request log written
	require.Len(t, f.driver.Applied(), 1)
	assert.Equal(t, 1, f.memory.Len())
	assert.Equal(t, 1, f.reqSink.Len())
	assert.Zero(t, f.errSink.Len())

	// the comment was committed to shared session state
	v, ok := f.rc.Session.GetState("last_comment")
	require.True(t, ok)
	assert.Equal(t, "going well", v)

	// the prompt carried the observation and the screenshot
	reqs := f.invoker.Requests()
	require.Len(t, reqs, 1)
	assert.Contains(t, reqs[0].Messages[0].Text, `1: [Button] "Seven"`)
	require.Len(t, reqs[0].Messages[0].Images, 1)
}

func TestAppStepProcessor_ModelFailure(t *testing.T) {
	f := newAppFixture(t)
	f.invoker.AddError(assert.AnError)
	p := f.newProcessor()

	require.NoError(t, Run(f.rc, p))
	assert.Equal(t, core.StatusError, p.Status())
	assert.Equal(t, 0, p.Step)
	assert.Empty(t, f.rc.Session.GetSteps())
	assert.Empty(t, f.driver.Applied())
	assert.Zero(t, f.memory.Len())
	require.Equal(t, 1, f.errSink.Len())
	assert.Equal(t, core.StatusError.String(), f.errSink.Records()[0]["status"])
}

func TestAppStepProcessor_MalformedResponse(t *testing.T) {
	f := newAppFixture(t)
	f.invoker.AddCompletion("I refuse to answer in JSON.")
	p := f.newProcessor()

	require.NoError(t, Run(f.rc, p))
	assert.Equal(t, core.StatusError, p.Status())
	assert.Empty(t, f.driver.Applied())
	require.Equal(t, 1, f.errSink.Len())
	rec := f.errSink.Records()[0]
	assert.Equal(t, "I refuse to answer in JSON.", rec["response"])
}

func TestAppStepProcessor_ExecutionFailure(t *testing.T) {
	f := newAppFixture(t)
	f.invoker.AddCompletion(`{"operation": "click_input", "control_label": "99", "status": "CONTINUE"}`)
	p := f.newProcessor()

	require.NoError(t, Run(f.rc, p))
	assert.Equal(t, core.StatusError, p.Status())
	assert.Equal(t, 0, p.Step)
	assert.Empty(t, f.rc.Session.GetSteps())
	require.Equal(t, 1, f.errSink.Len())
	assert.Contains(t, f.errSink.Records()[0]["error"], "unknown control")
}

func TestAppStepProcessor_PlanWithoutAction(t *testing.T) {
	f := newAppFixture(t)
	f.invoker.AddCompletion(`{"observation": "done", "thought": "request satisfied", "status": "FINISH"}`)
	p := f.newProcessor()

	require.NoError(t, Run(f.rc, p))
	assert.Equal(t, core.StatusFinish, p.Status())
	assert.Equal(t, 1, p.Step)
	assert.Empty(t, f.driver.Applied())
	require.Len(t, f.rc.Session.GetSteps(), 1)
	assert.Equal(t, core.StatusFinish, f.rc.Session.GetSteps()[0].Status)
}

func TestAppStepProcessor_SensitiveActionSuspends(t *testing.T) {
	f := newAppFixture(t)
	f.invoker.AddReply(model.Completion{Text: clickPlan, Cost: 0.01})
	p := f.newProcessor(func(o *AppOptions) {
		o.Safeguard = NewSafeguard(func(so *SafeguardOptions) {
			so.Operations = []string{"click_input"}
		})
	})

	require.NoError(t, Run(f.rc, p))
	assert.True(t, p.Suspended())
	assert.Equal(t, core.StatusConfirm, p.Status())
	pending, ok := p.PendingAction()
	require.True(t, ok)
	assert.Equal(t, "click_input", pending.Operation)

	// nothing applied, nothing booked yet
	assert.Empty(t, f.driver.Applied())
	assert.Empty(t, f.rc.Session.GetSteps())
	assert.Equal(t, 0, p.Step)

	// after confirmation the step completes exactly once
	require.NoError(t, Resume(f.rc, p))
	assert.False(t, p.Suspended())
	assert.Equal(t, core.StatusContinue, p.Status())
	assert.Equal(t, 1, p.Step)
	require.Len(t, f.driver.Applied(), 1)
	require.Len(t, f.rc.Session.GetSteps(), 1)
	assert.Equal(t, 1, f.memory.Len())
}

func TestAppStepProcessor_SubAgentPolicy(t *testing.T) {
	f := newAppFixture(t)
	f.invoker.AddCompletion(clickPlan)

	var created []string
	p := f.newProcessor(func(o *AppOptions) {
		o.SubAgentPolicy = func(plan *core.ActionPlan) bool { return plan.Status == core.StatusContinue }
		o.SubAgentFactory = func(rc *core.RunContext, window core.Window, request string) (core.Agent, error) {
			created = append(created, window.ID)
			return &stubAgent{name: "spawned", role: core.RoleApp}, nil
		}
	})

	require.NoError(t, Run(f.rc, p))
	assert.Equal(t, []string{"w1"}, created)
}

func TestAppStepProcessor_StatusRuleOverride(t *testing.T) {
	f := newAppFixture(t)
	f.invoker.AddCompletion(clickPlan)
	p := f.newProcessor(func(o *AppOptions) {
		o.StatusRule = func(plan *core.ActionPlan, result core.ActionResult) core.Status {
			return core.StatusScreenshot
		}
	})

	require.NoError(t, Run(f.rc, p))
	assert.Equal(t, core.StatusScreenshot, p.Status())
}
