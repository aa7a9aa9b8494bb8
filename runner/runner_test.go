package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/uipilot/agent"
	"github.com/hupe1980/uipilot/control"
	"github.com/hupe1980/uipilot/core"
	"github.com/hupe1980/uipilot/logging"
	"github.com/hupe1980/uipilot/model"
	"github.com/hupe1980/uipilot/processor"
	"github.com/hupe1980/uipilot/session"
)

type scriptedConfirmer struct {
	answers []bool
	asked   []string
}

func (c *scriptedConfirmer) AskYesNo(prompt string) bool {
	c.asked = append(c.asked, prompt)
	if len(c.answers) == 0 {
		return false
	}
	answer := c.answers[0]
	c.answers = c.answers[1:]
	return answer
}

type sessionFixture struct {
	driver  *control.InMemoryDriver
	store   *session.InMemoryStore
	hostInv *model.MockInvoker
	appInv  *model.MockInvoker
	reqSink *logging.MemorySink
	errSink *logging.MemorySink
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		driver:  control.NewInMemoryDriver(),
		store:   session.NewInMemoryStore(),
		hostInv: model.NewMockInvoker("host-mock", "mock"),
		appInv:  model.NewMockInvoker("app-mock", "mock"),
		reqSink: logging.NewMemorySink(),
		errSink: logging.NewMemorySink(),
	}
	f.driver.AddWindow(core.Window{ID: "w1", Title: "Notepad", Process: "notepad.exe"},
		core.ControlInfo{Label: "1", Text: "Body", Type: "Edit", Enabled: true},
	)
	return f
}

func (f *sessionFixture) newHost(optFns ...func(o *agent.HostAgentOptions)) *agent.HostAgent {
	base := []func(o *agent.HostAgentOptions){func(o *agent.HostAgentOptions) {
		o.Invoker = f.hostInv
		o.AppOptions = []func(oo *agent.AppAgentOptions){func(oo *agent.AppAgentOptions) {
			oo.Invoker = f.appInv
		}}
	}}
	return agent.NewHostAgent("host", append(base, optFns...)...)
}

func (f *sessionFixture) newRunner(optFns ...func(o *Options)) *Runner {
	base := []func(o *Options){func(o *Options) {
		o.Driver = f.driver
		o.SessionStore = f.store
		o.RequestSink = f.reqSink
		o.ErrorSink = f.errSink
	}}
	return New(append(base, optFns...)...)
}

func TestRunner_FullSession(t *testing.T) {
	f := newSessionFixture(t)
	f.hostInv.AddCompletion(`{"control_label": "1", "status": "CONTINUE", "plan": "write hello"}`)
	f.hostInv.AddCompletion(`{"observation": "note written", "status": "FINISH"}`)
	f.appInv.AddReply(model.Completion{
		Text: `{"control_label": "1", "operation": "set_edit_text", "args": {"text": "hello"}, "status": "CONTINUE"}`,
		Cost: 0.01,
	})
	f.appInv.AddReply(model.Completion{
		Text: `{"observation": "text set", "status": "FINISH"}`,
		Cost: 0.01,
	})

	host := f.newHost()
	res, err := f.newRunner().Run(context.Background(), "s1", "Write hello in Notepad", host)
	require.NoError(t, err)

	assert.Equal(t, core.StatusFinish, res.Status)
	assert.Equal(t, 2, res.Rounds)
	assert.Equal(t, 4, res.Steps, "two host decisions plus two app steps")
	assert.InDelta(t, 0.02, res.Cost, 1e-9)

	// transcript ordering: host decision, two app steps, closing host decision
	sess, err := f.store.Get("s1")
	require.NoError(t, err)
	steps := sess.GetSteps()
	require.Len(t, steps, 4)
	assert.Equal(t, "host", steps[0].Agent)
	assert.Equal(t, "app/notepad.exe", steps[1].Agent)
	assert.Equal(t, "app/notepad.exe", steps[2].Agent)
	assert.Equal(t, "host", steps[3].Agent)
	assert.Equal(t, 1, steps[1].Step)
	assert.Equal(t, 2, steps[2].Step)
	assert.Equal(t, core.StatusFinish, steps[3].Status)

	// the host focused the window, the app typed into it
	applied := f.driver.Applied()
	require.Len(t, applied, 2)
	assert.Equal(t, "set_focus", applied[0].Operation)
	assert.Equal(t, "set_edit_text", applied[1].Operation)

	assert.Equal(t, 4, f.reqSink.Len())
	assert.Zero(t, f.errSink.Len())
}

func TestRunner_AppErrorEndsRoundNotSession(t *testing.T) {
	f := newSessionFixture(t)
	f.hostInv.AddCompletion(`{"control_label": "1", "status": "CONTINUE", "plan": "write hello"}`)
	f.hostInv.AddCompletion(`{"observation": "giving this up", "status": "FINISH"}`)
	f.appInv.AddError(assert.AnError)

	host := f.newHost()
	res, err := f.newRunner().Run(context.Background(), "s1", "Write hello", host)
	require.NoError(t, err, "an errored step ends the round, not the session")

	assert.Equal(t, core.StatusFinish, res.Status)
	assert.Equal(t, 2, res.Rounds)
	assert.Equal(t, 2, res.Steps, "only the host decisions completed")
	require.Equal(t, 1, f.errSink.Len())
	assert.Equal(t, 2, f.reqSink.Len())

	app, ok := host.App("w1")
	require.True(t, ok)
	assert.Equal(t, 0, app.Steps())
}

func TestRunner_ConfirmedActionAppliesOnce(t *testing.T) {
	f := newSessionFixture(t)
	f.hostInv.AddCompletion(`{"control_label": "1", "status": "CONTINUE", "plan": "write hello"}`)
	f.hostInv.AddCompletion(`{"status": "FINISH"}`)
	f.appInv.AddCompletion(`{"control_label": "1", "operation": "set_edit_text", "args": {"text": "hello"}, "status": "CONTINUE"}`)
	f.appInv.AddCompletion(`{"status": "FINISH"}`)

	confirmer := &scriptedConfirmer{answers: []bool{true}}
	host := f.newHost(func(o *agent.HostAgentOptions) {
		o.AppOptions = append(o.AppOptions, func(oo *agent.AppAgentOptions) {
			oo.Safeguard = processor.NewSafeguard(func(so *processor.SafeguardOptions) {
				so.Operations = []string{"set_edit_text"}
			})
		})
	})

	res, err := f.newRunner(func(o *Options) {
		o.Confirmer = confirmer
	}).Run(context.Background(), "s1", "Write hello", host)
	require.NoError(t, err)

	assert.Equal(t, core.StatusFinish, res.Status)
	require.Len(t, confirmer.asked, 1)
	assert.Contains(t, confirmer.asked[0], "set_edit_text")

	applied := f.driver.Applied()
	require.Len(t, applied, 2)
	assert.Equal(t, "set_edit_text", applied[1].Operation)

	app, ok := host.App("w1")
	require.True(t, ok)
	assert.Equal(t, 2, app.Steps())
}

func TestRunner_DeclinedActionStaysSuspended(t *testing.T) {
	f := newSessionFixture(t)
	f.hostInv.AddCompletion(`{"control_label": "1", "status": "CONTINUE", "plan": "write hello"}`)
	f.appInv.AddCompletion(`{"control_label": "1", "operation": "set_edit_text", "args": {"text": "hello"}, "status": "CONTINUE"}`)

	confirmer := &scriptedConfirmer{} // declines everything
	host := f.newHost(func(o *agent.HostAgentOptions) {
		o.AppOptions = append(o.AppOptions, func(oo *agent.AppAgentOptions) {
			oo.Safeguard = processor.NewSafeguard(func(so *processor.SafeguardOptions) {
				so.Operations = []string{"set_edit_text"}
			})
		})
	})

	_, err := f.newRunner(func(o *Options) {
		o.Confirmer = confirmer
		o.MaxTurns = 8
	}).Run(context.Background(), "s1", "Write hello", host)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "turn budget")

	app, ok := host.App("w1")
	require.True(t, ok)
	assert.Equal(t, core.StatusConfirm, app.Status())
	_, pending := app.PendingAction()
	assert.True(t, pending)

	// only the focus was applied; the declined action never ran
	require.Len(t, f.driver.Applied(), 1)
	assert.Equal(t, "set_focus", f.driver.Applied()[0].Operation)
	assert.Zero(t, f.errSink.Len())
}

func TestRunner_RoundBudgetExhaustion(t *testing.T) {
	f := newSessionFixture(t)
	for i := 0; i < 3; i++ {
		f.hostInv.AddCompletion(`{"control_label": "1", "status": "CONTINUE", "plan": "keep going"}`)
		f.appInv.AddCompletion(`{"status": "FINISH"}`)
	}

	host := f.newHost()
	res, err := f.newRunner(func(o *Options) {
		o.MaxRounds = 2
	}).Run(context.Background(), "s1", "Never ending request", host)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Rounds)
	assert.Equal(t, core.StatusContinue, res.Status, "a non-terminal status signals the budget ran out")
}

func TestRunner_MissingDriverFails(t *testing.T) {
	host := agent.NewHostAgent("host")
	_, err := New().Run(context.Background(), "s1", "anything", host)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "control driver")
}

func TestRunner_CancelledContext(t *testing.T) {
	f := newSessionFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	host := f.newHost()
	_, err := f.newRunner().Run(ctx, "s1", "anything", host)
	require.ErrorIs(t, err, context.Canceled)
}
