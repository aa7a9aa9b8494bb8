package prompt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/uipilot/core"
	"github.com/hupe1980/uipilot/internal/testutil"
	"github.com/hupe1980/uipilot/model"
)

func appData() Data {
	return Data{
		Request: "Add 7 and 2",
		Round:   0,
		Step:    3,
		Window:  core.Window{ID: "w1", Title: "Calculator", Process: "calc.exe"},
		Controls: []core.ControlInfo{
			{Label: "1", Text: "Seven", Type: "Button", Enabled: true},
			{Label: "2", Text: "Paste", Type: "Button", Enabled: false},
		},
	}
}

func TestAppBuilder_RendersObservation(t *testing.T) {
	b := NewAppBuilder()
	req, err := b.Build(appData(), nil)
	require.NoError(t, err)

	assert.Contains(t, req.System, "Calculator")
	assert.Contains(t, req.System, "click_input")
	require.Len(t, req.Messages, 1)
	user := req.Messages[0].Text
	assert.Contains(t, user, "Add 7 and 2")
	assert.Contains(t, user, `1: [Button] "Seven"`)
	assert.Contains(t, user, `2: [Button] "Paste" (disabled)`)
	assert.NotContains(t, user, "Your previous actions")
	assert.Empty(t, req.Messages[0].Images)
}

func TestAppBuilder_AttachesScreenshot(t *testing.T) {
	b := NewAppBuilder()
	shot := &core.Screenshot{ArtifactID: "step_0001.png", Data: []byte("png")}
	req, err := b.Build(appData(), shot)
	require.NoError(t, err)
	require.Len(t, req.Messages[0].Images, 1)
	assert.Equal(t, []byte("png"), req.Messages[0].Images[0])
}

func TestAppBuilder_RendersHistoryWindow(t *testing.T) {
	data := appData()
	for i := 1; i <= 8; i++ {
		rec := testutil.NewRecordBuilder().Step(i).Operation("click_input", "Seven").Result("clicked").Build()
		data.History = append(data.History, rec)
	}
	b := NewAppBuilder() // default window of 5
	req, err := b.Build(data, nil)
	require.NoError(t, err)
	user := req.Messages[0].Text
	assert.Contains(t, user, "Your previous actions")
	assert.Contains(t, user, "step 8 [CONTINUE]")
	assert.Contains(t, user, "step 4 [CONTINUE]")
	assert.NotContains(t, user, "step 3 [CONTINUE]")
}

func TestAppBuilder_TokenBudgetDropsHistory(t *testing.T) {
	data := appData()
	for i := 1; i <= 8; i++ {
		rec := testutil.NewRecordBuilder().Step(i).Result(strings.Repeat("output ", 40)).Build()
		data.History = append(data.History, rec)
	}
	b := NewAppBuilder(func(o *Options) {
		o.MaxPromptTokens = 10 // far below any rendered prompt
		o.Counter = model.NewTokenCounter()
		o.Model = "gpt-4o"
	})
	req, err := b.Build(data, nil)
	require.NoError(t, err)
	// the budget can never be met, so the history must be fully dropped
	assert.NotContains(t, req.Messages[0].Text, "Your previous actions")
}

func TestHostBuilder_RendersWindows(t *testing.T) {
	b := NewHostBuilder()
	req, err := b.Build(Data{
		Request: "Write a note and calculate",
		Windows: []core.Window{
			{ID: "w1", Title: "Calculator", Process: "calc.exe"},
			{ID: "w2", Title: "Notepad", Process: "notepad.exe"},
		},
		Notes: map[string]any{"result": "9"},
	}, nil)
	require.NoError(t, err)

	assert.Contains(t, req.System, "host agent")
	user := req.Messages[0].Text
	assert.Contains(t, user, `1: "Calculator" (calc.exe)`)
	assert.Contains(t, user, `2: "Notepad" (notepad.exe)`)
	assert.Contains(t, user, "result: 9")
}

func TestBuilder_CustomTemplates(t *testing.T) {
	b := NewAppBuilder(func(o *Options) {
		o.SystemTemplate = "system for {{.WindowTitle}}"
		o.UserTemplate = "do: {{.Request}}"
	})
	req, err := b.Build(appData(), nil)
	require.NoError(t, err)
	assert.Equal(t, "system for Calculator", req.System)
	assert.Equal(t, "do: Add 7 and 2", req.Messages[0].Text)
}
