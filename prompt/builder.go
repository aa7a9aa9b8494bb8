package prompt

import (
	"fmt"

	"github.com/hupe1980/uipilot/core"
	"github.com/hupe1980/uipilot/internal/util"
	"github.com/hupe1980/uipilot/model"
)

// Options configures a Builder.
type Options struct {
	// SystemTemplate and UserTemplate are Go text templates rendered against
	// the builder's state map.
	SystemTemplate string
	UserTemplate   string
	// HistoryWindow bounds how many recent step records enter the prompt.
	HistoryWindow int
	// MaxPromptTokens is the total budget for one request. When exceeded the
	// history window is halved until the request fits or no history remains.
	// Zero disables the budget.
	MaxPromptTokens int
	// Counter estimates token usage for the budget check.
	Counter *model.TokenCounter
	// Model names the tokenizer used by the counter.
	Model string
}

// Data is the per-step input a Builder renders into a request.
type Data struct {
	Request  string
	Round    int
	Step     int
	Window   core.Window
	Windows  []core.Window      // host observation: selectable windows
	Controls []core.ControlInfo // app observation: annotated controls
	History  []core.StepRecord
	Plan     string
	Comment  string
	Notes    map[string]any // shared session state worth surfacing
}

// Builder renders prompts for one agent role.
type Builder struct {
	opts Options
}

// NewAppBuilder creates a builder preloaded with the application agent
// templates.
func NewAppBuilder(optFns ...func(o *Options)) *Builder {
	opts := Options{
		SystemTemplate: DefaultAppSystemTemplate,
		UserTemplate:   DefaultAppUserTemplate,
		HistoryWindow:  5,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Builder{opts: opts}
}

// NewHostBuilder creates a builder preloaded with the host agent templates.
func NewHostBuilder(optFns ...func(o *Options)) *Builder {
	opts := Options{
		SystemTemplate: DefaultHostSystemTemplate,
		UserTemplate:   DefaultHostUserTemplate,
		HistoryWindow:  5,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Builder{opts: opts}
}

// Build renders the request. The screenshot, when present, is attached to
// the user message as an image part.
func (b *Builder) Build(data Data, shot *core.Screenshot) (model.Request, error) {
	window := b.opts.HistoryWindow
	for {
		req, err := b.render(data, shot, window)
		if err != nil {
			return model.Request{}, err
		}
		if b.opts.MaxPromptTokens <= 0 || b.opts.Counter == nil || window == 0 {
			return req, nil
		}
		if b.opts.Counter.CountRequest(b.opts.Model, req) <= b.opts.MaxPromptTokens {
			return req, nil
		}
		window /= 2
	}
}

func (b *Builder) render(data Data, shot *core.Screenshot, historyWindow int) (model.Request, error) {
	state := map[string]any{
		"Request":     data.Request,
		"Round":       data.Round,
		"Step":        data.Step,
		"WindowTitle": data.Window.Title,
		"Process":     data.Window.Process,
		"Controls":    renderControls(data.Controls),
		"Windows":     renderWindows(data.Windows),
		"History":     renderHistory(lastN(data.History, historyWindow)),
		"Plan":        data.Plan,
		"Comment":     data.Comment,
		"Notes":       renderNotes(data.Notes),
	}

	system, err := util.RenderTemplate(b.opts.SystemTemplate, state)
	if err != nil {
		return model.Request{}, fmt.Errorf("prompt: system template: %w", err)
	}
	user, err := util.RenderTemplate(b.opts.UserTemplate, state)
	if err != nil {
		return model.Request{}, fmt.Errorf("prompt: user template: %w", err)
	}

	msg := model.Message{Role: "user", Text: user}
	if shot != nil && len(shot.Data) > 0 {
		msg.Images = [][]byte{shot.Data}
	}
	return model.Request{System: system, Messages: []model.Message{msg}}, nil
}

func lastN(records []core.StepRecord, n int) []core.StepRecord {
	if n <= 0 || len(records) == 0 {
		return nil
	}
	if len(records) > n {
		return records[len(records)-n:]
	}
	return records
}
