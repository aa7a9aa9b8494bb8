// Package openai provides a model.Invoker implementation backed by the
// OpenAI Chat Completions API. Screenshot attachments are sent as data-URL
// image parts so vision-capable chat models can ground their action choice
// in the captured window.
package openai

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go"

	"github.com/hupe1980/uipilot/model"
)

// Options configure the OpenAI adapter. Fields mirror a subset of Chat
// Completion parameters intentionally kept minimal; extend via functional
// options without breaking callers.
type Options struct {
	Model               string
	Temperature         float64
	MaxCompletionTokens int64
}

// Invoker wraps the OpenAI Chat Completions API behind the generic
// model.Invoker interface.
type Invoker struct {
	client  *openai.Client
	counter *model.TokenCounter
	opts    Options
}

// New creates a new OpenAI invoker using the official client, configured
// from the environment (OPENAI_API_KEY).
func New(optFns ...func(o *Options)) *Invoker {
	client := openai.NewClient()
	return NewFromClient(&client, optFns...)
}

// NewFromClient creates a new OpenAI invoker from an existing client.
func NewFromClient(client *openai.Client, optFns ...func(o *Options)) *Invoker {
	opts := Options{
		Model:               openai.ChatModelGPT4o,
		Temperature:         0.0,
		MaxCompletionTokens: 4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Invoker{client: client, counter: model.NewTokenCounter(), opts: opts}
}

// Invoke performs one synchronous completion with the assembled messages.
func (m *Invoker) Invoke(ctx context.Context, req model.Request) (*model.Completion, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            m.buildMessages(req),
		Model:               m.opts.Model,
		Temperature:         openai.Float(m.opts.Temperature),
		MaxCompletionTokens: openai.Int(m.opts.MaxCompletionTokens),
	}

	resp, err := m.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai api error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no choices returned")
	}

	ch0 := resp.Choices[0]

	usage := model.Usage{
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		TotalTokens:      int(resp.Usage.TotalTokens),
	}
	if usage.TotalTokens == 0 {
		usage = m.estimateUsage(req, ch0.Message.Content)
	}

	return &model.Completion{
		Text:         ch0.Message.Content,
		FinishReason: string(ch0.FinishReason),
		Usage:        usage,
		Cost:         model.Cost(m.opts.Model, usage),
		Model:        m.opts.Model,
	}, nil
}

// buildMessages converts the normalized request into OpenAI chat messages,
// attaching screenshot images as data-URL content parts on user turns.
func (m *Invoker) buildMessages(req model.Request) []openai.ChatCompletionMessageParamUnion {
	var messages []openai.ChatCompletionMessageParamUnion

	if req.System != "" {
		messages = append(messages, openai.SystemMessage(req.System))
	}

	for _, msg := range req.Messages {
		switch msg.Role {
		case "assistant":
			messages = append(messages, openai.AssistantMessage(msg.Text))
		default:
			if len(msg.Images) == 0 {
				messages = append(messages, openai.UserMessage(msg.Text))
				continue
			}

			parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(msg.Images)+1)
			if msg.Text != "" {
				parts = append(parts, openai.TextContentPart(msg.Text))
			}
			for _, img := range msg.Images {
				parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{
					URL: dataURL(img),
				}))
			}

			messages = append(messages, openai.UserMessage(parts))
		}
	}

	return messages
}

// estimateUsage covers responses without usage data via local counting.
func (m *Invoker) estimateUsage(req model.Request, completion string) model.Usage {
	usage := model.Usage{
		PromptTokens:     m.counter.CountRequest(m.opts.Model, req),
		CompletionTokens: m.counter.Count(m.opts.Model, completion),
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	return usage
}

// dataURL inlines PNG bytes as a base64 data URL.
func dataURL(img []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img)
}

// Info returns metadata describing this OpenAI invoker.
func (m *Invoker) Info() model.Info {
	return model.Info{
		Name:     m.opts.Model,
		Provider: "openai",
		Vision:   true,
	}
}
