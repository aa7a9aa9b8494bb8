// Package anthropic provides a model.Invoker implementation backed by the
// Anthropic Messages API. Screenshot attachments are sent as base64 image
// blocks so vision-capable Claude models can ground their action choice in
// the captured window.
package anthropic

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/hupe1980/uipilot/model"
)

// Options configures the Anthropic adapter (temperature, model id, max
// tokens, API key). Extend via functional options to preserve stability.
type Options struct {
	Model       anthropic.Model
	Temperature float64
	MaxTokens   int64
	APIKey      string
}

// Invoker wraps the Anthropic Messages API behind the generic model.Invoker
// interface.
type Invoker struct {
	client  *anthropic.Client
	counter *model.TokenCounter
	opts    Options
}

// New creates a new Anthropic invoker using the official client. Falls back
// to the environment (ANTHROPIC_API_KEY) when no key option is supplied.
func New(optFns ...func(o *Options)) *Invoker {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.0,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	var clientOpts []option.RequestOption
	if opts.APIKey != "" {
		clientOpts = append(clientOpts, option.WithAPIKey(opts.APIKey))
	}

	client := anthropic.NewClient(clientOpts...)

	return &Invoker{
		client:  &client,
		counter: model.NewTokenCounter(),
		opts:    opts,
	}
}

// NewFromClient creates a new Anthropic invoker from an existing client.
func NewFromClient(client *anthropic.Client, optFns ...func(o *Options)) *Invoker {
	opts := Options{
		Model:       anthropic.ModelClaude3_5Sonnet20241022,
		Temperature: 0.0,
		MaxTokens:   4096,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	return &Invoker{
		client:  client,
		counter: model.NewTokenCounter(),
		opts:    opts,
	}
}

// Invoke performs one synchronous completion with the assembled messages.
func (m *Invoker) Invoke(ctx context.Context, req model.Request) (*model.Completion, error) {
	params := anthropic.MessageNewParams{
		Model:       m.opts.Model,
		Messages:    m.buildMessages(req),
		MaxTokens:   m.opts.MaxTokens,
		Temperature: anthropic.Float(m.opts.Temperature),
	}

	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}

	resp, err := m.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("anthropic api error: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}

	finishReason := "stop"
	if resp.StopReason != "" {
		finishReason = string(resp.StopReason)
	}

	usage := model.Usage{
		PromptTokens:     int(resp.Usage.InputTokens),
		CompletionTokens: int(resp.Usage.OutputTokens),
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	if usage.TotalTokens == 0 {
		usage = m.estimateUsage(req, sb.String())
	}

	modelName := string(m.opts.Model)

	return &model.Completion{
		Text:         sb.String(),
		FinishReason: finishReason,
		Usage:        usage,
		Cost:         model.Cost(modelName, usage),
		Model:        modelName,
	}, nil
}

// buildMessages converts the normalized request into Anthropic message
// params, attaching screenshots as base64 image blocks on user turns.
func (m *Invoker) buildMessages(req model.Request) []anthropic.MessageParam {
	var messages []anthropic.MessageParam

	for _, msg := range req.Messages {
		switch msg.Role {
		case "assistant":
			if msg.Text != "" {
				messages = append(messages, anthropic.NewAssistantMessage(anthropic.NewTextBlock(msg.Text)))
			}
		default:
			var blocks []anthropic.ContentBlockParamUnion
			if msg.Text != "" {
				blocks = append(blocks, anthropic.NewTextBlock(msg.Text))
			}
			for _, img := range msg.Images {
				blocks = append(blocks, anthropic.NewImageBlockBase64("image/png", base64.StdEncoding.EncodeToString(img)))
			}
			if len(blocks) > 0 {
				messages = append(messages, anthropic.NewUserMessage(blocks...))
			}
		}
	}

	return messages
}

// estimateUsage covers responses without usage data via local counting.
func (m *Invoker) estimateUsage(req model.Request, completion string) model.Usage {
	modelName := string(m.opts.Model)
	usage := model.Usage{
		PromptTokens:     m.counter.CountRequest(modelName, req),
		CompletionTokens: m.counter.Count(modelName, completion),
	}
	usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	return usage
}

// Info returns metadata describing this Anthropic invoker.
func (m *Invoker) Info() model.Info {
	return model.Info{
		Name:     string(m.opts.Model),
		Provider: "anthropic",
		Vision:   true,
	}
}
