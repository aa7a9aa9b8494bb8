package model

import (
	"context"
	"fmt"
	"sync"
)

// Message is one conversational turn in normalized form. Images carry
// encoded screenshot bytes (PNG) attached to the turn; adapters convert
// them into the provider's vision input format.
type Message struct {
	Role   string   `json:"role"` // "user" or "assistant"
	Text   string   `json:"text"`
	Images [][]byte `json:"-"`
}

// Request captures the normalized model input produced by prompt assembly.
type Request struct {
	System   string    `json:"system,omitempty"`
	Messages []Message `json:"messages"`
}

// LastText returns the text of the final message, or "" for empty requests.
func (r Request) LastText() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[len(r.Messages)-1].Text
}

// Usage captures token usage statistics for a completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the final result of one synchronous model invocation.
type Completion struct {
	Text         string  `json:"text"`
	FinishReason string  `json:"finish_reason"` // "stop", "length", etc.
	Usage        Usage   `json:"usage"`
	Cost         float64 `json:"cost"`
	Model        string  `json:"model"`
}

// Info contains metadata about a model implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "openai", "anthropic", "mock", etc.
	Vision   bool   `json:"vision"`
}

// Invoker is the minimal synchronous interface the step pipeline drives
// generation through: one call, one completion. Transport failures surface
// as errors which the pipeline maps to an ERROR status for the step.
type Invoker interface {
	Invoke(ctx context.Context, req Request) (*Completion, error)

	// Info returns information about the model implementation.
	Info() Info
}

// MockInvoker is a lightweight in-memory Invoker useful for tests and
// examples. Replies can be queued in order or keyed by the final message
// text; every received request is recorded for inspection.
type MockInvoker struct {
	mu        sync.Mutex
	info      Info
	queue     []mockReply
	responses map[string]string
	requests  []Request
}

type mockReply struct {
	completion *Completion
	err        error
}

// NewMockInvoker constructs a MockInvoker with vision support flagged.
func NewMockInvoker(name, provider string) *MockInvoker {
	return &MockInvoker{
		info: Info{
			Name:     name,
			Provider: provider,
			Vision:   true,
		},
		responses: make(map[string]string),
	}
}

// AddCompletion queues a canned completion returned in FIFO order.
func (m *MockInvoker) AddCompletion(text string) {
	m.AddReply(Completion{Text: text, FinishReason: "stop", Model: m.info.Name})
}

// AddReply queues a fully specified completion (usage, cost, ...).
func (m *MockInvoker) AddReply(c Completion) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockReply{completion: &c})
}

// AddError queues an invocation failure returned in FIFO order.
func (m *MockInvoker) AddError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, mockReply{err: err})
}

// AddResponse registers a deterministic canned completion for a final
// message text, consulted when the FIFO queue is empty.
func (m *MockInvoker) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// Requests returns a copy of all requests received so far.
func (m *MockInvoker) Requests() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]Request, len(m.requests))
	copy(res, m.requests)
	return res
}

// Invoke implements Invoker.
func (m *MockInvoker) Invoke(ctx context.Context, req Request) (*Completion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)

	if len(m.queue) > 0 {
		reply := m.queue[0]
		m.queue = m.queue[1:]
		if reply.err != nil {
			return nil, reply.err
		}
		return reply.completion, nil
	}

	text := m.responses[req.LastText()]
	if text == "" {
		text = fmt.Sprintf("Mock response to: %s", req.LastText())
	}

	return &Completion{Text: text, FinishReason: "stop", Model: m.info.Name}, nil
}

// Info implements Invoker.
func (m *MockInvoker) Info() Info { return m.info }
