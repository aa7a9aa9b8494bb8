package model

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter estimates token counts per model. Providers usually report
// usage themselves; the counter covers providers that omit it and lets
// prompt assembly enforce a history token budget before invoking.
type TokenCounter struct {
	mu    sync.Mutex
	cache map[string]*tiktoken.Tiktoken
}

// NewTokenCounter creates a counter with an empty encoding cache.
func NewTokenCounter() *TokenCounter {
	return &TokenCounter{cache: map[string]*tiktoken.Tiktoken{}}
}

// Count returns the token count of text under the named model's encoding.
// Unknown models fall back to the cl100k_base encoding; if no encoding can
// be loaded at all, a coarse four-characters-per-token estimate is used.
func (tc *TokenCounter) Count(modelName, text string) int {
	enc := tc.encodingFor(modelName)
	if enc == nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

// CountRequest sums the token counts of a request's system prompt and
// message texts, including a small per-message framing overhead. Image
// attachments are not counted; vision token pricing is provider-specific
// and reported usage remains authoritative when available.
func (tc *TokenCounter) CountRequest(modelName string, req Request) int {
	// Per-message framing plus reply priming, per the OpenAI cookbook.
	total := 3
	if req.System != "" {
		total += 3 + tc.Count(modelName, req.System)
	}
	for _, msg := range req.Messages {
		total += 3 + tc.Count(modelName, msg.Role) + tc.Count(modelName, msg.Text)
	}
	return total
}

func (tc *TokenCounter) encodingFor(modelName string) *tiktoken.Tiktoken {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if enc, ok := tc.cache[modelName]; ok {
		return enc
	}

	enc, err := tiktoken.EncodingForModel(modelName)
	if err != nil {
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil
		}
	}

	tc.cache[modelName] = enc

	return enc
}
