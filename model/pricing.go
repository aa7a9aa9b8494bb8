package model

import "strings"

// rate holds USD prices per million input/output tokens.
type rate struct {
	in  float64
	out float64
}

// rates is the published per-model pricing used for cost accounting. Prices
// drift; treat computed costs as estimates for budgeting, not billing.
var rates = map[string]rate{
	"gpt-4o":                     {in: 2.50, out: 10.00},
	"gpt-4o-mini":                {in: 0.15, out: 0.60},
	"gpt-4.1":                    {in: 2.00, out: 8.00},
	"gpt-4.1-mini":               {in: 0.40, out: 1.60},
	"claude-3-5-sonnet-20241022": {in: 3.00, out: 15.00},
	"claude-3-5-haiku-20241022":  {in: 0.80, out: 4.00},
	"claude-sonnet-4-20250514":   {in: 3.00, out: 15.00},
	"claude-opus-4-20250514":     {in: 15.00, out: 75.00},
}

// Cost returns the estimated USD cost of the given usage under the named
// model. Unknown models cost zero; a longest-prefix match covers dated
// model identifiers (e.g. "gpt-4o-2024-08-06").
func Cost(modelName string, usage Usage) float64 {
	r, ok := rates[modelName]
	if !ok {
		best := ""
		for name := range rates {
			if strings.HasPrefix(modelName, name) && len(name) > len(best) {
				best = name
			}
		}
		if best == "" {
			return 0
		}
		r = rates[best]
	}

	return (float64(usage.PromptTokens)*r.in + float64(usage.CompletionTokens)*r.out) / 1e6
}
