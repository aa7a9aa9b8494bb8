package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/hupe1980/uipilot/core"
)

// ErrNoPlan is returned when a response contains no decodable plan object.
var ErrNoPlan = errors.New("prompt: no plan object in response")

// ParsePlan extracts the JSON action plan from a raw model response. Code
// fences and prose around the object are tolerated: candidate objects are
// scanned left to right and the first one that decodes into a non-empty plan
// wins. The declared status is trimmed and upper-cased so downstream lookups
// work on canonical names.
func ParsePlan(raw string) (*core.ActionPlan, error) {
	var firstErr error
	for idx := 0; idx < len(raw); {
		rel := strings.IndexByte(raw[idx:], '{')
		if rel < 0 {
			break
		}
		start := idx + rel
		obj := balancedObject(raw[start:])
		if obj == "" {
			idx = start + 1
			continue
		}
		var plan core.ActionPlan
		if err := json.Unmarshal([]byte(obj), &plan); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			idx = start + 1
			continue
		}
		if isEmptyPlan(plan) {
			idx = start + len(obj)
			continue
		}
		plan.Status = core.Status(strings.ToUpper(strings.TrimSpace(string(plan.Status))))
		return &plan, nil
	}
	if firstErr != nil {
		return nil, fmt.Errorf("prompt: malformed plan: %w", firstErr)
	}
	return nil, fmt.Errorf("%w: %s", ErrNoPlan, truncate(strings.TrimSpace(raw), maxFragment))
}

// isEmptyPlan reports whether the decode produced no plan content at all,
// which happens when an unrelated JSON object precedes the real plan.
func isEmptyPlan(p core.ActionPlan) bool {
	return p.Operation == "" && p.Status == "" && p.Observation == "" &&
		p.Thought == "" && p.ControlLabel == "" && p.ControlText == ""
}

// balancedObject returns the balanced JSON object starting at s[0] (which
// must be '{'), or "" when the braces never close. Braces inside JSON
// strings are ignored.
func balancedObject(s string) string {
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
