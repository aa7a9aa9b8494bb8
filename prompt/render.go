package prompt

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hupe1980/uipilot/core"
)

const maxFragment = 160

// renderControls lists annotated controls one per line, e.g.
//
//	3: [Button] "Seven"
//	4: [Edit] "Display" (disabled)
func renderControls(controls []core.ControlInfo) string {
	var sb strings.Builder
	for i, c := range controls {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s: [%s] %q", c.Label, c.Type, c.Text)
		if !c.Enabled {
			sb.WriteString(" (disabled)")
		}
	}
	return sb.String()
}

// renderWindows lists selectable windows with one-based labels, e.g.
//
//	1: "Calculator" (calc.exe)
func renderWindows(windows []core.Window) string {
	var sb strings.Builder
	for i, w := range windows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%d: %q (%s)", i+1, w.Title, w.Process)
	}
	return sb.String()
}

// renderHistory summarizes previous step records, newest last.
func renderHistory(records []core.StepRecord) string {
	var sb strings.Builder
	for i, rec := range records {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "step %d [%s]", rec.Step, rec.Status)
		if rec.Plan != nil {
			fmt.Fprintf(&sb, " %s", rec.Plan.Operation)
			if rec.Plan.ControlText != "" {
				fmt.Fprintf(&sb, " on %q", rec.Plan.ControlText)
			}
		}
		if rec.Result != "" {
			fmt.Fprintf(&sb, ": %s", truncate(rec.Result, maxFragment))
		}
		if rec.Error != "" {
			fmt.Fprintf(&sb, " (error: %s)", truncate(rec.Error, maxFragment))
		}
	}
	return sb.String()
}

// renderNotes flattens shared state into sorted "key: value" lines.
func renderNotes(notes map[string]any) string {
	if len(notes) == 0 {
		return ""
	}
	keys := make([]string, 0, len(notes))
	for k := range notes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	for i, k := range keys {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%s: %s", k, truncate(fmt.Sprintf("%v", notes[k]), maxFragment))
	}
	return sb.String()
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
