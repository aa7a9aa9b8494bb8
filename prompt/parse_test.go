package prompt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/uipilot/core"
)

func TestParsePlan_PlainObject(t *testing.T) {
	plan, err := ParsePlan(`{"observation": "calc open", "thought": "press seven", "control_label": "1", "control_text": "Seven", "operation": "click_input", "args": {"button": "left"}, "status": "CONTINUE", "plan": "press plus next", "comment": ""}`)
	require.NoError(t, err)
	assert.Equal(t, "1", plan.ControlLabel)
	assert.Equal(t, "Seven", plan.ControlText)
	assert.Equal(t, "click_input", plan.Operation)
	assert.Equal(t, core.StatusContinue, plan.Status)
	assert.Equal(t, "left", plan.Args["button"])
}

func TestParsePlan_CodeFence(t *testing.T) {
	raw := "Here is the action:\n```json\n{\"operation\": \"set_edit_text\", \"control_label\": \"2\", \"args\": {\"text\": \"42\"}, \"status\": \"continue\"}\n```\nDone."
	plan, err := ParsePlan(raw)
	require.NoError(t, err)
	assert.Equal(t, "set_edit_text", plan.Operation)
	assert.Equal(t, core.StatusContinue, plan.Status, "status should be upper-cased")
}

func TestParsePlan_BracesInsideStrings(t *testing.T) {
	raw := `{"observation": "button labelled {7}", "operation": "click_input", "control_label": "1", "status": "FINISH"}`
	plan, err := ParsePlan(raw)
	require.NoError(t, err)
	assert.Equal(t, "button labelled {7}", plan.Observation)
	assert.Equal(t, core.StatusFinish, plan.Status)
}

func TestParsePlan_NoObject(t *testing.T) {
	_, err := ParsePlan("I cannot produce JSON right now.")
	assert.ErrorIs(t, err, ErrNoPlan)
}

func TestParsePlan_Malformed(t *testing.T) {
	_, err := ParsePlan(`{"operation": "click_input", "args": }`)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoPlan)
}

func TestParsePlan_EmptyStatusStaysEmpty(t *testing.T) {
	plan, err := ParsePlan(`{"operation": "texts", "control_label": "2"}`)
	require.NoError(t, err)
	assert.Equal(t, core.StatusNone, plan.Status)
}
