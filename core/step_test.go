package core

import "testing"

func TestStepRecord_FieldsOmitsEmpty(t *testing.T) {
	rec := NewStepRecord(2, 1, "app/notepad.exe", StatusContinue)

	fields := rec.Fields()
	for _, key := range []string{"request", "response", "plan", "result", "screenshot", "error"} {
		if _, ok := fields[key]; ok {
			t.Errorf("zero-valued %q should be omitted", key)
		}
	}
	for _, key := range []string{"step", "round", "agent", "status", "cost", "timestamp"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("%q should always be present", key)
		}
	}
}

func TestStepRecord_FieldsCarriesDetail(t *testing.T) {
	rec := NewStepRecord(5, 2, "app/calc.exe", StatusError)
	rec.Response = "raw model text"
	rec.Plan = &ActionPlan{Operation: "click_input", ControlLabel: "7", Status: StatusContinue}
	rec.Error = "control not found"

	fields := rec.Fields()
	if fields["response"].(string) != "raw model text" {
		t.Errorf("response = %v", fields["response"])
	}
	if fields["plan"].(ActionPlan).Operation != "click_input" {
		t.Errorf("plan = %+v", fields["plan"])
	}
	if fields["error"].(string) != "control not found" {
		t.Errorf("error = %v", fields["error"])
	}
	if fields["status"].(string) != "ERROR" {
		t.Errorf("status = %v", fields["status"])
	}
}

func TestActionPlan_ActionTargetsWindow(t *testing.T) {
	plan := ActionPlan{
		ControlLabel: "3",
		ControlText:  "Seven",
		Operation:    "click_input",
		Args:         map[string]any{"button": "left"},
		Status:       StatusContinue,
	}
	win := Window{ID: "w2", Title: "Calculator", Process: "calc.exe"}

	action := plan.Action(win)
	if action.Window.ID != "w2" {
		t.Errorf("window = %+v", action.Window)
	}
	if action.Operation != "click_input" || action.ControlLabel != "3" {
		t.Errorf("action = %+v", action)
	}
	if action.Args["button"].(string) != "left" {
		t.Errorf("args = %+v", action.Args)
	}
}
