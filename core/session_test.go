package core

import "testing"

func TestSession_ApplyStateDeltaAndClone(t *testing.T) {
	s := NewSession("s1")

	s.ApplyStateDelta(map[string]any{"a": 1, "b": "x"})
	if v, ok := s.GetState("a"); !ok || v.(int) != 1 {
		t.Fatalf("State not applied: %+v", s.State)
	}

	clone := s.Clone()
	if clone == s {
		t.Error("Clone should be a different pointer")
	}

	clone.SetState("c", 2)
	if _, exists := s.GetState("c"); exists {
		t.Error("Original should not have clone's new key")
	}
}

func TestSession_AddStepAndTranscript(t *testing.T) {
	s := NewSession("s2")
	s.AddStep(NewStepRecord(1, 0, "host", StatusContinue))
	s.AddStep(NewStepRecord(2, 0, "app/calc.exe", StatusContinue))
	s.AddStep(NewStepRecord(3, 1, "app/calc.exe", StatusFinish))

	all := s.GetSteps()
	if len(all) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(all))
	}

	orig := all[0].Agent
	all[0].Agent = "changed"
	if s.GetSteps()[0].Agent != orig {
		t.Error("steps slice should be copied on read")
	}

	byAgent := s.StepsByAgent("app/calc.exe")
	if len(byAgent) != 2 {
		t.Fatalf("expected 2 app steps, got %d", len(byAgent))
	}
	if byAgent[1].Status != StatusFinish {
		t.Errorf("expected FINISH last, got %q", byAgent[1].Status)
	}
}

func TestSession_StepCounterAdvancesExplicitly(t *testing.T) {
	s := NewSession("s3")
	if s.Step() != 0 {
		t.Fatalf("fresh session step = %d, want 0", s.Step())
	}

	s.AddStep(NewStepRecord(1, 0, "app", StatusError))
	if s.Step() != 0 {
		t.Error("recording alone must not advance the counter")
	}

	if got := s.AdvanceStep(); got != 1 {
		t.Errorf("AdvanceStep = %d, want 1", got)
	}
	if got := s.AdvanceStep(); got != 2 {
		t.Errorf("AdvanceStep = %d, want 2", got)
	}
}

func TestSession_CostAccumulates(t *testing.T) {
	s := NewSession("s4")
	s.AddCost(0.25)
	s.AddCost(0.5)

	if got := s.TotalCost(); got != 0.75 {
		t.Errorf("TotalCost = %v, want 0.75", got)
	}

	clone := s.Clone()
	if clone.TotalCost() != 0.75 {
		t.Error("Clone should carry the accumulated cost")
	}
}
