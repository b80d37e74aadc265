package trace

import (
	"testing"
)

func TestRunTrace_RecordRobot_AppendsCopy(t *testing.T) {
	// GIVEN a fresh trace and a robot log
	rt := NewRunTrace(42)
	records := []ActionRecord{
		{Position: [2]int{0, 2}, Action: ActionMove},
		{Position: [2]int{0, 3}, Action: ActionPickup},
	}

	// WHEN the log is recorded and the caller's slice mutated afterwards
	rt.RecordRobot(7, "storage", records)
	records[0].Action = ActionDeliverLoad

	// THEN the trace kept its own copy
	if len(rt.Robots) != 1 {
		t.Fatalf("expected 1 robot, got %d", len(rt.Robots))
	}
	got := rt.Robots[0]
	if got.ID != 7 || got.Role != "storage" {
		t.Errorf("unexpected robot header: %+v", got)
	}
	if got.Path[0].Action != ActionMove {
		t.Errorf("trace aliased caller slice: first action = %q", got.Path[0].Action)
	}
	if rt.Seed != 42 {
		t.Errorf("seed = %d, want 42", rt.Seed)
	}
}

func TestIsValidAction(t *testing.T) {
	for _, a := range []string{"move", "pickup", "pickup_from_shelf", "deliver_load", "deliver_shelf"} {
		if !IsValidAction(a) {
			t.Errorf("IsValidAction(%q) = false, want true", a)
		}
	}
	for _, a := range []string{"", "teleport", "MOVE"} {
		if IsValidAction(a) {
			t.Errorf("IsValidAction(%q) = true, want false", a)
		}
	}
}
