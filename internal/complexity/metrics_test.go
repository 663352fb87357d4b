package complexity

import (
	"math"
	"testing"
)

func TestNewScore(t *testing.T) {
	s := NewScore(4, 100)
	if s.Cyclomatic != 4 {
		t.Errorf("expected cyclomatic 4, got %d", s.Cyclomatic)
	}
	if s.Cognitive != 4 {
		t.Errorf("expected cognitive to track cyclomatic, got %d", s.Cognitive)
	}
	if s.Maintainability <= 0 || s.Maintainability > 100 {
		t.Errorf("maintainability out of range: %f", s.Maintainability)
	}
}

func TestMaintainabilityIndex_EmptyFile(t *testing.T) {
	if mi := MaintainabilityIndex(0, 0); mi != 100 {
		t.Errorf("expected 100 for empty file, got %f", mi)
	}
	if mi := MaintainabilityIndex(5, 0); mi != 100 {
		t.Errorf("expected 100 for zero lines, got %f", mi)
	}
}

func TestMaintainabilityIndex_Bounds(t *testing.T) {
	// A huge, highly complex file must clamp at the floor, not go negative.
	if mi := MaintainabilityIndex(500, 100000); mi < 0 {
		t.Errorf("expected clamp at 0, got %f", mi)
	}
	if mi := MaintainabilityIndex(1, 10); mi > 100 {
		t.Errorf("expected clamp at 100, got %f", mi)
	}
}

func TestMaintainabilityIndex_Monotonic(t *testing.T) {
	simple := MaintainabilityIndex(2, 50)
	gnarly := MaintainabilityIndex(40, 50)
	if gnarly >= simple {
		t.Errorf("expected higher complexity to lower maintainability: simple=%f gnarly=%f", simple, gnarly)
	}
}

func TestDebt(t *testing.T) {
	if d := Debt(15, 10); math.Abs(d-2.5) > 1e-9 {
		t.Errorf("expected debt 2.5 for 15 over threshold 10, got %f", d)
	}
	if d := Debt(10, 10); d != 0 {
		t.Errorf("expected no debt at threshold, got %f", d)
	}
	if d := Debt(3, 10); d != 0 {
		t.Errorf("expected no debt below threshold, got %f", d)
	}
}
