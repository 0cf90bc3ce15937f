package training

import (
	"math"
	"testing"
)

func assertLadder(t *testing.T, got, want []WarmupSet) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("ladder len = %d, want %d\ngot:  %+v\nwant: %+v", len(got), len(want), got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("set %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// assertLadderShape checks the properties every ladder must hold.
func assertLadderShape(t *testing.T, ladder []WarmupSet, working float64) {
	t.Helper()
	for i, s := range ladder {
		if s.Weight <= 0 {
			t.Errorf("set %d weight %v not > 0", i, s.Weight)
		}
		if s.Weight >= working {
			t.Errorf("set %d weight %v not < working %v", i, s.Weight, working)
		}
		if i > 0 && ladder[i-1].Weight >= s.Weight {
			t.Errorf("set %d weight %v not above previous %v", i, s.Weight, ladder[i-1].Weight)
		}
	}
}

// TestPlanWarmupStandard verifies the full six-step ladder for a typical squat.
func TestPlanWarmupStandard(t *testing.T) {
	got := PlanWarmup(100, 20, 2.5)
	assertLadder(t, got, []WarmupSet{
		{Weight: 20, Reps: 10, Note: "Bar"},
		{Weight: 40, Reps: 8},
		{Weight: 60, Reps: 5},
		{Weight: 75, Reps: 3},
		{Weight: 85, Reps: 2},
		{Weight: 92.5, Reps: 1},
	})
	assertLadderShape(t, got, 100)
}

// TestPlanWarmupEmpty verifies that no working weight means no warm-up.
func TestPlanWarmupEmpty(t *testing.T) {
	for _, w := range []float64{0, -60, math.NaN(), math.Inf(1)} {
		got := PlanWarmup(w, 20, 2.5)
		if got == nil || len(got) != 0 {
			t.Errorf("PlanWarmup(%v) = %#v, want empty non-nil slice", w, got)
		}
	}
}

// TestPlanWarmupBarEqualsWorking verifies the bar is dropped when it is the
// working weight, and collisions keep the earliest step.
func TestPlanWarmupBarEqualsWorking(t *testing.T) {
	got := PlanWarmup(20, 20, 2.5)
	assertLadder(t, got, []WarmupSet{
		{Weight: 7.5, Reps: 8},
		{Weight: 12.5, Reps: 5},
		{Weight: 15, Reps: 3},
		{Weight: 17.5, Reps: 2},
	})
	assertLadderShape(t, got, 20)
}

// TestPlanWarmupBarHeavierThanWorking verifies the bar is clamped to the
// working weight and therefore excluded.
func TestPlanWarmupBarHeavierThanWorking(t *testing.T) {
	got := PlanWarmup(50, 60, 2.5)
	assertLadder(t, got, []WarmupSet{
		{Weight: 20, Reps: 8},
		{Weight: 30, Reps: 5},
		{Weight: 37.5, Reps: 3},
		{Weight: 42.5, Reps: 2},
		{Weight: 45, Reps: 1},
	})
}

// TestPlanWarmupNoBar verifies a zero or negative bar produces no bar set and no note.
func TestPlanWarmupNoBar(t *testing.T) {
	for _, bar := range []float64{0, -20, math.NaN()} {
		got := PlanWarmup(100, bar, 2.5)
		if len(got) != 5 {
			t.Fatalf("bar=%v: len = %d, want 5 (%+v)", bar, len(got), got)
		}
		for _, s := range got {
			if s.Note != "" {
				t.Errorf("bar=%v: unexpected note %q on %+v", bar, s.Note, s)
			}
		}
	}
}

// TestPlanWarmupDedupeKeepsFirst verifies that when rounding collapses steps
// onto one weight, the lower-intensity step's reps win.
func TestPlanWarmupDedupeKeepsFirst(t *testing.T) {
	got := PlanWarmup(10, 0, 5)
	assertLadder(t, got, []WarmupSet{{Weight: 5, Reps: 8}})
}

// TestPlanWarmupSortsBarIntoPlace verifies a heavy bar lands in weight order
// and beats a colliding percentage step.
func TestPlanWarmupSortsBarIntoPlace(t *testing.T) {
	got := PlanWarmup(30, 25, 2.5)
	assertLadder(t, got, []WarmupSet{
		{Weight: 12.5, Reps: 8},
		{Weight: 17.5, Reps: 5},
		{Weight: 22.5, Reps: 3},
		{Weight: 25, Reps: 10, Note: "Bar"},
		{Weight: 27.5, Reps: 1},
	})
	assertLadderShape(t, got, 30)
}

// TestPlanWarmupShapeAcrossWeights sweeps working weights and checks the ladder invariants.
func TestPlanWarmupShapeAcrossWeights(t *testing.T) {
	for w := 1.0; w <= 300; w += 2.5 {
		for _, inc := range []float64{0, 1, 2.5, 5} {
			assertLadderShape(t, PlanWarmup(w, 20, inc), w)
		}
	}
}

// TestQuickWarmup verifies the four-step ladder.
func TestQuickWarmup(t *testing.T) {
	got := QuickWarmup(100, 20)
	assertLadder(t, got, []WarmupSet{
		{Weight: 20, Reps: 15, Note: "Bar"},
		{Weight: 50, Reps: 10},
		{Weight: 75, Reps: 5},
		{Weight: 90, Reps: 2},
	})
}

// TestQuickWarmupCollisions verifies bar/50% collisions keep the bar and that
// the result stays ascending.
func TestQuickWarmupCollisions(t *testing.T) {
	assertLadder(t, QuickWarmup(40, 20), []WarmupSet{
		{Weight: 20, Reps: 15, Note: "Bar"},
		{Weight: 30, Reps: 5},
		{Weight: 35, Reps: 2},
	})
	assertLadder(t, QuickWarmup(30, 20), []WarmupSet{
		{Weight: 15, Reps: 10},
		{Weight: 20, Reps: 15, Note: "Bar"},
		{Weight: 22.5, Reps: 5},
		{Weight: 27.5, Reps: 2},
	})
}

// TestQuickWarmupEmpty verifies the quick ladder shares the working-weight guard.
func TestQuickWarmupEmpty(t *testing.T) {
	if got := QuickWarmup(0, 20); len(got) != 0 {
		t.Errorf("QuickWarmup(0) = %+v, want empty", got)
	}
	if got := QuickWarmup(math.NaN(), 20); len(got) != 0 {
		t.Errorf("QuickWarmup(NaN) = %+v, want empty", got)
	}
}

// TestWarmupDispatch verifies the preset switch reaches both ladders and that
// the quick preset ignores the caller's increment.
func TestWarmupDispatch(t *testing.T) {
	std := Warmup(PresetStandard, 100, 20, 2.5)
	if len(std) != 6 {
		t.Errorf("standard len = %d, want 6", len(std))
	}
	quick := Warmup(PresetQuick, 100, 20, 10)
	assertLadder(t, quick, QuickWarmup(100, 20))
	if got := Warmup(WarmupPreset("pyramid"), 100, 20, 2.5); len(got) != 0 {
		t.Errorf("unknown preset = %+v, want empty", got)
	}
}

// TestParseWarmupPreset verifies preset parsing.
func TestParseWarmupPreset(t *testing.T) {
	if p, err := ParseWarmupPreset("Quick"); err != nil || p != PresetQuick {
		t.Errorf("ParseWarmupPreset(Quick) = %q, %v", p, err)
	}
	if p, err := ParseWarmupPreset("standard"); err != nil || p != PresetStandard {
		t.Errorf("ParseWarmupPreset(standard) = %q, %v", p, err)
	}
	if _, err := ParseWarmupPreset("ramp"); err == nil {
		t.Error("ParseWarmupPreset(ramp) expected error")
	}
}
