package training

import (
	"math"
	"testing"
)

// TestPercentageTableKeepsCallerOrder verifies rows come back in the order the
// percentages were given, not sorted by weight.
func TestPercentageTableKeepsCallerOrder(t *testing.T) {
	got := PercentageTable(140, []float64{0.9, 0.5, 0.75}, 2.5)
	want := []PercentageEntry{
		{Pct: 0.9, Weight: 125},
		{Pct: 0.5, Weight: 70},
		{Pct: 0.75, Weight: 105},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

// TestPercentageTableDropsNonPositive verifies zero, negative and NaN
// percentages are filtered out.
func TestPercentageTableDropsNonPositive(t *testing.T) {
	got := PercentageTable(100, []float64{0, -0.5, math.NaN(), 0.01, 0.8}, 2.5)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1 (%v)", len(got), got)
	}
	if got[0].Pct != 0.8 || got[0].Weight != 80 {
		t.Errorf("entry = %+v, want {0.8 80}", got[0])
	}
}

// TestPercentageTableUnusableMax verifies a zero or non-finite max gives an empty table.
func TestPercentageTableUnusableMax(t *testing.T) {
	for _, oneRM := range []float64{0, -100, math.NaN(), math.Inf(1)} {
		if got := PercentageTable(oneRM, DefaultPercentages, 2.5); len(got) != 0 {
			t.Errorf("PercentageTable(%v) = %v, want empty", oneRM, got)
		}
	}
}

// TestPercentageTableInvalidIncrement verifies the integer fallback when the
// increment is unusable.
func TestPercentageTableInvalidIncrement(t *testing.T) {
	got := PercentageTable(117, []float64{0.85}, 0)
	if len(got) != 1 || got[0].Weight != 99 {
		t.Errorf("PercentageTable(117, [0.85], 0) = %v, want weight 99", got)
	}
}

// TestPercentageTableDefaults verifies the default table is full for a normal max.
func TestPercentageTableDefaults(t *testing.T) {
	got := PercentageTable(200, DefaultPercentages, 2.5)
	if len(got) != len(DefaultPercentages) {
		t.Fatalf("len = %d, want %d", len(got), len(DefaultPercentages))
	}
	if got[0].Weight != 200 {
		t.Errorf("first weight = %v, want 200", got[0].Weight)
	}
	if got[len(got)-1].Weight != 100 {
		t.Errorf("last weight = %v, want 100", got[len(got)-1].Weight)
	}
}
