package memo

import (
	"testing"
	"time"

	"github.com/meltforce/liftlog/internal/training"
)

// TestDoCachesResult verifies the second call with the same key skips compute.
func TestDoCachesResult(t *testing.T) {
	c := New(1<<20, time.Minute)
	calls := 0
	compute := func() []training.WarmupSet {
		calls++
		return training.PlanWarmup(100, 20, 2.5)
	}

	first := Do(c, "warmup:100:20:2.5", compute)
	second := Do(c, "warmup:100:20:2.5", compute)

	if calls != 1 {
		t.Errorf("compute calls = %d, want 1", calls)
	}
	if len(first) != len(second) {
		t.Fatalf("cached len = %d, want %d", len(second), len(first))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("cached set %d = %+v, want %+v", i, second[i], first[i])
		}
	}

	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.Entries != 1 {
		t.Errorf("stats = %+v, want 1 hit, 1 miss, 1 entry", st)
	}
}

// TestDoDistinctKeys verifies different keys do not share results.
func TestDoDistinctKeys(t *testing.T) {
	c := New(1<<20, time.Minute)
	a := Do(c, "1rm:epley:100:5", func() int { return training.EstimateOneRepMax(training.Epley, 100, 5) })
	b := Do(c, "1rm:brzycki:100:5", func() int { return training.EstimateOneRepMax(training.Brzycki, 100, 5) })
	if a != 117 || b != 113 {
		t.Errorf("got %d and %d, want 117 and 113", a, b)
	}
}

// TestNilCachePassThrough verifies a disabled cache always computes.
func TestNilCachePassThrough(t *testing.T) {
	c := New(0, time.Minute)
	if c != nil {
		t.Fatal("New(0) should return nil")
	}
	calls := 0
	for range 3 {
		Do(c, "k", func() int { calls++; return calls })
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if st := c.Stats(); st != (Stats{}) {
		t.Errorf("nil stats = %+v, want zero", st)
	}
	c.Clear()
}

// TestClear verifies cleared entries are recomputed.
func TestClear(t *testing.T) {
	c := New(1<<20, time.Minute)
	calls := 0
	compute := func() int { calls++; return 42 }
	Do(c, "k", compute)
	c.Clear()
	Do(c, "k", compute)
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}
