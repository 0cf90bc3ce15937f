package localstore

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

func openTest(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestAddAndList verifies a stored set reads back with optional fields intact.
func TestAddAndList(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	rir := 1.5
	rest := 150
	at := time.Date(2026, 3, 2, 18, 30, 0, 0, time.UTC)
	added, err := s.AddSet(ctx, models.SetRow{
		Exercise: "Squat", PerformedAt: at, Weight: 100, Reps: 5, RIR: &rir, RestSeconds: &rest, Source: models.SourceManual,
	})
	if err != nil {
		t.Fatal(err)
	}
	if added.ID == uuid.Nil || added.Source != models.SourceCLI {
		t.Errorf("added = %+v, want generated ID and cli source", added)
	}

	sets, err := s.ListSets(ctx, "SQUAT", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(sets) != 1 {
		t.Fatalf("got %d sets, want 1", len(sets))
	}
	got := sets[0]
	if got.ID != added.ID || !got.PerformedAt.Equal(at) || got.Weight != 100 || got.Reps != 5 {
		t.Errorf("set = %+v", got)
	}
	if got.RIR == nil || *got.RIR != 1.5 || got.RestSeconds == nil || *got.RestSeconds != 150 {
		t.Errorf("optional fields = rir %v rest %v", got.RIR, got.RestSeconds)
	}
	if got.PushedAt != nil {
		t.Errorf("new set pushed_at = %v, want nil", got.PushedAt)
	}
}

// TestListOrderAndFilter verifies newest-first ordering, filtering and limits.
func TestListOrderAndFilter(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	for i, ex := range []string{"Squat", "Bench Press", "Squat"} {
		if _, err := s.AddSet(ctx, models.SetRow{Exercise: ex, PerformedAt: base.Add(time.Duration(i) * time.Minute), Weight: 50, Reps: 5}); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.ListSets(ctx, "", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 || !all[0].PerformedAt.After(all[1].PerformedAt) {
		t.Errorf("all = %+v", all)
	}

	squats, _ := s.ListSets(ctx, "squat", 10)
	if len(squats) != 2 {
		t.Errorf("squats = %d, want 2", len(squats))
	}

	limited, _ := s.ListSets(ctx, "", 1)
	if len(limited) != 1 {
		t.Errorf("limited = %d, want 1", len(limited))
	}
}

// TestPendingAndMarkPushed verifies pushed sets leave the pending queue.
func TestPendingAndMarkPushed(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 2, 18, 0, 0, 0, time.UTC)
	var ids []uuid.UUID
	for i := range 3 {
		row, err := s.AddSet(ctx, models.SetRow{Exercise: "Deadlift", PerformedAt: base.Add(time.Duration(i) * time.Minute), Weight: 140, Reps: 3})
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, row.ID)
	}

	pending, err := s.Pending(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 || pending[0].ID != ids[0] {
		t.Fatalf("pending = %+v, want the two oldest", pending)
	}

	if err := s.MarkPushed(ctx, []uuid.UUID{ids[0], ids[1]}); err != nil {
		t.Fatal(err)
	}
	pending, _ = s.Pending(ctx, 10)
	if len(pending) != 1 || pending[0].ID != ids[2] {
		t.Errorf("pending after push = %+v", pending)
	}

	sets, _ := s.ListSets(ctx, "", 10)
	pushed := 0
	for _, ls := range sets {
		if ls.PushedAt != nil {
			pushed++
		}
	}
	if pushed != 2 {
		t.Errorf("pushed = %d, want 2", pushed)
	}

	if err := s.MarkPushed(ctx, nil); err != nil {
		t.Errorf("MarkPushed(nil) = %v", err)
	}
}

// TestReopen verifies data survives closing the database.
func TestReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddSet(context.Background(), models.SetRow{Exercise: "Row", Weight: 60, Reps: 10}); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	sets, _ := s.ListSets(context.Background(), "", 10)
	if len(sets) != 1 {
		t.Errorf("sets after reopen = %d, want 1", len(sets))
	}
}
