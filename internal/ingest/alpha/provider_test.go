package alpha

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/meltforce/liftlog/internal/models"
)

type fakeStore struct {
	deleted  []string
	inserted []models.SetRow
	replaced int64
	failOn   string
}

func (f *fakeStore) DeleteSessionSets(_ context.Context, _ int, source, session string, _ time.Time) (int64, error) {
	if f.failOn == "delete" {
		return 0, errors.New("boom")
	}
	f.deleted = append(f.deleted, source+"|"+session)
	return f.replaced, nil
}

func (f *fakeStore) InsertSets(_ context.Context, rows []models.SetRow) (int64, error) {
	if f.failOn == "insert" {
		return 0, errors.New("boom")
	}
	f.inserted = append(f.inserted, rows...)
	return int64(len(rows)) - 1, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestIngest verifies sessions are replaced, rows flattened and counts reported.
func TestIngest(t *testing.T) {
	store := &fakeStore{replaced: 2}
	p := NewProvider(store, testLogger())

	res, err := p.Ingest(context.Background(), strings.NewReader(sampleCSV), 7)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	if res.SessionsReceived != 2 {
		t.Errorf("sessions = %d, want 2", res.SessionsReceived)
	}
	if len(store.deleted) != 2 || !strings.HasPrefix(store.deleted[0], "alpha|Legs") {
		t.Errorf("deleted = %v", store.deleted)
	}
	if res.SetsReplaced != 4 {
		t.Errorf("replaced = %d, want 4", res.SetsReplaced)
	}
	// Legs: 5+3+4+3+4+3, Push: 6
	if res.SetsReceived != 28 || len(store.inserted) != 28 {
		t.Errorf("received = %d, inserted rows = %d, want 28", res.SetsReceived, len(store.inserted))
	}
	if res.SetsInserted != 27 || res.SetsSkipped != 1 {
		t.Errorf("inserted/skipped = %d/%d, want 27/1", res.SetsInserted, res.SetsSkipped)
	}
	if res.TrainingSeconds != 3720+4320 {
		t.Errorf("training seconds = %d, want %d", res.TrainingSeconds, 3720+4320)
	}

	first := store.inserted[0]
	if first.UserID != 7 || first.Source != models.SourceAlpha || first.Exercise != "Hack Squats" || !first.IsWarmup {
		t.Errorf("first row = %+v", first)
	}
	hyper := store.inserted[9]
	if hyper.Exercise != "Hyperextensions on Roman Chair" || hyper.Note != "bodyweight +" {
		t.Errorf("bodyweight row = %+v", hyper)
	}
}

// TestIngestStableIDs verifies the same export yields the same set IDs.
func TestIngestStableIDs(t *testing.T) {
	a, b := &fakeStore{}, &fakeStore{}
	if _, err := NewProvider(a, testLogger()).Ingest(context.Background(), strings.NewReader(sampleCSV), 1); err != nil {
		t.Fatal(err)
	}
	if _, err := NewProvider(b, testLogger()).Ingest(context.Background(), strings.NewReader(sampleCSV), 1); err != nil {
		t.Fatal(err)
	}
	seen := make(map[string]bool)
	for i := range a.inserted {
		if a.inserted[i].ID != b.inserted[i].ID {
			t.Fatalf("row %d id differs between imports", i)
		}
		id := a.inserted[i].ID.String()
		if seen[id] {
			t.Fatalf("duplicate id %s at row %d", id, i)
		}
		seen[id] = true
	}
}

// TestIngestStoreErrors verifies storage failures abort the import.
func TestIngestStoreErrors(t *testing.T) {
	for _, failOn := range []string{"delete", "insert"} {
		p := NewProvider(&fakeStore{failOn: failOn}, testLogger())
		if _, err := p.Ingest(context.Background(), strings.NewReader(sampleCSV), 1); err == nil {
			t.Errorf("expected error when %s fails", failOn)
		}
	}
}

// TestPreview verifies counts match Ingest without a store.
func TestPreview(t *testing.T) {
	res, err := Preview(strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if res.SessionsReceived != 2 || res.SetsReceived != 28 || res.SetsInserted != 0 {
		t.Errorf("preview = %+v", res)
	}
	if res.TrainingSeconds != 3720+4320 {
		t.Errorf("training seconds = %d", res.TrainingSeconds)
	}
}
