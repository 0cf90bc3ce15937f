package alpha

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/duration"
	"github.com/meltforce/liftlog/internal/ingest"
	"github.com/meltforce/liftlog/internal/models"
)

// Store is the part of storage the provider writes to.
type Store interface {
	DeleteSessionSets(ctx context.Context, userID int, source, session string, performedAt time.Time) (int64, error)
	InsertSets(ctx context.Context, rows []models.SetRow) (int64, error)
}

// Provider processes Alpha Progression CSV exports.
type Provider struct {
	db  Store
	log *slog.Logger
}

// NewProvider creates a new Alpha Progression ingest provider.
func NewProvider(db Store, log *slog.Logger) *Provider {
	return &Provider{db: db, log: log}
}

// Ingest parses a CSV export and stores its sets. Sessions that were imported
// before are replaced so re-imports reflect the latest export.
func (p *Provider) Ingest(ctx context.Context, r io.Reader, userID int) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}

	result := &ingest.Result{SessionsReceived: len(sessions)}
	var allRows []models.SetRow

	for _, s := range sessions {
		replaced, err := p.db.DeleteSessionSets(ctx, userID, models.SourceAlpha, s.Name, s.Date)
		if err != nil {
			return nil, fmt.Errorf("deleting existing sets for session %s: %w", s.Date.Format("2006-01-02"), err)
		}
		result.SetsReplaced += replaced

		var length duration.Value
		if s.DurationSeconds != nil {
			length = duration.Of(*s.DurationSeconds)
			result.TrainingSeconds += *s.DurationSeconds
		}
		p.log.Debug("alpha session", "name", s.Name, "date", s.Date.Format(time.DateOnly), "duration", length.String())

		allRows = append(allRows, sessionRows(s, userID)...)
	}

	result.SetsReceived = len(allRows)
	if len(allRows) > 0 {
		inserted, err := p.db.InsertSets(ctx, allRows)
		if err != nil {
			return nil, fmt.Errorf("inserting sets: %w", err)
		}
		result.SetsInserted = inserted
		result.SetsSkipped = int64(len(allRows)) - inserted
	}

	p.log.Info("alpha import",
		"sessions", result.SessionsReceived,
		"sets", result.SetsReceived,
		"inserted", result.SetsInserted,
		"replaced", result.SetsReplaced,
	)
	return result, nil
}

// Preview parses a CSV export and reports what Ingest would receive without
// touching the store.
func Preview(r io.Reader) (*ingest.Result, error) {
	sessions, err := Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing CSV: %w", err)
	}
	result := &ingest.Result{SessionsReceived: len(sessions)}
	for _, s := range sessions {
		result.SetsReceived += len(sessionRows(s, 0))
		if s.DurationSeconds != nil {
			result.TrainingSeconds += *s.DurationSeconds
		}
	}
	return result, nil
}

// sessionRows flattens a session into set rows. IDs derive from the session
// and set position so the same export always yields the same IDs.
func sessionRows(s models.AlphaSession, userID int) []models.SetRow {
	var rows []models.SetRow
	for _, ex := range s.Exercises {
		for _, set := range ex.Sets {
			var note string
			if set.IsBodyweightPlus {
				note = "bodyweight +"
			}
			rows = append(rows, models.SetRow{
				ID:          setID(userID, s, ex.Number, set),
				UserID:      userID,
				Exercise:    ex.Name,
				Equipment:   ex.Equipment,
				PerformedAt: s.Date,
				Weight:      set.WeightKg,
				Reps:        set.Reps,
				RIR:         set.RIR,
				IsWarmup:    set.IsWarmup,
				Session:     s.Name,
				Note:        note,
				Source:      models.SourceAlpha,
			})
		}
	}
	return rows
}

func setID(userID int, s models.AlphaSession, exercise int, set models.AlphaSet) uuid.UUID {
	name := fmt.Sprintf("alpha/%d/%s/%s/%d/%t/%d",
		userID, s.Date.Format(time.RFC3339), s.Name, exercise, set.IsWarmup, set.Number)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(name))
}
