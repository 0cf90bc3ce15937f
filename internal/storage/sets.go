package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

const setColumns = 13

// ExerciseCount is one entry of the exercise list.
type ExerciseCount struct {
	Name          string    `json:"name"`
	Sets          int       `json:"sets"`
	LastPerformed time.Time `json:"last_performed"`
}

// InsertSets batch-inserts sets. Rows without an ID get a fresh one. Rows whose
// ID already exists are skipped. Returns the number inserted.
func (db *DB) InsertSets(ctx context.Context, rows []models.SetRow) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	query, args := buildInsertSets(rows)
	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("inserting sets: %w", err)
	}
	return tag.RowsAffected(), nil
}

func buildInsertSets(rows []models.SetRow) (string, []any) {
	query := `INSERT INTO sets (id, user_id, exercise, equipment, performed_at, weight, reps,
		rir, is_warmup, rest_seconds, session, note, source) VALUES `
	args := make([]any, 0, len(rows)*setColumns)
	valueStrings := make([]string, 0, len(rows))

	for i := range rows {
		r := &rows[i]
		if r.ID == uuid.Nil {
			r.ID = uuid.New()
		}
		if r.Source == "" {
			r.Source = models.SourceManual
		}
		base := i * setColumns
		ph := make([]string, setColumns)
		for j := range ph {
			ph[j] = fmt.Sprintf("$%d", base+j+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
		args = append(args, r.ID, r.UserID, r.Exercise, r.Equipment, r.PerformedAt,
			r.Weight, r.Reps, r.RIR, r.IsWarmup, r.RestSeconds, r.Session, r.Note, r.Source)
	}

	return query + strings.Join(valueStrings, ",") + " ON CONFLICT (id) DO NOTHING", args
}

// QuerySets retrieves sets in [start, end), newest first. An empty exercise
// matches every exercise; otherwise the match is case-insensitive.
func (db *DB) QuerySets(ctx context.Context, start, end time.Time, userID int, exercise string) ([]models.SetRow, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, exercise, equipment, performed_at, weight, reps,
		 rir, is_warmup, rest_seconds, session, note, source
		 FROM sets
		 WHERE performed_at >= $1 AND performed_at < $2 AND user_id = $3
		   AND ($4 = '' OR lower(exercise) = lower($4))
		 ORDER BY performed_at DESC, is_warmup DESC, weight ASC`,
		start, end, userID, exercise)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var result []models.SetRow
	for rows.Next() {
		var r models.SetRow
		if err := rows.Scan(&r.ID, &r.UserID, &r.Exercise, &r.Equipment, &r.PerformedAt,
			&r.Weight, &r.Reps, &r.RIR, &r.IsWarmup, &r.RestSeconds, &r.Session, &r.Note, &r.Source); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

// DeleteSessionSets removes the sets of one imported session so a re-import
// replaces it. Returns the number deleted.
func (db *DB) DeleteSessionSets(ctx context.Context, userID int, source, session string, performedAt time.Time) (int64, error) {
	tag, err := db.Pool.Exec(ctx,
		`DELETE FROM sets
		 WHERE user_id = $1 AND source = $2 AND session = $3 AND performed_at = $4`,
		userID, source, session, performedAt)
	if err != nil {
		return 0, fmt.Errorf("deleting session sets: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListExercises returns every exercise the user has logged, most used first.
func (db *DB) ListExercises(ctx context.Context, userID int) ([]ExerciseCount, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT exercise, COUNT(*)::int, MAX(performed_at)
		 FROM sets
		 WHERE user_id = $1
		 GROUP BY exercise
		 ORDER BY COUNT(*) DESC, exercise ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("listing exercises: %w", err)
	}
	defer rows.Close()

	var result []ExerciseCount
	for rows.Next() {
		var e ExerciseCount
		if err := rows.Scan(&e.Name, &e.Sets, &e.LastPerformed); err != nil {
			return nil, fmt.Errorf("scanning exercise: %w", err)
		}
		result = append(result, e)
	}
	return result, rows.Err()
}
