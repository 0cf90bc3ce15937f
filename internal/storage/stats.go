package storage

import (
	"context"
	"fmt"
	"time"
)

// DataStats holds aggregate statistics about a user's log.
type DataStats struct {
	TotalSets    int64           `json:"total_sets"`
	WarmupSets   int64           `json:"warmup_sets"`
	Sessions     int64           `json:"sessions"`
	Exercises    int64           `json:"exercises"`
	EarliestData *time.Time      `json:"earliest_data"`
	LatestData   *time.Time      `json:"latest_data"`
	BySource     []SourceStat    `json:"by_source"`
	TopExercises []ExerciseCount `json:"top_exercises"`
}

// SourceStat counts sets per origin (manual, alpha, cli).
type SourceStat struct {
	Source string `json:"source"`
	Sets   int64  `json:"sets"`
}

// GetDataStats returns aggregate statistics for a user's stored sets.
func (db *DB) GetDataStats(ctx context.Context, userID int) (*DataStats, error) {
	stats := &DataStats{}

	err := db.Pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COUNT(*) FILTER (WHERE is_warmup),
		        COUNT(DISTINCT performed_at::date),
		        COUNT(DISTINCT lower(exercise)),
		        MIN(performed_at),
		        MAX(performed_at)
		 FROM sets WHERE user_id = $1`, userID,
	).Scan(&stats.TotalSets, &stats.WarmupSets, &stats.Sessions, &stats.Exercises,
		&stats.EarliestData, &stats.LatestData)
	if err != nil {
		return nil, fmt.Errorf("counting sets: %w", err)
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT source, COUNT(*)
		 FROM sets
		 WHERE user_id = $1
		 GROUP BY source
		 ORDER BY COUNT(*) DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying sets by source: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var s SourceStat
		if err := rows.Scan(&s.Source, &s.Sets); err != nil {
			return nil, fmt.Errorf("scanning source stat: %w", err)
		}
		stats.BySource = append(stats.BySource, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	exercises, err := db.ListExercises(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(exercises) > 5 {
		exercises = exercises[:5]
	}
	stats.TopExercises = exercises

	return stats, nil
}
