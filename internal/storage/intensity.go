package storage

import (
	"context"
	"fmt"
	"slices"
	"time"
)

// RIRBand holds the count and share of working sets in one RIR range.
type RIRBand struct {
	Band     string  `json:"band"`
	RIRRange string  `json:"rir_range"`
	Sets     int     `json:"sets"`
	Pct      float64 `json:"pct"`
}

// ExerciseIntensity holds aggregated working-set stats for one exercise.
type ExerciseIntensity struct {
	Name      string   `json:"name"`
	TotalSets int      `json:"total_sets"`
	TotalReps int      `json:"total_reps"`
	Tonnage   float64  `json:"tonnage"`
	MaxWeight float64  `json:"max_weight"`
	AvgRIR    *float64 `json:"avg_rir,omitempty"`
}

// IntensityResult is the RIR analysis of a date range.
type IntensityResult struct {
	RIRDistribution []RIRBand           `json:"rir_distribution"`
	FailureRatePct  float64             `json:"failure_rate_pct"`
	TotalSets       int                 `json:"total_sets"`
	TrackedSets     int                 `json:"tracked_sets"`
	Exercises       []ExerciseIntensity `json:"exercises"`
}

// GetIntensity returns the RIR distribution, failure rate and per-exercise
// stats for working sets. Sets logged without RIR count as untracked.
func (db *DB) GetIntensity(ctx context.Context, start, end time.Time, userID int) (*IntensityResult, error) {
	rirRows, err := db.Pool.Query(ctx,
		`SELECT band, rir_range, sets FROM (
			SELECT
				CASE
					WHEN rir IS NULL THEN 'untracked'
					WHEN rir <= 0 THEN 'failure'
					WHEN rir <= 1 THEN 'near_failure'
					WHEN rir <= 2 THEN 'moderate'
					WHEN rir <= 3 THEN 'easy'
					ELSE 'very_easy'
				END AS band,
				CASE
					WHEN rir IS NULL THEN 'untracked'
					WHEN rir <= 0 THEN '0'
					WHEN rir <= 1 THEN '0.5-1'
					WHEN rir <= 2 THEN '1.5-2'
					WHEN rir <= 3 THEN '2.5-3'
					ELSE '>3'
				END AS rir_range,
				COUNT(*)::int AS sets
			FROM sets
			WHERE performed_at >= $1 AND performed_at < $2
				AND user_id = $3
				AND NOT is_warmup
			GROUP BY band, rir_range
		) sub`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying RIR distribution: %w", err)
	}
	defer rirRows.Close()

	var bands []RIRBand
	for rirRows.Next() {
		var b RIRBand
		if err := rirRows.Scan(&b.Band, &b.RIRRange, &b.Sets); err != nil {
			return nil, fmt.Errorf("scanning RIR band: %w", err)
		}
		bands = append(bands, b)
	}
	if err := rirRows.Err(); err != nil {
		return nil, err
	}
	result := summarizeBands(bands)

	exRows, err := db.Pool.Query(ctx,
		`SELECT exercise,
		        COUNT(*)::int,
		        COALESCE(SUM(reps), 0)::int,
		        COALESCE(SUM(weight * reps), 0),
		        COALESCE(MAX(weight), 0),
		        AVG(rir)
		 FROM sets
		 WHERE performed_at >= $1 AND performed_at < $2
		   AND user_id = $3
		   AND NOT is_warmup
		 GROUP BY exercise
		 ORDER BY SUM(weight * reps) DESC`,
		start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying exercise intensity: %w", err)
	}
	defer exRows.Close()

	for exRows.Next() {
		var e ExerciseIntensity
		if err := exRows.Scan(&e.Name, &e.TotalSets, &e.TotalReps, &e.Tonnage, &e.MaxWeight, &e.AvgRIR); err != nil {
			return nil, fmt.Errorf("scanning exercise intensity: %w", err)
		}
		result.Exercises = append(result.Exercises, e)
	}
	if err := exRows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

var bandOrder = map[string]int{
	"failure":      1,
	"near_failure": 2,
	"moderate":     3,
	"easy":         4,
	"very_easy":    5,
	"untracked":    6,
}

// summarizeBands orders the bands from hardest to untracked and fills in
// percentages, totals and the failure rate.
func summarizeBands(bands []RIRBand) *IntensityResult {
	result := &IntensityResult{RIRDistribution: make([]RIRBand, 0, len(bands))}
	var failureSets int
	for _, b := range bands {
		result.TotalSets += b.Sets
		if b.Band != "untracked" {
			result.TrackedSets += b.Sets
		}
		if b.Band == "failure" || b.Band == "near_failure" {
			failureSets += b.Sets
		}
		result.RIRDistribution = append(result.RIRDistribution, b)
	}

	slices.SortStableFunc(result.RIRDistribution, func(a, b RIRBand) int {
		return bandOrder[a.Band] - bandOrder[b.Band]
	})

	for i := range result.RIRDistribution {
		if result.TotalSets > 0 {
			result.RIRDistribution[i].Pct = float64(result.RIRDistribution[i].Sets) / float64(result.TotalSets) * 100
		}
	}
	if result.TrackedSets > 0 {
		result.FailureRatePct = float64(failureSets) / float64(result.TrackedSets) * 100
	}
	return result
}
