package storage

import (
	"context"
	"fmt"
	"time"
)

// VolumePeriod holds aggregated working-set volume for one period.
type VolumePeriod struct {
	Period            string  `json:"period"`
	WorkingSets       int     `json:"working_sets"`
	TotalReps         int     `json:"total_reps"`
	Tonnage           float64 `json:"tonnage"`
	Sessions          int     `json:"sessions"`
	AvgSetsPerSession float64 `json:"avg_sets_per_session"`
}

// GetVolumeSummary returns working-set volume per week or month, newest first.
func (db *DB) GetVolumeSummary(ctx context.Context, start, end time.Time, bucket string, userID int) ([]VolumePeriod, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date_trunc($1, performed_at)::date AS period,
		        COUNT(*) FILTER (WHERE NOT is_warmup)::int,
		        COALESCE(SUM(reps) FILTER (WHERE NOT is_warmup), 0)::int,
		        COALESCE(SUM(weight * reps) FILTER (WHERE NOT is_warmup), 0),
		        COUNT(DISTINCT performed_at::date)::int
		 FROM sets
		 WHERE performed_at >= $2 AND performed_at < $3 AND user_id = $4
		 GROUP BY period
		 ORDER BY period DESC`,
		truncInterval(bucket), start, end, userID)
	if err != nil {
		return nil, fmt.Errorf("querying volume summary: %w", err)
	}
	defer rows.Close()

	var result []VolumePeriod
	for rows.Next() {
		var periodTime time.Time
		var v VolumePeriod
		if err := rows.Scan(&periodTime, &v.WorkingSets, &v.TotalReps, &v.Tonnage, &v.Sessions); err != nil {
			return nil, fmt.Errorf("scanning volume summary: %w", err)
		}
		if v.Sessions > 0 {
			v.AvgSetsPerSession = float64(v.WorkingSets) / float64(v.Sessions)
		}
		v.Period = periodTime.Format("2006-01-02")
		result = append(result, v)
	}
	return result, rows.Err()
}

// truncInterval converts a bucket name like "week" or "1 month" to the
// interval date_trunc expects. Anything unknown falls back to week.
func truncInterval(bucket string) string {
	switch bucket {
	case "day", "1 day":
		return "day"
	case "month", "1 month":
		return "month"
	default:
		return "week"
	}
}
