// Package progress aggregates logged sets into per-exercise estimates and
// day-by-day history. Warm-up sets never count.
package progress

import (
	"slices"
	"strings"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/training"
)

// BestEstimate is the strongest estimated one-rep max seen for an exercise.
type BestEstimate struct {
	Exercise       string    `json:"exercise"`
	EstimatedOneRM int       `json:"estimated_one_rm"`
	Weight         float64   `json:"weight"`
	Reps           int       `json:"reps"`
	PerformedAt    time.Time `json:"performed_at"`
}

// Day is one training day for one exercise.
type Day struct {
	Date           string  `json:"date"`
	EstimatedOneRM int     `json:"estimated_one_rm"`
	TopWeight      float64 `json:"top_weight"`
	Tonnage        float64 `json:"tonnage"`
	Sets           int     `json:"sets"`
}

// ExerciseHistory is the per-day progression of one exercise, oldest first.
type ExerciseHistory struct {
	Exercise string `json:"exercise"`
	Days     []Day  `json:"days"`
}

// key groups exercise names case-insensitively.
func key(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// BestEstimates returns one entry per exercise, sorted by exercise name.
// On equal estimates the earlier set wins. Exercises with no usable working
// set are left out.
func BestEstimates(sets []models.SetRow, f training.Formula) []BestEstimate {
	best := make(map[string]*BestEstimate)
	for _, s := range sets {
		if s.IsWarmup {
			continue
		}
		e1rm := training.EstimateOneRepMax(f, s.Weight, float64(s.Reps))
		if e1rm <= 0 {
			continue
		}
		k := key(s.Exercise)
		cur, ok := best[k]
		if !ok || e1rm > cur.EstimatedOneRM ||
			(e1rm == cur.EstimatedOneRM && s.PerformedAt.Before(cur.PerformedAt)) {
			best[k] = &BestEstimate{
				Exercise:       s.Exercise,
				EstimatedOneRM: e1rm,
				Weight:         s.Weight,
				Reps:           s.Reps,
				PerformedAt:    s.PerformedAt,
			}
		}
	}

	result := make([]BestEstimate, 0, len(best))
	for _, b := range best {
		result = append(result, *b)
	}
	slices.SortFunc(result, func(a, b BestEstimate) int {
		return strings.Compare(key(a.Exercise), key(b.Exercise))
	})
	return result
}

// BestFor returns the best estimate for one exercise, matched case-insensitively.
func BestFor(sets []models.SetRow, exercise string, f training.Formula) (BestEstimate, bool) {
	k := key(exercise)
	for _, b := range BestEstimates(sets, f) {
		if key(b.Exercise) == k {
			return b, true
		}
	}
	return BestEstimate{}, false
}

// History groups working sets by exercise and UTC calendar day. Exercises are
// sorted by name and days ascending.
func History(sets []models.SetRow, f training.Formula) []ExerciseHistory {
	type bucket struct {
		name string
		days map[string]*Day
	}
	byExercise := make(map[string]*bucket)

	for _, s := range sets {
		if s.IsWarmup {
			continue
		}
		k := key(s.Exercise)
		b, ok := byExercise[k]
		if !ok {
			b = &bucket{name: s.Exercise, days: make(map[string]*Day)}
			byExercise[k] = b
		}
		date := s.PerformedAt.UTC().Format(time.DateOnly)
		d, ok := b.days[date]
		if !ok {
			d = &Day{Date: date}
			b.days[date] = d
		}
		d.Sets++
		d.Tonnage += s.Tonnage()
		d.TopWeight = max(d.TopWeight, s.Weight)
		d.EstimatedOneRM = max(d.EstimatedOneRM, training.EstimateOneRepMax(f, s.Weight, float64(s.Reps)))
	}

	result := make([]ExerciseHistory, 0, len(byExercise))
	for _, b := range byExercise {
		h := ExerciseHistory{Exercise: b.name, Days: make([]Day, 0, len(b.days))}
		for _, d := range b.days {
			h.Days = append(h.Days, *d)
		}
		slices.SortFunc(h.Days, func(a, b Day) int { return strings.Compare(a.Date, b.Date) })
		result = append(result, h)
	}
	slices.SortFunc(result, func(a, b ExerciseHistory) int {
		return strings.Compare(key(a.Exercise), key(b.Exercise))
	})
	return result
}
