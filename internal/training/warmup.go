package training

import (
	"fmt"
	"sort"
	"strings"
)

// WarmupSet is one suggested warm-up set.
type WarmupSet struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
	Note   string  `json:"note,omitempty"`
}

// WarmupPreset names a warm-up ladder strategy.
type WarmupPreset string

const (
	// PresetStandard is the six-step ladder: empty bar, then 40/60/75/85/92%
	// of the working weight rounded to the caller's increment.
	PresetStandard WarmupPreset = "standard"
	// PresetQuick is the four-step ladder: empty bar, then 50/75/90% of the
	// working weight rounded to 2.5.
	PresetQuick WarmupPreset = "quick"
)

const barNote = "Bar"

// quickIncrement is the fixed rounding step of the quick ladder.
const quickIncrement = 2.5

type ladderStep struct {
	pct  float64
	reps int
}

var standardSteps = []ladderStep{
	{0.40, 8},
	{0.60, 5},
	{0.75, 3},
	{0.85, 2},
	{0.92, 1},
}

var quickSteps = []ladderStep{
	{0.50, 10},
	{0.75, 5},
	{0.90, 2},
}

// WarmupPresets returns the supported presets in a stable order.
func WarmupPresets() []WarmupPreset {
	return []WarmupPreset{PresetStandard, PresetQuick}
}

// ParseWarmupPreset maps a case-insensitive name to a WarmupPreset.
func ParseWarmupPreset(s string) (WarmupPreset, error) {
	p := WarmupPreset(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PresetStandard, PresetQuick:
		return p, nil
	}
	return "", fmt.Errorf("unknown warm-up preset %q", s)
}

// Warmup builds the ladder for the given preset. The quick preset ignores
// increment and always rounds to 2.5. An unknown preset yields no sets.
func Warmup(p WarmupPreset, working, bar, increment float64) []WarmupSet {
	switch p {
	case PresetStandard:
		return PlanWarmup(working, bar, increment)
	case PresetQuick:
		return QuickWarmup(working, bar)
	}
	return []WarmupSet{}
}

// PlanWarmup builds the standard ladder leading up to working. The bar set is
// used as-is; percentage sets are rounded to increment. Only sets strictly
// lighter than working and heavier than zero are kept, duplicates keep the
// earliest (lightest-intensity) step, and the result is ascending by weight.
func PlanWarmup(working, bar, increment float64) []WarmupSet {
	working = finiteOrZero(working)
	bar = finiteOrZero(bar)
	if working <= 0 {
		return []WarmupSet{}
	}
	bar = min(max(bar, 0), working)

	candidates := make([]WarmupSet, 0, len(standardSteps)+1)
	candidates = append(candidates, barSet(bar, 10))
	for _, st := range standardSteps {
		candidates = append(candidates, WarmupSet{
			Weight: RoundToIncrement(working*st.pct, increment),
			Reps:   st.reps,
		})
	}
	return finishLadder(candidates, working)
}

// QuickWarmup builds the four-step ladder: the bar for 15, then 50% for 10,
// 75% for 5 and 90% for 2, every weight rounded to 2.5. Filtering, dedupe and
// ordering follow PlanWarmup.
func QuickWarmup(working, bar float64) []WarmupSet {
	working = finiteOrZero(working)
	bar = finiteOrZero(bar)
	if working <= 0 {
		return []WarmupSet{}
	}
	bar = min(max(bar, 0), working)

	candidates := make([]WarmupSet, 0, len(quickSteps)+1)
	candidates = append(candidates, barSet(RoundToIncrement(bar, quickIncrement), 15))
	for _, st := range quickSteps {
		candidates = append(candidates, WarmupSet{
			Weight: RoundToIncrement(working*st.pct, quickIncrement),
			Reps:   st.reps,
		})
	}
	return finishLadder(candidates, working)
}

func barSet(weight float64, reps int) WarmupSet {
	s := WarmupSet{Weight: weight, Reps: reps}
	if weight > 0 {
		s.Note = barNote
	}
	return s
}

// finishLadder clamps, filters to (0, working), dedupes first-wins and sorts
// ascending. candidates must be in ladder order.
func finishLadder(candidates []WarmupSet, working float64) []WarmupSet {
	seen := make(map[float64]bool, len(candidates))
	out := make([]WarmupSet, 0, len(candidates))
	for _, c := range candidates {
		c.Weight = max(c.Weight, 0)
		if c.Weight <= 0 || c.Weight >= working {
			continue
		}
		if seen[c.Weight] {
			continue
		}
		seen[c.Weight] = true
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Weight < out[j].Weight
	})
	return out
}
