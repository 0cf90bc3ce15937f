package training

// PercentageEntry is one row of a percentage table.
type PercentageEntry struct {
	Pct    float64 `json:"pct"`
	Weight float64 `json:"weight"`
}

// DefaultPercentages is the table shown when the caller asks for none in particular.
var DefaultPercentages = []float64{1.00, 0.95, 0.90, 0.85, 0.80, 0.75, 0.70, 0.65, 0.60, 0.55, 0.50}

// PercentageTable computes the target weight for each percentage of oneRM,
// rounded to increment. Rows keep the caller's order; rows whose weight
// rounds to zero or below are dropped.
func PercentageTable(oneRM float64, percentages []float64, increment float64) []PercentageEntry {
	oneRM = finiteOrZero(oneRM)

	entries := make([]PercentageEntry, 0, len(percentages))
	for _, pct := range percentages {
		w := RoundToIncrement(oneRM*pct, increment)
		if w <= 0 {
			continue
		}
		entries = append(entries, PercentageEntry{Pct: pct, Weight: w})
	}
	return entries
}
