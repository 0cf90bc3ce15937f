package training

import (
	"fmt"
	"math"
	"strings"
)

// Formula selects the one-rep-max estimation formula.
type Formula string

const (
	Epley    Formula = "epley"
	Brzycki  Formula = "brzycki"
	Lombardi Formula = "lombardi"
)

// Formulas returns every supported formula in a stable order.
func Formulas() []Formula {
	return []Formula{Epley, Brzycki, Lombardi}
}

// ParseFormula maps a case-insensitive name to a Formula.
func ParseFormula(s string) (Formula, error) {
	f := Formula(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case Epley, Brzycki, Lombardi:
		return f, nil
	}
	return "", fmt.Errorf("unknown one-rep-max formula %q", s)
}

// EstimateOneRepMax estimates the heaviest single repetition from a set of
// reps performed at weight. Unusable input (non-finite, zero or negative
// weight or reps) yields 0, as does an unknown formula.
func EstimateOneRepMax(f Formula, weight, reps float64) int {
	weight = finiteOrZero(weight)
	reps = finiteOrZero(reps)
	if weight <= 0 || reps <= 0 {
		return 0
	}

	var est float64
	switch f {
	case Epley:
		est = weight * (1 + reps/30)
	case Brzycki:
		denom := 37 - reps
		if denom <= 0 {
			return 0
		}
		est = weight * 36 / denom
	case Lombardi:
		est = weight * math.Pow(reps, 0.10)
	default:
		return 0
	}
	return int(roundHalfUp(est))
}
