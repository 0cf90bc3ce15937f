// Package training holds the training-load calculations: rounding to plate
// increments, one-rep-max estimates, percentage tables and warm-up ladders.
// Every function is pure and safe for concurrent use.
package training

import "math"

// RoundToIncrement quantizes value to the nearest multiple of increment.
// Ties go to the higher multiple. A non-finite value yields 0; a non-finite or
// non-positive increment falls back to rounding to the nearest integer.
func RoundToIncrement(value, increment float64) float64 {
	if !isFinite(value) {
		return 0
	}
	if !isFinite(increment) || increment <= 0 {
		return roundHalfUp(value)
	}
	return roundHalfUp(value/increment) * increment
}

// roundHalfUp rounds to the nearest integer with .5 going towards +Inf.
// v - Floor(v) is exact, so values just below .5 and large odd integers are
// not pushed up by the rounding of v + 0.5.
func roundHalfUp(v float64) float64 {
	r := math.Floor(v)
	if v-r >= 0.5 {
		r++
	}
	return r
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// finiteOrZero returns v, or 0 when v is NaN or infinite.
func finiteOrZero(v float64) float64 {
	if !isFinite(v) {
		return 0
	}
	return v
}
