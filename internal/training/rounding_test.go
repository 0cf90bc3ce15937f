package training

import (
	"math"
	"testing"
)

// TestRoundToIncrement covers plate rounding, tie handling and the fallback
// to whole numbers when the increment is unusable.
func TestRoundToIncrement(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		increment float64
		want      float64
	}{
		{"rounds up to nearest plate", 102.4, 2.5, 102.5},
		{"rounds down to nearest plate", 101.2, 2.5, 100},
		{"tie goes to higher multiple", 3.75, 2.5, 5},
		{"exact multiple unchanged", 60, 2.5, 60},
		{"small value to first plate", 1.25, 2.5, 2.5},
		{"whole kilo increment", 67.6, 1, 68},
		{"half kilo increment", 67.6, 0.5, 67.5},
		{"zero increment rounds to integer", 101.2, 0, 101},
		{"negative increment rounds to integer", 101.5, -1, 102},
		{"NaN increment rounds to integer", 101.4, math.NaN(), 101},
		{"infinite increment rounds to integer", 99.5, math.Inf(1), 100},
		{"NaN value", math.NaN(), 2.5, 0},
		{"infinite value", math.Inf(1), 2.5, 0},
		{"negative infinite value", math.Inf(-1), 2.5, 0},
		{"negative tie rounds towards +Inf", -2.5, 0, -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundToIncrement(tt.value, tt.increment); got != tt.want {
				t.Errorf("RoundToIncrement(%v, %v) = %v, want %v", tt.value, tt.increment, got, tt.want)
			}
		})
	}
}

// TestRoundToIncrementIdempotent verifies that rounding an already rounded
// value never moves it.
func TestRoundToIncrementIdempotent(t *testing.T) {
	increments := []float64{0.5, 1, 1.25, 2.5, 5, 0, -1}
	for _, inc := range increments {
		for v := -20.0; v <= 250; v += 0.37 {
			once := RoundToIncrement(v, inc)
			twice := RoundToIncrement(once, inc)
			if once != twice {
				t.Fatalf("RoundToIncrement not idempotent for v=%v inc=%v: %v then %v", v, inc, once, twice)
			}
		}
	}
}

// TestRoundHalfUpFloatEdges verifies values whose v+0.5 is inexact still round
// to the nearest integer.
func TestRoundHalfUpFloatEdges(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.49999999999999994, 0},
		{4503599627370497, 4503599627370497},
		{-0.5, 0},
		{-1.5, -1},
		{2.5, 3},
	}
	for _, tt := range tests {
		if got := RoundToIncrement(tt.in, 0); got != tt.want {
			t.Errorf("RoundToIncrement(%v, 0) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
