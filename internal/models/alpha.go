package models

import "time"

// AlphaSession represents a parsed Alpha Progression workout session.
type AlphaSession struct {
	Name string
	Date time.Time
	// DurationSeconds is nil when the export left the duration out or it
	// could not be read.
	DurationSeconds *int
	Exercises       []AlphaExercise
}

// AlphaExercise is a single exercise within a session.
type AlphaExercise struct {
	Number     int
	Name       string
	Equipment  string
	TargetReps int
	Sets       []AlphaSet
}

// AlphaSet is one set, working or warm-up. Bodyweight-plus sets carry the
// added load in WeightKg.
type AlphaSet struct {
	Number           int
	WeightKg         float64
	IsBodyweightPlus bool
	Reps             int
	RIR              *float64
	IsWarmup         bool
}
