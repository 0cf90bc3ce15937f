package models

import (
	"time"

	"github.com/google/uuid"
)

// Set sources.
const (
	SourceManual = "manual"
	SourceAlpha  = "alpha"
	SourceCLI    = "cli"
)

// SetRow is one logged set, a row of the sets table.
type SetRow struct {
	ID          uuid.UUID `json:"id"`
	UserID      int       `json:"user_id"`
	Exercise    string    `json:"exercise"`
	Equipment   string    `json:"equipment,omitempty"`
	PerformedAt time.Time `json:"performed_at"`
	Weight      float64   `json:"weight"`
	Reps        int       `json:"reps"`
	RIR         *float64  `json:"rir,omitempty"`
	IsWarmup    bool      `json:"is_warmup"`
	RestSeconds *int      `json:"rest_seconds,omitempty"`
	Session     string    `json:"session,omitempty"`
	Note        string    `json:"note,omitempty"`
	Source      string    `json:"source"`
}

// Tonnage is weight times reps.
func (s SetRow) Tonnage() float64 {
	return s.Weight * float64(s.Reps)
}
