// Package ingest holds what import providers share.
package ingest

// Result holds the outcome of an ingest operation.
type Result struct {
	SessionsReceived int   `json:"sessions_received"`
	SetsReceived     int   `json:"sets_received"`
	SetsInserted     int64 `json:"sets_inserted"`
	SetsSkipped      int64 `json:"sets_skipped"`
	SetsReplaced     int64 `json:"sets_replaced"`

	// TrainingSeconds sums the session durations that could be read.
	TrainingSeconds int `json:"training_seconds"`

	Message string `json:"message,omitempty"`
}
