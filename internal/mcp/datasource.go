package mcp

import (
	"context"
	"time"

	"github.com/meltforce/liftlog/internal/models"
	"github.com/meltforce/liftlog/internal/storage"
)

// DataSource abstracts the data layer for MCP tools. Both *storage.DB (local)
// and HTTPClient (remote via REST API) satisfy this interface.
type DataSource interface {
	QuerySets(ctx context.Context, start, end time.Time, userID int, exercise string) ([]models.SetRow, error)
	ListExercises(ctx context.Context, userID int) ([]storage.ExerciseCount, error)
	GetVolumeSummary(ctx context.Context, start, end time.Time, bucket string, userID int) ([]storage.VolumePeriod, error)
	GetIntensity(ctx context.Context, start, end time.Time, userID int) (*storage.IntensityResult, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
