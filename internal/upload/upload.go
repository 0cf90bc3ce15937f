package upload

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
)

// Stats tracks push progress.
type Stats struct {
	Batches  int
	Pushed   int
	Inserted int64
}

// Queue is the local set log the Pusher drains. *localstore.Store satisfies it.
type Queue interface {
	Pending(ctx context.Context, limit int) ([]models.SetRow, error)
	MarkPushed(ctx context.Context, ids []uuid.UUID) error
}

// Pusher sends pending local sets to the server in batches.
type Pusher struct {
	client    *Client
	queue     Queue
	dryRun    bool
	batchSize int
	log       *slog.Logger
}

// New creates a new Pusher. A non-positive batchSize means 100.
func New(client *Client, queue Queue, dryRun bool, batchSize int, log *slog.Logger) *Pusher {
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Pusher{
		client:    client,
		queue:     queue,
		dryRun:    dryRun,
		batchSize: batchSize,
		log:       log,
	}
}

// Run pushes until nothing is pending. In dry-run mode it reports the first
// batch and stops without sending.
func (p *Pusher) Run(ctx context.Context) (*Stats, error) {
	var stats Stats
	for {
		if err := ctx.Err(); err != nil {
			return &stats, err
		}

		batch, err := p.queue.Pending(ctx, p.batchSize)
		if err != nil {
			return &stats, fmt.Errorf("reading pending sets: %w", err)
		}
		if len(batch) == 0 {
			return &stats, nil
		}

		if p.dryRun {
			p.log.Info("dry run: would push", "sets", len(batch))
			stats.Batches++
			stats.Pushed += len(batch)
			return &stats, nil
		}

		inserted, err := p.client.PushSets(ctx, batch)
		if err != nil {
			return &stats, fmt.Errorf("batch %d: %w", stats.Batches+1, err)
		}

		ids := make([]uuid.UUID, len(batch))
		for i, s := range batch {
			ids[i] = s.ID
		}
		if err := p.queue.MarkPushed(ctx, ids); err != nil {
			return &stats, fmt.Errorf("marking batch pushed: %w", err)
		}

		stats.Batches++
		stats.Pushed += len(batch)
		stats.Inserted += inserted
		p.log.Info("pushed batch", "sets", len(batch), "inserted", inserted)
	}
}
