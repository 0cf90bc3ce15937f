package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/meltforce/liftlog/internal/ingest"
)

// Import log statuses.
const (
	ImportRunning = "running"
	ImportSuccess = "success"
	ImportError   = "error"
)

// ImportLog represents a single import operation's outcome.
type ImportLog struct {
	ID               int64            `json:"id"`
	UserID           int              `json:"user_id"`
	CreatedAt        time.Time        `json:"created_at"`
	Source           string           `json:"source"`
	Status           string           `json:"status"`
	SessionsReceived int              `json:"sessions_received"`
	SetsReceived     int              `json:"sets_received"`
	SetsInserted     int64            `json:"sets_inserted"`
	SetsReplaced     int64            `json:"sets_replaced"`
	DurationMs       *int             `json:"duration_ms"`
	ErrorMessage     *string          `json:"error_message"`
	Metadata         *json.RawMessage `json:"metadata"`
}

// NewImportLog builds the log entry for one finished import. res may be nil
// when the import failed before counting anything; metadata may be nil.
func NewImportLog(userID int, source string, res *ingest.Result, importErr error, took time.Duration, metadata map[string]string) ImportLog {
	entry := ImportLog{UserID: userID, Source: source, Status: ImportSuccess}
	if res != nil {
		entry.SessionsReceived = res.SessionsReceived
		entry.SetsReceived = res.SetsReceived
		entry.SetsInserted = res.SetsInserted
		entry.SetsReplaced = res.SetsReplaced
	}
	if importErr != nil {
		entry.Status = ImportError
		msg := importErr.Error()
		entry.ErrorMessage = &msg
	}
	ms := int(took.Milliseconds())
	entry.DurationMs = &ms
	if len(metadata) > 0 {
		if data, err := json.Marshal(metadata); err == nil {
			raw := json.RawMessage(data)
			entry.Metadata = &raw
		}
	}
	return entry
}

// InsertImportLog creates a new import log entry and returns its ID.
func (db *DB) InsertImportLog(ctx context.Context, log ImportLog) (int64, error) {
	var id int64
	err := db.Pool.QueryRow(ctx,
		`INSERT INTO import_logs (user_id, source, status, sessions_received, sets_received,
		 sets_inserted, sets_replaced, duration_ms, error_message, metadata)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		 RETURNING id`,
		log.UserID, log.Source, log.Status, log.SessionsReceived, log.SetsReceived,
		log.SetsInserted, log.SetsReplaced, log.DurationMs, log.ErrorMessage, log.Metadata,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting import log: %w", err)
	}
	return id, nil
}

// UpdateImportLog updates an existing entry, typically from "running" to "success" or "error".
func (db *DB) UpdateImportLog(ctx context.Context, id int64, log ImportLog) error {
	_, err := db.Pool.Exec(ctx,
		`UPDATE import_logs SET
		 status = $2, sessions_received = $3, sets_received = $4, sets_inserted = $5,
		 sets_replaced = $6, duration_ms = $7, error_message = $8, metadata = $9
		 WHERE id = $1`,
		id, log.Status, log.SessionsReceived, log.SetsReceived, log.SetsInserted,
		log.SetsReplaced, log.DurationMs, log.ErrorMessage, log.Metadata,
	)
	if err != nil {
		return fmt.Errorf("updating import log %d: %w", id, err)
	}
	return nil
}

// QueryImportLogs returns the most recent import logs for a user.
func (db *DB) QueryImportLogs(ctx context.Context, userID, limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, created_at, source, status, sessions_received, sets_received,
		 sets_inserted, sets_replaced, duration_ms, error_message, metadata
		 FROM import_logs
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit)
	if err != nil {
		return nil, fmt.Errorf("querying import logs: %w", err)
	}
	defer rows.Close()

	var result []ImportLog
	for rows.Next() {
		var l ImportLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.CreatedAt, &l.Source, &l.Status,
			&l.SessionsReceived, &l.SetsReceived, &l.SetsInserted, &l.SetsReplaced,
			&l.DurationMs, &l.ErrorMessage, &l.Metadata); err != nil {
			return nil, fmt.Errorf("scanning import log: %w", err)
		}
		result = append(result, l)
	}
	return result, rows.Err()
}
