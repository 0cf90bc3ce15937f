// Package localstore keeps sets logged by the CLI in a SQLite file until
// they are pushed to a LiftLog server.
package localstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/liftlog/internal/models"
	_ "modernc.org/sqlite"
)

// timeLayout is fixed-width so stored times sort as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// Store is the CLI's offline set log.
type Store struct {
	db *sql.DB
}

// LocalSet is a logged set plus when it reached the server, if it has.
type LocalSet struct {
	models.SetRow
	PushedAt *time.Time `json:"pushed_at,omitempty"`
}

// Open opens (or creates) the SQLite database at dir/liftlog.db.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating state dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "liftlog.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening local db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS sets (
		id           TEXT PRIMARY KEY,
		exercise     TEXT NOT NULL,
		equipment    TEXT NOT NULL DEFAULT '',
		performed_at TEXT NOT NULL,
		weight       REAL NOT NULL,
		reps         INTEGER NOT NULL,
		rir          REAL,
		is_warmup    INTEGER NOT NULL DEFAULT 0,
		rest_seconds INTEGER,
		session      TEXT NOT NULL DEFAULT '',
		note         TEXT NOT NULL DEFAULT '',
		pushed_at    TEXT
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating sets table: %w", err)
	}

	return &Store{db: db}, nil
}

// AddSet stores a set. A missing ID or time is filled in; the source is
// always cli.
func (s *Store) AddSet(ctx context.Context, row models.SetRow) (models.SetRow, error) {
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if row.PerformedAt.IsZero() {
		row.PerformedAt = time.Now()
	}
	row.Source = models.SourceCLI

	_, err := s.db.ExecContext(ctx, `INSERT INTO sets
		(id, exercise, equipment, performed_at, weight, reps, rir, is_warmup, rest_seconds, session, note)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ID.String(), row.Exercise, row.Equipment, row.PerformedAt.UTC().Format(timeLayout),
		row.Weight, row.Reps, row.RIR, row.IsWarmup, row.RestSeconds, row.Session, row.Note,
	)
	if err != nil {
		return row, fmt.Errorf("adding set: %w", err)
	}
	return row, nil
}

const selectSets = `SELECT id, exercise, equipment, performed_at, weight, reps, rir,
	is_warmup, rest_seconds, session, note, pushed_at FROM sets`

// ListSets returns the most recent sets, newest first. An empty exercise
// matches all; otherwise the match is case-insensitive.
func (s *Store) ListSets(ctx context.Context, exercise string, limit int) ([]LocalSet, error) {
	query := selectSets
	var args []any
	if exercise != "" {
		query += ` WHERE lower(exercise) = ?`
		args = append(args, strings.ToLower(strings.TrimSpace(exercise)))
	}
	query += ` ORDER BY performed_at DESC LIMIT ?`
	args = append(args, limit)

	return s.query(ctx, query, args...)
}

// Pending returns up to limit sets not yet pushed, oldest first.
func (s *Store) Pending(ctx context.Context, limit int) ([]models.SetRow, error) {
	sets, err := s.query(ctx, selectSets+` WHERE pushed_at IS NULL ORDER BY performed_at, id LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	rows := make([]models.SetRow, len(sets))
	for i, ls := range sets {
		rows[i] = ls.SetRow
	}
	return rows, nil
}

// MarkPushed records that the given sets reached the server.
func (s *Store) MarkPushed(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(timeLayout)
	stmt, err := tx.PrepareContext(ctx, `UPDATE sets SET pushed_at = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("prepare mark pushed: %w", err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, now, id.String()); err != nil {
			return fmt.Errorf("marking %s pushed: %w", id, err)
		}
	}
	return tx.Commit()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) query(ctx context.Context, query string, args ...any) ([]LocalSet, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sets: %w", err)
	}
	defer rows.Close()

	var out []LocalSet
	for rows.Next() {
		var (
			ls          LocalSet
			id          string
			performedAt string
			rir         sql.NullFloat64
			rest        sql.NullInt64
			pushedAt    sql.NullString
		)
		if err := rows.Scan(&id, &ls.Exercise, &ls.Equipment, &performedAt, &ls.Weight, &ls.Reps,
			&rir, &ls.IsWarmup, &rest, &ls.Session, &ls.Note, &pushedAt); err != nil {
			return nil, fmt.Errorf("scanning set: %w", err)
		}
		if ls.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("set id %q: %w", id, err)
		}
		if ls.PerformedAt, err = time.Parse(timeLayout, performedAt); err != nil {
			return nil, fmt.Errorf("set %s time: %w", id, err)
		}
		if rir.Valid {
			ls.RIR = &rir.Float64
		}
		if rest.Valid {
			v := int(rest.Int64)
			ls.RestSeconds = &v
		}
		if pushedAt.Valid {
			if t, err := time.Parse(timeLayout, pushedAt.String); err == nil {
				ls.PushedAt = &t
			}
		}
		ls.Source = models.SourceCLI
		out = append(out, ls)
	}
	return out, rows.Err()
}
