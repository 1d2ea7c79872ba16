// Package db provides PostgreSQL storage for run records and document
// assembly checkpoints.
package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the tables used by this package.
const Schema = `
CREATE TABLE IF NOT EXISTS study_runs (
	id           UUID PRIMARY KEY,
	child        TEXT NOT NULL,
	schedule_key TEXT NOT NULL,
	status       TEXT NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	completed_at TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS study_checkpoints (
	run_key     TEXT PRIMARY KEY,
	last_index  INTEGER NOT NULL,
	document    TEXT NOT NULL,
	fingerprint TEXT NOT NULL DEFAULT '',
	session_id  UUID NOT NULL,
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

ALTER TABLE study_checkpoints ADD COLUMN IF NOT EXISTS fingerprint TEXT NOT NULL DEFAULT '';
`

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates missing tables.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// CreateRun records a new running pipeline invocation.
func (db *DB) CreateRun(ctx context.Context, id uuid.UUID, child, scheduleKey string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO study_runs (id, child, schedule_key, status)
		 VALUES ($1, $2, $3, $4)`,
		id, child, scheduleKey, RunStatusRunning,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun stores the final status of a run.
func (db *DB) CompleteRun(ctx context.Context, id uuid.UUID, status string) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE study_runs SET status = $1, completed_at = NOW() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	return nil
}

// GetRun loads a run by id.
func (db *DB) GetRun(ctx context.Context, id uuid.UUID) (*Run, error) {
	var r Run
	err := db.pool.QueryRow(ctx,
		`SELECT id, child, schedule_key, status, created_at, completed_at
		 FROM study_runs WHERE id = $1`,
		id,
	).Scan(&r.ID, &r.Child, &r.ScheduleKey, &r.Status, &r.CreatedAt, &r.CompletedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &r, nil
}
