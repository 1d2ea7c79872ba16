package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// GetCheckpoint loads the checkpoint for runKey, or ErrNotFound.
func (db *DB) GetCheckpoint(ctx context.Context, runKey string) (*Checkpoint, error) {
	var cp Checkpoint
	err := db.pool.QueryRow(ctx,
		`SELECT run_key, last_index, document, fingerprint, session_id, updated_at
		 FROM study_checkpoints WHERE run_key = $1`,
		runKey,
	).Scan(&cp.RunKey, &cp.LastIndex, &cp.Document, &cp.Fingerprint, &cp.SessionID, &cp.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get checkpoint %s: %w", runKey, err)
	}
	return &cp, nil
}

// SaveCheckpoint upserts the checkpoint for cp.RunKey in a single statement,
// so the index and document always change together.
func (db *DB) SaveCheckpoint(ctx context.Context, cp *Checkpoint) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO study_checkpoints (run_key, last_index, document, fingerprint, session_id, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (run_key) DO UPDATE
		 SET last_index = $2, document = $3, fingerprint = $4, session_id = $5, updated_at = $6`,
		cp.RunKey, cp.LastIndex, cp.Document, cp.Fingerprint, cp.SessionID, cp.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint %s: %w", cp.RunKey, err)
	}
	return nil
}

// DeleteCheckpoint removes the checkpoint for runKey. Deleting a missing
// checkpoint is not an error.
func (db *DB) DeleteCheckpoint(ctx context.Context, runKey string) error {
	_, err := db.pool.Exec(ctx, `DELETE FROM study_checkpoints WHERE run_key = $1`, runKey)
	if err != nil {
		return fmt.Errorf("failed to delete checkpoint %s: %w", runKey, err)
	}
	return nil
}
