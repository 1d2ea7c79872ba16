package checkpoint

import (
	"context"
	"errors"

	"github.com/jonathan/study-schedule/internal/db"
)

// checkpointTable is the subset of *db.DB used by PostgresStore.
type checkpointTable interface {
	GetCheckpoint(ctx context.Context, runKey string) (*db.Checkpoint, error)
	SaveCheckpoint(ctx context.Context, cp *db.Checkpoint) error
	DeleteCheckpoint(ctx context.Context, runKey string) error
}

// PostgresStore keeps checkpoints in the study_checkpoints table.
type PostgresStore struct {
	table checkpointTable
}

// NewPostgresStore wraps a connected database.
func NewPostgresStore(database *db.DB) *PostgresStore {
	return &PostgresStore{table: database}
}

// Load implements Store.
func (s *PostgresStore) Load(ctx context.Context, key string) (*State, error) {
	cp, err := s.table.GetCheckpoint(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrNoCheckpoint
		}
		return nil, err
	}
	return &State{
		Key:         cp.RunKey,
		LastIndex:   cp.LastIndex,
		Document:    cp.Document,
		Fingerprint: cp.Fingerprint,
		SessionID:   cp.SessionID,
		UpdatedAt:   cp.UpdatedAt,
	}, nil
}

// Save implements Store.
func (s *PostgresStore) Save(ctx context.Context, st *State) error {
	return s.table.SaveCheckpoint(ctx, &db.Checkpoint{
		RunKey:      st.Key,
		LastIndex:   st.LastIndex,
		Document:    st.Document,
		Fingerprint: st.Fingerprint,
		SessionID:   st.SessionID,
		UpdatedAt:   st.UpdatedAt,
	})
}

// Clear implements Store.
func (s *PostgresStore) Clear(ctx context.Context, key string) error {
	return s.table.DeleteCheckpoint(ctx, key)
}
