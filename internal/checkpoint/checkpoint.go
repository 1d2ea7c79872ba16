// Package checkpoint persists document-assembly progress so an interrupted
// run resumes after the last completed row.
package checkpoint

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// NoRow is the LastIndex of a run that has not completed any row.
const NoRow = -1

var (
	// ErrNoCheckpoint is returned when no checkpoint exists.
	ErrNoCheckpoint = errors.New("no checkpoint found")
)

// State is the durable progress of one schedule's document. LastIndex and
// Document are always written together.
type State struct {
	Key       string `json:"key"`
	LastIndex int    `json:"last_idx"`
	Document  string `json:"document"`
	// Fingerprint identifies the row set the document was built from.
	Fingerprint string    `json:"fingerprint,omitempty"`
	SessionID   uuid.UUID `json:"session_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Store loads, saves and clears checkpoints keyed by schedule.
type Store interface {
	// Load returns the checkpoint for key, or ErrNoCheckpoint.
	Load(ctx context.Context, key string) (*State, error)

	// Save replaces the checkpoint for st.Key atomically.
	Save(ctx context.Context, st *State) error

	// Clear removes the checkpoint for key. Clearing a missing checkpoint
	// succeeds.
	Clear(ctx context.Context, key string) error
}
