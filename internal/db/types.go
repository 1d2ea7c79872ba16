package db

import (
	"time"

	"github.com/google/uuid"
)

// Run is one pipeline invocation.
type Run struct {
	ID          uuid.UUID  `json:"id"`
	Child       string     `json:"child"`
	ScheduleKey string     `json:"schedule_key"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusDone      = "done"
	RunStatusSuspended = "suspended"
	RunStatusFailed    = "failed"
)

// Checkpoint is a stored document-assembly checkpoint.
type Checkpoint struct {
	RunKey      string    `json:"run_key"`
	LastIndex   int       `json:"last_index"`
	Document    string    `json:"document"`
	Fingerprint string    `json:"fingerprint"`
	SessionID   uuid.UUID `json:"session_id"`
	UpdatedAt   time.Time `json:"updated_at"`
}
