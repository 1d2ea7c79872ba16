package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSchemaDefinesTables(t *testing.T) {
	assert.Contains(t, Schema, "CREATE TABLE IF NOT EXISTS study_runs")
	assert.Contains(t, Schema, "CREATE TABLE IF NOT EXISTS study_checkpoints")
	assert.Contains(t, Schema, "run_key     TEXT PRIMARY KEY")
	assert.Contains(t, Schema, "fingerprint TEXT NOT NULL DEFAULT ''")
	assert.Contains(t, Schema, "ADD COLUMN IF NOT EXISTS fingerprint")
}

func TestRunStatuses(t *testing.T) {
	for _, s := range []string{RunStatusRunning, RunStatusDone, RunStatusSuspended, RunStatusFailed} {
		assert.NotEmpty(t, s)
	}
}

func TestCloseWithoutPool(t *testing.T) {
	db := &DB{}
	assert.NotPanics(t, db.Close)
}
