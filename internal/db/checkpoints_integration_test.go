//go:build integration

package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, db.EnsureSchema(ctx))

	_, _ = db.pool.Exec(ctx, "DELETE FROM study_checkpoints WHERE run_key LIKE 'test_%'")
	return db
}

func TestIntegration_Checkpoints_CRUD(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()
	key := "test_" + uuid.NewString()

	_, err := db.GetCheckpoint(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)

	cp := &Checkpoint{RunKey: key, LastIndex: 0, Document: "pre\nrow0\n", Fingerprint: "n=2;first=2024-10-04;last=2024-10-05", SessionID: uuid.New(), UpdatedAt: time.Now().UTC().Truncate(time.Microsecond)}
	require.NoError(t, db.SaveCheckpoint(ctx, cp))

	cp.LastIndex = 1
	cp.Document += "row1\n"
	require.NoError(t, db.SaveCheckpoint(ctx, cp))

	got, err := db.GetCheckpoint(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, 1, got.LastIndex)
	assert.Equal(t, "pre\nrow0\nrow1\n", got.Document)
	assert.Equal(t, cp.Fingerprint, got.Fingerprint)
	assert.Equal(t, cp.SessionID, got.SessionID)

	require.NoError(t, db.DeleteCheckpoint(ctx, key))
	require.NoError(t, db.DeleteCheckpoint(ctx, key))
	_, err = db.GetCheckpoint(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIntegration_Runs(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	id := uuid.New()
	require.NoError(t, db.CreateRun(ctx, id, "Test Child", "test_key"))
	require.NoError(t, db.CompleteRun(ctx, id, RunStatusDone))

	run, err := db.GetRun(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, RunStatusDone, run.Status)
	assert.NotNil(t, run.CompletedAt)

	_, _ = db.pool.Exec(ctx, "DELETE FROM study_runs WHERE id = $1", id)
}
