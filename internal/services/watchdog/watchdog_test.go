package watchdog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
	storage "github.com/AmrElsherif83/aira-investment-agent/internal/storage/badger"
)

func newTestStore(t *testing.T) *storage.JobStore {
	t.Helper()

	db, err := storage.NewBadgerDB(arbor.NewLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return storage.NewJobStore(db, arbor.NewLogger())
}

func TestSweepFailsStaleRunningJob(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	job, err := store.CreateJob(ctx, "NVDA")
	require.NoError(t, err)
	require.NoError(t, store.UpdateStatus(ctx, job.ID, models.JobStatusRunning, ""))

	svc := NewService(store, 10*time.Minute, arbor.NewLogger())
	// Pretend the sweep happens an hour from now
	svc.now = func() time.Time { return time.Now().Add(time.Hour) }

	assert.Equal(t, 1, svc.Sweep(ctx))

	final, err := store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, final.Status)
	assert.Contains(t, final.Error, "watchdog timeout")
	assert.NotNil(t, final.FinishedAt)
}

func TestSweepLeavesFreshJobsAlone(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	running, err := store.CreateJob(ctx, "AAPL")
	require.NoError(t, err)
	require.NoError(t, store.UpdateStatus(ctx, running.ID, models.JobStatusRunning, ""))

	queued, err := store.CreateJob(ctx, "MSFT")
	require.NoError(t, err)

	svc := NewService(store, 10*time.Minute, arbor.NewLogger())

	assert.Equal(t, 0, svc.Sweep(ctx))

	got, err := store.GetJob(ctx, running.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusRunning, got.Status)

	got, err = store.GetJob(ctx, queued.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusQueued, got.Status)
}

func TestSweepIgnoresTerminalJobs(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	job, err := store.CreateJob(ctx, "TSLA")
	require.NoError(t, err)
	require.NoError(t, store.UpdateStatus(ctx, job.ID, models.JobStatusRunning, ""))
	require.NoError(t, store.UpdateStatus(ctx, job.ID, models.JobStatusSucceeded, ""))

	svc := NewService(store, 10*time.Minute, arbor.NewLogger())
	svc.now = func() time.Time { return time.Now().Add(time.Hour) }

	assert.Equal(t, 0, svc.Sweep(ctx))

	got, err := store.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusSucceeded, got.Status)
}
