// -----------------------------------------------------------------------
// Watchdog Service - fails jobs stuck in running past the timeout
// -----------------------------------------------------------------------

package watchdog

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/AmrElsherif83/aira-investment-agent/internal/interfaces"
	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
)

// Sweep schedule: once a minute
const sweepSchedule = "*/1 * * * *"

// Service periodically sweeps the job store for jobs that have been
// running longer than the timeout and fails them. A job can only end up
// stuck if its worker died mid-flight; the sweep guarantees no job stays
// running forever.
type Service struct {
	store   interfaces.JobStore
	timeout time.Duration
	cron    *cron.Cron
	logger  arbor.ILogger
	now     func() time.Time
}

// NewService creates a watchdog over the job store
func NewService(store interfaces.JobStore, timeout time.Duration, logger arbor.ILogger) *Service {
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &Service{
		store:   store,
		timeout: timeout,
		cron:    cron.New(),
		logger:  logger,
		now:     time.Now,
	}
}

// Start schedules the periodic sweep
func (s *Service) Start() error {
	if _, err := s.cron.AddFunc(sweepSchedule, func() {
		if n := s.Sweep(context.Background()); n > 0 {
			s.logger.Warn().
				Int("failed", n).
				Msg("Watchdog failed stale running jobs")
		}
	}); err != nil {
		return fmt.Errorf("failed to schedule watchdog sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info().
		Str("timeout", s.timeout.String()).
		Msg("Watchdog started")
	return nil
}

// Stop halts the sweep schedule and waits for an in-flight sweep
func (s *Service) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

// Sweep fails every running job that started before the timeout window
// and returns how many it failed. Safe to call concurrently with normal
// job processing: a job that finishes between listing and failing is
// skipped by the store's transition check.
func (s *Service) Sweep(ctx context.Context) int {
	jobs, err := s.store.ListJobs(ctx, &interfaces.JobListOptions{
		Status: string(models.JobStatusRunning),
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("Watchdog sweep failed to list jobs")
		return 0
	}

	cutoff := s.now().Add(-s.timeout)
	failed := 0

	for _, job := range jobs {
		if job.StartedAt == nil || job.StartedAt.After(cutoff) {
			continue
		}

		msg := fmt.Sprintf("internal error: job exceeded watchdog timeout of %s", s.timeout)
		if err := s.store.UpdateStatus(ctx, job.ID, models.JobStatusFailed, msg); err != nil {
			// The job may have reached a terminal state since listing
			s.logger.Debug().
				Str("job_id", job.ID).
				Err(err).
				Msg("Watchdog skipped job")
			continue
		}

		s.logger.Warn().
			Str("job_id", job.ID).
			Str("ticker", job.Ticker).
			Str("started_at", job.StartedAt.Format(time.RFC3339)).
			Msg("Watchdog failed stale running job")
		failed++
	}

	return failed
}
