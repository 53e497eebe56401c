// -----------------------------------------------------------------------
// Job Store - per-job serialized mutation over badgerhold records
// -----------------------------------------------------------------------

package badger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/timshannon/badgerhold/v4"

	"github.com/AmrElsherif83/aira-investment-agent/internal/common"
	"github.com/AmrElsherif83/aira-investment-agent/internal/interfaces"
	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
)

// JobStore implements interfaces.JobStore on Badger. A keyed mutex map
// serializes mutation per job id — one job's updates never interleave,
// while independent jobs mutate without contention. Reads go straight to
// the store and return copies.
type JobStore struct {
	db     *BadgerDB
	logger arbor.ILogger

	mu    sync.Mutex // guards locks map access only
	locks map[string]*sync.Mutex
}

// NewJobStore creates a new JobStore instance
func NewJobStore(db *BadgerDB, logger arbor.ILogger) *JobStore {
	return &JobStore{
		db:     db,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// jobLock returns the mutex owning the given job id, creating it on first use
func (s *JobStore) jobLock(jobID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[jobID]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[jobID] = lock
	}
	return lock
}

// CreateJob creates a queued job for the ticker and returns a copy
func (s *JobStore) CreateJob(ctx context.Context, ticker string) (*models.Job, error) {
	job := models.NewJob(common.NewJobID(), ticker)

	if err := s.db.Store().Insert(job.ID, job); err != nil {
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.logger.Debug().
		Str("job_id", job.ID).
		Str("ticker", ticker).
		Msg("Job created")

	return job.Clone(), nil
}

// GetJob returns a copy of the job or ErrJobNotFound
func (s *JobStore) GetJob(ctx context.Context, jobID string) (*models.Job, error) {
	var job models.Job
	if err := s.db.Store().Get(jobID, &job); err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("%w: %s", interfaces.ErrJobNotFound, jobID)
		}
		return nil, fmt.Errorf("failed to get job: %w", err)
	}
	return job.Clone(), nil
}

// ListJobs returns jobs matching the options, newest first
func (s *JobStore) ListJobs(ctx context.Context, opts *interfaces.JobListOptions) ([]*models.Job, error) {
	query := badgerhold.Where("ID").Ne("")

	if opts != nil {
		if opts.Status != "" {
			query = query.And("Status").Eq(models.JobStatus(opts.Status))
		}
		if opts.Limit > 0 {
			query = query.Limit(opts.Limit)
		}
		if opts.Offset > 0 {
			query = query.Skip(opts.Offset)
		}
	}
	query = query.SortBy("CreatedAt").Reverse()

	var jobs []models.Job
	if err := s.db.Store().Find(&jobs, query); err != nil {
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}

	result := make([]*models.Job, len(jobs))
	for i := range jobs {
		result[i] = jobs[i].Clone()
	}
	return result, nil
}

// CountJobsByStatus returns job counts keyed by status
func (s *JobStore) CountJobsByStatus(ctx context.Context) (map[models.JobStatus]int, error) {
	var jobs []models.Job
	if err := s.db.Store().Find(&jobs, badgerhold.Where("ID").Ne("")); err != nil {
		return nil, fmt.Errorf("failed to count jobs: %w", err)
	}

	counts := make(map[models.JobStatus]int)
	for i := range jobs {
		counts[jobs[i].Status]++
	}
	return counts, nil
}

// mutateJob runs fn against the job record under its per-job lock and
// writes the result back.
func (s *JobStore) mutateJob(jobID string, fn func(job *models.Job) error) error {
	lock := s.jobLock(jobID)
	lock.Lock()
	defer lock.Unlock()

	var job models.Job
	if err := s.db.Store().Get(jobID, &job); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("%w: %s", interfaces.ErrJobNotFound, jobID)
		}
		return fmt.Errorf("failed to get job: %w", err)
	}

	if err := fn(&job); err != nil {
		return err
	}

	if err := s.db.Store().Update(jobID, &job); err != nil {
		return fmt.Errorf("failed to update job: %w", err)
	}
	return nil
}

// UpdateStatus transitions the job's status. Forward-only: backward or
// out-of-terminal transitions fail with ErrInvalidTransition. StartedAt is
// set exactly once on the first transition to running, FinishedAt exactly
// once on the terminal transition.
func (s *JobStore) UpdateStatus(ctx context.Context, jobID string, status models.JobStatus, errMsg string) error {
	err := s.mutateJob(jobID, func(job *models.Job) error {
		if !job.Status.CanTransitionTo(status) {
			return fmt.Errorf("%w: %s -> %s", interfaces.ErrInvalidTransition, job.Status, status)
		}

		job.Status = status
		now := time.Now()

		if status == models.JobStatusRunning && job.StartedAt == nil {
			job.StartedAt = &now
		}
		if status.IsTerminal() && job.FinishedAt == nil {
			job.FinishedAt = &now
		}
		if status == models.JobStatusFailed && errMsg != "" {
			job.Error = errMsg
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug().
		Str("job_id", jobID).
		Str("status", status.String()).
		Msg("Job status updated")
	return nil
}

// AppendStep appends a sealed step result to the job's step trace
func (s *JobStore) AppendStep(ctx context.Context, jobID string, step models.StepResult) error {
	return s.mutateJob(jobID, func(job *models.Job) error {
		job.Steps = append(job.Steps, step)
		return nil
	})
}

// SaveResult attaches the final report. A report can be saved at most once.
func (s *JobStore) SaveResult(ctx context.Context, jobID string, report *models.Report) error {
	if report == nil {
		return fmt.Errorf("report cannot be nil")
	}
	return s.mutateJob(jobID, func(job *models.Job) error {
		if job.Report != nil {
			return fmt.Errorf("%w: %s", interfaces.ErrReportAlreadySaved, jobID)
		}
		job.Report = report
		return nil
	})
}
