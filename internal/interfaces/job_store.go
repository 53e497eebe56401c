package interfaces

import (
	"context"

	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
)

// JobListOptions controls job listing for the polling API
type JobListOptions struct {
	Status string
	Limit  int
	Offset int
}

// JobStore persists analysis jobs. All mutating operations on the same job
// id are mutually exclusive with each other; independent jobs mutate
// concurrently without contention. Reads never block behind a job's
// mutation and always return defensive copies.
type JobStore interface {
	// CreateJob creates a queued job for the ticker and returns it
	CreateJob(ctx context.Context, ticker string) (*models.Job, error)

	// GetJob returns a copy of the job or ErrJobNotFound
	GetJob(ctx context.Context, jobID string) (*models.Job, error)

	// ListJobs returns jobs matching the options, newest first
	ListJobs(ctx context.Context, opts *JobListOptions) ([]*models.Job, error)

	// CountJobsByStatus returns job counts keyed by status
	CountJobsByStatus(ctx context.Context) (map[models.JobStatus]int, error)

	// UpdateStatus transitions the job's status. StartedAt is set only on
	// the first transition to running, FinishedAt only on the terminal
	// transition; both are idempotent against duplicate calls. errMsg is
	// recorded for failed transitions. Backward transitions return
	// ErrInvalidTransition.
	UpdateStatus(ctx context.Context, jobID string, status models.JobStatus, errMsg string) error

	// AppendStep appends a sealed step result to the job's step trace
	AppendStep(ctx context.Context, jobID string, step models.StepResult) error

	// SaveResult attaches the final report. A report can be saved at
	// most once per job.
	SaveResult(ctx context.Context, jobID string, report *models.Report) error
}
