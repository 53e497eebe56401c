// -----------------------------------------------------------------------
// Analysis Job - lifecycle record for one ticker analysis
// -----------------------------------------------------------------------

package models

import (
	"time"
)

// JobStatus represents the lifecycle state of an analysis job.
// Status only moves forward: queued -> running -> succeeded|failed.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// String returns the string representation of the JobStatus
func (s JobStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the status is a terminal state
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed
}

// CanTransitionTo reports whether the status machine allows moving to next.
// Transitions are strictly forward and never skip running: a job reaches a
// terminal state only from running. A repeated transition to running is
// allowed so duplicate updates stay idempotent.
func (s JobStatus) CanTransitionTo(next JobStatus) bool {
	switch s {
	case JobStatusQueued:
		return next == JobStatusRunning
	case JobStatusRunning:
		return next == JobStatusRunning || next == JobStatusSucceeded || next == JobStatusFailed
	default:
		return false
	}
}

// Job is the single record tracked per submitted ticker analysis.
// It is created by Submit, mutated only through the job store during the
// worker's single processing pass, and read-only afterwards.
type Job struct {
	ID     string    `json:"id" badgerhold:"key"`
	Ticker string    `json:"ticker"`
	Status JobStatus `json:"status"`

	CreatedAt  time.Time  `json:"created_at"`
	StartedAt  *time.Time `json:"started_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`

	// Error holds the truncated, type-prefixed failure message for failed jobs
	Error string `json:"error,omitempty"`

	// Steps is the append-only, insertion-ordered step trace
	Steps []StepResult `json:"steps"`

	// Report is set at most once, when the job succeeds
	Report *Report `json:"report,omitempty"`
}

// NewJob creates a new queued job for the given ticker
func NewJob(id, ticker string) *Job {
	return &Job{
		ID:        id,
		Ticker:    ticker,
		Status:    JobStatusQueued,
		CreatedAt: time.Now(),
		Steps:     []StepResult{},
	}
}

// IsTerminal returns true if the job has finished processing
func (j *Job) IsTerminal() bool {
	return j.Status.IsTerminal()
}

// Clone returns a deep copy of the job so store reads never hand out
// aliased mutable state.
func (j *Job) Clone() *Job {
	clone := *j
	if j.StartedAt != nil {
		t := *j.StartedAt
		clone.StartedAt = &t
	}
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		clone.FinishedAt = &t
	}
	clone.Steps = make([]StepResult, len(j.Steps))
	copy(clone.Steps, j.Steps)
	if j.Report != nil {
		r := *j.Report
		clone.Report = &r
	}
	return &clone
}

// WorkItem is the immutable unit carried by the work queue.
// It is consumed exactly once by the worker.
type WorkItem struct {
	JobID  string `json:"job_id"`
	Ticker string `json:"ticker"`
}
