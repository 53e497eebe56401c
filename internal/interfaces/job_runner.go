package interfaces

import (
	"context"
)

// JobRunner is the service boundary the worker drives. RunJob processes one
// dequeued work item end to end: it owns the job's status transitions and
// persists steps and the final result. It must never leave a job stuck in
// running on either the happy or the unhappy path.
type JobRunner interface {
	RunJob(ctx context.Context, jobID, ticker string) error
}
