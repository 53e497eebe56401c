// -----------------------------------------------------------------------
// Analyzer Service - submit boundary and per-job execution
// -----------------------------------------------------------------------

package analyzer

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"

	"github.com/AmrElsherif83/aira-investment-agent/internal/interfaces"
	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
	"github.com/AmrElsherif83/aira-investment-agent/internal/queue"
)

// ErrInvalidTicker is returned when a submitted ticker fails validation.
// Validation happens before any job is created.
var ErrInvalidTicker = errors.New("invalid ticker symbol")

// Failed jobs expose a truncated, type-prefixed error message
const maxErrorMessageLen = 500

var tickerPattern = regexp.MustCompile(`^[A-Z0-9.\-]{1,10}$`)

// SubmitRequest is the validated payload of an analysis submission
type SubmitRequest struct {
	Ticker string `json:"ticker" validate:"required,ticker"`
}

// Service accepts analysis submissions and runs queued jobs. It owns each
// job's status transitions end to end: a job it picks up never stays
// running after RunJob returns.
type Service struct {
	store    interfaces.JobStore
	queue    *queue.Queue
	orch     *Orchestrator
	logger   arbor.ILogger
	validate *validator.Validate
}

// NewService creates the analyzer service
func NewService(store interfaces.JobStore, q *queue.Queue, orch *Orchestrator, logger arbor.ILogger) *Service {
	v := validator.New()
	_ = v.RegisterValidation("ticker", func(fl validator.FieldLevel) bool {
		return tickerPattern.MatchString(fl.Field().String())
	})

	return &Service{
		store:    store,
		queue:    q,
		orch:     orch,
		logger:   logger,
		validate: v,
	}
}

// NormalizeTicker canonicalizes a submitted symbol for validation and
// lookup
func NormalizeTicker(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Submit validates the ticker, reserves queue capacity, creates the job
// and enqueues it. Validation and capacity errors surface synchronously
// with no job created; once Submit returns a job, that job is queued.
func (s *Service) Submit(ctx context.Context, rawTicker string) (*models.Job, error) {
	ticker := NormalizeTicker(rawTicker)

	req := SubmitRequest{Ticker: ticker}
	if err := s.validate.Struct(&req); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTicker, rawTicker)
	}

	// Reserve a queue slot first so a full queue is rejected before any
	// job record exists.
	if err := s.queue.Reserve(ctx); err != nil {
		return nil, err
	}

	job, err := s.store.CreateJob(ctx, ticker)
	if err != nil {
		s.queue.Release()
		return nil, fmt.Errorf("failed to create job: %w", err)
	}

	s.queue.EnqueueReserved(models.WorkItem{JobID: job.ID, Ticker: ticker})

	s.logger.Info().
		Str("job_id", job.ID).
		Str("ticker", ticker).
		Int("queue_depth", s.queue.Depth()).
		Msg("Analysis job submitted")

	return job, nil
}

// RunJob processes one dequeued job end to end: marks it running, drives
// the orchestrator with step results streamed to the store, and records
// the final outcome. Failures are persisted best-effort; secondary
// persistence failures are logged, never propagated.
func (s *Service) RunJob(ctx context.Context, jobID, ticker string) error {
	if err := s.store.UpdateStatus(ctx, jobID, models.JobStatusRunning, ""); err != nil {
		return fmt.Errorf("failed to mark job running: %w", err)
	}

	report, err := s.orch.Run(ctx, ticker, func(step models.StepResult) error {
		return s.store.AppendStep(context.Background(), jobID, step)
	})
	if err != nil {
		// The orchestrator has already sealed a failed step for the
		// aborted pipeline.
		s.failJob(jobID, err, false)
		return err
	}

	if err := s.store.SaveResult(context.Background(), jobID, report); err != nil {
		err = fmt.Errorf("failed to persist analysis result: %w", err)
		s.failJob(jobID, err, true)
		return err
	}

	if err := s.store.UpdateStatus(context.Background(), jobID, models.JobStatusSucceeded, ""); err != nil {
		s.logger.Error().
			Str("job_id", jobID).
			Err(err).
			Msg("Failed to mark job succeeded")
		return fmt.Errorf("failed to mark job succeeded: %w", err)
	}

	s.logger.Info().
		Str("job_id", jobID).
		Str("ticker", ticker).
		Str("signal", report.Signal.String()).
		Msg("Analysis job completed")

	return nil
}

// failJob records a job failure best-effort. Persistence here must not
// depend on the job's context, which may already be cancelled. When the
// failure happened outside the pipeline (addStep=true) a synthetic failed
// step is appended so the step trace explains the terminal status.
func (s *Service) failJob(jobID string, cause error, addStep bool) {
	msg := failureMessage(cause)

	if addStep {
		now := time.Now()
		step := models.StepResult{
			Name:       models.StepReflection,
			Status:     models.StepStatusFailed,
			StartedAt:  now,
			FinishedAt: &now,
			Summary:    msg,
			Artifacts:  models.StepArtifacts{Failure: &models.FailureArtifact{Error: msg}},
		}
		if err := s.store.AppendStep(context.Background(), jobID, step); err != nil {
			s.logger.Warn().
				Str("job_id", jobID).
				Err(err).
				Msg("Failed to record failure step")
		}
	}

	if err := s.store.UpdateStatus(context.Background(), jobID, models.JobStatusFailed, msg); err != nil {
		s.logger.Error().
			Str("job_id", jobID).
			Err(err).
			Msg("Failed to mark job failed")
	}
}

// failureMessage derives the user-visible error message for a failed job:
// prefixed with the failure type and truncated to a bounded length.
func failureMessage(err error) string {
	var prefix string
	switch {
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		prefix = "cancelled"
	case errors.Is(err, ErrMissingStepOutput):
		prefix = "step failure"
	default:
		prefix = "internal error"
	}

	msg := prefix + ": " + err.Error()
	if len(msg) > maxErrorMessageLen {
		cut := maxErrorMessageLen - 3
		// Back up so the cut never splits a multi-byte rune
		for cut > 0 && !utf8.RuneStart(msg[cut]) {
			cut--
		}
		msg = msg[:cut] + "..."
	}
	return msg
}
