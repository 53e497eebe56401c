// -----------------------------------------------------------------------
// Worker - dequeues work items and drives the analysis service
// -----------------------------------------------------------------------

package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/AmrElsherif83/aira-investment-agent/internal/interfaces"
)

// WorkerPool runs the job-processing loops. Each worker alternates between
// idle (blocked in Dequeue) and processing (running exactly one job to
// completion); a worker never takes a second item while one is in flight.
// The default concurrency of 1 gives single-worker semantics where start
// order equals completion order.
type WorkerPool struct {
	queue       *Queue
	runner      interfaces.JobRunner
	concurrency int
	logger      arbor.ILogger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorkerPool creates a worker pool over the queue and service boundary
func NewWorkerPool(queue *Queue, runner interfaces.JobRunner, concurrency int, logger arbor.ILogger) *WorkerPool {
	if concurrency <= 0 {
		concurrency = 1
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		queue:       queue,
		runner:      runner,
		concurrency: concurrency,
		logger:      logger,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the worker goroutines
func (wp *WorkerPool) Start() {
	wp.logger.Info().
		Int("concurrency", wp.concurrency).
		Msg("Starting worker pool")

	for i := 0; i < wp.concurrency; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop cancels the workers and waits for in-flight jobs to finish their
// writeback. A job caught mid-flight observes the cancellation and is
// persisted as failed before its worker exits.
func (wp *WorkerPool) Stop() {
	wp.logger.Info().Msg("Stopping worker pool")
	wp.cancel()
	wp.wg.Wait()
	wp.logger.Info().Msg("Worker pool stopped")
}

// worker is the main loop: idle in Dequeue, process one job, repeat.
// It must never crash from a single job's failure.
func (wp *WorkerPool) worker(workerID int) {
	defer wp.wg.Done()

	wp.logger.Debug().Int("worker_id", workerID).Msg("Worker started")

	for {
		item, err := wp.queue.Dequeue(wp.ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				wp.logger.Debug().Int("worker_id", workerID).Msg("Worker stopped")
				return
			}
			wp.logger.Warn().Err(err).Int("worker_id", workerID).Msg("Dequeue failed")
			continue
		}

		wp.processItem(workerID, item.JobID, item.Ticker)
	}
}

// processItem runs one job through the service boundary. Runner errors and
// panics are contained here: they are logged and the loop carries on.
func (wp *WorkerPool) processItem(workerID int, jobID, ticker string) {
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			wp.logger.Error().
				Str("job_id", jobID).
				Int("worker_id", workerID).
				Str("panic", fmt.Sprintf("%v", r)).
				Msg("Job processing panicked")
		}
	}()

	wp.logger.Info().
		Str("job_id", jobID).
		Str("ticker", ticker).
		Int("worker_id", workerID).
		Msg("Processing job")

	if err := wp.runner.RunJob(wp.ctx, jobID, ticker); err != nil {
		wp.logger.Error().
			Err(err).
			Str("job_id", jobID).
			Dur("duration", time.Since(start)).
			Int("worker_id", workerID).
			Msg("Job failed")
		return
	}

	wp.logger.Info().
		Str("job_id", jobID).
		Dur("duration", time.Since(start)).
		Int("worker_id", workerID).
		Msg("Job completed")
}
