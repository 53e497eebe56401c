// -----------------------------------------------------------------------
// Work Queue - bounded FIFO channel of work items
// -----------------------------------------------------------------------

package queue

import (
	"context"
	"errors"
	"time"

	"github.com/AmrElsherif83/aira-investment-agent/internal/models"
)

// ErrQueueFull is returned when the bounded enqueue wait elapses without
// capacity becoming available. Callers surface it as a capacity-exceeded
// error; it is never retried internally.
var ErrQueueFull = errors.New("work queue is full")

// Queue is a bounded FIFO of work items. Capacity is reserved up front
// (Reserve) and consumed by Enqueue, which lets submitters reject on
// capacity before any job record exists. Items are delivered in strict
// enqueue order and are never dropped while the process is alive.
type Queue struct {
	items chan models.WorkItem
	slots chan struct{}
	wait  time.Duration
}

// NewQueue creates a queue with the given capacity and bounded enqueue wait
func NewQueue(capacity int, enqueueWait time.Duration) *Queue {
	if capacity <= 0 {
		capacity = 100
	}
	if enqueueWait <= 0 {
		enqueueWait = 5 * time.Second
	}
	return &Queue{
		items: make(chan models.WorkItem, capacity),
		slots: make(chan struct{}, capacity),
		wait:  enqueueWait,
	}
}

// Capacity returns the queue's configured capacity
func (q *Queue) Capacity() int {
	return cap(q.items)
}

// Depth returns the number of items currently waiting
func (q *Queue) Depth() int {
	return len(q.items)
}

// Reserve blocks until queue capacity is available, the bounded wait
// elapses (ErrQueueFull), or the context is cancelled. A successful
// reservation must be followed by exactly one Enqueue or Release.
func (q *Queue) Reserve(ctx context.Context) error {
	select {
	case q.slots <- struct{}{}:
		return nil
	default:
	}

	timer := time.NewTimer(q.wait)
	defer timer.Stop()

	select {
	case q.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrQueueFull
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns an unused reservation, for callers whose work item never
// materialized after a successful Reserve.
func (q *Queue) Release() {
	select {
	case <-q.slots:
	default:
	}
}

// EnqueueReserved adds an item under a reservation previously acquired via
// Reserve. It never blocks: the reservation guarantees buffer space.
func (q *Queue) EnqueueReserved(item models.WorkItem) {
	q.items <- item
}

// Enqueue reserves capacity and adds the item in one call, blocking up to
// the bounded wait. Fails with ErrQueueFull when no capacity frees up.
func (q *Queue) Enqueue(ctx context.Context, item models.WorkItem) error {
	if err := q.Reserve(ctx); err != nil {
		return err
	}
	q.EnqueueReserved(item)
	return nil
}

// Dequeue blocks until an item is available or the context is cancelled.
// On cancellation it returns the context's error and no item.
func (q *Queue) Dequeue(ctx context.Context) (models.WorkItem, error) {
	select {
	case item := <-q.items:
		<-q.slots
		return item, nil
	case <-ctx.Done():
		return models.WorkItem{}, ctx.Err()
	}
}
