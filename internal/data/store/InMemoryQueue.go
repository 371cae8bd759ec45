package store

import (
	"context"
	"errors"
	"time"

	"github.com/akolanti/propdocs/internal/domain/jobModel"
	"github.com/akolanti/propdocs/internal/metrics"
)

var ErrQueueFull = errors.New("job queue is full")

// InMemoryQueue is the single-process fallback when redis is offline.
type InMemoryQueue struct {
	jobs chan jobModel.Job
}

func InitInMemoryQueue(limit int) *InMemoryQueue {
	return &InMemoryQueue{jobs: make(chan jobModel.Job, limit)}
}

func (q *InMemoryQueue) Enqueue(ctx context.Context, job jobModel.Job) error {
	select {
	case q.jobs <- job:
		metrics.IncrementJobsInQueue()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrQueueFull
	}
}

func (q *InMemoryQueue) Dequeue(ctx context.Context, wait time.Duration) (jobModel.Job, bool, error) {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case job := <-q.jobs:
		metrics.DecrementJobsInQueue()
		return job, true, nil
	case <-timer.C:
		return jobModel.Job{}, false, nil
	case <-ctx.Done():
		return jobModel.Job{}, false, ctx.Err()
	}
}

func (q *InMemoryQueue) Len(ctx context.Context) int64 {
	return int64(len(q.jobs))
}
