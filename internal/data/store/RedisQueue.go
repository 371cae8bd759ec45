package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/data/redisStore"
	"github.com/akolanti/propdocs/internal/domain/jobModel"
	"github.com/akolanti/propdocs/internal/metrics"
	"github.com/akolanti/propdocs/pkg/logger_i"
)

// RedisQueue is a FIFO list of job descriptors shared by every API replica
// and worker.
type RedisQueue struct {
	store  *redisStore.Store
	key    string
	logger *logger_i.Logger
}

func GetRedisQueue(ctx context.Context, settings config.RedisSettings) *RedisQueue {
	s := redisStore.GetRedisStore(ctx, settings, config.RedisJobQueue)
	if s == nil {
		return nil
	}
	return NewRedisQueue(s, config.RedisQueueKey)
}

func NewRedisQueue(s *redisStore.Store, key string) *RedisQueue {
	return &RedisQueue{
		store:  s,
		key:    key,
		logger: logger_i.NewLogger("JobQueue"),
	}
}

func (q *RedisQueue) Enqueue(ctx context.Context, job jobModel.Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.store.ListPush(ctx, q.key, data); err != nil {
		return fmt.Errorf("push job: %w", err)
	}
	metrics.IncrementJobsInQueue()
	q.logger.WithTrace(ctx).Debug("job enqueued", "jobId", job.Id)
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context, wait time.Duration) (jobModel.Job, bool, error) {
	var job jobModel.Job
	val, ok, err := q.store.BlockingPopTail(ctx, q.key, wait)
	if err != nil || !ok {
		return job, false, err
	}
	metrics.DecrementJobsInQueue()
	if err := json.Unmarshal([]byte(val), &job); err != nil {
		return job, false, fmt.Errorf("unmarshal job: %w", err)
	}
	return job, true, nil
}

func (q *RedisQueue) Len(ctx context.Context) int64 {
	n, err := q.store.ListLen(ctx, q.key)
	if err != nil {
		q.logger.Error("Error reading queue length", "error", err)
		return 0
	}
	return n
}
