package store

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/domain/jobModel"
	"github.com/akolanti/propdocs/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("InMem JobStore")

type storedJob struct {
	job       jobModel.Job
	expiresAt time.Time
}

// InMemoryJobStore stands in for redis when it is offline. Entries expire
// after the same TTL redis applies, so an abandoned job is not kept forever.
type InMemoryJobStore struct {
	jobMutex *sync.RWMutex
	jobMap   map[string]storedJob
	ttl      time.Duration
	now      func() time.Time
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return NewInMemoryJobStore(config.RedisJobStoreTTL)
}

// NewInMemoryJobStore keeps jobs for ttl after their last save; ttl <= 0
// keeps them until deleted.
func NewInMemoryJobStore(ttl time.Duration) *InMemoryJobStore {
	return &InMemoryJobStore{
		jobMutex: new(sync.RWMutex),
		jobMap:   make(map[string]storedJob),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (store *InMemoryJobStore) SaveJob(ctx context.Context, jobToStore jobModel.Job) error {
	store.jobMutex.Lock()
	defer store.jobMutex.Unlock()

	entry := storedJob{job: jobToStore}
	if store.ttl > 0 {
		entry.expiresAt = store.now().Add(store.ttl)
	}
	store.jobMap[jobToStore.Id] = entry
	store.pruneLocked()

	inMemLogger.WithTrace(ctx).Debug("Saved job to store", "jobId", jobToStore.Id, "status", jobToStore.Status, "step", jobToStore.CurrentStep)
	return nil
}

func (store *InMemoryJobStore) GetJob(ctx context.Context, jobId string) (jobModel.Job, bool) {
	store.jobMutex.RLock()
	defer store.jobMutex.RUnlock()
	entry, found := store.jobMap[jobId]
	if !found || store.expired(entry) {
		return jobModel.Job{}, false
	}
	return entry.job, true
}

func (store *InMemoryJobStore) DeleteJob(ctx context.Context, jobID string) {
	store.jobMutex.Lock()
	defer store.jobMutex.Unlock()
	delete(store.jobMap, jobID)
}

func (store *InMemoryJobStore) expired(entry storedJob) bool {
	return !entry.expiresAt.IsZero() && store.now().After(entry.expiresAt)
}

// pruneLocked drops expired entries. Callers hold the write lock.
func (store *InMemoryJobStore) pruneLocked() {
	for id, entry := range store.jobMap {
		if store.expired(entry) {
			delete(store.jobMap, id)
		}
	}
}
