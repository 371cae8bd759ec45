package store

import (
	"context"

	"github.com/akolanti/propdocs/internal/config"
	"github.com/akolanti/propdocs/internal/domain/jobModel"
	"github.com/akolanti/propdocs/pkg/logger_i"
)

var factoryLogger = logger_i.NewLogger("Store Factory")

// NewJobStore prefers redis and falls back to memory when allowed.
func NewJobStore(ctx context.Context, settings config.RedisSettings) (jobModel.JobStore, bool) {
	if s := GetRedisJobStore(ctx, settings); s != nil {
		return s, true
	}
	if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
		return nil, false
	}
	factoryLogger.Warn("redis unavailable, using in-memory job store")
	return InitInMemoryJobStore(), true
}

func NewQueue(ctx context.Context, settings config.RedisSettings) (jobModel.Queue, bool) {
	if q := GetRedisQueue(ctx, settings); q != nil {
		return q, true
	}
	if !config.FALLBACK_REDIS_TO_INTERNALSTORE {
		return nil, false
	}
	factoryLogger.Warn("redis unavailable, using in-memory job queue")
	return InitInMemoryQueue(config.BufferLimit), true
}
