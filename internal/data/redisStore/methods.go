package redisStore

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

func (s *Store) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return s.client.Set(ctx, key, value, expiration).Err()
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *Store) Del(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

func (s *Store) IsNil(err error) bool {
	return errors.Is(err, redis.Nil)
}

// ListPush adds to the head of a list; paired with BlockingPopTail it gives FIFO order.
func (s *Store) ListPush(ctx context.Context, key string, value interface{}) error {
	return s.client.LPush(ctx, key, value).Err()
}

// BlockingPopTail waits up to timeout for an item. ok is false on timeout.
// Redis counts the timeout in whole seconds and 0 blocks forever, so anything
// shorter than a second is raised to one.
func (s *Store) BlockingPopTail(ctx context.Context, key string, timeout time.Duration) (string, bool, error) {
	if timeout < time.Second {
		timeout = time.Second
	}
	res, err := s.client.BRPop(ctx, timeout, key).Result()
	if s.IsNil(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	// BRPOP replies with [key, value]
	if len(res) < 2 {
		return "", false, nil
	}
	return res[1], true, nil
}

func (s *Store) ListLen(ctx context.Context, key string) (int64, error) {
	return s.client.LLen(ctx, key).Result()
}
