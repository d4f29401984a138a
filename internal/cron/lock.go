package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// A crashed worker's lock expires after one missed cycle at the default interval.
const defaultLockTTL = 2 * defaultInterval

// Lock keeps two cron-worker replicas from resending the same confirmations.
type Lock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

type lockBackend interface {
	SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

// RedisLock is a lease on a single key. The value written is a token unique
// to this lease so a worker never frees a lease another replica has taken
// over after expiry.
type RedisLock struct {
	backend lockBackend
	key     string
	lease   time.Duration
	token   string
	held    bool
}

func NewRedisLock(backend lockBackend, key string, lease time.Duration) (*RedisLock, error) {
	switch {
	case backend == nil:
		return nil, errors.New("cron lock: redis backend is nil")
	case key == "":
		return nil, errors.New("cron lock: empty key")
	}
	if lease <= 0 {
		lease = defaultLockTTL
	}
	return &RedisLock{backend: backend, key: key, lease: lease}, nil
}

func (l *RedisLock) Acquire(ctx context.Context) (bool, error) {
	token := uuid.NewString()
	won, err := l.backend.SetNX(ctx, l.key, token, l.lease)
	if err != nil {
		return false, fmt.Errorf("cron lock %s: acquire: %w", l.key, err)
	}
	if won {
		l.token, l.held = token, true
	}
	return won, nil
}

func (l *RedisLock) Release(ctx context.Context) error {
	if !l.held {
		return nil
	}
	current, err := l.backend.Get(ctx, l.key)
	switch {
	case errors.Is(err, redis.Nil):
		l.held = false
		return nil
	case err != nil:
		return fmt.Errorf("cron lock %s: read holder: %w", l.key, err)
	case current != l.token:
		// lease expired and another replica owns the key now
		l.held = false
		return nil
	}
	if err := l.backend.Del(ctx, l.key); err != nil {
		return fmt.Errorf("cron lock %s: release: %w", l.key, err)
	}
	l.held = false
	return nil
}
