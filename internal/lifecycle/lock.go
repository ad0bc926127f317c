package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrLockHeld is returned when the lock stays taken through every retry.
var ErrLockHeld = errors.New("lock already held")

// unlockScript deletes the key only while it still holds our token.
var unlockScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// RedisLocker is a SETNX lock with a TTL, released through a compare-and-delete script.
type RedisLocker struct {
	redis   redis.UniversalClient
	ttl     time.Duration
	retries int
	delay   time.Duration
	logger  zerolog.Logger
}

func NewRedisLocker(client redis.UniversalClient, ttl time.Duration, retries int, delay time.Duration, logger zerolog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	if retries < 0 {
		retries = 0
	}
	return &RedisLocker{
		redis:   client,
		ttl:     ttl,
		retries: retries,
		delay:   delay,
		logger:  logger.With().Str("component", "redis_locker").Logger(),
	}
}

// Lock blocks until key is acquired, the retries run out or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.New().String()
	for attempt := 0; ; attempt++ {
		acquired, err := l.redis.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if acquired {
			break
		}
		if attempt >= l.retries {
			return nil, ErrLockHeld
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.delay):
		}
	}

	unlock := func() {
		// the request context may already be cancelled
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Second)
		defer cancel()
		if err := unlockScript.Run(ctx, l.redis, []string{key}, token).Err(); err != nil {
			l.logger.Warn().Err(err).Str("key", key).Msg("release lock failed")
		}
	}
	return unlock, nil
}
