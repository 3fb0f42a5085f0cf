package admission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"edureward/internal/identity"
)

const (
	defaultLockTTL   = 30 * time.Second
	defaultRetryWait = 25 * time.Millisecond
)

// ErrLockLost is returned on release when the lock expired and was taken by another holder.
var ErrLockLost = errors.New("admission lock lost")

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Redis is a lock shared by every replica pointing at the same Redis.
type Redis struct {
	client    redis.Cmdable
	ttl       time.Duration
	retryWait time.Duration
}

type RedisOption func(*Redis)

// WithTTL bounds how long a crashed holder can block a participant.
func WithTTL(ttl time.Duration) RedisOption {
	return func(r *Redis) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

func WithRetryWait(d time.Duration) RedisOption {
	return func(r *Redis) {
		if d > 0 {
			r.retryWait = d
		}
	}
}

func NewRedis(client redis.Cmdable, opts ...RedisOption) *Redis {
	r := &Redis{
		client:    client,
		ttl:       defaultLockTTL,
		retryWait: defaultRetryWait,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Acquire polls SET NX until it wins the key or ctx is done.
func (r *Redis) Acquire(ctx context.Context, participant identity.Address) (ReleaseFunc, error) {
	key := keyFor(participant)
	token := uuid.NewString()

	ticker := time.NewTicker(r.retryWait)
	defer ticker.Stop()
	for {
		ok, err := r.client.SetNX(ctx, key, token, r.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire admission lock: %w", err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	return func(ctx context.Context) error {
		deleted, err := releaseScript.Run(ctx, r.client, []string{key}, token).Int()
		if err != nil {
			return fmt.Errorf("release admission lock: %w", err)
		}
		if deleted == 0 {
			return ErrLockLost
		}
		return nil
	}, nil
}
