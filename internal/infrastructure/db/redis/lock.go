package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	lockTTL      = 10 * time.Second
	lockPollStep = 50 * time.Millisecond
)

// releaseScript deletes the lock only if it is still held by the caller.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// UserLocker serializes credential mutations per user across all service
// instances using SET NX with a TTL. The TTL bounds how long a crashed holder
// can block a user.
type UserLocker struct {
	client *redis.Client
}

// NewUserLocker creates a UserLocker wrapping the given Redis client.
func NewUserLocker(client *redis.Client) *UserLocker {
	return &UserLocker{client: client}
}

// Lock acquires the per-user lock, polling until it is free or ctx expires.
// The returned function releases the lock and is safe to call once.
func (l *UserLocker) Lock(ctx context.Context, userID string) (func(), error) {
	key := fmt.Sprintf("lock:credential:%s", userID)
	token := uuid.NewString()

	for {
		ok, err := l.client.SetNX(ctx, key, token, lockTTL).Result()
		if err != nil {
			return nil, fmt.Errorf("acquire lock: %w", err)
		}
		if ok {
			break
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("acquire lock: %w", ctx.Err())
		case <-time.After(lockPollStep):
		}
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}
	return release, nil
}
