package cache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"clipcast/domain/repository"

	"github.com/redis/go-redis/v9"
)

// Verify interface compliance
var _ repository.IRefreshLock = (*RefreshLock)(nil)

const refreshLockPrefix = "clipcast:refresh:"

// RefreshLock serialises token refresh per account across process instances
// using Redis SETNX with a TTL. The owner id prevents one instance from
// releasing a lock another instance holds.
type RefreshLock struct {
	client  *redis.Client
	ownerID string
	ttl     time.Duration
}

// NewRefreshLock creates a Redis-backed refresh lock. The TTL bounds how long
// a crashed holder can block other refreshers.
func NewRefreshLock(client *redis.Client, ttl time.Duration) *RefreshLock {
	hostname, _ := os.Hostname()
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return &RefreshLock{
		client:  client,
		ownerID: fmt.Sprintf("%s:%d:%s", hostname, os.Getpid(), hex.EncodeToString(b)),
		ttl:     ttl,
	}
}

// Acquire attempts the lock. Returns false when another holder owns it.
func (l *RefreshLock) Acquire(ctx context.Context, key string) (bool, error) {
	ok, err := l.client.SetNX(ctx, refreshLockPrefix+key, l.ownerID, l.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire refresh lock %s: %w", key, err)
	}
	return ok, nil
}

// releaseScript deletes the lock only when this instance still owns it.
var releaseScript = redis.NewScript(`
	if redis.call("get", KEYS[1]) == ARGV[1] then
		return redis.call("del", KEYS[1])
	else
		return 0
	end
`)

// Release frees the lock if held by this instance. Safe to call after expiry.
func (l *RefreshLock) Release(ctx context.Context, key string) error {
	_, err := releaseScript.Run(ctx, l.client, []string{refreshLockPrefix + key}, l.ownerID).Result()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("release refresh lock %s: %w", key, err)
	}
	return nil
}
