package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestRefreshLock_AcquireRelease(t *testing.T) {
	client := newTestRedis(t)
	lock := NewRefreshLock(client, 30*time.Second)
	ctx := context.Background()

	ok, err := lock.Acquire(ctx, "account-1")
	require.NoError(t, err)
	require.True(t, ok)

	// Second acquire on the same key fails while held
	ok, err = lock.Acquire(ctx, "account-1")
	require.NoError(t, err)
	require.False(t, ok)

	// A different account is independent
	ok, err = lock.Acquire(ctx, "account-2")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, lock.Release(ctx, "account-1"))
	ok, err = lock.Acquire(ctx, "account-1")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestRefreshLock_ReleaseOnlyOwner(t *testing.T) {
	client := newTestRedis(t)
	a := NewRefreshLock(client, 30*time.Second)
	b := NewRefreshLock(client, 30*time.Second)
	ctx := context.Background()

	ok, err := a.Acquire(ctx, "account-1")
	require.NoError(t, err)
	require.True(t, ok)

	// b releasing a's lock is a no-op
	require.NoError(t, b.Release(ctx, "account-1"))
	ok, err = b.Acquire(ctx, "account-1")
	require.NoError(t, err)
	require.False(t, ok)
}
