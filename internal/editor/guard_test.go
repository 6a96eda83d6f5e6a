package editor

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"supportraise/internal/domain"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis, func()) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr, func() {
		client.Close()
		mr.Close()
	}
}

func TestMemoryGuard(t *testing.T) {
	ctx := context.Background()
	g := NewMemoryGuard()

	release, err := g.Acquire(ctx, "user-1:p1")
	require.NoError(t, err)

	_, err = g.Acquire(ctx, "user-1:p1")
	assert.ErrorIs(t, err, domain.ErrDuplicateOperation)

	other, err := g.Acquire(ctx, "user-1:p2")
	require.NoError(t, err)
	require.NoError(t, other(ctx))

	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx), "release is idempotent")

	again, err := g.Acquire(ctx, "user-1:p1")
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestRedisGuard(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()
	g := NewRedisGuard(client, 10*time.Second)

	release, err := g.Acquire(ctx, "user-1:p1")
	require.NoError(t, err)
	assert.True(t, mr.Exists("partner-save:user-1:p1"))
	assert.Equal(t, 10*time.Second, mr.TTL("partner-save:user-1:p1"))

	_, err = g.Acquire(ctx, "user-1:p1")
	assert.ErrorIs(t, err, domain.ErrDuplicateOperation)

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists("partner-save:user-1:p1"))

	_, err = g.Acquire(ctx, "user-1:p1")
	require.NoError(t, err)
}

func TestRedisGuardReleaseKeepsForeignToken(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()
	g := NewRedisGuard(client, time.Second)

	release, err := g.Acquire(ctx, "user-1:p1")
	require.NoError(t, err)

	// Simulate the lease expiring and another instance taking it.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("partner-save:user-1:p1", "someone-else"))

	require.NoError(t, release(ctx))
	got, err := mr.Get("partner-save:user-1:p1")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedisGuardUnavailable(t *testing.T) {
	client, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	mr.Close()

	_, err := NewRedisGuard(client, 0).Acquire(context.Background(), "user-1:p1")
	assert.ErrorIs(t, err, domain.ErrRemoteUnavailable)
}

func TestEditorWithRedisGuard(t *testing.T) {
	client, _, cleanup := setupTestRedis(t)
	defer cleanup()
	store := &recordingStore{}
	e := New("user-1", nil, store, WithGuard(NewRedisGuard(client, 0)))

	require.NoError(t, e.Apply(Patch{Name: Value("Fale")}))
	_, err := e.Save(context.Background())
	require.NoError(t, err)
	_, err = e.Save(context.Background())
	require.NoError(t, err, "guard is released between saves")
	assert.Len(t, store.upserts, 2)
}
