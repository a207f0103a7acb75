package idempotency

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestStateTracker_ExecOnce(t *testing.T) {
	_, client := newTestRedis(t)
	tracker := New(client, "")
	ctx := context.Background()

	calls := 0
	fn := func(context.Context) error {
		calls++
		return nil
	}

	require.NoError(t, tracker.Exec(ctx, "k1", fn))
	assert.ErrorIs(t, tracker.Exec(ctx, "k1", fn), ErrAlreadyCompleted)
	assert.Equal(t, 1, calls)

	require.NoError(t, tracker.Exec(ctx, "k2", fn))
	assert.Equal(t, 2, calls)
}

func TestStateTracker_FailureReleasesKey(t *testing.T) {
	mr, client := newTestRedis(t)
	tracker := New(client, "test:")
	ctx := context.Background()

	boom := errors.New("boom")
	err := tracker.Exec(ctx, "k", func(context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("test:k"))

	assert.NoError(t, tracker.Exec(ctx, "k", func(context.Context) error { return nil }))
}

func TestStateTracker_InProgress(t *testing.T) {
	_, client := newTestRedis(t)
	tracker := New(client, "")
	ctx := context.Background()

	state, err := tracker.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, StateNone, state)

	err = tracker.Exec(ctx, "k", func(context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrAlreadyInProgress)
}

func TestStateTracker_StateExpires(t *testing.T) {
	mr, client := newTestRedis(t)
	tracker := New(client, "")
	ctx := context.Background()

	require.NoError(t, tracker.Exec(ctx, "k", func(context.Context) error { return nil }, WithStateTTL(time.Minute)))

	mr.FastForward(2 * time.Minute)

	assert.NoError(t, tracker.Exec(ctx, "k", func(context.Context) error { return nil }))
}

func TestStateTracker_InvalidState(t *testing.T) {
	mr, client := newTestRedis(t)
	tracker := New(client, "")

	require.NoError(t, mr.Set("idempotency:k", "garbage"))

	_, err := tracker.Acquire(context.Background(), "k", time.Minute)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestStateTracker_RedisDown(t *testing.T) {
	mr, client := newTestRedis(t)
	tracker := New(client, "")
	mr.Close()

	err := tracker.Exec(context.Background(), "k", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestStateTracker_LockExpiresAfterCrash(t *testing.T) {
	mr, client := newTestRedis(t)
	tracker := New(client, "")
	ctx := context.Background()

	_, err := tracker.Acquire(ctx, "k", 30*time.Second)
	require.NoError(t, err)

	mr.FastForward(31 * time.Second)

	assert.NoError(t, tracker.Exec(ctx, "k", func(context.Context) error { return nil }))
	v, err := mr.Get("idempotency:k")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted.String(), v)
}

func TestStateTracker_ReleaseKeepsForeignState(t *testing.T) {
	mr, client := newTestRedis(t)
	tracker := New(client, "")
	ctx := context.Background()

	boom := errors.New("boom")
	err := tracker.Exec(ctx, "k", func(context.Context) error {
		// another replica completed the key after our lock lapsed
		return errors.Join(boom, mr.Set("idempotency:k", StateCompleted.String()))
	})

	assert.ErrorIs(t, err, boom)
	v, err := mr.Get("idempotency:k")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted.String(), v)
}
