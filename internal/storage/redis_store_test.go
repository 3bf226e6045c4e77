package storage

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quote-templater/internal/templates"
)

// newTestStore connects to REDIS_TEST_ADDR and flushes the selected DB.
func newTestStore(t *testing.T) *RedisStore {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	t.Cleanup(func() { rdb.Close() })
	require.NoError(t, rdb.FlushDB(context.Background()).Err())
	return NewRedisStore(rdb)
}

func TestOutboxFIFO(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.Enqueue(ctx, Job{Template: "welcome", Refs: templates.Refs{QuoteID: 1}})
	require.NoError(t, err)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.CreatedAt.IsZero())
	_, err = s.Enqueue(ctx, Job{ID: "fixed", Template: "reminder"})
	require.NoError(t, err)

	n, err := s.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	job, ok, err := s.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, first.ID, job.ID)
	assert.Equal(t, int64(1), job.Refs.QuoteID)

	job, ok, err = s.Next(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fixed", job.ID)

	_, ok, err = s.Next(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOutboxMarks(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sent, err := s.IsSent(ctx, "a")
	require.NoError(t, err)
	assert.False(t, sent)

	require.NoError(t, s.MarkSent(ctx, "a"))
	sent, err = s.IsSent(ctx, "a")
	require.NoError(t, err)
	assert.True(t, sent)

	require.NoError(t, s.MarkFailed(ctx, Job{ID: "b", Attempts: 3}, errors.New("boom")))
	v, err := s.rdb.Get(ctx, failedKey("b")).Result()
	require.NoError(t, err)
	assert.Equal(t, "boom", v)
	dead, err := s.Dead(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), dead)
}

func TestOutboxRequeue(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Enqueue(ctx, Job{ID: "a", Template: "welcome"})
	require.NoError(t, err)
	_, err = s.Enqueue(ctx, Job{ID: "b", Template: "welcome"})
	require.NoError(t, err)

	job, _, err := s.Next(ctx)
	require.NoError(t, err)
	job.Attempts++
	require.NoError(t, s.Requeue(ctx, job))

	next, _, err := s.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "b", next.ID)
	next, _, err = s.Next(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a", next.ID)
	assert.Equal(t, 1, next.Attempts)
}
