package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autopost-dashboard/infrastructure/cache"
)

func TestNewRedisKeyValue(t *testing.T) {
	// Constructing the adapter must not dial Redis.
	kv := cache.NewRedisKeyValue(nil, "autopost:")
	assert.NotNil(t, kv)
}

func TestMemoryKeyValue_SetIfAbsent(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemoryKeyValue()

	first, err := kv.SetIfAbsent(ctx, "marker", "1", 0)
	require.NoError(t, err)
	second, err := kv.SetIfAbsent(ctx, "marker", "2", 0)
	require.NoError(t, err)

	assert.True(t, first)
	assert.False(t, second)
	val, ok, err := kv.Get(ctx, "marker")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1", val)
}

func TestMemoryKeyValue_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	kv := cache.NewMemoryKeyValue().WithClock(func() time.Time { return now })

	require.NoError(t, kv.Set(ctx, "k", "v", time.Minute))
	_, ok, _ := kv.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok, _ = kv.Get(ctx, "k")
	assert.False(t, ok)

	created, err := kv.SetIfAbsent(ctx, "k", "again", 0)
	require.NoError(t, err)
	assert.True(t, created)
}

func TestMemoryKeyValue_Incr(t *testing.T) {
	ctx := context.Background()
	kv := cache.NewMemoryKeyValue()

	for i := int64(1); i <= 3; i++ {
		n, err := kv.Incr(ctx, "daily", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}

	require.NoError(t, kv.Set(ctx, "text", "abc", 0))
	_, err := kv.Incr(ctx, "text", 0)
	assert.Error(t, err)

	require.NoError(t, kv.Delete(ctx, "daily"))
	_, ok, _ := kv.Get(ctx, "daily")
	assert.False(t, ok)
}
