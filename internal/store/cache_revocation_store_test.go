package store

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/go-task-keeper/internal/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skip("Redis not available, skipping integration test")
	}

	client.FlushDB(ctx)
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

// unreachableRedis returns a client pointed at a closed port so every command
// fails fast.
func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })
	return client
}

func TestKeyNamespace(t *testing.T) {
	assert.Equal(t, BlacklistKeyPrefix, keyNamespace(BlacklistKeyPrefix+"eyJhbGci"))
	assert.Equal(t, RefreshTokenKeyPrefix, keyNamespace(RefreshTokenKeyPrefix+"abc"))
	assert.Equal(t, "rate_limit:", keyNamespace("rate_limit:auth:203.0.113.9"))
	assert.Equal(t, "", keyNamespace("no-namespace"))
}

func TestRevocationStore_FailsOpen(t *testing.T) {
	store := NewRevocationStore(unreachableRedis(t), logger.Nop())
	ctx := testContext()

	assert.False(t, store.Put(ctx, "k:1", "v", time.Minute))

	_, ok := store.Get(ctx, "k:1")
	assert.False(t, ok)

	assert.False(t, store.Exists(ctx, "k:1"))
	assert.False(t, store.Delete(ctx, "k:1"))

	n, ok := store.Increment(ctx, "k:1", time.Minute)
	assert.False(t, ok)
	assert.Zero(t, n)

	_, ok = store.GetAndDelete(ctx, "k:1")
	assert.False(t, ok)
}

func TestRevocationStore_PutRejectsNonPositiveTTL(t *testing.T) {
	store := NewRevocationStore(unreachableRedis(t), logger.Nop())

	assert.False(t, store.Put(testContext(), "k:1", "v", 0))
	assert.False(t, store.Put(testContext(), "k:1", "v", -time.Second))
}

func TestRevocationStore_Integration(t *testing.T) {
	client := setupTestRedis(t)
	store := NewRevocationStore(client, logger.Nop())
	ctx := testContext()

	t.Run("put get exists delete", func(t *testing.T) {
		key := BlacklistKeyPrefix + "token-a"

		require.True(t, store.Put(ctx, key, "1", time.Minute))
		assert.True(t, store.Exists(ctx, key))

		value, ok := store.Get(ctx, key)
		assert.True(t, ok)
		assert.Equal(t, "1", value)

		ttl := client.TTL(ctx, key).Val()
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)

		assert.True(t, store.Delete(ctx, key))
		assert.False(t, store.Delete(ctx, key))
		assert.False(t, store.Exists(ctx, key))
	})

	t.Run("missing key", func(t *testing.T) {
		_, ok := store.Get(ctx, "missing:key")
		assert.False(t, ok)
	})

	t.Run("get and delete is single use", func(t *testing.T) {
		key := PasswordResetKeyPrefix + "reset-token"
		require.True(t, store.Put(ctx, key, "42", time.Minute))

		value, ok := store.GetAndDelete(ctx, key)
		assert.True(t, ok)
		assert.Equal(t, "42", value)

		_, ok = store.GetAndDelete(ctx, key)
		assert.False(t, ok)
	})

	t.Run("increment keeps first ttl", func(t *testing.T) {
		key := "counter:login"

		n, ok := store.Increment(ctx, key, time.Minute)
		require.True(t, ok)
		assert.Equal(t, int64(1), n)

		n, ok = store.Increment(ctx, key, time.Hour)
		require.True(t, ok)
		assert.Equal(t, int64(2), n)

		ttl := client.TTL(ctx, key).Val()
		assert.Greater(t, ttl, time.Duration(0))
		assert.LessOrEqual(t, ttl, time.Minute)
	})

	t.Run("increment expires after first ttl", func(t *testing.T) {
		key := "counter:short"

		_, ok := store.Increment(ctx, key, 50*time.Millisecond)
		require.True(t, ok)

		require.Eventually(t, func() bool {
			return client.Exists(ctx, key).Val() == 0
		}, time.Second, 10*time.Millisecond)

		n, ok := store.Increment(ctx, key, time.Minute)
		require.True(t, ok)
		assert.Equal(t, int64(1), n)
	})

	t.Run("increment without ttl does not expire", func(t *testing.T) {
		key := "counter:forever"
		t.Cleanup(func() { client.Del(ctx, key) })

		n, ok := store.Increment(ctx, key, 0)
		require.True(t, ok)
		assert.Equal(t, int64(1), n)
		assert.Equal(t, time.Duration(-1), client.TTL(ctx, key).Val())
	})
}
