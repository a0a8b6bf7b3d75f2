package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unreachableRedis(t *testing.T) *RedisCache {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	rc := NewRedisCacheWithClient(client, "semidash", time.Hour)
	t.Cleanup(func() { _ = rc.Close() })
	return rc
}

func TestRedisCache_WrapKey(t *testing.T) {
	rc := unreachableRedis(t)
	assert.Equal(t, "semidash:"+SanitizeKey("snapshot:dram"), rc.wrapKey("snapshot:dram"))
	assert.Equal(t, []string{"semidash:a", "semidash:" + SanitizeKey("b/c")}, rc.wrapKeys("a", "b/c"))
}

func TestStore_RedisDownFallsBackToMemory(t *testing.T) {
	rc := unreachableRedis(t)
	store := NewStore[string](rc)
	ctx := context.Background()

	store.Set(ctx, "snapshot:dram", "payload")

	got, ok := store.Get(ctx, "snapshot:dram")
	require.True(t, ok)
	assert.Equal(t, "payload", got)

	store.Invalidate(ctx, "snapshot:dram")
	_, ok = store.Get(ctx, "snapshot:dram")
	assert.False(t, ok)
}

func TestNewRedisCache_PingFails(t *testing.T) {
	_, err := NewRedisCache(WithRedisAddr("127.0.0.1:1"), WithRedisPool(1, 0, 50*time.Millisecond))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}
