package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a live server; set REDIS_TEST_ADDR (e.g. localhost:6379) to enable.
func TestAttemptLimiter_FixedWindow(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}

	ctx := context.Background()
	client, err := Connect(ctx, Config{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	limiter := NewAttemptLimiter(client, 3, time.Minute)
	key := "test:" + uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, limiterPrefix+key) })

	for i := 0; i < 3; i++ {
		ok, err := limiter.Allow(ctx, key)
		require.NoError(t, err)
		assert.True(t, ok, "attempt %d should be allowed", i+1)
	}

	ok, err := limiter.Allow(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "fourth attempt must be refused")

	ttl, err := client.TTL(ctx, limiterPrefix+key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	// Other keys have their own window.
	ok, err = limiter.Allow(ctx, key+"-other")
	require.NoError(t, err)
	assert.True(t, ok)
	client.Del(ctx, limiterPrefix+key+"-other")
}
