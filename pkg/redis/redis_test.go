package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradejournal/pkg/config"
)

func disabledClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), config.RedisConfig{Enabled: false})
	require.NoError(t, err)
	return client
}

func TestNewClient_Disabled(t *testing.T) {
	client := disabledClient(t)

	assert.False(t, client.Enabled())
	assert.NoError(t, client.Ping(context.Background()))
	assert.NoError(t, client.Close())
}

func TestNewClient_Unreachable(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping network test in short mode")
	}

	_, err := New(context.Background(), config.RedisConfig{
		Enabled: true,
		Host:    "127.0.0.1",
		Port:    "1",
	})
	assert.Error(t, err)
}

func TestRateLimiter_Disabled(t *testing.T) {
	limiter := NewRateLimiter(disabledClient(t), "test")
	cfg := UserRateLimit("u1", 5, time.Second)

	// When Redis is disabled, all requests should be allowed
	for i := 0; i < 10; i++ {
		allowed, remaining, err := limiter.Allow(context.Background(), cfg)
		require.NoError(t, err)
		assert.True(t, allowed)
		assert.Equal(t, cfg.Limit, remaining)
	}
	assert.False(t, limiter.Enabled())
}

func TestReportCache_Disabled(t *testing.T) {
	cache := NewReportCache(disabledClient(t), "test")
	ctx := context.Background()

	// When Redis is disabled, cache operations should be no-ops
	require.NoError(t, cache.Set(ctx, "key", "value", time.Minute))

	var result string
	found, err := cache.Get(ctx, "key", &result)
	require.NoError(t, err)
	assert.False(t, found)

	gen, err := cache.Generation(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	assert.NoError(t, cache.Invalidate(ctx, "u1"))
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "journal:gen:u1", GenerationKey("u1"))
	assert.Equal(t, "user:u1", UserRateLimit("u1", 1, time.Second).Key)

	cache := NewReportCache(disabledClient(t), "tj")
	assert.Equal(t, "tj:cache:journal:gen:u1", cache.key(GenerationKey("u1")))
}
