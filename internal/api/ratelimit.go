package api

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/wonny/tradejournal/pkg/redis"
)

// Limiter decides whether a user may issue another request
type Limiter interface {
	Allow(ctx context.Context, userID string) (bool, error)
}

// LocalLimiter keeps one token bucket per user in process memory
type LocalLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	limit   rate.Limit
	burst   int
}

// NewLocalLimiter allows perSecond requests per user with the given burst
func NewLocalLimiter(perSecond, burst int) *LocalLimiter {
	if burst < perSecond {
		burst = perSecond
	}
	return &LocalLimiter{
		buckets: make(map[string]*rate.Limiter),
		limit:   rate.Limit(perSecond),
		burst:   burst,
	}
}

// Allow takes one token from the user's bucket
func (l *LocalLimiter) Allow(_ context.Context, userID string) (bool, error) {
	l.mu.Lock()
	b, ok := l.buckets[userID]
	if !ok {
		b = rate.NewLimiter(l.limit, l.burst)
		l.buckets[userID] = b
	}
	l.mu.Unlock()

	return b.Allow(), nil
}

// RedisLimiter shares a sliding window per user across API instances
type RedisLimiter struct {
	limiter *redis.RateLimiter
	limit   int
	window  time.Duration
}

// NewRedisLimiter allows limit requests per user within window
func NewRedisLimiter(limiter *redis.RateLimiter, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{limiter: limiter, limit: limit, window: window}
}

// Allow records the request in the user's window
func (l *RedisLimiter) Allow(ctx context.Context, userID string) (bool, error) {
	allowed, _, err := l.limiter.Allow(ctx, redis.UserRateLimit(userID, l.limit, l.window))
	return allowed, err
}

// NewLimiter picks the shared Redis window when Redis is enabled and a
// local token bucket otherwise. A non-positive perSecond disables limiting.
func NewLimiter(client *redis.Client, perSecond, burst int) Limiter {
	if perSecond <= 0 {
		return nil
	}
	if client != nil && client.Enabled() {
		if burst < perSecond {
			burst = perSecond
		}
		return NewRedisLimiter(redis.NewRateLimiter(client, "tradejournal"), burst, time.Second)
	}
	return NewLocalLimiter(perSecond, burst)
}
