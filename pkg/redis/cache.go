package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ReportCache stores computed reports and per-user journal generations.
// Bumping a user's generation orphans every report cached under the old one.
// ⭐ SSOT: 리포트 캐시는 여기서만
type ReportCache struct {
	client *Client
	prefix string
}

// NewReportCache creates a report cache under prefix
func NewReportCache(client *Client, prefix string) *ReportCache {
	return &ReportCache{
		client: client,
		prefix: prefix,
	}
}

func (c *ReportCache) key(key string) string {
	return fmt.Sprintf("%s:cache:%s", c.prefix, key)
}

// Get retrieves a cached value; a missing key is a miss, not an error
func (c *ReportCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if !c.client.Enabled() {
		return false, nil
	}

	data, err := c.client.Redis().Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get failed: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("cache unmarshal failed: %w", err)
	}

	return true, nil
}

// Set stores a value in cache with TTL
func (c *ReportCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if !c.client.Enabled() {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal failed: %w", err)
	}

	return c.client.Redis().Set(ctx, c.key(key), data, ttl).Err()
}

// Generation returns the user's journal generation; unknown users are at 0
func (c *ReportCache) Generation(ctx context.Context, userID string) (int64, error) {
	if !c.client.Enabled() {
		return 0, nil
	}

	gen, err := c.client.Redis().Get(ctx, c.key(GenerationKey(userID))).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("generation lookup failed: %w", err)
	}
	return gen, nil
}

// Invalidate bumps the user's generation after a journal write
func (c *ReportCache) Invalidate(ctx context.Context, userID string) error {
	if !c.client.Enabled() {
		return nil
	}

	key := c.key(GenerationKey(userID))
	pipe := c.client.Redis().TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, TTLGeneration)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("generation bump failed: %w", err)
	}
	return nil
}

// Predefined TTLs
const (
	TTLReport     = 1 * time.Minute // 대시보드 리포트
	TTLGeneration = 30 * 24 * time.Hour
)

// GenerationKey is the counter bumped on every write to a user's journal
func GenerationKey(userID string) string {
	return fmt.Sprintf("journal:gen:%s", userID)
}
