package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/wonny/tradejournal/pkg/logger"
)

// entry is one cached report, stored encoded so callers never share values
type entry struct {
	data    []byte
	expires time.Time
}

// ReportCache is an in-process report cache used when Redis is disabled.
// It follows the same generation scheme as the Redis cache: Invalidate bumps
// the user's generation so reports keyed under the old one are never read again.
// ⭐ SSOT: 로컬 리포트 캐싱은 이 구조체에서만
type ReportCache struct {
	mu          sync.RWMutex
	entries     map[string]entry
	generations map[string]int64
	now         func() time.Time
	logger      *logger.Logger
}

// NewReportCache creates a new in-process report cache
func NewReportCache(log *logger.Logger) *ReportCache {
	return &ReportCache{
		entries:     make(map[string]entry),
		generations: make(map[string]int64),
		now:         time.Now,
		logger:      log.WithComponent("report_cache"),
	}
}

// Get decodes the cached value into dest; expired entries are misses
func (c *ReportCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	c.mu.RLock()
	e, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || c.now().After(e.expires) {
		return false, nil
	}

	if err := json.Unmarshal(e.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores value for ttl
func (c *ReportCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.entries[key] = entry{data: data, expires: c.now().Add(ttl)}
	c.mu.Unlock()

	return nil
}

// Generation returns the user's current journal generation
func (c *ReportCache) Generation(_ context.Context, userID string) (int64, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.generations[userID], nil
}

// Invalidate bumps the user's generation
func (c *ReportCache) Invalidate(_ context.Context, userID string) error {
	c.mu.Lock()
	c.generations[userID]++
	c.mu.Unlock()

	c.logger.WithUser(userID).Debug("Invalidated cached reports")
	return nil
}

// Len returns the number of entries in cache, expired ones included
func (c *ReportCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// CleanStale removes expired entries from cache
func (c *ReportCache) CleanStale() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	count := 0

	for key, e := range c.entries {
		if now.After(e.expires) {
			delete(c.entries, key)
			count++
		}
	}

	if count > 0 {
		c.logger.WithField("count", count).Info("Cleaned stale reports from cache")
	}

	return count
}

// Stats returns cache statistics
func (c *ReportCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := CacheStats{
		TotalCount: len(c.entries),
		UserCount:  len(c.generations),
	}

	now := c.now()
	for _, e := range c.entries {
		if now.After(e.expires) {
			stats.StaleCount++
		}
		stats.Bytes += len(e.data)
	}

	return stats
}

// CacheStats represents cache statistics
type CacheStats struct {
	TotalCount int `json:"total_count"`
	StaleCount int `json:"stale_count"`
	UserCount  int `json:"user_count"` // users with a bumped generation
	Bytes      int `json:"bytes"`
}
