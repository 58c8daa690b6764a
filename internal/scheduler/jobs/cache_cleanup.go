package jobs

import (
	"context"

	"github.com/wonny/tradejournal/pkg/logger"
)

// Cleaner drops expired cache entries
type Cleaner interface {
	CleanStale() int
}

// CacheCleanupJob sweeps expired reports from the in-process cache
type CacheCleanupJob struct {
	cache    Cleaner
	schedule string
	logger   *logger.Logger
}

// NewCacheCleanupJob creates a new cache cleanup job running every 5 minutes
func NewCacheCleanupJob(cache Cleaner, log *logger.Logger) *CacheCleanupJob {
	return &CacheCleanupJob{
		cache:    cache,
		schedule: "0 */5 * * * *",
		logger:   log.WithComponent("cache_cleanup"),
	}
}

// Name returns the job name
func (j *CacheCleanupJob) Name() string {
	return "cache_cleanup"
}

// Schedule returns the cron schedule
func (j *CacheCleanupJob) Schedule() string {
	return j.schedule
}

// Run executes the job
func (j *CacheCleanupJob) Run(ctx context.Context) error {
	removed := j.cache.CleanStale()
	j.logger.WithField("removed", removed).Debug("Cache cleanup finished")
	return nil
}
