package commands

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"

	"github.com/wonny/tradejournal/internal/analytics"
	"github.com/wonny/tradejournal/internal/api/handlers"
	"github.com/wonny/tradejournal/internal/cache"
	"github.com/wonny/tradejournal/internal/contracts"
	"github.com/wonny/tradejournal/internal/journal"
	"github.com/wonny/tradejournal/internal/store/memory"
	"github.com/wonny/tradejournal/internal/store/postgres"
	"github.com/wonny/tradejournal/pkg/config"
	"github.com/wonny/tradejournal/pkg/database"
	"github.com/wonny/tradejournal/pkg/logger"
	"github.com/wonny/tradejournal/pkg/redis"
)

// cachePrefix namespaces every Redis key of this service
const cachePrefix = "tradejournal"

// app holds the wired dependencies shared by the commands
type app struct {
	cfg   *config.Config
	log   *logger.Logger
	db    *database.DB // nil with the memory store
	redis *redis.Client
	store contracts.Store

	// localCache serves reports when Redis is disabled
	localCache *cache.ReportCache

	journal   *journal.Service
	analytics *analytics.Service
}

// loadConfig reads --config (if set) then the environment
func loadConfig() (*config.Config, error) {
	if configFile != "" {
		if err := godotenv.Load(configFile); err != nil {
			return nil, fmt.Errorf("load %s: %w", configFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// newApp connects the configured backends and builds the services
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg: cfg,
		log: logger.New(cfg),
	}

	// 1. Record store
	switch cfg.Store {
	case config.StoreMemory:
		a.store = memory.New()
		a.log.Warn("Using in-memory store; records are lost on exit")
	default:
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		a.store = postgres.New(db.Pool)
		a.log.Info("Connected to database")
	}

	// 2. Redis (optional)
	rc, err := redis.New(ctx, cfg.Redis)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	a.redis = rc

	// 3. Services
	calc := analytics.NewCalculator(cfg.Report.Location(), cfg.Report.WeekStart)
	a.analytics = analytics.NewService(a.store, a.store, calc, a.log).WithSnapshots(a.store)
	a.journal = journal.NewService(a.store, a.store, calc.Location(), a.log)

	if rc.Enabled() {
		shared := redis.NewReportCache(rc, cachePrefix)
		a.analytics.WithCache(shared, cfg.Report.CacheTTL)
		a.journal.WithInvalidator(shared)
		a.log.Info("Redis report cache enabled")
	} else {
		a.localCache = cache.NewReportCache(a.log)
		a.analytics.WithCache(a.localCache, cfg.Report.CacheTTL)
		a.journal.WithInvalidator(a.localCache)
	}

	return a, nil
}

// healthChecks lists the dependencies /health reports on
func (a *app) healthChecks() map[string]handlers.HealthChecker {
	checks := make(map[string]handlers.HealthChecker)
	if a.db != nil {
		checks["database"] = a.db
	}
	if a.redis != nil && a.redis.Enabled() {
		checks["redis"] = a.redis
	}
	return checks
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
	if a.store != nil {
		a.store.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}
