package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/tradejournal/internal/contracts"
	"github.com/wonny/tradejournal/pkg/logger"
)

// Query selects the trade snapshot a report is computed over
type Query struct {
	UserID     string
	DateFrom   *time.Time
	DateTo     *time.Time
	StrategyID string
}

func (q Query) filter(order contracts.SortOrder) contracts.TradeFilter {
	return contracts.TradeFilter{
		UserID:     q.UserID,
		DateFrom:   q.DateFrom,
		DateTo:     q.DateTo,
		StrategyID: q.StrategyID,
		Order:      order,
	}
}

func (q Query) validate() error {
	if q.UserID == "" {
		return fmt.Errorf("user id is required: %w", contracts.ErrInvalidArgument)
	}
	return nil
}

// ReportCache stores computed reports per user.
// Generation changes whenever the user's journal changes.
type ReportCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Generation(ctx context.Context, userID string) (int64, error)
}

// Service loads user-scoped snapshots and reduces them into reports
// ⭐ SSOT: 대시보드 리포트 조회는 여기서만
type Service struct {
	trades     contracts.TradeRepository
	strategies contracts.StrategyRepository
	snapshots  contracts.SnapshotRepository
	calc       *Calculator
	cache      ReportCache
	cacheTTL   time.Duration
	now        func() time.Time
	logger     *logger.Logger
}

// NewService creates a new analytics service
func NewService(trades contracts.TradeRepository, strategies contracts.StrategyRepository, calc *Calculator, log *logger.Logger) *Service {
	return &Service{
		trades:     trades,
		strategies: strategies,
		calc:       calc,
		now:        time.Now,
		logger:     log.WithComponent("analytics"),
	}
}

// WithCache enables dashboard caching
func (s *Service) WithCache(cache ReportCache, ttl time.Duration) *Service {
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

// Calculator returns the reducer used by the service
func (s *Service) Calculator() *Calculator {
	return s.calc
}

// Trades returns the user's trades matching q, newest first.
// Storage errors are returned as-is.
func (s *Service) Trades(ctx context.Context, q Query) ([]contracts.Trade, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	return s.trades.FindTrades(ctx, q.filter(contracts.SortDesc))
}

// Strategies returns the user's strategies ordered by name
func (s *Service) Strategies(ctx context.Context, userID string) ([]contracts.Strategy, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", contracts.ErrInvalidArgument)
	}
	return s.strategies.FindStrategies(ctx, contracts.StrategyFilter{
		UserID: userID,
		Order:  contracts.StrategyByName,
	})
}

// Summary computes the overall analytics for q
func (s *Service) Summary(ctx context.Context, q Query) (contracts.AnalyticsSummary, error) {
	trades, err := s.Trades(ctx, q)
	if err != nil {
		return contracts.AnalyticsSummary{}, err
	}
	return s.calc.Summarize(trades), nil
}

// StrategyPerformance computes the per-strategy breakdown for q
func (s *Service) StrategyPerformance(ctx context.Context, q Query) ([]contracts.StrategyPerformance, error) {
	trades, strategies, err := s.load(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.calc.StrategyBreakdown(trades, strategies), nil
}

// Evolution computes the cumulative result series for q
func (s *Service) Evolution(ctx context.Context, q Query, period Period) ([]contracts.ChartPoint, error) {
	trades, err := s.Trades(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.calc.Evolution(trades, period), nil
}

// Monthly computes the monthly gain/loss series for q
func (s *Service) Monthly(ctx context.Context, q Query) ([]contracts.MonthlyPoint, error) {
	trades, err := s.Trades(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.calc.Monthly(trades), nil
}

// Daily computes the weekday series for q
func (s *Service) Daily(ctx context.Context, q Query) ([]contracts.ChartPoint, error) {
	trades, err := s.Trades(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.calc.Daily(trades), nil
}

// WinLoss computes the win/loss distribution for q
func (s *Service) WinLoss(ctx context.Context, q Query) ([]contracts.WinLossSlice, error) {
	trades, err := s.Trades(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.calc.WinLoss(trades), nil
}

// Dashboard computes every report over a single snapshot.
// Retrieval runs in parallel and any failure aborts the whole report.
func (s *Service) Dashboard(ctx context.Context, q Query, period Period) (*contracts.Dashboard, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}

	key, cached := s.cachedDashboard(ctx, q, period)
	if cached != nil {
		return cached, nil
	}

	start := time.Now()

	trades, strategies, err := s.load(ctx, q)
	if err != nil {
		return nil, err
	}

	dashboard := s.reduce(trades, strategies, period)

	s.logger.WithUser(q.UserID).WithFields(map[string]interface{}{
		"trades":   len(trades),
		"period":   period,
		"duration": time.Since(start),
	}).Debug("Dashboard computed")

	if key != "" {
		if err := s.cache.Set(ctx, key, dashboard, s.cacheTTL); err != nil {
			s.logger.WithError(err).Warn("Failed to cache dashboard")
		}
	}

	return dashboard, nil
}

// load fetches trades and strategies concurrently
func (s *Service) load(ctx context.Context, q Query) ([]contracts.Trade, []contracts.Strategy, error) {
	if err := q.validate(); err != nil {
		return nil, nil, err
	}

	var (
		trades     []contracts.Trade
		strategies []contracts.Strategy
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		trades, err = s.Trades(gctx, q)
		return err
	})
	g.Go(func() error {
		var err error
		strategies, err = s.Strategies(gctx, q.UserID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	return trades, strategies, nil
}

// reduce fans the pure reductions out over the same read-only snapshot
func (s *Service) reduce(trades []contracts.Trade, strategies []contracts.Strategy, period Period) *contracts.Dashboard {
	d := &contracts.Dashboard{}

	var g errgroup.Group
	g.Go(func() error {
		d.Summary = s.calc.Summarize(trades)
		return nil
	})
	g.Go(func() error {
		d.Strategies = s.calc.StrategyBreakdown(trades, strategies)
		return nil
	})
	g.Go(func() error {
		d.Evolution = s.calc.Evolution(trades, period)
		d.Monthly = s.calc.Monthly(trades)
		d.Daily = s.calc.Daily(trades)
		return nil
	})
	g.Go(func() error {
		d.WinLoss = s.calc.WinLoss(trades)
		return nil
	})
	_ = g.Wait()

	return d
}

// cachedDashboard returns the cache key to use and a cached report if present.
// Cache failures degrade to computing the report.
func (s *Service) cachedDashboard(ctx context.Context, q Query, period Period) (string, *contracts.Dashboard) {
	if s.cache == nil {
		return "", nil
	}

	gen, err := s.cache.Generation(ctx, q.UserID)
	if err != nil {
		s.logger.WithError(err).Warn("Report cache generation lookup failed")
		return "", nil
	}

	key := DashboardKey(q, period, gen)

	var d contracts.Dashboard
	found, err := s.cache.Get(ctx, key, &d)
	if err != nil {
		s.logger.WithError(err).Warn("Report cache read failed")
		return key, nil
	}
	if !found {
		return key, nil
	}

	return key, &d
}

// DashboardKey identifies a cached dashboard for a journal generation
func DashboardKey(q Query, period Period, generation int64) string {
	return fmt.Sprintf("dashboard:%s:g%d:%s:%s:%s:%s",
		q.UserID, generation, formatBound(q.DateFrom), formatBound(q.DateTo), q.StrategyID, period)
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339)
}
