package journal

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wonny/tradejournal/internal/contracts"
	"github.com/wonny/tradejournal/pkg/logger"
)

// Invalidator drops a user's cached reports after a write
type Invalidator interface {
	Invalidate(ctx context.Context, userID string) error
}

// Paging defaults
const (
	DefaultTradePageSize    = 10
	DefaultStrategyPageSize = 6
	MaxPageSize             = 100
)

// Service manages a user's trades and strategies
// ⭐ SSOT: 매매일지 쓰기는 여기서만 (검증 + 소유권 + 캐시 무효화)
type Service struct {
	trades      contracts.TradeRepository
	strategies  contracts.StrategyRepository
	invalidator Invalidator
	loc         *time.Location
	now         func() time.Time
	newID       func() string
	logger      *logger.Logger
}

// NewService creates a journal service; trade dates are read in loc
func NewService(trades contracts.TradeRepository, strategies contracts.StrategyRepository, loc *time.Location, log *logger.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		trades:     trades,
		strategies: strategies,
		loc:        loc,
		now:        time.Now,
		newID:      func() string { return uuid.New().String() },
		logger:     log.WithComponent("journal"),
	}
}

// WithInvalidator sets the cache invalidated on every write
func (s *Service) WithInvalidator(inv Invalidator) *Service {
	s.invalidator = inv
	return s
}

// Location returns the location trade dates are parsed in
func (s *Service) Location() *time.Location {
	return s.loc
}

// invalidate never fails the write; a stale entry expires with its TTL
func (s *Service) invalidate(ctx context.Context, userID string) {
	if s.invalidator == nil {
		return
	}
	if err := s.invalidator.Invalidate(ctx, userID); err != nil {
		s.logger.WithUser(userID).WithError(err).Warn("Failed to invalidate report cache")
	}
}

func requireUser(userID string) error {
	if userID == "" {
		return fmt.Errorf("user id is required: %w", contracts.ErrInvalidArgument)
	}
	return nil
}

// pageBounds normalizes a 1-based page and its size into limit/offset
func pageBounds(page, size, defaultSize int) (int, int, int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = defaultSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return page, size, size, (page - 1) * size
}
