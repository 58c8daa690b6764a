package contracts

import (
	"context"
	"time"
)

// ⭐ SSOT: Repository 인터페이스 정의는 여기서만

// TradeRepository manages trade records.
// Get/Update/Delete are scoped by user id; another user's record is ErrNotFound.
type TradeRepository interface {
	CreateTrade(ctx context.Context, trade *Trade) error
	UpdateTrade(ctx context.Context, trade *Trade) error
	DeleteTrade(ctx context.Context, userID, id string) error
	GetTrade(ctx context.Context, userID, id string) (*Trade, error)
	FindTrades(ctx context.Context, filter TradeFilter) ([]Trade, error)
	CountTrades(ctx context.Context, filter TradeFilter) (int, error)
}

// StrategyRepository manages strategy records
type StrategyRepository interface {
	CreateStrategy(ctx context.Context, strategy *Strategy) error
	UpdateStrategy(ctx context.Context, strategy *Strategy) error
	DeleteStrategy(ctx context.Context, userID, id string) error
	GetStrategy(ctx context.Context, userID, id string) (*Strategy, error)
	FindStrategies(ctx context.Context, filter StrategyFilter) ([]Strategy, error)
	CountStrategies(ctx context.Context, filter StrategyFilter) (int, error)
}

// SnapshotRepository persists daily performance snapshots
type SnapshotRepository interface {
	ListUserIDs(ctx context.Context) ([]string, error)
	SaveSnapshot(ctx context.Context, snapshot *PerformanceSnapshot) error
	GetSnapshots(ctx context.Context, userID string, from, to time.Time) ([]PerformanceSnapshot, error)
}

// Store groups every repository a backend provides
type Store interface {
	TradeRepository
	StrategyRepository
	SnapshotRepository
	Close()
}
