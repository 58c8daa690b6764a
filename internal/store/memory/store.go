package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/wonny/tradejournal/internal/contracts"
)

// Store is an in-memory implementation of contracts.Store.
// Records are copied on the way in and out.
type Store struct {
	mu         sync.RWMutex
	trades     map[string]contracts.Trade
	strategies map[string]contracts.Strategy
	snapshots  map[string]map[int64]contracts.PerformanceSnapshot // user → day → snapshot
}

// New creates an empty store
func New() *Store {
	return &Store{
		trades:     make(map[string]contracts.Trade),
		strategies: make(map[string]contracts.Strategy),
		snapshots:  make(map[string]map[int64]contracts.PerformanceSnapshot),
	}
}

// Close is a no-op
func (s *Store) Close() {}

// CreateTrade inserts a trade; the id must be unique
func (s *Store) CreateTrade(_ context.Context, trade *contracts.Trade) error {
	if trade == nil || trade.ID == "" || trade.UserID == "" {
		return contracts.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.trades[trade.ID]; exists {
		return contracts.ErrInvalidArgument
	}
	s.trades[trade.ID] = *trade
	return nil
}

// UpdateTrade replaces a trade owned by trade.UserID
func (s *Store) UpdateTrade(_ context.Context, trade *contracts.Trade) error {
	if trade == nil {
		return contracts.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.trades[trade.ID]
	if !ok || existing.UserID != trade.UserID {
		return contracts.ErrNotFound
	}
	s.trades[trade.ID] = *trade
	return nil
}

// DeleteTrade removes a trade owned by userID
func (s *Store) DeleteTrade(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.trades[id]
	if !ok || existing.UserID != userID {
		return contracts.ErrNotFound
	}
	delete(s.trades, id)
	return nil
}

// GetTrade returns a trade owned by userID
func (s *Store) GetTrade(_ context.Context, userID, id string) (*contracts.Trade, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	trade, ok := s.trades[id]
	if !ok || trade.UserID != userID {
		return nil, contracts.ErrNotFound
	}
	return &trade, nil
}

// FindTrades returns matching trades ordered by date, then id
func (s *Store) FindTrades(_ context.Context, filter contracts.TradeFilter) ([]contracts.Trade, error) {
	s.mu.RLock()
	result := make([]contracts.Trade, 0)
	for _, t := range s.trades {
		if filter.Matches(t) {
			result = append(result, t)
		}
	}
	s.mu.RUnlock()

	asc := filter.Order == contracts.SortAsc
	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if !a.Date.Equal(b.Date) {
			if asc {
				return a.Date.Before(b.Date)
			}
			return a.Date.After(b.Date)
		}
		return a.ID < b.ID
	})

	return page(result, filter.Limit, filter.Offset), nil
}

// CountTrades counts matching trades, ignoring paging
func (s *Store) CountTrades(_ context.Context, filter contracts.TradeFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, t := range s.trades {
		if filter.Matches(t) {
			count++
		}
	}
	return count, nil
}

// CreateStrategy inserts a strategy; the id must be unique
func (s *Store) CreateStrategy(_ context.Context, strategy *contracts.Strategy) error {
	if strategy == nil || strategy.ID == "" || strategy.UserID == "" {
		return contracts.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.strategies[strategy.ID]; exists {
		return contracts.ErrInvalidArgument
	}
	s.strategies[strategy.ID] = *strategy
	return nil
}

// UpdateStrategy replaces a strategy owned by strategy.UserID
func (s *Store) UpdateStrategy(_ context.Context, strategy *contracts.Strategy) error {
	if strategy == nil {
		return contracts.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.strategies[strategy.ID]
	if !ok || existing.UserID != strategy.UserID {
		return contracts.ErrNotFound
	}
	s.strategies[strategy.ID] = *strategy
	return nil
}

// DeleteStrategy removes a strategy and unclassifies its trades
func (s *Store) DeleteStrategy(_ context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.strategies[id]
	if !ok || existing.UserID != userID {
		return contracts.ErrNotFound
	}
	delete(s.strategies, id)

	for tradeID, t := range s.trades {
		if t.StrategyID == id {
			t.StrategyID = ""
			s.trades[tradeID] = t
		}
	}
	return nil
}

// GetStrategy returns a strategy owned by userID
func (s *Store) GetStrategy(_ context.Context, userID, id string) (*contracts.Strategy, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	strategy, ok := s.strategies[id]
	if !ok || strategy.UserID != userID {
		return nil, contracts.ErrNotFound
	}
	return &strategy, nil
}

// FindStrategies returns matching strategies in the requested order
func (s *Store) FindStrategies(_ context.Context, filter contracts.StrategyFilter) ([]contracts.Strategy, error) {
	s.mu.RLock()
	result := make([]contracts.Strategy, 0)
	for _, st := range s.strategies {
		if filter.Matches(st) {
			result = append(result, st)
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		a, b := result[i], result[j]
		if filter.Order == contracts.StrategyByCreated {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID < b.ID
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})

	return page(result, filter.Limit, filter.Offset), nil
}

// CountStrategies counts matching strategies, ignoring paging
func (s *Store) CountStrategies(_ context.Context, filter contracts.StrategyFilter) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, st := range s.strategies {
		if filter.Matches(st) {
			count++
		}
	}
	return count, nil
}

// ListUserIDs returns every user owning at least one trade or strategy
func (s *Store) ListUserIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, t := range s.trades {
		seen[t.UserID] = struct{}{}
	}
	for _, st := range s.strategies {
		seen[st.UserID] = struct{}{}
	}

	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

// SaveSnapshot upserts the snapshot of (user, date)
func (s *Store) SaveSnapshot(_ context.Context, snapshot *contracts.PerformanceSnapshot) error {
	if snapshot == nil || snapshot.UserID == "" {
		return contracts.ErrInvalidArgument
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	byDay, ok := s.snapshots[snapshot.UserID]
	if !ok {
		byDay = make(map[int64]contracts.PerformanceSnapshot)
		s.snapshots[snapshot.UserID] = byDay
	}
	byDay[dayKey(snapshot.Date)] = *snapshot
	return nil
}

// GetSnapshots returns a user's snapshots within [from, to], oldest first
func (s *Store) GetSnapshots(_ context.Context, userID string, from, to time.Time) ([]contracts.PerformanceSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]contracts.PerformanceSnapshot, 0)
	for _, snap := range s.snapshots[userID] {
		if snap.Date.Before(from) || snap.Date.After(to) {
			continue
		}
		result = append(result, snap)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Date.Before(result[j].Date)
	})
	return result, nil
}

func dayKey(t time.Time) int64 {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix()
}

func page[T any](items []T, limit, offset int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return items[:0]
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
