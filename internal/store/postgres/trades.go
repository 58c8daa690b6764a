package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/tradejournal/internal/contracts"
)

const tradeColumns = `id, user_id, strategy_id, stock_type, in_time, out_time,
	quantity, men, mep, result, date, created_at, updated_at`

// CreateTrade inserts a trade
func (s *Store) CreateTrade(ctx context.Context, t *contracts.Trade) error {
	query := `
		INSERT INTO journal.trades (` + tradeColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := s.pool.Exec(ctx, query,
		t.ID, t.UserID, nullable(t.StrategyID), t.StockType, t.InTime, t.OutTime,
		t.Quantity, t.MEN, t.MEP, t.Result, t.Date, t.CreatedAt, t.UpdatedAt,
	)
	return mapError(err, "insert trade")
}

// UpdateTrade replaces a trade owned by t.UserID
func (s *Store) UpdateTrade(ctx context.Context, t *contracts.Trade) error {
	query := `
		UPDATE journal.trades SET
			strategy_id = $3,
			stock_type = $4,
			in_time = $5,
			out_time = $6,
			quantity = $7,
			men = $8,
			mep = $9,
			result = $10,
			date = $11,
			updated_at = $12
		WHERE id = $1 AND user_id = $2
	`

	tag, err := s.pool.Exec(ctx, query,
		t.ID, t.UserID, nullable(t.StrategyID), t.StockType, t.InTime, t.OutTime,
		t.Quantity, t.MEN, t.MEP, t.Result, t.Date, t.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "update trade")
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}
	return nil
}

// DeleteTrade removes a trade owned by userID
func (s *Store) DeleteTrade(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM journal.trades WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapError(err, "delete trade")
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}
	return nil
}

// GetTrade returns a trade owned by userID
func (s *Store) GetTrade(ctx context.Context, userID, id string) (*contracts.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM journal.trades WHERE id = $1 AND user_id = $2`

	t, err := scanTrade(s.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, mapError(err, "get trade")
	}
	return t, nil
}

// FindTrades returns matching trades ordered by date, then id
func (s *Store) FindTrades(ctx context.Context, filter contracts.TradeFilter) ([]contracts.Trade, error) {
	w := tradeWhere(filter)

	order := "DESC"
	if filter.Order == contracts.SortAsc {
		order = "ASC"
	}

	query := fmt.Sprintf(`SELECT %s FROM journal.trades %s ORDER BY date %s, id ASC`,
		tradeColumns, w.String(), order)
	query += w.paging(filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trades: %w", err)
	}
	defer rows.Close()

	trades := make([]contracts.Trade, 0)
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trade: %w", err)
		}
		trades = append(trades, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate trades: %w", err)
	}

	return trades, nil
}

// CountTrades counts matching trades, ignoring paging
func (s *Store) CountTrades(ctx context.Context, filter contracts.TradeFilter) (int, error) {
	w := tradeWhere(filter)

	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM journal.trades `+w.String(), w.args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count trades: %w", err)
	}
	return count, nil
}

func tradeWhere(f contracts.TradeFilter) *where {
	w := &where{}
	w.add("user_id = ?", f.UserID)

	if f.DateFrom != nil {
		w.add("date >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		w.add("date <= ?", *f.DateTo)
	}
	if f.WithoutStrategy {
		w.addRaw("strategy_id IS NULL")
	} else if f.StrategyID != "" {
		w.add("strategy_id = ?", f.StrategyID)
	}
	if f.Search != "" {
		w.add(`stock_type ILIKE '%' || ? || '%'`, escapeLike(f.Search))
	}
	switch f.Result {
	case contracts.ResultProfit:
		w.addRaw("result > 0")
	case contracts.ResultLoss:
		w.addRaw("result <= 0")
	}

	return w
}

func scanTrade(row pgx.Row) (*contracts.Trade, error) {
	var (
		t          contracts.Trade
		strategyID *string
	)
	err := row.Scan(
		&t.ID, &t.UserID, &strategyID, &t.StockType, &t.InTime, &t.OutTime,
		&t.Quantity, &t.MEN, &t.MEP, &t.Result, &t.Date, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	t.StrategyID = deref(strategyID)
	return &t, nil
}
