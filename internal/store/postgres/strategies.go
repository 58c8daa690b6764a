package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/wonny/tradejournal/internal/contracts"
)

const strategyColumns = `id, user_id, name, direction, description, created_at, updated_at`

// CreateStrategy inserts a strategy
func (s *Store) CreateStrategy(ctx context.Context, st *contracts.Strategy) error {
	query := `
		INSERT INTO journal.strategies (` + strategyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.pool.Exec(ctx, query,
		st.ID, st.UserID, st.Name, st.Direction, st.Description, st.CreatedAt, st.UpdatedAt,
	)
	return mapError(err, "insert strategy")
}

// UpdateStrategy replaces a strategy owned by st.UserID
func (s *Store) UpdateStrategy(ctx context.Context, st *contracts.Strategy) error {
	query := `
		UPDATE journal.strategies SET
			name = $3,
			direction = $4,
			description = $5,
			updated_at = $6
		WHERE id = $1 AND user_id = $2
	`

	tag, err := s.pool.Exec(ctx, query,
		st.ID, st.UserID, st.Name, st.Direction, st.Description, st.UpdatedAt,
	)
	if err != nil {
		return mapError(err, "update strategy")
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}
	return nil
}

// DeleteStrategy removes a strategy; its trades become unclassified
func (s *Store) DeleteStrategy(ctx context.Context, userID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM journal.strategies WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return mapError(err, "delete strategy")
	}
	if tag.RowsAffected() == 0 {
		return contracts.ErrNotFound
	}
	return nil
}

// GetStrategy returns a strategy owned by userID
func (s *Store) GetStrategy(ctx context.Context, userID, id string) (*contracts.Strategy, error) {
	query := `SELECT ` + strategyColumns + ` FROM journal.strategies WHERE id = $1 AND user_id = $2`

	st, err := scanStrategy(s.pool.QueryRow(ctx, query, id, userID))
	if err != nil {
		return nil, mapError(err, "get strategy")
	}
	return st, nil
}

// FindStrategies returns matching strategies in the requested order
func (s *Store) FindStrategies(ctx context.Context, filter contracts.StrategyFilter) ([]contracts.Strategy, error) {
	w := strategyWhere(filter)

	order := `name COLLATE "C" ASC, id ASC`
	if filter.Order == contracts.StrategyByCreated {
		order = `created_at DESC, id ASC`
	}

	query := fmt.Sprintf(`SELECT %s FROM journal.strategies %s ORDER BY %s`,
		strategyColumns, w.String(), order)
	query += w.paging(filter.Limit, filter.Offset)

	rows, err := s.pool.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query strategies: %w", err)
	}
	defer rows.Close()

	strategies := make([]contracts.Strategy, 0)
	for rows.Next() {
		st, err := scanStrategy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan strategy: %w", err)
		}
		strategies = append(strategies, *st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate strategies: %w", err)
	}

	return strategies, nil
}

// CountStrategies counts matching strategies, ignoring paging
func (s *Store) CountStrategies(ctx context.Context, filter contracts.StrategyFilter) (int, error) {
	w := strategyWhere(filter)

	var count int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM journal.strategies `+w.String(), w.args...).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count strategies: %w", err)
	}
	return count, nil
}

func strategyWhere(f contracts.StrategyFilter) *where {
	w := &where{}
	w.add("user_id = ?", f.UserID)
	if f.NamePrefix != "" {
		w.add(`name LIKE ? || '%'`, escapeLike(f.NamePrefix))
	}
	return w
}

func scanStrategy(row pgx.Row) (*contracts.Strategy, error) {
	var st contracts.Strategy
	err := row.Scan(
		&st.ID, &st.UserID, &st.Name, &st.Direction, &st.Description, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
