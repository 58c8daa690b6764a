package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/wonny/tradejournal/internal/contracts"
)

// ListUserIDs returns every user owning at least one trade or strategy
func (s *Store) ListUserIDs(ctx context.Context) ([]string, error) {
	query := `
		SELECT user_id FROM journal.trades
		UNION
		SELECT user_id FROM journal.strategies
		ORDER BY user_id
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// SaveSnapshot upserts the snapshot of (user, date)
func (s *Store) SaveSnapshot(ctx context.Context, snapshot *contracts.PerformanceSnapshot) error {
	if snapshot == nil || snapshot.UserID == "" {
		return contracts.ErrInvalidArgument
	}

	summaryJSON, err := json.Marshal(snapshot.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	query := `
		INSERT INTO journal.performance_snapshots (user_id, date, summary)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, date) DO UPDATE SET
			summary = EXCLUDED.summary,
			created_at = NOW()
	`

	if _, err := s.pool.Exec(ctx, query, snapshot.UserID, snapshotDate(snapshot.Date), summaryJSON); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// GetSnapshots returns a user's snapshots within [from, to], oldest first
func (s *Store) GetSnapshots(ctx context.Context, userID string, from, to time.Time) ([]contracts.PerformanceSnapshot, error) {
	query := `
		SELECT user_id, date, summary
		FROM journal.performance_snapshots
		WHERE user_id = $1 AND date >= $2 AND date <= $3
		ORDER BY date ASC
	`

	rows, err := s.pool.Query(ctx, query, userID, snapshotDate(from), snapshotDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]contracts.PerformanceSnapshot, 0)
	for rows.Next() {
		var (
			snap        contracts.PerformanceSnapshot
			summaryJSON []byte
		)
		if err := rows.Scan(&snap.UserID, &snap.Date, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		if err := json.Unmarshal(summaryJSON, &snap.Summary); err != nil {
			return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	return snapshots, nil
}

// snapshotDate truncates t to its UTC calendar day
func snapshotDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
