package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/tradejournal/internal/analytics"
	"github.com/wonny/tradejournal/internal/contracts"
	"github.com/wonny/tradejournal/pkg/logger"
)

// snapshotConcurrency bounds the users summarized at once
const snapshotConcurrency = 4

// SnapshotJob stores every user's all-time summary once a day
type SnapshotJob struct {
	trades    contracts.TradeRepository
	snapshots contracts.SnapshotRepository
	calc      *analytics.Calculator
	schedule  string
	now       func() time.Time
	logger    *logger.Logger
}

// NewSnapshotJob creates a new performance snapshot job
func NewSnapshotJob(trades contracts.TradeRepository, snapshots contracts.SnapshotRepository, calc *analytics.Calculator, schedule string, log *logger.Logger) *SnapshotJob {
	return &SnapshotJob{
		trades:    trades,
		snapshots: snapshots,
		calc:      calc,
		schedule:  schedule,
		now:       time.Now,
		logger:    log.WithComponent("snapshot"),
	}
}

// Name returns the job name
func (j *SnapshotJob) Name() string {
	return "performance_snapshot"
}

// Schedule returns the cron schedule
func (j *SnapshotJob) Schedule() string {
	return j.schedule
}

// Run summarizes each user independently; one failing user does not stop the rest
func (j *SnapshotJob) Run(ctx context.Context) error {
	users, err := j.snapshots.ListUserIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	now := j.now().In(j.calc.Location())
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	var (
		mu   sync.Mutex
		errs []error
	)

	var g errgroup.Group
	g.SetLimit(snapshotConcurrency)

	for _, userID := range users {
		userID := userID
		g.Go(func() error {
			if err := j.snapshotUser(ctx, userID, date); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("user %s: %w", userID, err))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	j.logger.WithFields(map[string]interface{}{
		"users":  len(users),
		"failed": len(errs),
		"date":   date.Format("2006-01-02"),
	}).Info("Performance snapshots stored")

	return errors.Join(errs...)
}

func (j *SnapshotJob) snapshotUser(ctx context.Context, userID string, date time.Time) error {
	trades, err := j.trades.FindTrades(ctx, contracts.TradeFilter{
		UserID: userID,
		Order:  contracts.SortAsc,
	})
	if err != nil {
		return err
	}

	return j.snapshots.SaveSnapshot(ctx, &contracts.PerformanceSnapshot{
		UserID:  userID,
		Date:    date,
		Summary: j.calc.Summarize(trades),
	})
}
