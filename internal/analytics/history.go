package analytics

import (
	"context"
	"time"

	"github.com/wonny/tradejournal/internal/contracts"
)

// defaultHistoryDays is the window returned when no range is given
const defaultHistoryDays = 30

// WithSnapshots enables the snapshot history report
func (s *Service) WithSnapshots(snapshots contracts.SnapshotRepository) *Service {
	s.snapshots = snapshots
	return s
}

// History returns the stored daily summaries of q.UserID within q's date range
// (the last 30 days by default), oldest first. StrategyID is ignored since
// snapshots cover the whole journal.
func (s *Service) History(ctx context.Context, q Query) ([]contracts.HistoryPoint, error) {
	if err := q.validate(); err != nil {
		return nil, err
	}
	if s.snapshots == nil {
		return []contracts.HistoryPoint{}, nil
	}

	from, to := s.historyRange(q)
	snaps, err := s.snapshots.GetSnapshots(ctx, q.UserID, from, to)
	if err != nil {
		return nil, err
	}

	points := make([]contracts.HistoryPoint, 0, len(snaps))
	for i, snap := range snaps {
		point := contracts.HistoryPoint{
			Date:        snap.Date.UTC().Format("2006-01-02"),
			TotalTrades: snap.Summary.TotalTrades,
			TotalProfit: snap.Summary.TotalProfit,
			WinRate:     snap.Summary.WinRate,
		}
		if i > 0 {
			point.Change = round2(snap.Summary.TotalProfit - snaps[i-1].Summary.TotalProfit)
		}
		points = append(points, point)
	}

	return points, nil
}

// historyRange maps q's local bounds onto snapshot dates (UTC midnight of the local day)
func (s *Service) historyRange(q Query) (time.Time, time.Time) {
	asDate := func(t time.Time) time.Time {
		y, m, d := t.In(s.calc.Location()).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	to := asDate(s.now())
	if q.DateTo != nil {
		to = asDate(*q.DateTo)
	}

	from := to.AddDate(0, 0, -(defaultHistoryDays - 1))
	if q.DateFrom != nil {
		from = asDate(*q.DateFrom)
	}

	return from, to
}
