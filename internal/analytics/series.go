package analytics

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/wonny/tradejournal/internal/contracts"
)

// Period is the granularity of the evolution series
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ParsePeriod maps a query value to a Period; empty means day
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, nil
	case PeriodWeek:
		return PeriodWeek, nil
	case PeriodMonth:
		return PeriodMonth, nil
	}
	return "", fmt.Errorf("period %q must be day, week or month: %w", s, contracts.ErrInvalidArgument)
}

// Chart colors of the win/loss distribution
const (
	GainColor = "#10b981"
	LossColor = "#ef4444"
)

const (
	dayLabel   = "2006-01-02"
	monthLabel = "Jan 2006"
)

// sortedByDate returns an ascending copy; the input is left untouched
func sortedByDate(trades []contracts.Trade) []contracts.Trade {
	sorted := make([]contracts.Trade, len(trades))
	copy(sorted, trades)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

func (c *Calculator) bucket(t time.Time, period Period) (time.Time, string) {
	switch period {
	case PeriodMonth:
		start := c.monthStart(t)
		return start, start.Format(monthLabel)
	case PeriodWeek:
		start := c.weekStartOf(t)
		return start, start.Format(dayLabel)
	default:
		start := c.dayStart(t)
		return start, start.Format(dayLabel)
	}
}

// Evolution returns the cumulative result over time.
// Each bucket holds the running total at the last trade that fell into it.
func (c *Calculator) Evolution(trades []contracts.Trade, period Period) []contracts.ChartPoint {
	if len(trades) == 0 {
		return []contracts.ChartPoint{}
	}

	points := make([]contracts.ChartPoint, 0)
	index := make(map[int64]int)
	cumulative := 0.0

	for _, trade := range sortedByDate(trades) {
		cumulative += trade.Result
		start, label := c.bucket(trade.Date, period)
		key := start.Unix()

		if i, ok := index[key]; ok {
			points[i].Value = round2(cumulative)
			continue
		}
		index[key] = len(points)
		points = append(points, contracts.ChartPoint{Name: label, Value: round2(cumulative)})
	}

	return points
}

// Monthly returns gain and loss totals per month, oldest first.
// Net is computed from magnitudes before loss is negated for display.
func (c *Calculator) Monthly(trades []contracts.Trade) []contracts.MonthlyPoint {
	if len(trades) == 0 {
		return []contracts.MonthlyPoint{}
	}

	type bucket struct {
		label string
		gain  float64
		loss  float64 // magnitude
	}

	order := make([]int64, 0)
	buckets := make(map[int64]*bucket)

	for _, trade := range sortedByDate(trades) {
		start, label := c.bucket(trade.Date, PeriodMonth)
		key := start.Unix()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{label: label}
			buckets[key] = b
			order = append(order, key)
		}
		if trade.IsGain() {
			b.gain += trade.Result
		} else {
			b.loss += math.Abs(trade.Result)
		}
	}

	points := make([]contracts.MonthlyPoint, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		points = append(points, contracts.MonthlyPoint{
			Name: b.label,
			Gain: round2(b.gain),
			Loss: negate(round2(b.loss)),
			Net:  round2(b.gain - b.loss),
		})
	}

	return points
}

// negate flips sign without producing -0
func negate(v float64) float64 {
	if v == 0 {
		return 0
	}
	return -v
}

// Daily sums results per weekday, always covering Sunday through Saturday
func (c *Calculator) Daily(trades []contracts.Trade) []contracts.ChartPoint {
	if len(trades) == 0 {
		return []contracts.ChartPoint{}
	}

	var sums [7]float64
	for _, trade := range trades {
		sums[trade.Date.In(c.loc).Weekday()] += trade.Result
	}

	points := make([]contracts.ChartPoint, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		points[d] = contracts.ChartPoint{
			Name:  d.String()[:3],
			Value: round2(sums[d]),
		}
	}

	return points
}

// WinLoss returns the gain and loss shares as integer percentages.
// Each share is rounded on its own, so they may not add up to 100.
func (c *Calculator) WinLoss(trades []contracts.Trade) []contracts.WinLossSlice {
	gainPct, lossPct := 0.0, 0.0

	if len(trades) > 0 {
		t := tallyTrades(trades)
		total := float64(t.total)
		gainPct = math.Round(float64(t.gains) / total * 100)
		lossPct = math.Round(float64(t.losses) / total * 100)
	}

	return []contracts.WinLossSlice{
		{Name: "Gain", Value: gainPct, Color: GainColor},
		{Name: "Loss", Value: lossPct, Color: LossColor},
	}
}
