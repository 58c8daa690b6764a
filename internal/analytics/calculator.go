package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Calculator reduces trade snapshots into report shapes.
// It holds only immutable settings, so one instance is safe for concurrent use.
// ⭐ SSOT: 분석 집계 로직은 여기서만
type Calculator struct {
	loc       *time.Location
	weekStart time.Weekday
}

// NewCalculator creates a calculator bucketing dates in loc, weeks starting on weekStart
func NewCalculator(loc *time.Location, weekStart time.Weekday) *Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return &Calculator{loc: loc, weekStart: weekStart}
}

// Location returns the reporting location
func (c *Calculator) Location() *time.Location {
	return c.loc
}

// dayStart truncates t to local midnight in the reporting location
func (c *Calculator) dayStart(t time.Time) time.Time {
	local := t.In(c.loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.loc)
}

func (c *Calculator) weekStartOf(t time.Time) time.Time {
	day := c.dayStart(t)
	offset := (int(day.Weekday()) - int(c.weekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

func (c *Calculator) monthStart(t time.Time) time.Time {
	local := t.In(c.loc)
	return time.Date(local.Year(), local.Month(), 1, 0, 0, 0, 0, c.loc)
}

// roundTo rounds currency values half away from zero
func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

func round2(v float64) float64 {
	return roundTo(v, 2)
}
