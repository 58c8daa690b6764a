package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradejournal/internal/contracts"
	"github.com/wonny/tradejournal/pkg/logger"
)

func newTestCache() (*ReportCache, *time.Time) {
	c := NewReportCache(logger.Nop())
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, &now
}

func TestReportCache_GetSet(t *testing.T) {
	c, now := newTestCache()
	ctx := context.Background()

	var got contracts.AnalyticsSummary
	hit, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	want := contracts.AnalyticsSummary{TotalTrades: 3, TotalProfit: 42.5}
	require.NoError(t, c.Set(ctx, "k", want, time.Minute))

	hit, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, want, got)

	*now = now.Add(2 * time.Minute)
	hit, err = c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit, "expired entries are misses")
}

func TestReportCache_ValuesAreCopies(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()

	points := []contracts.ChartPoint{{Name: "a", Value: 1}}
	require.NoError(t, c.Set(ctx, "k", points, time.Minute))
	points[0].Value = 99

	var got []contracts.ChartPoint
	_, err := c.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got[0].Value)
}

func TestReportCache_Generation(t *testing.T) {
	c, _ := newTestCache()
	ctx := context.Background()

	gen, err := c.Generation(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	require.NoError(t, c.Invalidate(ctx, "u1"))
	require.NoError(t, c.Invalidate(ctx, "u1"))

	gen, _ = c.Generation(ctx, "u1")
	assert.Equal(t, int64(2), gen)
	gen, _ = c.Generation(ctx, "u2")
	assert.Equal(t, int64(0), gen)
}

func TestReportCache_CleanStale(t *testing.T) {
	c, now := newTestCache()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "short", 1, time.Second))
	require.NoError(t, c.Set(ctx, "long", 2, time.Hour))
	*now = now.Add(time.Minute)

	stats := c.Stats()
	assert.Equal(t, 2, stats.TotalCount)
	assert.Equal(t, 1, stats.StaleCount)
	assert.Positive(t, stats.Bytes)

	assert.Equal(t, 1, c.CleanStale())
	assert.Equal(t, 1, c.Len())
	assert.Equal(t, 0, c.CleanStale())
}
