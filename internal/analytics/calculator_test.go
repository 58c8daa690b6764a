package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/tradejournal/internal/contracts"
)

var utcCalc = NewCalculator(time.UTC, time.Sunday)

func at(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func trade(id string, result float64, date time.Time) contracts.Trade {
	return contracts.Trade{ID: id, UserID: "u1", Result: result, Date: date}
}

func TestSummarize_Empty(t *testing.T) {
	got := utcCalc.Summarize(nil)

	assert.Equal(t, contracts.AnalyticsSummary{}, got)
	for _, v := range []float64{got.WinRate, got.AverageGain, got.AverageLoss, got.RiskRewardRatio, got.AverageMEN, got.AverageMEP, got.TradesPerDay} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0))
	}
}

func TestSummarize(t *testing.T) {
	trades := []contracts.Trade{
		{Result: 100, MEN: 10, MEP: 40, Date: at(2025, 3, 3, 10)},
		{Result: 50, MEN: 20, MEP: 20, Date: at(2025, 3, 3, 11)},
		{Result: -30, MEN: 30, MEP: 0, Date: at(2025, 3, 3, 12)},
		{Result: 0, MEN: 0, MEP: 0, Date: at(2025, 3, 4, 10)},
		{Result: -60, MEN: 40, MEP: 10, Date: at(2025, 3, 4, 11)},
		{Result: 20, MEN: 20, MEP: 50, Date: at(2025, 3, 4, 12)},
	}

	got := utcCalc.Summarize(trades)

	assert.Equal(t, 6, got.TotalTrades)
	assert.Equal(t, 3, got.TotalGains)
	assert.Equal(t, 3, got.TotalLosses, "zero result counts as loss")
	assert.Equal(t, got.TotalTrades, got.TotalGains+got.TotalLosses)
	assert.InDelta(t, 80, got.TotalProfit, 1e-9)
	assert.InDelta(t, 50, got.WinRate, 1e-9)
	assert.InDelta(t, 170.0/3, got.AverageGain, 1e-9)
	assert.InDelta(t, 30, got.AverageLoss, 1e-9)
	assert.InDelta(t, (170.0/3)/30, got.RiskRewardRatio, 1e-9)
	assert.InDelta(t, 20, got.AverageMEN, 1e-9)
	assert.InDelta(t, 20, got.AverageMEP, 1e-9)
	assert.Equal(t, 3.0, got.TradesPerDay, "6 trades over 2 distinct dates")
}

func TestSummarize_NoLossesMeansZeroRiskReward(t *testing.T) {
	got := utcCalc.Summarize([]contracts.Trade{
		{Result: 500, Date: at(2025, 1, 1, 9)},
		{Result: 10, Date: at(2025, 1, 1, 9)},
	})

	assert.Equal(t, 0.0, got.AverageLoss)
	assert.Equal(t, 0.0, got.RiskRewardRatio)
	assert.Equal(t, 100.0, got.WinRate)
}

func TestSummarize_TradesPerDayRounding(t *testing.T) {
	trades := []contracts.Trade{
		{Result: 1, Date: at(2025, 1, 1, 9)},
		{Result: 1, Date: at(2025, 1, 1, 10)},
		{Result: 1, Date: at(2025, 1, 2, 9)},
		{Result: 1, Date: at(2025, 1, 3, 9)},
	}

	assert.Equal(t, 1.3, utcCalc.Summarize(trades).TradesPerDay)
}

func TestSummarize_DistinctDatesUseReportingLocation(t *testing.T) {
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 01:00 UTC on the 2nd is still the 1st in São Paulo
	trades := []contracts.Trade{
		{Result: 1, Date: at(2025, 1, 1, 20)},
		{Result: 1, Date: at(2025, 1, 2, 1)},
	}

	assert.Equal(t, 1.0, utcCalc.Summarize(trades).TradesPerDay)
	assert.Equal(t, 2.0, NewCalculator(saoPaulo, time.Sunday).Summarize(trades).TradesPerDay)
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	trades := []contracts.Trade{
		trade("b", 5, at(2025, 1, 2, 9)),
		trade("a", -5, at(2025, 1, 1, 9)),
	}
	before := append([]contracts.Trade(nil), trades...)

	utcCalc.Summarize(trades)
	utcCalc.Evolution(trades, PeriodDay)
	utcCalc.Monthly(trades)

	assert.Equal(t, before, trades)
}

func TestStrategyBreakdown_SkipsUnclassified(t *testing.T) {
	trades := []contracts.Trade{
		{Result: 100, Date: at(2025, 1, 1, 9)},
		{StrategyID: "A", Result: 50, Date: at(2025, 1, 1, 9)},
	}
	strategies := []contracts.Strategy{{ID: "A", Name: "Alpha"}}

	got := utcCalc.StrategyBreakdown(trades, strategies)

	require.Len(t, got, 1)
	assert.Equal(t, "A", got[0].StrategyID)
	assert.Equal(t, "Alpha", got[0].StrategyName)
	assert.Equal(t, 50.0, got[0].NetResult)
}

func TestStrategyBreakdown_SortedByNetResult(t *testing.T) {
	trades := []contracts.Trade{
		{StrategyID: "neg", Result: -10},
		{StrategyID: "top", Result: 40},
		{StrategyID: "top", Result: -10},
		{StrategyID: "mid", Result: 5},
	}

	got := utcCalc.StrategyBreakdown(trades, nil)

	require.Len(t, got, 3)
	assert.Equal(t, []float64{30, 5, -10}, []float64{got[0].NetResult, got[1].NetResult, got[2].NetResult})
	assert.Equal(t, UnknownStrategyName, got[0].StrategyName)
}

func TestStrategyBreakdown_Metrics(t *testing.T) {
	trades := []contracts.Trade{
		{StrategyID: "s", Result: 90},
		{StrategyID: "s", Result: 30},
		{StrategyID: "s", Result: -40},
		{StrategyID: "s", Result: 0},
	}

	got := utcCalc.StrategyBreakdown(trades, []contracts.Strategy{{ID: "s", Name: "Scalp"}})

	require.Len(t, got, 1)
	p := got[0]
	assert.Equal(t, 4, p.TotalTrades)
	assert.Equal(t, 2, p.Gains)
	assert.Equal(t, 2, p.Losses)
	assert.InDelta(t, 50, p.WinRate, 1e-9)
	assert.InDelta(t, 60, p.AverageGain, 1e-9)
	assert.InDelta(t, 20, p.AverageLoss, 1e-9)
	assert.InDelta(t, 3, p.RiskRewardRatio, 1e-9)
	assert.InDelta(t, 80, p.NetResult, 1e-9)
}

func TestStrategyBreakdown_Empty(t *testing.T) {
	got := utcCalc.StrategyBreakdown(nil, []contracts.Strategy{{ID: "s", Name: "Scalp"}})
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestEvolution_SameBucketKeepsLastCumulative(t *testing.T) {
	d1 := at(2025, 3, 5, 10)
	trades := []contracts.Trade{
		trade("a", 100, d1),
		trade("b", -40, d1.Add(time.Hour)),
	}

	got := utcCalc.Evolution(trades, PeriodDay)

	require.Len(t, got, 1)
	assert.Equal(t, contracts.ChartPoint{Name: "2025-03-05", Value: 60}, got[0])
}

func TestEvolution_SortsAscending(t *testing.T) {
	// input newest first, as retrieval returns it
	trades := []contracts.Trade{
		trade("c", 5.556, at(2025, 3, 7, 9)),
		trade("b", -20, at(2025, 3, 6, 9)),
		trade("a", 100, at(2025, 3, 5, 9)),
	}

	got := utcCalc.Evolution(trades, PeriodDay)

	assert.Equal(t, []contracts.ChartPoint{
		{Name: "2025-03-05", Value: 100},
		{Name: "2025-03-06", Value: 80},
		{Name: "2025-03-07", Value: 85.56},
	}, got)
}

func TestEvolution_Week(t *testing.T) {
	// 2025-03-02 is a Sunday
	trades := []contracts.Trade{
		trade("a", 10, at(2025, 3, 2, 9)),  // week of Sun 03-02
		trade("b", 10, at(2025, 3, 8, 9)),  // Sat, same week
		trade("c", 10, at(2025, 3, 9, 9)),  // Sun, next week
		trade("d", -5, at(2025, 3, 10, 9)), // Mon, next week
	}

	sunday := utcCalc.Evolution(trades, PeriodWeek)
	assert.Equal(t, []contracts.ChartPoint{
		{Name: "2025-03-02", Value: 20},
		{Name: "2025-03-09", Value: 25},
	}, sunday)

	monday := NewCalculator(time.UTC, time.Monday).Evolution(trades, PeriodWeek)
	assert.Equal(t, []contracts.ChartPoint{
		{Name: "2025-02-24", Value: 10},
		{Name: "2025-03-03", Value: 30},
		{Name: "2025-03-10", Value: 25},
	}, monday)
}

func TestEvolution_Month(t *testing.T) {
	trades := []contracts.Trade{
		trade("a", 10, at(2024, 12, 31, 9)),
		trade("b", 20, at(2025, 1, 1, 9)),
		trade("c", 30, at(2025, 1, 31, 9)),
	}

	got := utcCalc.Evolution(trades, PeriodMonth)

	assert.Equal(t, []contracts.ChartPoint{
		{Name: "Dec 2024", Value: 10},
		{Name: "Jan 2025", Value: 60},
	}, got)
}

func TestEvolution_Empty(t *testing.T) {
	got := utcCalc.Evolution(nil, PeriodDay)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestMonthly(t *testing.T) {
	trades := []contracts.Trade{
		trade("a", 150, at(2025, 2, 3, 9)),
		trade("b", 50, at(2025, 2, 4, 9)),
		trade("c", -30, at(2025, 2, 5, 9)),
		trade("d", -20, at(2025, 2, 6, 9)),
		trade("e", 0, at(2025, 2, 7, 9)),
		trade("f", 10, at(2025, 1, 7, 9)),
	}

	got := utcCalc.Monthly(trades)

	assert.Equal(t, []contracts.MonthlyPoint{
		{Name: "Jan 2025", Gain: 10, Loss: 0, Net: 10},
		{Name: "Feb 2025", Gain: 200, Loss: -50, Net: 150},
	}, got)
	assert.False(t, math.Signbit(got[0].Loss))
}

func TestMonthly_Empty(t *testing.T) {
	assert.Empty(t, utcCalc.Monthly(nil))
}

func TestDaily_AlwaysSevenEntries(t *testing.T) {
	// 2025-03-05 is a Wednesday
	got := utcCalc.Daily([]contracts.Trade{
		trade("a", 40, at(2025, 3, 5, 9)),
		trade("b", -15.5, at(2025, 3, 5, 15)),
	})

	require.Len(t, got, 7)
	names := make([]string, 7)
	for i, p := range got {
		names[i] = p.Name
	}
	assert.Equal(t, []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}, names)
	assert.Equal(t, 24.5, got[3].Value)
	assert.Equal(t, 0.0, got[0].Value)
	assert.Equal(t, 0.0, got[6].Value)
}

func TestDaily_Empty(t *testing.T) {
	assert.Empty(t, utcCalc.Daily(nil))
}

func TestWinLoss(t *testing.T) {
	trades := make([]contracts.Trade, 0, 10)
	for i := 0; i < 7; i++ {
		trades = append(trades, contracts.Trade{Result: 1})
	}
	for i := 0; i < 3; i++ {
		trades = append(trades, contracts.Trade{Result: -1})
	}

	got := utcCalc.WinLoss(trades)

	assert.Equal(t, []contracts.WinLossSlice{
		{Name: "Gain", Value: 70, Color: GainColor},
		{Name: "Loss", Value: 30, Color: LossColor},
	}, got)
}

func TestWinLoss_IndependentRounding(t *testing.T) {
	// 1/3 → 33, 2/3 → 67; 1/8 → 13, 7/8 → 88 (sum 101)
	got := utcCalc.WinLoss([]contracts.Trade{{Result: 1}, {Result: -1}, {Result: -2}})
	assert.Equal(t, 33.0, got[0].Value)
	assert.Equal(t, 67.0, got[1].Value)

	eight := []contracts.Trade{{Result: 1}}
	for i := 0; i < 7; i++ {
		eight = append(eight, contracts.Trade{Result: 0})
	}
	got = utcCalc.WinLoss(eight)
	assert.Equal(t, 13.0, got[0].Value)
	assert.Equal(t, 88.0, got[1].Value)
}

func TestWinLoss_Empty(t *testing.T) {
	got := utcCalc.WinLoss(nil)

	require.Len(t, got, 2)
	assert.Equal(t, 0.0, got[0].Value)
	assert.Equal(t, 0.0, got[1].Value)
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("")
	require.NoError(t, err)
	assert.Equal(t, PeriodDay, p)

	p, err = ParsePeriod("week")
	require.NoError(t, err)
	assert.Equal(t, PeriodWeek, p)

	_, err = ParsePeriod("year")
	assert.ErrorIs(t, err, contracts.ErrInvalidArgument)
}
