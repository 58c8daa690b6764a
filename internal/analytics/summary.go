package analytics

import (
	"math"

	"github.com/wonny/tradejournal/internal/contracts"
)

// tally is the gain/loss partition of a set of trades
type tally struct {
	total   int
	gains   int
	losses  int
	gainSum float64 // Σ result over gains
	lossSum float64 // Σ result over losses (≤ 0)
	net     float64
}

func tallyTrades(trades []contracts.Trade) tally {
	var t tally
	for _, trade := range trades {
		t.total++
		t.net += trade.Result
		if trade.IsGain() {
			t.gains++
			t.gainSum += trade.Result
		} else {
			t.losses++
			t.lossSum += trade.Result
		}
	}
	return t
}

func (t tally) averageGain() float64 {
	if t.gains == 0 {
		return 0
	}
	return t.gainSum / float64(t.gains)
}

func (t tally) averageLoss() float64 {
	if t.losses == 0 {
		return 0
	}
	return math.Abs(t.lossSum) / float64(t.losses)
}

func (t tally) winRate() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.gains) / float64(t.total) * 100
}

func (t tally) riskReward() float64 {
	avgLoss := t.averageLoss()
	if avgLoss <= 0 {
		return 0
	}
	return t.averageGain() / avgLoss
}

// Summarize computes the overall analytics of trades.
// An empty snapshot yields the zero summary.
func (c *Calculator) Summarize(trades []contracts.Trade) contracts.AnalyticsSummary {
	if len(trades) == 0 {
		return contracts.AnalyticsSummary{}
	}

	t := tallyTrades(trades)

	var sumMEN, sumMEP float64
	days := make(map[int64]struct{})
	for _, trade := range trades {
		sumMEN += trade.MEN
		sumMEP += trade.MEP
		days[c.dayStart(trade.Date).Unix()] = struct{}{}
	}

	n := float64(len(trades))
	return contracts.AnalyticsSummary{
		TotalTrades:     t.total,
		TotalGains:      t.gains,
		TotalLosses:     t.losses,
		TotalProfit:     t.net,
		WinRate:         t.winRate(),
		AverageGain:     t.averageGain(),
		AverageLoss:     t.averageLoss(),
		RiskRewardRatio: t.riskReward(),
		AverageMEN:      sumMEN / n,
		AverageMEP:      sumMEP / n,
		TradesPerDay:    roundTo(n/float64(len(days)), 1),
	}
}
