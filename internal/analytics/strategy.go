package analytics

import (
	"sort"

	"github.com/wonny/tradejournal/internal/contracts"
)

// UnknownStrategyName labels groups whose strategy id has no matching strategy
const UnknownStrategyName = "Unknown Strategy"

// StrategyBreakdown groups classified trades by strategy.
// Unclassified trades are left out; results are ordered best net result first.
func (c *Calculator) StrategyBreakdown(trades []contracts.Trade, strategies []contracts.Strategy) []contracts.StrategyPerformance {
	names := make(map[string]string, len(strategies))
	for _, s := range strategies {
		names[s.ID] = s.Name
	}

	groups := make(map[string][]contracts.Trade)
	for _, trade := range trades {
		if !trade.HasStrategy() {
			continue
		}
		groups[trade.StrategyID] = append(groups[trade.StrategyID], trade)
	}

	ids := make([]string, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	performance := make([]contracts.StrategyPerformance, 0, len(ids))
	for _, id := range ids {
		t := tallyTrades(groups[id])

		name, ok := names[id]
		if !ok {
			name = UnknownStrategyName
		}

		performance = append(performance, contracts.StrategyPerformance{
			StrategyID:      id,
			StrategyName:    name,
			TotalTrades:     t.total,
			Gains:           t.gains,
			Losses:          t.losses,
			WinRate:         t.winRate(),
			RiskRewardRatio: t.riskReward(),
			NetResult:       t.net,
			AverageGain:     t.averageGain(),
			AverageLoss:     t.averageLoss(),
		})
	}

	sort.SliceStable(performance, func(i, j int) bool {
		return performance[i].NetResult > performance[j].NetResult
	})

	return performance
}
