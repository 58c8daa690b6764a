package contracts

import "time"

// AnalyticsSummary is the overall reduction of a trade snapshot
// ⭐ SSOT: 대시보드 요약 지표
type AnalyticsSummary struct {
	TotalTrades     int     `json:"total_trades"`
	TotalGains      int     `json:"total_gains"`
	TotalLosses     int     `json:"total_losses"`
	TotalProfit     float64 `json:"total_profit"`
	WinRate         float64 `json:"win_rate"` // 0 ~ 100
	AverageGain     float64 `json:"average_gain"`
	AverageLoss     float64 `json:"average_loss"` // magnitude
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
	AverageMEN      float64 `json:"average_men"`
	AverageMEP      float64 `json:"average_mep"`
	TradesPerDay    float64 `json:"trades_per_day"`
}

// StrategyPerformance is the reduction of one strategy's trades
type StrategyPerformance struct {
	StrategyID      string  `json:"strategy_id"`
	StrategyName    string  `json:"strategy_name"`
	TotalTrades     int     `json:"total_trades"`
	Gains           int     `json:"gains"`
	Losses          int     `json:"losses"`
	WinRate         float64 `json:"win_rate"`
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
	NetResult       float64 `json:"net_result"`
	AverageGain     float64 `json:"average_gain"`
	AverageLoss     float64 `json:"average_loss"`
}

// ChartPoint is a named value of a chart series
type ChartPoint struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

// MonthlyPoint holds one month of gain/loss. Loss is negative for display.
type MonthlyPoint struct {
	Name string  `json:"name"`
	Gain float64 `json:"gain"`
	Loss float64 `json:"loss"`
	Net  float64 `json:"net"`
}

// WinLossSlice is one slice of the win/loss distribution
type WinLossSlice struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"` // integer percentage
	Color string  `json:"color"`
}

// Dashboard bundles every report computed over one trade snapshot
type Dashboard struct {
	Summary    AnalyticsSummary      `json:"summary"`
	Strategies []StrategyPerformance `json:"strategies"`
	Evolution  []ChartPoint          `json:"evolution"`
	Monthly    []MonthlyPoint        `json:"monthly"`
	Daily      []ChartPoint          `json:"daily"`
	WinLoss    []WinLossSlice        `json:"win_loss"`
}

// PerformanceSnapshot is a dated copy of a user's all-time summary
type PerformanceSnapshot struct {
	UserID  string           `json:"user_id"`
	Date    time.Time        `json:"date"`
	Summary AnalyticsSummary `json:"summary"`
}

// HistoryPoint is one stored snapshot on the equity curve
type HistoryPoint struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	TotalTrades int     `json:"total_trades"`
	TotalProfit float64 `json:"total_profit"`
	WinRate     float64 `json:"win_rate"`
	Change      float64 `json:"change"` // TotalProfit minus the previous point's
}
