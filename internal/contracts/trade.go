package contracts

import "time"

// Trade is a single logged operation owned by one user
type Trade struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	StrategyID string    `json:"strategy_id,omitempty"` // empty = unclassified
	StockType  string    `json:"stock_type"`
	InTime     string    `json:"in_time"`  // HH:MM
	OutTime    string    `json:"out_time"` // HH:MM
	Quantity   int       `json:"quantity"`
	MEN        float64   `json:"men"`
	MEP        float64   `json:"mep"`
	Result     float64   `json:"result"`
	Date       time.Time `json:"date"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsGain reports whether the trade closed positive. Zero counts as a loss.
func (t Trade) IsGain() bool {
	return t.Result > 0
}

// HasStrategy reports whether the trade is classified under a strategy
func (t Trade) HasStrategy() bool {
	return t.StrategyID != ""
}

// ResultType filters trades by outcome
type ResultType string

const (
	ResultAll    ResultType = "all"
	ResultProfit ResultType = "profit"
	ResultLoss   ResultType = "loss"
)

// ParseResultType maps a query value to a ResultType; unknown values mean all
func ParseResultType(s string) ResultType {
	switch ResultType(s) {
	case ResultProfit:
		return ResultProfit
	case ResultLoss:
		return ResultLoss
	default:
		return ResultAll
	}
}

// Matches reports whether the trade passes the outcome filter
func (r ResultType) Matches(t Trade) bool {
	switch r {
	case ResultProfit:
		return t.IsGain()
	case ResultLoss:
		return !t.IsGain()
	default:
		return true
	}
}

// SortOrder orders trades by date
type SortOrder string

const (
	SortDesc SortOrder = "desc"
	SortAsc  SortOrder = "asc"
)

// TradeFilter selects a user's trades.
// Zero values mean "no constraint"; UserID is always required.
type TradeFilter struct {
	UserID          string
	DateFrom        *time.Time
	DateTo          *time.Time
	StrategyID      string
	WithoutStrategy bool
	Search          string // case-insensitive substring of StockType
	Result          ResultType
	Order           SortOrder // default desc
	Limit           int       // 0 = unlimited
	Offset          int
}

// Matches applies every non-paging constraint of the filter to t
func (f TradeFilter) Matches(t Trade) bool {
	if t.UserID != f.UserID {
		return false
	}
	if f.DateFrom != nil && t.Date.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && t.Date.After(*f.DateTo) {
		return false
	}
	if f.WithoutStrategy {
		if t.HasStrategy() {
			return false
		}
	} else if f.StrategyID != "" && t.StrategyID != f.StrategyID {
		return false
	}
	if f.Search != "" && !containsFold(t.StockType, f.Search) {
		return false
	}
	return f.Result.Matches(t)
}
