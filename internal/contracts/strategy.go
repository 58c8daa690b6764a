package contracts

import (
	"strings"
	"time"
)

// Direction is the market stance a strategy trades
type Direction string

const (
	DirectionCounterTrend Direction = "counter_trend"
	DirectionTrend        Direction = "trend"
	DirectionNeutral      Direction = "neutral"
)

// Valid reports whether d is one of the known directions
func (d Direction) Valid() bool {
	switch d {
	case DirectionCounterTrend, DirectionTrend, DirectionNeutral:
		return true
	}
	return false
}

// Label returns the display name of the direction
func (d Direction) Label() string {
	switch d {
	case DirectionCounterTrend:
		return "Counter-trend"
	case DirectionTrend:
		return "Trend"
	case DirectionNeutral:
		return "Neutral"
	}
	return string(d)
}

// Strategy is a named trading approach trades are classified under
type Strategy struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Direction   Direction `json:"direction"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// StrategyOrder selects the listing order of strategies
type StrategyOrder string

const (
	StrategyByName    StrategyOrder = "name"    // name ascending
	StrategyByCreated StrategyOrder = "created" // created_at descending
)

// StrategyFilter selects a user's strategies
type StrategyFilter struct {
	UserID     string
	NamePrefix string
	Order      StrategyOrder // default by name
	Limit      int
	Offset     int
}

// Matches applies the non-paging constraints of the filter to s
func (f StrategyFilter) Matches(s Strategy) bool {
	if s.UserID != f.UserID {
		return false
	}
	return f.NamePrefix == "" || strings.HasPrefix(s.Name, f.NamePrefix)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
