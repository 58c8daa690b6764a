package fixtures

import (
	"context"
	"fmt"
	"strings"

	"github.com/wonny/tradejournal/internal/journal"
)

// Result counts the records a seed run created
type Result struct {
	Strategies int `json:"strategies"`
	Trades     int `json:"trades"`
}

// Apply stores the fixtures for userID through the journal service,
// so seeded records pass the same validation as API writes.
// It stops at the first rejected record; records created before it are kept.
func Apply(ctx context.Context, svc *journal.Service, userID string, fx *Fixtures) (Result, error) {
	var res Result
	ids := make(map[string]string, len(fx.Strategies))

	for i, s := range fx.Strategies {
		id, err := svc.CreateStrategy(ctx, userID, s)
		if err != nil {
			return res, fmt.Errorf("strategies[%d] %q: %w", i, s.Name, err)
		}
		ids[strings.TrimSpace(s.Name)] = id
		res.Strategies++
	}

	for i, t := range fx.Trades {
		in := t.TradeInput
		if t.Strategy != "" {
			in.StrategyID = ids[strings.TrimSpace(t.Strategy)]
		}
		if _, err := svc.CreateTrade(ctx, userID, in); err != nil {
			return res, fmt.Errorf("trades[%d]: %w", i, err)
		}
		res.Trades++
	}

	return res, nil
}
