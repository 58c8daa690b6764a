package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/wonny/tradejournal/internal/contracts"
)

// TradeInput is a new trade as submitted by the user
type TradeInput struct {
	StrategyID string  `json:"strategy_id" yaml:"strategy_id"`
	StockType  string  `json:"stock_type" yaml:"stock_type"`
	InTime     string  `json:"in_time" yaml:"in_time"`
	OutTime    string  `json:"out_time" yaml:"out_time"`
	Quantity   int     `json:"quantity" yaml:"quantity"`
	MEN        float64 `json:"men" yaml:"men"`
	MEP        float64 `json:"mep" yaml:"mep"`
	Result     float64 `json:"result" yaml:"result"`
	Date       string  `json:"date" yaml:"date"` // YYYY-MM-DD
}

// TradePatch is a partial update; nil fields are left untouched.
// An empty StrategyID clears the classification.
type TradePatch struct {
	StrategyID *string  `json:"strategy_id"`
	StockType  *string  `json:"stock_type"`
	InTime     *string  `json:"in_time"`
	OutTime    *string  `json:"out_time"`
	Quantity   *int     `json:"quantity"`
	MEN        *float64 `json:"men"`
	MEP        *float64 `json:"mep"`
	Result     *float64 `json:"result"`
	Date       *string  `json:"date"`
}

// TradeListOptions filters and pages a trade listing
type TradeListOptions struct {
	Page            int
	PageSize        int
	Search          string
	StrategyID      string
	WithoutStrategy bool
	DateFrom        *time.Time
	DateTo          *time.Time
	Result          contracts.ResultType
}

// TradePage is one page of a trade listing
type TradePage struct {
	Trades   []contracts.Trade `json:"trades"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
	HasMore  bool              `json:"has_more"`
}

// CreateTrade validates and stores a new trade, returning its id
func (s *Service) CreateTrade(ctx context.Context, userID string, in TradeInput) (string, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}

	date, err := ParseTradeDate(in.Date, s.loc)
	if err != nil {
		return "", err
	}

	now := s.now()
	trade := &contracts.Trade{
		ID:         s.newID(),
		UserID:     userID,
		StrategyID: strings.TrimSpace(in.StrategyID),
		StockType:  strings.TrimSpace(in.StockType),
		InTime:     in.InTime,
		OutTime:    in.OutTime,
		Quantity:   in.Quantity,
		MEN:        in.MEN,
		MEP:        in.MEP,
		Result:     in.Result,
		Date:       date,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.validateTrade(ctx, trade); err != nil {
		return "", err
	}

	if err := s.trades.CreateTrade(ctx, trade); err != nil {
		return "", err
	}

	s.invalidate(ctx, userID)
	s.logger.WithUser(userID).WithField("trade_id", trade.ID).Debug("Trade created")

	return trade.ID, nil
}

// UpdateTrade applies a partial update to a trade owned by userID
func (s *Service) UpdateTrade(ctx context.Context, userID, id string, patch TradePatch) error {
	trade, err := s.GetTrade(ctx, userID, id)
	if err != nil {
		return err
	}

	if patch.StrategyID != nil {
		trade.StrategyID = strings.TrimSpace(*patch.StrategyID)
	}
	if patch.StockType != nil {
		trade.StockType = strings.TrimSpace(*patch.StockType)
	}
	if patch.InTime != nil {
		trade.InTime = *patch.InTime
	}
	if patch.OutTime != nil {
		trade.OutTime = *patch.OutTime
	}
	if patch.Quantity != nil {
		trade.Quantity = *patch.Quantity
	}
	if patch.MEN != nil {
		trade.MEN = *patch.MEN
	}
	if patch.MEP != nil {
		trade.MEP = *patch.MEP
	}
	if patch.Result != nil {
		trade.Result = *patch.Result
	}
	if patch.Date != nil {
		date, err := ParseTradeDate(*patch.Date, s.loc)
		if err != nil {
			return err
		}
		trade.Date = date
	}
	trade.UpdatedAt = s.now()

	if err := s.validateTrade(ctx, trade); err != nil {
		return err
	}

	if err := s.trades.UpdateTrade(ctx, trade); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}

// DeleteTrade removes a trade owned by userID
func (s *Service) DeleteTrade(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := s.trades.DeleteTrade(ctx, userID, id); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}

// GetTrade returns a trade owned by userID
func (s *Service) GetTrade(ctx context.Context, userID, id string) (*contracts.Trade, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.trades.GetTrade(ctx, userID, id)
}

// ListTrades returns one page of the user's trades, newest first
func (s *Service) ListTrades(ctx context.Context, userID string, opts TradeListOptions) (*TradePage, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	page, size, limit, offset := pageBounds(opts.Page, opts.PageSize, DefaultTradePageSize)

	filter := contracts.TradeFilter{
		UserID:          userID,
		DateFrom:        opts.DateFrom,
		DateTo:          opts.DateTo,
		StrategyID:      opts.StrategyID,
		WithoutStrategy: opts.WithoutStrategy,
		Search:          strings.TrimSpace(opts.Search),
		Result:          opts.Result,
		Order:           contracts.SortDesc,
		Limit:           limit,
		Offset:          offset,
	}

	trades, err := s.trades.FindTrades(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.trades.CountTrades(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &TradePage{
		Trades:   trades,
		Total:    total,
		Page:     page,
		PageSize: size,
		HasMore:  offset+len(trades) < total,
	}, nil
}

func (s *Service) validateTrade(ctx context.Context, t *contracts.Trade) error {
	if t.StockType == "" {
		return fmt.Errorf("stock type is required: %w", contracts.ErrInvalidArgument)
	}
	if t.Quantity <= 0 {
		return fmt.Errorf("quantity must be positive: %w", contracts.ErrInvalidArgument)
	}
	if err := validateClock("in_time", t.InTime); err != nil {
		return err
	}
	if err := validateClock("out_time", t.OutTime); err != nil {
		return err
	}

	if t.HasStrategy() {
		if _, err := s.strategies.GetStrategy(ctx, t.UserID, t.StrategyID); err != nil {
			if errors.Is(err, contracts.ErrNotFound) {
				return fmt.Errorf("strategy %s does not exist: %w", t.StrategyID, contracts.ErrInvalidArgument)
			}
			return err
		}
	}

	return nil
}

// validateClock accepts HH:MM or HH:MM:SS; empty means not recorded
func validateClock(field, v string) error {
	if v == "" {
		return nil
	}
	if _, err := time.Parse("15:04", v); err == nil {
		return nil
	}
	if _, err := time.Parse("15:04:05", v); err == nil {
		return nil
	}
	return fmt.Errorf("%s %q must be HH:MM: %w", field, v, contracts.ErrInvalidArgument)
}
