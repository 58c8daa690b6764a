package journal

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/wonny/tradejournal/internal/contracts"
)

// minStrategyName is the shortest accepted strategy name, in runes
const minStrategyName = 2

// StrategyInput is a new or replaced strategy
type StrategyInput struct {
	Name        string              `json:"name" yaml:"name"`
	Direction   contracts.Direction `json:"direction" yaml:"direction"`
	Description string              `json:"description" yaml:"description"`
}

// StrategyListOptions filters and pages a strategy listing
type StrategyListOptions struct {
	Page     int
	PageSize int
	Search   string // name prefix, case-sensitive
}

// StrategyPage is one page of a strategy listing
type StrategyPage struct {
	Strategies []contracts.Strategy `json:"strategies"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	HasMore    bool                 `json:"has_more"`
}

// CreateStrategy validates and stores a new strategy, returning its id
func (s *Service) CreateStrategy(ctx context.Context, userID string, in StrategyInput) (string, error) {
	if err := requireUser(userID); err != nil {
		return "", err
	}

	in, err := normalizeStrategy(in)
	if err != nil {
		return "", err
	}

	now := s.now()
	strategy := &contracts.Strategy{
		ID:          s.newID(),
		UserID:      userID,
		Name:        in.Name,
		Direction:   in.Direction,
		Description: in.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.strategies.CreateStrategy(ctx, strategy); err != nil {
		return "", err
	}

	s.invalidate(ctx, userID)
	s.logger.WithUser(userID).WithField("strategy_id", strategy.ID).Debug("Strategy created")

	return strategy.ID, nil
}

// UpdateStrategy replaces the editable fields of a strategy owned by userID
func (s *Service) UpdateStrategy(ctx context.Context, userID, id string, in StrategyInput) error {
	strategy, err := s.GetStrategy(ctx, userID, id)
	if err != nil {
		return err
	}

	in, err = normalizeStrategy(in)
	if err != nil {
		return err
	}

	strategy.Name = in.Name
	strategy.Direction = in.Direction
	strategy.Description = in.Description
	strategy.UpdatedAt = s.now()

	if err := s.strategies.UpdateStrategy(ctx, strategy); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}

// DeleteStrategy removes a strategy; its trades become unclassified
func (s *Service) DeleteStrategy(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := s.strategies.DeleteStrategy(ctx, userID, id); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}

// GetStrategy returns a strategy owned by userID
func (s *Service) GetStrategy(ctx context.Context, userID, id string) (*contracts.Strategy, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.strategies.GetStrategy(ctx, userID, id)
}

// ListStrategies returns one page of the user's strategies, newest first
func (s *Service) ListStrategies(ctx context.Context, userID string, opts StrategyListOptions) (*StrategyPage, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	page, size, limit, offset := pageBounds(opts.Page, opts.PageSize, DefaultStrategyPageSize)

	filter := contracts.StrategyFilter{
		UserID:     userID,
		NamePrefix: strings.TrimSpace(opts.Search),
		Order:      contracts.StrategyByCreated,
		Limit:      limit,
		Offset:     offset,
	}

	strategies, err := s.strategies.FindStrategies(ctx, filter)
	if err != nil {
		return nil, err
	}

	total, err := s.strategies.CountStrategies(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &StrategyPage{
		Strategies: strategies,
		Total:      total,
		Page:       page,
		PageSize:   size,
		HasMore:    offset+len(strategies) < total,
	}, nil
}

// AllStrategies returns every strategy of the user ordered by name
func (s *Service) AllStrategies(ctx context.Context, userID string) ([]contracts.Strategy, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	return s.strategies.FindStrategies(ctx, contracts.StrategyFilter{
		UserID: userID,
		Order:  contracts.StrategyByName,
	})
}

func normalizeStrategy(in StrategyInput) (StrategyInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)

	if utf8.RuneCountInString(in.Name) < minStrategyName {
		return in, fmt.Errorf("strategy name must have at least %d characters: %w", minStrategyName, contracts.ErrInvalidArgument)
	}
	if !in.Direction.Valid() {
		return in, fmt.Errorf("direction %q must be counter_trend, trend or neutral: %w", in.Direction, contracts.ErrInvalidArgument)
	}
	return in, nil
}
