// AngelaMos | 2026
// service.go

package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/carterperez-dev/decorbook/internal/core"
)

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

func validateCost(cost decimal.Decimal) error {
	if !cost.IsPositive() {
		return fmt.Errorf("cost must be positive: %w", core.ErrInvalidInput)
	}
	return nil
}

func (s *Service) Create(
	ctx context.Context,
	creatorEmail string,
	req CreateItemRequest,
) (*Item, error) {
	if err := validateCost(req.Cost); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	item := &Item{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(req.Title),
		Cost:        req.Cost.Round(2),
		Unit:        req.Unit,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CreatedBy:   creatorEmail,
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("catalog service created", "service_id", item.ID, "by", creatorEmail)
	return item, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Item, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("get service: %w", core.ErrNotFound)
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Update(
	ctx context.Context,
	id string,
	req UpdateItemRequest,
) (*Item, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		item.Title = strings.TrimSpace(*req.Title)
	}
	if req.Cost != nil {
		if err := validateCost(*req.Cost); err != nil {
			return nil, fmt.Errorf("update service: %w", err)
		}
		item.Cost = req.Cost.Round(2)
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.Category != nil {
		item.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, err
	}

	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("delete service: %w", core.ErrNotFound)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("catalog service deleted", "service_id", id)
	return nil
}

func (s *Service) List(
	ctx context.Context,
	params ListItemsParams,
) ([]Item, int, error) {
	if params.MinPrice != nil && params.MaxPrice != nil &&
		params.MinPrice.GreaterThan(*params.MaxPrice) {
		return nil, 0, fmt.Errorf(
			"list services: min_price exceeds max_price: %w",
			core.ErrInvalidInput,
		)
	}

	switch params.Sort {
	case "", SortNewest, SortPriceAsc, SortPriceDesc:
	default:
		return nil, 0, fmt.Errorf(
			"list services: unknown sort %q: %w",
			params.Sort,
			core.ErrInvalidInput,
		)
	}

	return s.repo.List(ctx, params)
}
