package menu

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/repository"
)

// Service manages the menu catalog the order engine snapshots from.
type Service struct {
	repo repository.MenuRepository
	log  *logger.Logger
}

func NewService(repo repository.MenuRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// CreateItemRequest is the catalog intake payload. Available defaults to
// true when omitted.
type CreateItemRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

func (s *Service) Create(ctx context.Context, req CreateItemRequest) (domain.MenuItem, error) {
	if req.Name == "" {
		return domain.MenuItem{}, domain.Invalid("name", "item name is required")
	}
	if req.Price < 0 {
		return domain.MenuItem{}, domain.Invalid("price", "price must not be negative")
	}

	now := time.Now().UTC()
	item := domain.MenuItem{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Description: req.Description,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	if err := s.repo.Insert(ctx, item); err != nil {
		return domain.MenuItem{}, fmt.Errorf("menu.Insert: %w", err)
	}
	s.log.Info("menu_item_created", map[string]any{"item": item.ID, "name": item.Name})
	return item, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.MenuItem, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.MenuItem, error) {
	return s.repo.List(ctx)
}

func (s *Service) Update(ctx context.Context, id string, patch domain.MenuItemPatch) (domain.MenuItem, error) {
	if patch.Name != nil && *patch.Name == "" {
		return domain.MenuItem{}, domain.Invalid("name", "item name must not be empty")
	}
	if patch.Price != nil && *patch.Price < 0 {
		return domain.MenuItem{}, domain.Invalid("price", "price must not be negative")
	}
	return s.repo.Update(ctx, id, patch)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
