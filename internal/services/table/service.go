package table

import (
	"context"
	"fmt"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/repository"
)

// Service is the table occupancy tracker. Occupy and Release are called by
// the order lifecycle as side effects of creation, cancellation and
// settlement; the admin CRUD is for floor management. One active order per
// table is a procedural guarantee: callers always pair occupy/release with
// lifecycle transitions, the store does not enforce it.
type Service struct {
	repo repository.TableRepository
	log  *logger.Logger
}

func NewService(repo repository.TableRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

func (s *Service) Occupy(ctx context.Context, number, orderNo string) error {
	return s.repo.Occupy(ctx, number, orderNo)
}

func (s *Service) Release(ctx context.Context, number string) error {
	return s.repo.Release(ctx, number)
}

func (s *Service) Find(ctx context.Context, number string) (domain.Table, error) {
	return s.repo.Get(ctx, number)
}

func (s *Service) List(ctx context.Context, status string) ([]domain.Table, error) {
	var ts domain.TableStatus
	if status != "" {
		var err error
		if ts, err = domain.ToTableStatus(status); err != nil {
			return nil, domain.Invalid("status", "invalid table status")
		}
	}
	return s.repo.List(ctx, ts)
}

func (s *Service) Create(ctx context.Context, number string, capacity int, status string) (domain.Table, error) {
	if number == "" {
		return domain.Table{}, domain.Invalid("number", "table number is required")
	}
	if capacity < 1 || capacity > 20 {
		return domain.Table{}, domain.Invalid("capacity", "capacity must be between 1 and 20")
	}

	ts := domain.TableStatusAvailable
	if status != "" {
		var err error
		if ts, err = domain.ToTableStatus(status); err != nil {
			return domain.Table{}, domain.Invalid("status", "invalid table status")
		}
	}

	table := domain.Table{Number: number, Capacity: capacity, Status: ts}
	if err := s.repo.Create(ctx, table); err != nil {
		return domain.Table{}, fmt.Errorf("create table: %w", err)
	}

	s.log.Info("table_created", map[string]any{"table": number, "capacity": capacity})
	return s.repo.Get(ctx, number)
}

func (s *Service) Update(ctx context.Context, number string, patch domain.TablePatch) (domain.Table, error) {
	if patch.Capacity != nil && (*patch.Capacity < 1 || *patch.Capacity > 20) {
		return domain.Table{}, domain.Invalid("capacity", "capacity must be between 1 and 20")
	}
	return s.repo.Update(ctx, number, patch)
}

func (s *Service) Delete(ctx context.Context, number string) error {
	return s.repo.Delete(ctx, number)
}
