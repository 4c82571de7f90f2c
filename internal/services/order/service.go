package order

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/metrics"
	"restaurant-pos/internal/realtime"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/services/table"
)

// Service is the order lifecycle engine. All order mutations flow through
// here: it validates input, runs the transition rules, couples dine-in
// orders to table occupancy and emits realtime events. Per-order write
// serialization lives in the repository's conditional updates; this layer
// never does read-then-write for a transition. It also never holds anything
// across both stores: the order mutation lands first, the table follows
// best-effort.
type Service struct {
	orders  repository.OrderRepository
	tables  *table.Service
	menu    repository.MenuRepository
	bus     *realtime.Bus
	metrics *metrics.Registry
	log     *logger.Logger
}

func NewService(orders repository.OrderRepository, tables *table.Service, menu repository.MenuRepository, bus *realtime.Bus, m *metrics.Registry, log *logger.Logger) *Service {
	return &Service{orders: orders, tables: tables, menu: menu, bus: bus, metrics: m, log: log}
}

func (s *Service) Create(ctx context.Context, req CreateOrderRequest) (domain.Order, error) {
	if err := validateCreateRequest(req); err != nil {
		return domain.Order{}, err
	}

	items, err := s.resolveItems(ctx, req.Items)
	if err != nil {
		return domain.Order{}, err
	}

	orderType, _ := domain.ToOrderType(req.OrderType)
	now := time.Now().UTC()
	ord := domain.Order{
		OrderNo:       newOrderNo(now),
		TableNumber:   req.TableNumber,
		Items:         items,
		Status:        domain.OrderStatusPending,
		Total:         domain.ComputeTotal(items),
		CreatedAt:     now,
		UpdatedAt:     now,
		Customer:      req.Customer,
		CustomerPhone: req.CustomerPhone,
		OrderType:     orderType,
	}
	if orderType != domain.OrderTypeDineIn {
		ord.TableNumber = ""
	}

	if err := s.orders.Insert(ctx, ord); err != nil {
		return domain.Order{}, fmt.Errorf("orders.Insert: %w", err)
	}

	// Best-effort coupling: a table lookup racing an admin edit must not
	// sink the order. The mismatch is logged for reconciliation.
	if orderType == domain.OrderTypeDineIn {
		if err := s.tables.Occupy(ctx, ord.TableNumber, ord.OrderNo); err != nil {
			s.log.Error("table_occupy_failed", err, map[string]any{
				"order": ord.OrderNo, "table": ord.TableNumber,
			})
		}
	}

	s.metrics.OrdersCreated.Inc()
	s.publish(realtime.EventOrderCreated, domain.NewOrderView(ord))
	s.log.Info("order_created", map[string]any{
		"order": ord.OrderNo, "type": string(orderType), "total": ord.Total,
	})
	return ord, nil
}

func (s *Service) Get(ctx context.Context, orderNo string) (domain.Order, error) {
	return s.orders.Get(ctx, orderNo)
}

func (s *Service) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	return s.orders.List(ctx, filter)
}

// AdvanceStatus moves the order along the kitchen/waiter flow. The target
// must be a flow status; regressions and terminal orders conflict.
func (s *Service) AdvanceStatus(ctx context.Context, orderNo, target string) (domain.Order, error) {
	status, err := domain.ToOrderStatus(target)
	if err != nil || status.Terminal() {
		return domain.Order{}, domain.Invalid("status", "status must be one of pending, preparing, ready, served")
	}

	ord, err := s.orders.AdvanceStatus(ctx, orderNo, status)
	if err != nil {
		if ord.OrderNo != "" {
			return domain.Order{}, fmt.Errorf("cannot move order from %s to %s: %w", ord.Status, status, err)
		}
		return domain.Order{}, err
	}

	s.publish(realtime.EventOrderStatusUpdated, map[string]any{
		"id": ord.OrderNo, "status": ord.Status,
	})
	s.publish(realtime.EventOrderUpdated, domain.NewOrderView(ord))
	s.log.Info("order_status_updated", map[string]any{"order": ord.OrderNo, "status": string(ord.Status)})
	return ord, nil
}

// Edit applies a partial update while the order is non-terminal.
func (s *Service) Edit(ctx context.Context, orderNo string, req UpdateOrderRequest) (domain.Order, error) {
	if err := validateUpdateRequest(req); err != nil {
		return domain.Order{}, err
	}

	patch := domain.OrderPatch{
		TableNumber:   req.TableNumber,
		Customer:      req.Customer,
		CustomerPhone: req.CustomerPhone,
	}
	if req.OrderType != nil {
		t, _ := domain.ToOrderType(*req.OrderType)
		patch.OrderType = &t
	}
	if req.Status != nil {
		st, _ := domain.ToOrderStatus(*req.Status)
		patch.Status = &st
	}
	if req.Items != nil {
		items, err := s.resolveItems(ctx, req.Items)
		if err != nil {
			return domain.Order{}, err
		}
		patch.Items = items
	}

	// Nothing to change: skip the update and echo the stored order.
	if patch.Empty() {
		return s.orders.Get(ctx, orderNo)
	}

	ord, err := s.orders.Update(ctx, orderNo, patch)
	if err != nil {
		if ord.OrderNo != "" {
			return domain.Order{}, fmt.Errorf("cannot edit a %s order: %w", ord.Status, err)
		}
		return domain.Order{}, err
	}

	s.publish(realtime.EventOrderUpdated, domain.NewOrderView(ord))
	s.log.Info("order_updated", map[string]any{"order": ord.OrderNo})
	return ord, nil
}

// Cancel terminates the order from any non-terminal status and frees its
// table for dine-in.
func (s *Service) Cancel(ctx context.Context, orderNo, reason string) (domain.Order, error) {
	if strings.TrimSpace(reason) == "" {
		return domain.Order{}, domain.Invalid("reason", "cancellation reason is required")
	}
	if len(reason) > maxCancelReasonLen {
		return domain.Order{}, domain.Invalid("reason", "cancellation reason must be at most 200 characters")
	}

	ord, err := s.orders.Cancel(ctx, orderNo, reason, time.Now().UTC())
	if err != nil {
		if ord.OrderNo != "" {
			return domain.Order{}, fmt.Errorf("cannot cancel a %s order: %w", ord.Status, err)
		}
		return domain.Order{}, err
	}

	s.releaseTable(ctx, ord)

	s.metrics.OrdersCancelled.Inc()
	s.publish(realtime.EventOrderUpdated, domain.NewOrderView(ord))
	s.log.Info("order_cancelled", map[string]any{"order": ord.OrderNo, "reason": reason})
	return ord, nil
}

// HardDelete is the administrative escape hatch: unconditional removal, no
// table-release coupling. The gap is deliberate and documented.
func (s *Service) HardDelete(ctx context.Context, orderNo string) error {
	if err := s.orders.Delete(ctx, orderNo); err != nil {
		return err
	}
	s.publish(realtime.EventOrderUpdated, map[string]any{"id": orderNo, "deleted": true})
	s.log.Info("order_deleted", map[string]any{"order": orderNo})
	return nil
}

// ReleaseTable frees the order's table best-effort; used here and by the
// settlement step.
func (s *Service) ReleaseTable(ctx context.Context, ord domain.Order) {
	s.releaseTable(ctx, ord)
}

func (s *Service) releaseTable(ctx context.Context, ord domain.Order) {
	if ord.OrderType != domain.OrderTypeDineIn || ord.TableNumber == "" {
		return
	}
	if err := s.tables.Release(ctx, ord.TableNumber); err != nil {
		s.log.Error("table_release_failed", err, map[string]any{
			"order": ord.OrderNo, "table": ord.TableNumber,
		})
	}
}

// Publish lets sibling services (settlement) emit through the same bus and
// keep the published-events counter honest.
func (s *Service) Publish(eventType realtime.EventType, data any) {
	s.publish(eventType, data)
}

func (s *Service) publish(eventType realtime.EventType, data any) {
	s.bus.Publish(eventType, data)
	s.metrics.EventsPublished.Inc()
}

// resolveItems turns intake items into snapshots: names and prices are fixed
// here and never re-read from the catalog, so historical totals survive menu
// price changes. Items without a name are resolved against the catalog.
func (s *Service) resolveItems(ctx context.Context, reqs []OrderItemRequest) ([]domain.OrderItem, error) {
	stamp := time.Now().UnixMilli()
	items := make([]domain.OrderItem, 0, len(reqs))

	for idx, req := range reqs {
		item := domain.OrderItem{
			ID:         req.ID,
			MenuItemID: req.MenuItemID,
			Name:       req.Name,
			Quantity:   req.Quantity,
			Notes:      req.Notes,
		}
		if req.Price != nil {
			item.Price = *req.Price
		}

		if item.Name == "" {
			mi, err := s.menu.Get(ctx, req.MenuItemID)
			if err != nil {
				return nil, domain.Invalid("items", fmt.Sprintf("unknown menu item %s", req.MenuItemID))
			}
			if !mi.Available {
				return nil, domain.Invalid("items", fmt.Sprintf("menu item %s is not available", mi.Name))
			}
			item.Name = mi.Name
			if req.Price == nil {
				item.Price = mi.Price
			}
		}

		if item.ID == "" {
			item.ID = fmt.Sprintf("%d_%d", stamp, idx)
		}
		items = append(items, item)
	}
	return items, nil
}

// newOrderNo builds a fresh public order number. The millisecond timestamp
// keeps numbers roughly sortable for humans; the random suffix keeps
// concurrent creations collision-free.
func newOrderNo(now time.Time) string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("ORD-%d-%s", now.UnixMilli(), suffix)
}

// Views maps orders to their public representation.
func Views(orders []domain.Order) []domain.OrderView {
	return lo.Map(orders, func(o domain.Order, _ int) domain.OrderView {
		return domain.NewOrderView(o)
	})
}
