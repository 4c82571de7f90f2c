package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"

	"restaurant-pos/internal/domain"
)

// In-memory implementations with the same conditional-update semantics as
// the Postgres ones. They back the service and handler tests and are handy
// for local demos without a database.

type memoryOrders struct {
	mu   sync.Mutex
	rows map[string]domain.Order
	seq  map[string]int // insertion order, tie-break for equal timestamps
	next int
}

func NewMemoryOrders() OrderRepository {
	return &memoryOrders{rows: make(map[string]domain.Order), seq: make(map[string]int)}
}

func (r *memoryOrders) Insert(_ context.Context, order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[order.OrderNo] = order
	r.seq[order.OrderNo] = r.next
	r.next++
	return nil
}

func (r *memoryOrders) Get(_ context.Context, orderNo string) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	order, ok := r.rows[orderNo]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	return order, nil
}

func (r *memoryOrders) List(_ context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	filter.Normalize()

	r.mu.Lock()
	matched := lo.Filter(lo.Values(r.rows), func(o domain.Order, _ int) bool {
		if filter.Status != "" && o.Status != filter.Status {
			return false
		}
		if filter.TableNumber != "" && o.TableNumber != filter.TableNumber {
			return false
		}
		return true
	})
	seq := make(map[string]int, len(matched))
	for _, o := range matched {
		seq[o.OrderNo] = r.seq[o.OrderNo]
	}
	r.mu.Unlock()

	// newest first
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return seq[matched[i].OrderNo] > seq[matched[j].OrderNo]
	})

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start >= total {
		return nil, total, nil
	}
	end := min(start+filter.Limit, total)
	return matched[start:end], total, nil
}

func (r *memoryOrders) AdvanceStatus(_ context.Context, orderNo string, status domain.OrderStatus) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.rows[orderNo]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	if order.Status.Terminal() || !order.Status.CanAdvance(status) {
		return order, domain.ErrConflict
	}

	order.Status = status
	if status == domain.OrderStatusServed {
		now := time.Now().UTC()
		order.ServedAt = &now
	}
	order.UpdatedAt = time.Now().UTC()
	r.rows[orderNo] = order
	return order, nil
}

func (r *memoryOrders) Update(_ context.Context, orderNo string, patch domain.OrderPatch) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.rows[orderNo]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	if order.Status.Terminal() {
		return order, domain.ErrConflict
	}

	if patch.TableNumber != nil {
		order.TableNumber = *patch.TableNumber
	}
	if patch.Customer != nil {
		order.Customer = *patch.Customer
	}
	if patch.CustomerPhone != nil {
		order.CustomerPhone = *patch.CustomerPhone
	}
	if patch.OrderType != nil {
		order.OrderType = *patch.OrderType
	}
	if patch.Status != nil {
		order.Status = *patch.Status
		if *patch.Status == domain.OrderStatusServed {
			now := time.Now().UTC()
			order.ServedAt = &now
		}
	}
	if patch.Items != nil {
		order.Items = patch.Items
		order.Total = domain.ComputeTotal(patch.Items)
	}
	order.UpdatedAt = time.Now().UTC()
	r.rows[orderNo] = order
	return order, nil
}

func (r *memoryOrders) Cancel(_ context.Context, orderNo, reason string, at time.Time) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.rows[orderNo]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	if order.Status.Terminal() {
		return order, domain.ErrConflict
	}

	order.Status = domain.OrderStatusCancelled
	order.CancelledAt = &at
	order.CancelReason = reason
	order.UpdatedAt = time.Now().UTC()
	r.rows[orderNo] = order
	return order, nil
}

func (r *memoryOrders) Settle(_ context.Context, orderNo string, method domain.PaymentMethod, receiptNo string, amount float64, at time.Time) (domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.rows[orderNo]
	if !ok {
		return domain.Order{}, domain.ErrNotFound
	}
	if order.Status != domain.OrderStatusServed || amount < order.Total {
		return order, domain.ErrConflict
	}

	order.Status = domain.OrderStatusCompleted
	order.PaidAt = &at
	order.PaymentMethod = method
	order.ReceiptNo = receiptNo
	order.UpdatedAt = time.Now().UTC()
	r.rows[orderNo] = order
	return order, nil
}

func (r *memoryOrders) Delete(_ context.Context, orderNo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[orderNo]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, orderNo)
	return nil
}

type memoryTables struct {
	mu   sync.Mutex
	rows map[string]domain.Table
}

func NewMemoryTables() TableRepository {
	return &memoryTables{rows: make(map[string]domain.Table)}
}

func (r *memoryTables) Create(_ context.Context, table domain.Table) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.rows[table.Number]; exists {
		return domain.ErrConflict
	}
	r.rows[table.Number] = table
	return nil
}

func (r *memoryTables) Get(_ context.Context, number string) (domain.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	table, ok := r.rows[number]
	if !ok {
		return domain.Table{}, domain.ErrNotFound
	}
	return table, nil
}

func (r *memoryTables) List(_ context.Context, status domain.TableStatus) ([]domain.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tables := lo.Filter(lo.Values(r.rows), func(t domain.Table, _ int) bool {
		return status == "" || t.Status == status
	})
	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })
	return tables, nil
}

func (r *memoryTables) Update(_ context.Context, number string, patch domain.TablePatch) (domain.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, ok := r.rows[number]
	if !ok {
		return domain.Table{}, domain.ErrNotFound
	}
	if patch.Capacity != nil {
		table.Capacity = *patch.Capacity
	}
	if patch.Status != nil {
		table.Status = *patch.Status
	}
	if patch.CurrentOrder != nil {
		table.CurrentOrder = *patch.CurrentOrder
	}
	table.UpdatedAt = time.Now().UTC()
	r.rows[number] = table
	return table, nil
}

func (r *memoryTables) Delete(_ context.Context, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[number]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, number)
	return nil
}

func (r *memoryTables) Occupy(_ context.Context, number, orderNo string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, ok := r.rows[number]
	if !ok {
		return domain.ErrNotFound
	}
	table.Status = domain.TableStatusOccupied
	table.CurrentOrder = orderNo
	table.UpdatedAt = time.Now().UTC()
	r.rows[number] = table
	return nil
}

func (r *memoryTables) Release(_ context.Context, number string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	table, ok := r.rows[number]
	if !ok {
		return domain.ErrNotFound
	}
	table.Status = domain.TableStatusAvailable
	table.CurrentOrder = ""
	table.UpdatedAt = time.Now().UTC()
	r.rows[number] = table
	return nil
}

type memoryMenu struct {
	mu   sync.Mutex
	rows map[string]domain.MenuItem
}

func NewMemoryMenu() MenuRepository {
	return &memoryMenu{rows: make(map[string]domain.MenuItem)}
}

func (r *memoryMenu) Insert(_ context.Context, item domain.MenuItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[item.ID] = item
	return nil
}

func (r *memoryMenu) Get(_ context.Context, id string) (domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.rows[id]
	if !ok {
		return domain.MenuItem{}, domain.ErrNotFound
	}
	return item, nil
}

func (r *memoryMenu) List(_ context.Context) ([]domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := lo.Values(r.rows)
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (r *memoryMenu) Update(_ context.Context, id string, patch domain.MenuItemPatch) (domain.MenuItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	item, ok := r.rows[id]
	if !ok {
		return domain.MenuItem{}, domain.ErrNotFound
	}
	if patch.Name != nil {
		item.Name = *patch.Name
	}
	if patch.Category != nil {
		item.Category = *patch.Category
	}
	if patch.Price != nil {
		item.Price = *patch.Price
	}
	if patch.Description != nil {
		item.Description = *patch.Description
	}
	if patch.Available != nil {
		item.Available = *patch.Available
	}
	item.UpdatedAt = time.Now().UTC()
	r.rows[id] = item
	return item, nil
}

func (r *memoryMenu) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}
