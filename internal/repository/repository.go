package repository

import (
	"context"
	"time"

	"restaurant-pos/internal/domain"
)

// OrderRepository is the durable order store. Every mutating method that
// carries a state condition performs it as one atomic conditional update
// keyed by order number: two concurrent transitions for the same order can
// never both read stale state and overwrite each other. On a failed
// condition the current row is returned alongside domain.ErrConflict so
// callers can say precisely what conflicted.
type OrderRepository interface {
	Insert(ctx context.Context, order domain.Order) error
	Get(ctx context.Context, orderNo string) (domain.Order, error)
	List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error)

	// AdvanceStatus moves the order along the kitchen/waiter flow. The
	// update applies only while the order is non-terminal and the target
	// does not regress the flow; served stamps served_at.
	AdvanceStatus(ctx context.Context, orderNo string, status domain.OrderStatus) (domain.Order, error)

	// Update applies a partial edit while the order is non-terminal. When
	// the patch replaces items the total is recomputed in the same write.
	Update(ctx context.Context, orderNo string, patch domain.OrderPatch) (domain.Order, error)

	// Cancel is valid from any non-terminal status.
	Cancel(ctx context.Context, orderNo, reason string, at time.Time) (domain.Order, error)

	// Settle completes a served order when the tendered amount covers the
	// total; the guard and the completion are a single write.
	Settle(ctx context.Context, orderNo string, method domain.PaymentMethod, receiptNo string, amount float64, at time.Time) (domain.Order, error)

	// Delete removes the row unconditionally (administrative escape hatch).
	Delete(ctx context.Context, orderNo string) error
}

// TableRepository is the durable table store. Occupy and Release are atomic
// single-row updates keyed by table number; one-active-order-per-table is a
// procedural guarantee upheld by the lifecycle engine, not enforced here.
type TableRepository interface {
	Create(ctx context.Context, table domain.Table) error
	Get(ctx context.Context, number string) (domain.Table, error)
	List(ctx context.Context, status domain.TableStatus) ([]domain.Table, error)
	Update(ctx context.Context, number string, patch domain.TablePatch) (domain.Table, error)
	Delete(ctx context.Context, number string) error

	Occupy(ctx context.Context, number, orderNo string) error
	Release(ctx context.Context, number string) error
}

// MenuRepository is the catalog collaborator orders snapshot prices from.
type MenuRepository interface {
	Insert(ctx context.Context, item domain.MenuItem) error
	Get(ctx context.Context, id string) (domain.MenuItem, error)
	List(ctx context.Context) ([]domain.MenuItem, error)
	Update(ctx context.Context, id string, patch domain.MenuItemPatch) (domain.MenuItem, error)
	Delete(ctx context.Context, id string) error
}
