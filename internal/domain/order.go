package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

// remember to add new statuses to the validOrderStatuses map and statusRank
const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusServed    OrderStatus = "served"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var validOrderStatuses = map[OrderStatus]struct{}{
	OrderStatusPending:   {},
	OrderStatusPreparing: {},
	OrderStatusReady:     {},
	OrderStatusServed:    {},
	OrderStatusCompleted: {},
	OrderStatusCancelled: {},
}

// statusRank orders the kitchen/waiter flow. Terminal statuses are not part
// of the flow: completed is reachable only through settlement, cancelled only
// through cancellation.
var statusRank = map[OrderStatus]int{
	OrderStatusPending:   0,
	OrderStatusPreparing: 1,
	OrderStatusReady:     2,
	OrderStatusServed:    3,
}

func ToOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := validOrderStatuses[status]; ok {
		return status, nil
	}
	return "", errors.New("invalid order status")
}

func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// CanAdvance reports whether a PATCH-style transition from s to target is
// allowed: only flow statuses, never backwards. Equal rank is allowed so that
// re-serving an order restamps servedAt without regressing anything.
func (s OrderStatus) CanAdvance(target OrderStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[target]
	if !ok {
		return false
	}
	return to >= from
}

type OrderType string

const (
	OrderTypeDineIn  OrderType = "dine-in"
	OrderTypeTakeout OrderType = "takeout"
)

func ToOrderType(s string) (OrderType, error) {
	switch t := OrderType(s); t {
	case OrderTypeDineIn, OrderTypeTakeout:
		return t, nil
	}
	return "", errors.New("invalid order type")
}

type PaymentMethod string

const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodCard  PaymentMethod = "card"
	PaymentMethodUPI   PaymentMethod = "upi"
	PaymentMethodOther PaymentMethod = "other"
)

func ToPaymentMethod(s string) (PaymentMethod, error) {
	switch m := PaymentMethod(s); m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodUPI, PaymentMethodOther:
		return m, nil
	}
	return "", errors.New("invalid payment method")
}

// OrderItem is a snapshot taken at order-creation time. Name and price are
// never re-read from the menu catalog, so historical totals survive later
// price changes.
type OrderItem struct {
	ID         string  `json:"id"`
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	Price      float64 `json:"price"`
	Notes      string  `json:"notes,omitempty"`
}

// Order is keyed publicly by OrderNo; internal storage keys never leave the
// repository layer.
type Order struct {
	OrderNo       string
	TableNumber   string
	Items         []OrderItem
	Status        OrderStatus
	Total         float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	ServedAt      *time.Time
	PaidAt        *time.Time
	PaymentMethod PaymentMethod
	ReceiptNo     string
	Customer      string
	CustomerPhone string
	OrderType     OrderType
	CancelledAt   *time.Time
	CancelReason  string
}

// ComputeTotal sums price*quantity over items. Decimal arithmetic keeps
// sums like 3×0.1 exact before the amount goes back to the wire as a float.
func ComputeTotal(items []OrderItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	f, _ := total.Float64()
	return f
}

// OrderFilter narrows List queries. Zero values mean "no filter".
type OrderFilter struct {
	Status      OrderStatus
	TableNumber string
	Page        int
	Limit       int
}

func (f *OrderFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}
}

// OrderPatch carries the optional fields of a partial order update. Nil
// pointers leave the stored value untouched.
type OrderPatch struct {
	TableNumber   *string
	Customer      *string
	CustomerPhone *string
	OrderType     *OrderType
	Status        *OrderStatus
	Items         []OrderItem // nil means keep; non-nil replaces and recomputes total
}

func (p OrderPatch) Empty() bool {
	return p.TableNumber == nil && p.Customer == nil && p.CustomerPhone == nil &&
		p.OrderType == nil && p.Status == nil && p.Items == nil
}
