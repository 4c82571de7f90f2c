package domain

import "time"

// OrderView is the public representation of an order: the order number is
// the `id` the outside world sees, internal storage keys never leak. The
// same shape travels over the HTTP API and the realtime feed.
type OrderView struct {
	ID            string      `json:"id"`
	TableNumber   string      `json:"tableNumber,omitempty"`
	Items         []OrderItem `json:"items"`
	Status        OrderStatus `json:"status"`
	Total         float64     `json:"total"`
	CreatedAt     time.Time   `json:"createdAt"`
	UpdatedAt     time.Time   `json:"updatedAt"`
	ServedAt      *time.Time  `json:"servedAt,omitempty"`
	PaidAt        *time.Time  `json:"paidAt,omitempty"`
	PaymentMethod string      `json:"paymentMethod,omitempty"`
	ReceiptNo     string      `json:"receiptNo,omitempty"`
	Customer      string      `json:"customer,omitempty"`
	CustomerPhone string      `json:"customerPhone,omitempty"`
	OrderType     OrderType   `json:"orderType"`
	CancelledAt   *time.Time  `json:"cancelledAt,omitempty"`
	CancelReason  string      `json:"cancelReason,omitempty"`
}

func NewOrderView(o Order) OrderView {
	items := o.Items
	if items == nil {
		items = []OrderItem{}
	}
	return OrderView{
		ID:            o.OrderNo,
		TableNumber:   o.TableNumber,
		Items:         items,
		Status:        o.Status,
		Total:         o.Total,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		ServedAt:      o.ServedAt,
		PaidAt:        o.PaidAt,
		PaymentMethod: string(o.PaymentMethod),
		ReceiptNo:     o.ReceiptNo,
		Customer:      o.Customer,
		CustomerPhone: o.CustomerPhone,
		OrderType:     o.OrderType,
		CancelledAt:   o.CancelledAt,
		CancelReason:  o.CancelReason,
	}
}

// TableView is the public representation of a table.
type TableView struct {
	Number       string      `json:"number"`
	Capacity     int         `json:"capacity"`
	Status       TableStatus `json:"status"`
	CurrentOrder string      `json:"currentOrder,omitempty"`
}

func NewTableView(t Table) TableView {
	return TableView{
		Number:       t.Number,
		Capacity:     t.Capacity,
		Status:       t.Status,
		CurrentOrder: t.CurrentOrder,
	}
}

// MenuItemView is the public representation of a catalog item.
type MenuItemView struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Available   bool    `json:"available"`
}

func NewMenuItemView(m MenuItem) MenuItemView {
	return MenuItemView{
		ID:          m.ID,
		Name:        m.Name,
		Category:    m.Category,
		Price:       m.Price,
		Description: m.Description,
		Available:   m.Available,
	}
}
