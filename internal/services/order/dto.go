package order

// CreateOrderRequest is the intake payload. Items may arrive pre-resolved
// (name and price present) or as menuItemId+quantity only, in which case the
// engine snapshots name/price from the catalog at creation time.
type CreateOrderRequest struct {
	TableNumber   string             `json:"tableNumber,omitempty"`
	Customer      string             `json:"customer,omitempty"`
	CustomerPhone string             `json:"customerPhone,omitempty"`
	OrderType     string             `json:"orderType"`
	Items         []OrderItemRequest `json:"items"`
}

type OrderItemRequest struct {
	ID         string  `json:"id,omitempty"`
	MenuItemID string  `json:"menuItemId"`
	Name       string  `json:"name,omitempty"`
	Quantity   int     `json:"quantity"`
	Price      *float64 `json:"price,omitempty"`
	Notes      string  `json:"notes,omitempty"`
}

// UpdateOrderRequest is the partial-edit payload; nil fields stay untouched.
type UpdateOrderRequest struct {
	TableNumber   *string            `json:"tableNumber,omitempty"`
	Customer      *string            `json:"customer,omitempty"`
	CustomerPhone *string            `json:"customerPhone,omitempty"`
	OrderType     *string            `json:"orderType,omitempty"`
	Status        *string            `json:"status,omitempty"`
	Items         []OrderItemRequest `json:"items,omitempty"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type StatusPatchRequest struct {
	Status string `json:"status"`
}
