package order

import (
	"restaurant-pos/internal/domain"
)

const maxCancelReasonLen = 200

func validateCreateRequest(req CreateOrderRequest) error {
	orderType, err := domain.ToOrderType(req.OrderType)
	if err != nil {
		return domain.Invalid("orderType", "order type must be dine-in or takeout")
	}
	if orderType == domain.OrderTypeDineIn && req.TableNumber == "" {
		return domain.Invalid("tableNumber", "table number is required for dine-in orders")
	}
	return validateItemRequests(req.Items)
}

func validateItemRequests(items []OrderItemRequest) error {
	if len(items) == 0 {
		return domain.Invalid("items", "order must have at least one item")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return domain.Invalid("items", "item quantity must be positive")
		}
		if item.Price != nil && *item.Price < 0 {
			return domain.Invalid("items", "item price must not be negative")
		}
		if item.Name == "" && item.MenuItemID == "" {
			return domain.Invalid("items", "item needs a name or a menuItemId")
		}
		if len(item.Notes) > 500 {
			return domain.Invalid("items", "item notes must be at most 500 characters")
		}
	}
	return nil
}

func validateUpdateRequest(req UpdateOrderRequest) error {
	if req.OrderType != nil {
		if _, err := domain.ToOrderType(*req.OrderType); err != nil {
			return domain.Invalid("orderType", "order type must be dine-in or takeout")
		}
	}
	if req.Status != nil {
		status, err := domain.ToOrderStatus(*req.Status)
		if err != nil {
			return domain.Invalid("status", "invalid order status")
		}
		if status.Terminal() {
			return domain.Invalid("status", "completed and cancelled are set by settlement and cancellation")
		}
	}
	if req.TableNumber != nil && *req.TableNumber == "" {
		return domain.Invalid("tableNumber", "table number must not be empty")
	}
	if req.Items != nil {
		return validateItemRequests(req.Items)
	}
	return nil
}
