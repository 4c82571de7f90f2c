package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/metrics"
	"restaurant-pos/internal/realtime"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/services/order"
)

// Service settles served orders. Settlement is the only path to the
// completed status: the served-and-covered guard and the completion are one
// conditional write in the repository, so two cashiers racing on the same
// order produce exactly one receipt.
type Service struct {
	orders  repository.OrderRepository
	engine  *order.Service
	metrics *metrics.Registry
	log     *logger.Logger
}

func NewService(orders repository.OrderRepository, engine *order.Service, m *metrics.Registry, log *logger.Logger) *Service {
	return &Service{orders: orders, engine: engine, metrics: m, log: log}
}

// SettleRequest is the payment intake payload.
type SettleRequest struct {
	OrderID       string  `json:"orderId"`
	PaymentMethod string  `json:"paymentMethod"`
	Amount        float64 `json:"amount"`
}

func (s *Service) Settle(ctx context.Context, req SettleRequest) (domain.Order, error) {
	if req.OrderID == "" {
		return domain.Order{}, domain.Invalid("orderId", "orderId is required")
	}
	method, err := domain.ToPaymentMethod(req.PaymentMethod)
	if err != nil {
		return domain.Order{}, domain.Invalid("paymentMethod", "paymentMethod must be one of cash, card, upi, other")
	}
	if req.Amount <= 0 {
		return domain.Order{}, domain.Invalid("amount", "amount must be positive")
	}

	now := time.Now().UTC()
	ord, err := s.orders.Settle(ctx, req.OrderID, method, newReceiptNo(now), req.Amount, now)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) && ord.OrderNo != "" {
			return domain.Order{}, fmt.Errorf("%s: %w", classifyConflict(ord, req.Amount), err)
		}
		return domain.Order{}, err
	}

	s.engine.ReleaseTable(ctx, ord)

	s.metrics.OrdersSettled.Inc()
	s.engine.Publish(realtime.EventOrderUpdated, domain.NewOrderView(ord))
	s.log.Info("order_settled", map[string]any{
		"order": ord.OrderNo, "method": string(method), "receipt": ord.ReceiptNo, "amount": req.Amount,
	})
	return ord, nil
}

// classifyConflict names the guard that failed. The comparison mirrors the
// store's: tendered covers total when the decimal difference is not negative.
func classifyConflict(current domain.Order, amount float64) string {
	if current.Status != domain.OrderStatusServed {
		return fmt.Sprintf("order must be served before payment, it is %s", current.Status)
	}
	tendered := decimal.NewFromFloat(amount)
	total := decimal.NewFromFloat(current.Total)
	if tendered.LessThan(total) {
		return fmt.Sprintf("amount %s is less than order total %s", tendered, total)
	}
	return "order state changed during payment"
}

func newReceiptNo(now time.Time) string {
	return fmt.Sprintf("R-%s-%d", now.Format("20060102"), now.UnixNano())
}
