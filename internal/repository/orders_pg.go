package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-pos/internal/domain"
)

type ordersPG struct {
	pool *pgxpool.Pool
}

func NewOrdersPG(pool *pgxpool.Pool) OrderRepository {
	return &ordersPG{pool: pool}
}

const orderColumns = `
	order_no, table_number, items, status, total,
	customer, customer_phone, order_type, payment_method, receipt_no,
	cancel_reason, created_at, updated_at, served_at, paid_at, cancelled_at`

// statusRankSQL mirrors the rank used by domain.OrderStatus.CanAdvance so
// the regression check happens inside the conditional update itself.
const statusRankSQL = `CASE %s
	WHEN 'pending' THEN 0
	WHEN 'preparing' THEN 1
	WHEN 'ready' THEN 2
	WHEN 'served' THEN 3
END`

func (r *ordersPG) Insert(ctx context.Context, order domain.Order) error {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO orders
			(order_no, table_number, items, status, total,
			 customer, customer_phone, order_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`,
		order.OrderNo, order.TableNumber, items, string(order.Status), order.Total,
		order.Customer, order.CustomerPhone, string(order.OrderType), order.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (r *ordersPG) Get(ctx context.Context, orderNo string) (domain.Order, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_no = $1`, orderNo)

	order, err := scanOrder(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Order{}, domain.ErrNotFound
		}
		return domain.Order{}, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

func (r *ordersPG) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	filter.Normalize()

	where := ` WHERE ($1 = '' OR status = $1) AND ($2 = '' OR table_number = $2)`
	args := []any{string(filter.Status), filter.TableNumber}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders`+where+`
		 ORDER BY created_at DESC LIMIT $3 OFFSET $4`,
		append(args, filter.Limit, (filter.Page-1)*filter.Limit)...)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, total, rows.Err()
}

func (r *ordersPG) AdvanceStatus(ctx context.Context, orderNo string, status domain.OrderStatus) (domain.Order, error) {
	query := fmt.Sprintf(`
		UPDATE orders SET
			status = $2,
			served_at = CASE WHEN $2 = 'served' THEN NOW() ELSE served_at END,
			updated_at = NOW()
		WHERE order_no = $1
		  AND status NOT IN ('completed', 'cancelled')
		  AND (%s) <= (%s)
		RETURNING `+orderColumns,
		fmt.Sprintf(statusRankSQL, "status"),
		fmt.Sprintf(statusRankSQL, "$2::text"),
	)

	order, err := scanOrder(r.pool.QueryRow(ctx, query, orderNo, string(status)))
	if errors.Is(err, pgx.ErrNoRows) {
		return r.classifyMiss(ctx, orderNo)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("advance status: %w", err)
	}
	return order, nil
}

func (r *ordersPG) Update(ctx context.Context, orderNo string, patch domain.OrderPatch) (domain.Order, error) {
	var (
		items    []byte
		newTotal *float64
		err      error
	)
	if patch.Items != nil {
		items, err = json.Marshal(patch.Items)
		if err != nil {
			return domain.Order{}, fmt.Errorf("marshal items: %w", err)
		}
		t := domain.ComputeTotal(patch.Items)
		newTotal = &t
	}

	var status, orderType *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}
	if patch.OrderType != nil {
		t := string(*patch.OrderType)
		orderType = &t
	}

	order, err := scanOrder(r.pool.QueryRow(ctx, `
		UPDATE orders SET
			table_number = COALESCE($2::text, table_number),
			customer = COALESCE($3::text, customer),
			customer_phone = COALESCE($4::text, customer_phone),
			order_type = COALESCE($5::text, order_type),
			status = COALESCE($6::text, status),
			items = COALESCE($7::jsonb, items),
			total = COALESCE($8::double precision, total),
			served_at = CASE WHEN $6::text = 'served' THEN NOW() ELSE served_at END,
			updated_at = NOW()
		WHERE order_no = $1 AND status NOT IN ('completed', 'cancelled')
		RETURNING `+orderColumns,
		orderNo, patch.TableNumber, patch.Customer, patch.CustomerPhone,
		orderType, status, items, newTotal,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return r.classifyMiss(ctx, orderNo)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("update order: %w", err)
	}
	return order, nil
}

func (r *ordersPG) Cancel(ctx context.Context, orderNo, reason string, at time.Time) (domain.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `
		UPDATE orders SET
			status = 'cancelled',
			cancelled_at = $2,
			cancel_reason = $3,
			updated_at = NOW()
		WHERE order_no = $1 AND status NOT IN ('completed', 'cancelled')
		RETURNING `+orderColumns,
		orderNo, at, reason,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return r.classifyMiss(ctx, orderNo)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("cancel order: %w", err)
	}
	return order, nil
}

func (r *ordersPG) Settle(ctx context.Context, orderNo string, method domain.PaymentMethod, receiptNo string, amount float64, at time.Time) (domain.Order, error) {
	order, err := scanOrder(r.pool.QueryRow(ctx, `
		UPDATE orders SET
			status = 'completed',
			paid_at = $2,
			payment_method = $3,
			receipt_no = $4,
			updated_at = NOW()
		WHERE order_no = $1 AND status = 'served' AND total <= $5
		RETURNING `+orderColumns,
		orderNo, at, string(method), receiptNo, amount,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return r.classifyMiss(ctx, orderNo)
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("settle order: %w", err)
	}
	return order, nil
}

func (r *ordersPG) Delete(ctx context.Context, orderNo string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE order_no = $1`, orderNo)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// classifyMiss distinguishes an unknown order from a failed state condition
// after a conditional update matched no row. On conflict the current row
// rides along so callers can report what the order's state actually was.
func (r *ordersPG) classifyMiss(ctx context.Context, orderNo string) (domain.Order, error) {
	current, err := r.Get(ctx, orderNo)
	if err != nil {
		return domain.Order{}, err
	}
	return current, domain.ErrConflict
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o                             domain.Order
		items                         []byte
		status, orderType, payMethod  string
		servedAt, paidAt, cancelledAt *time.Time
	)

	err := row.Scan(
		&o.OrderNo, &o.TableNumber, &items, &status, &o.Total,
		&o.Customer, &o.CustomerPhone, &orderType, &payMethod, &o.ReceiptNo,
		&o.CancelReason, &o.CreatedAt, &o.UpdatedAt, &servedAt, &paidAt, &cancelledAt,
	)
	if err != nil {
		return o, err
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return o, fmt.Errorf("unmarshal items: %w", err)
	}

	o.Status = domain.OrderStatus(status)
	o.OrderType = domain.OrderType(orderType)
	o.PaymentMethod = domain.PaymentMethod(payMethod)
	o.ServedAt = servedAt
	o.PaidAt = paidAt
	o.CancelledAt = cancelledAt
	return o, nil
}
