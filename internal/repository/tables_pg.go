package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-pos/internal/domain"
)

type tablesPG struct {
	pool *pgxpool.Pool
}

func NewTablesPG(pool *pgxpool.Pool) TableRepository {
	return &tablesPG{pool: pool}
}

const tableColumns = `number, capacity, status, current_order, created_at, updated_at`

func (r *tablesPG) Create(ctx context.Context, table domain.Table) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO tables (number, capacity, status, current_order)
		VALUES ($1, $2, $3, $4)
	`, table.Number, table.Capacity, string(table.Status), table.CurrentOrder)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("table number %s already exists: %w", table.Number, domain.ErrConflict)
		}
		return fmt.Errorf("insert table: %w", err)
	}
	return nil
}

func (r *tablesPG) Get(ctx context.Context, number string) (domain.Table, error) {
	table, err := scanTable(r.pool.QueryRow(ctx,
		`SELECT `+tableColumns+` FROM tables WHERE number = $1`, number))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Table{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("get table: %w", err)
	}
	return table, nil
}

func (r *tablesPG) List(ctx context.Context, status domain.TableStatus) ([]domain.Table, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+tableColumns+` FROM tables
		WHERE ($1 = '' OR status = $1)
		ORDER BY number
	`, string(status))
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var tables []domain.Table
	for rows.Next() {
		table, err := scanTable(rows)
		if err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func (r *tablesPG) Update(ctx context.Context, number string, patch domain.TablePatch) (domain.Table, error) {
	var status *string
	if patch.Status != nil {
		s := string(*patch.Status)
		status = &s
	}

	table, err := scanTable(r.pool.QueryRow(ctx, `
		UPDATE tables SET
			capacity = COALESCE($2::int, capacity),
			status = COALESCE($3::text, status),
			current_order = COALESCE($4::text, current_order),
			updated_at = NOW()
		WHERE number = $1
		RETURNING `+tableColumns,
		number, patch.Capacity, status, patch.CurrentOrder,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Table{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Table{}, fmt.Errorf("update table: %w", err)
	}
	return table, nil
}

func (r *tablesPG) Delete(ctx context.Context, number string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM tables WHERE number = $1`, number)
	if err != nil {
		return fmt.Errorf("delete table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *tablesPG) Occupy(ctx context.Context, number, orderNo string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tables SET status = 'occupied', current_order = $2, updated_at = NOW()
		WHERE number = $1
	`, number, orderNo)
	if err != nil {
		return fmt.Errorf("occupy table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *tablesPG) Release(ctx context.Context, number string) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE tables SET status = 'available', current_order = '', updated_at = NOW()
		WHERE number = $1
	`, number)
	if err != nil {
		return fmt.Errorf("release table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanTable(row pgx.Row) (domain.Table, error) {
	var (
		t      domain.Table
		status string
	)
	err := row.Scan(&t.Number, &t.Capacity, &status, &t.CurrentOrder, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return t, err
	}
	t.Status = domain.TableStatus(status)
	return t, nil
}
