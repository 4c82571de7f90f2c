package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-pos/internal/domain"
)

type menuPG struct {
	pool *pgxpool.Pool
}

func NewMenuPG(pool *pgxpool.Pool) MenuRepository {
	return &menuPG{pool: pool}
}

const menuColumns = `id, name, category, price, description, available, created_at, updated_at`

func (r *menuPG) Insert(ctx context.Context, item domain.MenuItem) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO menu_items (id, name, category, price, description, available)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, item.ID, item.Name, item.Category, item.Price, item.Description, item.Available)
	if err != nil {
		return fmt.Errorf("insert menu item: %w", err)
	}
	return nil
}

func (r *menuPG) Get(ctx context.Context, id string) (domain.MenuItem, error) {
	item, err := scanMenuItem(r.pool.QueryRow(ctx,
		`SELECT `+menuColumns+` FROM menu_items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MenuItem{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("get menu item: %w", err)
	}
	return item, nil
}

func (r *menuPG) List(ctx context.Context) ([]domain.MenuItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+menuColumns+` FROM menu_items ORDER BY category, name`)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var items []domain.MenuItem
	for rows.Next() {
		item, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *menuPG) Update(ctx context.Context, id string, patch domain.MenuItemPatch) (domain.MenuItem, error) {
	item, err := scanMenuItem(r.pool.QueryRow(ctx, `
		UPDATE menu_items SET
			name = COALESCE($2::text, name),
			category = COALESCE($3::text, category),
			price = COALESCE($4::double precision, price),
			description = COALESCE($5::text, description),
			available = COALESCE($6::boolean, available),
			updated_at = NOW()
		WHERE id = $1
		RETURNING `+menuColumns,
		id, patch.Name, patch.Category, patch.Price, patch.Description, patch.Available,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.MenuItem{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.MenuItem{}, fmt.Errorf("update menu item: %w", err)
	}
	return item, nil
}

func (r *menuPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM menu_items WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete menu item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanMenuItem(row pgx.Row) (domain.MenuItem, error) {
	var item domain.MenuItem
	err := row.Scan(&item.ID, &item.Name, &item.Category, &item.Price,
		&item.Description, &item.Available, &item.CreatedAt, &item.UpdatedAt)
	return item, err
}
