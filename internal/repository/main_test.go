package repository_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"restaurant-pos/internal/domain"
)

func startPostgres(ctx context.Context) (testcontainers.Container, string, error) {
	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("restaurant_pos_test"),
		tcpostgres.WithUsername("pos"),
		tcpostgres.WithPassword("pos"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, "", err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return container, "", err
	}
	return container, connStr, nil
}

// applySchema loads the initial migration into the fresh container.
func applySchema(ctx context.Context, pool *pgxpool.Pool) error {
	schema, err := os.ReadFile(filepath.Join("..", "..", "migrations", "001_init.sql"))
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, string(schema))
	return err
}

func fakeOrder() domain.Order {
	items := []domain.OrderItem{fakeOrderItem(0), fakeOrderItem(1)}
	now := time.Now().UTC().Truncate(time.Millisecond)
	return domain.Order{
		OrderNo:       "ORD-" + gofakeit.DigitN(13) + "-" + gofakeit.LetterN(6),
		Items:         items,
		Status:        domain.OrderStatusPending,
		Total:         domain.ComputeTotal(items),
		CreatedAt:     now,
		UpdatedAt:     now,
		Customer:      gofakeit.Name(),
		CustomerPhone: gofakeit.Phone(),
		OrderType:     domain.OrderTypeTakeout,
	}
}

func fakeOrderItem(idx int) domain.OrderItem {
	return domain.OrderItem{
		ID:       fmt.Sprintf("%d_%d", time.Now().UnixMilli(), idx),
		Name:     gofakeit.Dinner(),
		Quantity: gofakeit.Number(1, 5),
		Price:    gofakeit.Price(1, 500),
	}
}

func fakeTable() domain.Table {
	return domain.Table{
		Number:   gofakeit.DigitN(3),
		Capacity: gofakeit.Number(1, 20),
		Status:   domain.TableStatusAvailable,
	}
}

func fakeMenuItem() domain.MenuItem {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return domain.MenuItem{
		ID:          gofakeit.UUID(),
		Name:        gofakeit.Dinner(),
		Category:    gofakeit.RandomString([]string{"starters", "mains", "desserts", "drinks"}),
		Price:       gofakeit.Price(1, 500),
		Description: gofakeit.Sentence(6),
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
