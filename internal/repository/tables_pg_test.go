package repository_test

import (
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/goleak"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/repository"
)

type tableRepositorySuite struct {
	suite.Suite

	pool      *pgxpool.Pool
	tables    repository.TableRepository
	menu      repository.MenuRepository
	container testcontainers.Container
}

func TestTableRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container-backed tests in short mode")
	}
	defer goleak.VerifyNone(t)

	suite.Run(t, new(tableRepositorySuite))
}

func (suite *tableRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	var (
		connStr string
		err     error
	)

	suite.container, connStr, err = startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.Require().NoError(applySchema(ctx, suite.pool))

	suite.tables = repository.NewTablesPG(suite.pool)
	suite.menu = repository.NewMenuPG(suite.pool)
}

func (suite *tableRepositorySuite) TearDownSuite() {
	ctx := suite.T().Context()

	if suite.pool != nil {
		suite.pool.Close()
	}
	if suite.container != nil {
		suite.NoError(suite.container.Terminate(ctx))
	}
}

func (suite *tableRepositorySuite) TestCreateDuplicateNumber() {
	t := suite.T()
	ctx := t.Context()

	table := fakeTable()
	require.NoError(t, suite.tables.Create(ctx, table))
	assert.ErrorIs(t, suite.tables.Create(ctx, table), domain.ErrConflict)
}

func (suite *tableRepositorySuite) TestOccupyAndRelease() {
	t := suite.T()
	ctx := t.Context()

	table := fakeTable()
	require.NoError(t, suite.tables.Create(ctx, table))

	require.NoError(t, suite.tables.Occupy(ctx, table.Number, "ORD-1"))
	occupied, err := suite.tables.Get(ctx, table.Number)
	require.NoError(t, err)
	assert.Equal(t, domain.TableStatusOccupied, occupied.Status)
	assert.Equal(t, "ORD-1", occupied.CurrentOrder)

	require.NoError(t, suite.tables.Release(ctx, table.Number))
	released, err := suite.tables.Get(ctx, table.Number)
	require.NoError(t, err)
	assert.Equal(t, domain.TableStatusAvailable, released.Status)
	assert.Empty(t, released.CurrentOrder)

	assert.ErrorIs(t, suite.tables.Occupy(ctx, "no-such-table", "ORD-2"), domain.ErrNotFound)
}

func (suite *tableRepositorySuite) TestUpdateAndList() {
	t := suite.T()
	ctx := t.Context()

	table := fakeTable()
	require.NoError(t, suite.tables.Create(ctx, table))

	reserved := domain.TableStatusReserved
	updated, err := suite.tables.Update(ctx, table.Number, domain.TablePatch{Status: &reserved})
	require.NoError(t, err)
	assert.Equal(t, reserved, updated.Status)

	listed, err := suite.tables.List(ctx, reserved)
	require.NoError(t, err)
	numbers := make([]string, 0, len(listed))
	for _, tb := range listed {
		numbers = append(numbers, tb.Number)
	}
	assert.Contains(t, numbers, table.Number)
}

func (suite *tableRepositorySuite) TestMenuCRUD() {
	t := suite.T()
	ctx := t.Context()

	item := fakeMenuItem()
	require.NoError(t, suite.menu.Insert(ctx, item))

	got, err := suite.menu.Get(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Name, got.Name)
	assert.Equal(t, item.Price, got.Price)

	unavailable := false
	price := 999.0
	updated, err := suite.menu.Update(ctx, item.ID, domain.MenuItemPatch{
		Available: &unavailable,
		Price:     &price,
	})
	require.NoError(t, err)
	assert.False(t, updated.Available)
	assert.Equal(t, price, updated.Price)

	require.NoError(t, suite.menu.Delete(ctx, item.ID))
	_, err = suite.menu.Get(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
