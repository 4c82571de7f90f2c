package order

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-pos/internal/domain"
	"restaurant-pos/internal/logger"
	"restaurant-pos/internal/metrics"
	"restaurant-pos/internal/realtime"
	"restaurant-pos/internal/repository"
	"restaurant-pos/internal/services/table"
)

type fixture struct {
	svc    *Service
	tables repository.TableRepository
	menu   repository.MenuRepository
	bus    *realtime.Bus
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := logger.New("order-service-test")
	tables := repository.NewMemoryTables()
	menu := repository.NewMemoryMenu()
	f := &fixture{
		tables: tables,
		menu:   menu,
		bus:    realtime.NewBus(),
	}
	f.svc = NewService(
		repository.NewMemoryOrders(),
		table.NewService(tables, log),
		menu,
		f.bus,
		metrics.NewRegistry(),
		log,
	)
	return f
}

func (f *fixture) seedTable(t *testing.T, number string) {
	t.Helper()
	err := f.tables.Create(context.Background(), domain.Table{
		Number:   number,
		Capacity: 4,
		Status:   domain.TableStatusAvailable,
	})
	require.NoError(t, err)
}

func (f *fixture) collect() *[]realtime.Event {
	events := &[]realtime.Event{}
	f.bus.Subscribe(func(evt realtime.Event) {
		*events = append(*events, evt)
	})
	return events
}

func floatPtr(v float64) *float64 { return &v }

func TestCreateTakeout(t *testing.T) {
	f := newFixture(t)
	events := f.collect()

	ord, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType: "takeout",
		Customer:  "Asel",
		Items: []OrderItemRequest{
			{Name: "Samsa", Quantity: 2, Price: floatPtr(40)},
			{Name: "Plov", Quantity: 1, Price: floatPtr(280)},
		},
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ord.OrderNo, "ORD-"))
	assert.Equal(t, domain.OrderStatusPending, ord.Status)
	assert.Equal(t, float64(360), ord.Total)
	assert.Empty(t, ord.TableNumber)
	for _, item := range ord.Items {
		assert.NotEmpty(t, item.ID)
	}

	require.Len(t, *events, 1)
	assert.Equal(t, realtime.EventOrderCreated, (*events)[0].Type)
}

func TestCreateDineInOccupiesTable(t *testing.T) {
	f := newFixture(t)
	f.seedTable(t, "5")

	ord, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType:   "dine-in",
		TableNumber: "5",
		Items:       []OrderItemRequest{{Name: "Lagman", Quantity: 1, Price: floatPtr(150)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "5", ord.TableNumber)

	tb, err := f.tables.Get(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, domain.TableStatusOccupied, tb.Status)
	assert.Equal(t, ord.OrderNo, tb.CurrentOrder)
}

func TestCreateDineInMissingTableStillCreates(t *testing.T) {
	f := newFixture(t)

	ord, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType:   "dine-in",
		TableNumber: "99",
		Items:       []OrderItemRequest{{Name: "Tea", Quantity: 1, Price: floatPtr(10)}},
	})
	require.NoError(t, err)

	got, err := f.svc.Get(context.Background(), ord.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, got.Status)
}

func TestCreateResolvesMenuSnapshot(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.menu.Insert(context.Background(), domain.MenuItem{
		ID: "m-1", Name: "Manty", Price: 120, Available: true,
	}))

	ord, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType: "takeout",
		Items:     []OrderItemRequest{{MenuItemID: "m-1", Quantity: 3}},
	})
	require.NoError(t, err)
	require.Len(t, ord.Items, 1)
	assert.Equal(t, "Manty", ord.Items[0].Name)
	assert.Equal(t, float64(120), ord.Items[0].Price)
	assert.Equal(t, float64(360), ord.Total)

	// Later price changes must not touch the snapshot.
	_, err = f.menu.Update(context.Background(), "m-1", domain.MenuItemPatch{Price: floatPtr(999)})
	require.NoError(t, err)
	got, err := f.svc.Get(context.Background(), ord.OrderNo)
	require.NoError(t, err)
	assert.Equal(t, float64(360), got.Total)
}

func TestCreateRejectsUnavailableMenuItem(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.menu.Insert(context.Background(), domain.MenuItem{
		ID: "m-2", Name: "Beshbarmak", Price: 500, Available: false,
	}))

	_, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType: "takeout",
		Items:     []OrderItemRequest{{MenuItemID: "m-2", Quantity: 1}},
	})
	var verr domain.ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name string
		req  CreateOrderRequest
	}{
		{"missing items", CreateOrderRequest{OrderType: "takeout"}},
		{"bad type", CreateOrderRequest{OrderType: "delivery", Items: []OrderItemRequest{{Name: "x", Quantity: 1, Price: floatPtr(1)}}}},
		{"dine-in without table", CreateOrderRequest{OrderType: "dine-in", Items: []OrderItemRequest{{Name: "x", Quantity: 1, Price: floatPtr(1)}}}},
		{"zero quantity", CreateOrderRequest{OrderType: "takeout", Items: []OrderItemRequest{{Name: "x", Quantity: 0, Price: floatPtr(1)}}}},
		{"negative price", CreateOrderRequest{OrderType: "takeout", Items: []OrderItemRequest{{Name: "x", Quantity: 1, Price: floatPtr(-1)}}}},
		{"long notes", CreateOrderRequest{OrderType: "takeout", Items: []OrderItemRequest{{Name: "x", Quantity: 1, Price: floatPtr(1), Notes: strings.Repeat("n", 501)}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), tc.req)
			var verr domain.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestAdvanceStatusFlow(t *testing.T) {
	f := newFixture(t)
	ord, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType: "takeout",
		Items:     []OrderItemRequest{{Name: "Samsa", Quantity: 1, Price: floatPtr(40)}},
	})
	require.NoError(t, err)
	events := f.collect()

	for _, target := range []string{"preparing", "ready", "served"} {
		got, err := f.svc.AdvanceStatus(context.Background(), ord.OrderNo, target)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatus(target), got.Status)
	}

	got, err := f.svc.Get(context.Background(), ord.OrderNo)
	require.NoError(t, err)
	require.NotNil(t, got.ServedAt)

	// each transition emits a status event plus a full-order event
	assert.Len(t, *events, 6)
	assert.Equal(t, realtime.EventOrderStatusUpdated, (*events)[0].Type)
	assert.Equal(t, realtime.EventOrderUpdated, (*events)[1].Type)
}

func TestAdvanceStatusIdempotent(t *testing.T) {
	f := newFixture(t)
	ord, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType: "takeout",
		Items:     []OrderItemRequest{{Name: "Samsa", Quantity: 1, Price: floatPtr(40)}},
	})
	require.NoError(t, err)

	_, err = f.svc.AdvanceStatus(context.Background(), ord.OrderNo, "preparing")
	require.NoError(t, err)
	got, err := f.svc.AdvanceStatus(context.Background(), ord.OrderNo, "preparing")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPreparing, got.Status)
}

func TestAdvanceStatusRejectsRegression(t *testing.T) {
	f := newFixture(t)
	ord, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType: "takeout",
		Items:     []OrderItemRequest{{Name: "Samsa", Quantity: 1, Price: floatPtr(40)}},
	})
	require.NoError(t, err)

	_, err = f.svc.AdvanceStatus(context.Background(), ord.OrderNo, "ready")
	require.NoError(t, err)
	_, err = f.svc.AdvanceStatus(context.Background(), ord.OrderNo, "preparing")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAdvanceStatusRejectsTerminalTargets(t *testing.T) {
	f := newFixture(t)
	ord, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType: "takeout",
		Items:     []OrderItemRequest{{Name: "Samsa", Quantity: 1, Price: floatPtr(40)}},
	})
	require.NoError(t, err)

	for _, target := range []string{"completed", "cancelled", "bogus"} {
		_, err := f.svc.AdvanceStatus(context.Background(), ord.OrderNo, target)
		var verr domain.ValidationError
		assert.ErrorAs(t, err, &verr, target)
	}
}

func TestAdvanceStatusUnknownOrder(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.AdvanceStatus(context.Background(), "ORD-missing", "preparing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditRecomputesTotal(t *testing.T) {
	f := newFixture(t)
	ord, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType: "takeout",
		Items:     []OrderItemRequest{{Name: "Samsa", Quantity: 2, Price: floatPtr(40)}},
	})
	require.NoError(t, err)

	got, err := f.svc.Edit(context.Background(), ord.OrderNo, UpdateOrderRequest{
		Items: []OrderItemRequest{
			{Name: "Samsa", Quantity: 2, Price: floatPtr(40)},
			{Name: "Plov", Quantity: 1, Price: floatPtr(280)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, float64(360), got.Total)
	assert.True(t, got.UpdatedAt.After(ord.UpdatedAt) || got.UpdatedAt.Equal(ord.UpdatedAt))
}

func TestEditTerminalOrderConflicts(t *testing.T) {
	f := newFixture(t)
	ord, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType: "takeout",
		Items:     []OrderItemRequest{{Name: "Samsa", Quantity: 1, Price: floatPtr(40)}},
	})
	require.NoError(t, err)
	_, err = f.svc.Cancel(context.Background(), ord.OrderNo, "customer left")
	require.NoError(t, err)

	customer := "Someone"
	_, err = f.svc.Edit(context.Background(), ord.OrderNo, UpdateOrderRequest{Customer: &customer})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestCancelReleasesTable(t *testing.T) {
	f := newFixture(t)
	f.seedTable(t, "5")
	ord, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType:   "dine-in",
		TableNumber: "5",
		Items:       []OrderItemRequest{{Name: "Lagman", Quantity: 1, Price: floatPtr(150)}},
	})
	require.NoError(t, err)

	got, err := f.svc.Cancel(context.Background(), ord.OrderNo, "customer left")
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, got.Status)
	assert.Equal(t, "customer left", got.CancelReason)
	require.NotNil(t, got.CancelledAt)

	tb, err := f.tables.Get(context.Background(), "5")
	require.NoError(t, err)
	assert.Equal(t, domain.TableStatusAvailable, tb.Status)
	assert.Empty(t, tb.CurrentOrder)
}

func TestCancelRequiresReason(t *testing.T) {
	f := newFixture(t)
	ord, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType: "takeout",
		Items:     []OrderItemRequest{{Name: "Samsa", Quantity: 1, Price: floatPtr(40)}},
	})
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), ord.OrderNo, "   ")
	var verr domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestEditEmptyPatchIsNoop(t *testing.T) {
	f := newFixture(t)
	ord, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType: "takeout",
		Items:     []OrderItemRequest{{Name: "Samsa", Quantity: 1, Price: floatPtr(40)}},
	})
	require.NoError(t, err)

	events := f.collect()
	got, err := f.svc.Edit(context.Background(), ord.OrderNo, UpdateOrderRequest{})
	require.NoError(t, err)
	assert.Equal(t, ord.Total, got.Total)
	assert.Equal(t, ord.UpdatedAt, got.UpdatedAt)
	assert.Empty(t, *events)
}

func TestCancelReasonTooLong(t *testing.T) {
	f := newFixture(t)
	ord, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType: "takeout",
		Items:     []OrderItemRequest{{Name: "Samsa", Quantity: 1, Price: floatPtr(40)}},
	})
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), ord.OrderNo, strings.Repeat("x", 201))
	var verr domain.ValidationError
	assert.ErrorAs(t, err, &verr)

	got, err := f.svc.Cancel(context.Background(), ord.OrderNo, strings.Repeat("x", 200))
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusCancelled, got.Status)
}

func TestCancelTwiceConflicts(t *testing.T) {
	f := newFixture(t)
	ord, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType: "takeout",
		Items:     []OrderItemRequest{{Name: "Samsa", Quantity: 1, Price: floatPtr(40)}},
	})
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), ord.OrderNo, "first")
	require.NoError(t, err)
	_, err = f.svc.Cancel(context.Background(), ord.OrderNo, "second")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestHardDelete(t *testing.T) {
	f := newFixture(t)
	ord, err := f.svc.Create(context.Background(), CreateOrderRequest{
		OrderType: "takeout",
		Items:     []OrderItemRequest{{Name: "Samsa", Quantity: 1, Price: floatPtr(40)}},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.HardDelete(context.Background(), ord.OrderNo))
	_, err = f.svc.Get(context.Background(), ord.OrderNo)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.ErrorIs(t, f.svc.HardDelete(context.Background(), ord.OrderNo), domain.ErrNotFound)
}

func TestListFilterAndPagination(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(context.Background(), CreateOrderRequest{
			OrderType: "takeout",
			Items:     []OrderItemRequest{{Name: "Samsa", Quantity: 1, Price: floatPtr(40)}},
		})
		require.NoError(t, err)
		time.Sleep(time.Millisecond)
	}

	orders, total, err := f.svc.List(context.Background(), domain.OrderFilter{Page: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, orders, 2)

	orders, total, err = f.svc.List(context.Background(), domain.OrderFilter{Status: domain.OrderStatusPreparing})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, orders)
}
