package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToOrderStatus(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    OrderStatus
		wantErr bool
	}{
		{name: "pending", input: "pending", want: OrderStatusPending},
		{name: "served", input: "served", want: OrderStatusServed},
		{name: "cancelled", input: "cancelled", want: OrderStatusCancelled},
		{name: "unknown", input: "burnt", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ToOrderStatus(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderStatusCanAdvance(t *testing.T) {
	tests := []struct {
		name   string
		from   OrderStatus
		target OrderStatus
		want   bool
	}{
		{name: "pending to preparing", from: OrderStatusPending, target: OrderStatusPreparing, want: true},
		{name: "skip forward", from: OrderStatusPending, target: OrderStatusServed, want: true},
		{name: "same rank idempotent", from: OrderStatusServed, target: OrderStatusServed, want: true},
		{name: "regression rejected", from: OrderStatusReady, target: OrderStatusPending, want: false},
		{name: "served back to ready rejected", from: OrderStatusServed, target: OrderStatusReady, want: false},
		{name: "completed not assignable", from: OrderStatusServed, target: OrderStatusCompleted, want: false},
		{name: "cancelled not assignable", from: OrderStatusPending, target: OrderStatusCancelled, want: false},
		{name: "from terminal", from: OrderStatusCompleted, target: OrderStatusServed, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanAdvance(tt.target))
		})
	}
}

func TestComputeTotal(t *testing.T) {
	items := []OrderItem{
		{Name: "Lassi", Quantity: 2, Price: 40},
		{Name: "Paneer Tikka", Quantity: 1, Price: 280},
	}
	assert.Equal(t, 360.0, ComputeTotal(items))

	// order of items must not matter
	assert.Equal(t, ComputeTotal(items), ComputeTotal([]OrderItem{items[1], items[0]}))

	// decimal accumulation stays exact
	cents := []OrderItem{
		{Name: "Chutney", Quantity: 3, Price: 0.1},
	}
	assert.Equal(t, 0.3, ComputeTotal(cents))

	assert.Equal(t, 0.0, ComputeTotal(nil))
}

func TestTerminal(t *testing.T) {
	assert.True(t, OrderStatusCompleted.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusServed.Terminal())
	assert.False(t, OrderStatusPending.Terminal())
}
