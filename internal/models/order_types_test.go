package models

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	testCases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderPending, OrderProcessing, true},
		{OrderPending, OrderCancelled, true},
		{OrderProcessing, OrderShipped, true},
		{OrderProcessing, OrderCancelled, true},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderCancelled, true},

		// No skipping ahead.
		{OrderPending, OrderShipped, false},
		{OrderPending, OrderDelivered, false},
		{OrderProcessing, OrderDelivered, false},

		// No moving backwards.
		{OrderShipped, OrderProcessing, false},
		{OrderProcessing, OrderPending, false},

		// Terminal states stay terminal.
		{OrderDelivered, OrderCancelled, false},
		{OrderDelivered, OrderPending, false},
		{OrderCancelled, OrderPending, false},
		{OrderCancelled, OrderProcessing, false},

		// Self transitions are not a move.
		{OrderPending, OrderPending, false},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s_to_%s", tc.from, tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, OrderPending.IsTerminal())
	assert.False(t, OrderProcessing.IsTerminal())
	assert.False(t, OrderShipped.IsTerminal())
	assert.True(t, OrderDelivered.IsTerminal())
	assert.True(t, OrderCancelled.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	status, ok := ParseOrderStatus("processing")
	assert.True(t, ok)
	assert.Equal(t, OrderProcessing, status)

	_, ok = ParseOrderStatus("returned")
	assert.False(t, ok)

	_, ok = ParseOrderStatus("")
	assert.False(t, ok)

	// Status values are case sensitive, matching the DB enum.
	_, ok = ParseOrderStatus("Pending")
	assert.False(t, ok)
}

func TestParsePaymentStatus(t *testing.T) {
	for _, valid := range []string{"pending", "paid", "failed", "refunded"} {
		status, ok := ParsePaymentStatus(valid)
		assert.True(t, ok, valid)
		assert.Equal(t, PaymentStatus(valid), status)
	}

	_, ok := ParsePaymentStatus("unpaid")
	assert.False(t, ok)
}

func TestNewOrderNumber(t *testing.T) {
	at := time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, fmt.Sprintf("BK-%d", at.UnixMilli()), NewOrderNumber(at))

	// Different instants produce different numbers.
	assert.NotEqual(t, NewOrderNumber(at), NewOrderNumber(at.Add(time.Millisecond)))
}
