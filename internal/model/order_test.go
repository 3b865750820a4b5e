package model

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusCompleted, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusCompleted, false},
		{OrderStatusShipped, OrderStatusCompleted, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusCompleted, OrderStatusCancelled, false},
		{OrderStatusCompleted, OrderStatusProcessing, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusProcessing, false},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusTransitionUnknownTarget(t *testing.T) {
	assert.False(t, OrderStatusPending.CanTransitionTo("refunded"))
	assert.False(t, OrderStatus("bogus").CanTransitionTo(OrderStatusCancelled))
}

func TestParseOrderStatus(t *testing.T) {
	s, err := ParseOrderStatus("processing")
	assert.NoError(t, err)
	assert.Equal(t, OrderStatusProcessing, s)

	_, err = ParseOrderStatus("refunded")
	assert.Error(t, err)
}

func TestGenerateOrderNumber(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{8}-[0-9A-F]{6}$`)
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		n := GenerateOrderNumber()
		assert.Regexp(t, pattern, n)
		seen[n] = true
	}
	// Collisions in 100 draws of a 24-bit space would point at a broken generator
	assert.Greater(t, len(seen), 99)
}

func TestOrderComputeTotal(t *testing.T) {
	order := Order{
		Items: []OrderItem{
			{Quantity: 3, Price: decimal.RequireFromString("100.00")},
			{Quantity: 2, Price: decimal.RequireFromString("19.99")},
		},
	}
	assert.True(t, order.ComputeTotal().Equal(decimal.RequireFromString("339.98")))
}

func TestOrderItemSubtotal(t *testing.T) {
	item := OrderItem{Quantity: 4, Price: decimal.RequireFromString("2.50")}
	assert.True(t, item.Subtotal().Equal(decimal.RequireFromString("10.00")))
}
