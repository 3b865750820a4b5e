package service

import (
	"context"
	"sync"
	"testing"

	"commerce-service/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createPendingOrder(t *testing.T, ctx context.Context, price string, quantity int) *model.Order {
	t.Helper()
	shop := seedShop(t, ctx, model.ShopStatusActive)
	product := seedProduct(t, ctx, shop, price, quantity+10)

	orders := NewOrderService(testDB)
	order, err := orders.Create(ctx, CreateOrderInput{
		ShopID:          shop.ID,
		CustomerName:    "Alice",
		CustomerEmail:   "alice@example.com",
		ShippingAddress: "1 Main St",
		Items:           []OrderItemRequest{{ProductID: product.ID, Quantity: quantity}},
	})
	require.NoError(t, err)
	return order
}

func TestCreatePayment(t *testing.T) {
	ctx, _ := seedTenant(t)
	order := createPendingOrder(t, ctx, "75.00", 2) // total 150.00
	buyer := seedBuyer(t)

	payments := NewPaymentService(testDB)
	payment, err := payments.Create(ctx, order.ID, buyer.ID, CreatePaymentInput{
		Amount:               decimal.RequireFromString("150.00"),
		PaymentMethod:        "credit_card",
		TransactionReference: "txn-123",
		Metadata:             model.JSONMap{"gateway": "stripe"},
	})
	require.NoError(t, err)

	assert.Equal(t, model.PaymentStatusCompleted, payment.Status)
	assert.True(t, payment.Amount.Equal(decimal.RequireFromString("150.00")))

	reloaded := reloadOrder(t, order.ID)
	assert.Equal(t, model.OrderStatusProcessing, reloaded.Status)
	require.NotNil(t, reloaded.BuyerProfileID)
	assert.Equal(t, buyer.ID, *reloaded.BuyerProfileID)
}

func TestCreatePaymentInvalidAmount(t *testing.T) {
	ctx, _ := seedTenant(t)
	order := createPendingOrder(t, ctx, "75.00", 2) // total 150.00
	buyer := seedBuyer(t)

	payments := NewPaymentService(testDB)
	_, err := payments.Create(ctx, order.ID, buyer.ID, CreatePaymentInput{
		Amount:        decimal.RequireFromString("150.01"),
		PaymentMethod: "credit_card",
	})
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidAmount, e.Code)

	// No payment row was created and the order stayed pending
	var count int64
	testDB.Model(&model.Payment{}).Where("order_id = ?", order.ID).Count(&count)
	assert.Zero(t, count)
	assert.Equal(t, model.OrderStatusPending, reloadOrder(t, order.ID).Status)
}

func TestCreatePaymentAmountRounding(t *testing.T) {
	ctx, _ := seedTenant(t)
	order := createPendingOrder(t, ctx, "75.00", 2) // total 150.00
	buyer := seedBuyer(t)

	// Amounts compare after rounding to two decimal places
	payments := NewPaymentService(testDB)
	payment, err := payments.Create(ctx, order.ID, buyer.ID, CreatePaymentInput{
		Amount:        decimal.RequireFromString("150.0000"),
		PaymentMethod: "credit_card",
	})
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusCompleted, payment.Status)
}

func TestCreatePaymentAlreadyPaid(t *testing.T) {
	ctx, _ := seedTenant(t)
	order := createPendingOrder(t, ctx, "10.00", 1)
	buyer := seedBuyer(t)

	payments := NewPaymentService(testDB)
	_, err := payments.Create(ctx, order.ID, buyer.ID, CreatePaymentInput{
		Amount:        decimal.RequireFromString("10.00"),
		PaymentMethod: "credit_card",
	})
	require.NoError(t, err)

	_, err = payments.Create(ctx, order.ID, buyer.ID, CreatePaymentInput{
		Amount:        decimal.RequireFromString("10.00"),
		PaymentMethod: "credit_card",
	})
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeAlreadyPaid, e.Code)
}

func TestCreatePaymentInvalidState(t *testing.T) {
	ctx, _ := seedTenant(t)
	order := createPendingOrder(t, ctx, "10.00", 1)
	buyer := seedBuyer(t)

	orders := NewOrderService(testDB)
	_, err := orders.Cancel(ctx, order.ID)
	require.NoError(t, err)

	payments := NewPaymentService(testDB)
	_, err = payments.Create(ctx, order.ID, buyer.ID, CreatePaymentInput{
		Amount:        decimal.RequireFromString("10.00"),
		PaymentMethod: "credit_card",
	})
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeInvalidState, e.Code)
}

func TestCreatePaymentUnauthorized(t *testing.T) {
	ctx, _ := seedTenant(t)
	buyer := seedBuyer(t)
	otherBuyer := seedBuyer(t)

	shop := seedShop(t, ctx, model.ShopStatusActive)
	product := seedProduct(t, ctx, shop, "10.00", 5)

	orders := NewOrderService(testDB)
	order, err := orders.Create(ctx, CreateOrderInput{
		ShopID:         shop.ID,
		BuyerProfileID: &buyer.ID,
		CustomerName:   "Alice",
		CustomerEmail:  "alice@example.com",
		Items:          []OrderItemRequest{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	payments := NewPaymentService(testDB)
	_, err = payments.Create(ctx, order.ID, otherBuyer.ID, CreatePaymentInput{
		Amount:        decimal.RequireFromString("10.00"),
		PaymentMethod: "credit_card",
	})
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeUnauthorized, e.Code)
}

func TestCreatePaymentCrossTenantOrder(t *testing.T) {
	ctx, _ := seedTenant(t)
	order := createPendingOrder(t, ctx, "10.00", 1)
	buyer := seedBuyer(t)

	otherCtx, _ := seedTenant(t)

	payments := NewPaymentService(testDB)
	_, err := payments.Create(otherCtx, order.ID, buyer.ID, CreatePaymentInput{
		Amount:        decimal.RequireFromString("10.00"),
		PaymentMethod: "credit_card",
	})
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, e.Code)
}

func TestConcurrentDoublePayment(t *testing.T) {
	ctx, _ := seedTenant(t)
	order := createPendingOrder(t, ctx, "50.00", 2) // total 100.00
	buyer := seedBuyer(t)

	payments := NewPaymentService(testDB)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := payments.Create(ctx, order.ID, buyer.ID, CreatePaymentInput{
				Amount:        decimal.RequireFromString("100.00"),
				PaymentMethod: "credit_card",
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	successes, alreadyPaid := 0, 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		e, ok := AsError(err)
		require.True(t, ok, "unexpected error: %v", err)
		require.Equal(t, CodeAlreadyPaid, e.Code)
		alreadyPaid++
	}

	// Exactly one completed payment exists
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, alreadyPaid)

	var count int64
	testDB.Model(&model.Payment{}).Where("order_id = ?", order.ID).Count(&count)
	assert.EqualValues(t, 1, count)
	assert.Equal(t, model.OrderStatusProcessing, reloadOrder(t, order.ID).Status)
}

func TestGetPaymentByOrder(t *testing.T) {
	ctx, _ := seedTenant(t)
	order := createPendingOrder(t, ctx, "10.00", 1)
	buyer := seedBuyer(t)

	payments := NewPaymentService(testDB)

	_, err := payments.GetByOrder(ctx, order.ID)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, e.Code)

	created, err := payments.Create(ctx, order.ID, buyer.ID, CreatePaymentInput{
		Amount:        decimal.RequireFromString("10.00"),
		PaymentMethod: "bank_transfer",
	})
	require.NoError(t, err)

	found, err := payments.GetByOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}
