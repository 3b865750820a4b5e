package service

import (
	"sync"
	"testing"

	"commerce-service/internal/model"
	"commerce-service/internal/tenant"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStockIncreaseAndDecrease(t *testing.T) {
	ctx, _ := seedTenant(t)
	shop := seedShop(t, ctx, model.ShopStatusActive)
	product := seedProduct(t, ctx, shop, "10.00", 5)

	stock := NewStockService(testDB)

	p, err := stock.Decrease(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, p.StockQuantity)

	p, err = stock.Increase(ctx, product.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, p.StockQuantity)
}

func TestStockDecreaseInsufficient(t *testing.T) {
	ctx, _ := seedTenant(t)
	shop := seedShop(t, ctx, model.ShopStatusActive)
	product := seedProduct(t, ctx, shop, "10.00", 2)

	stock := NewStockService(testDB)

	_, err := stock.Decrease(ctx, product.ID, 3)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeInsufficientStock, e.Code)
	// The failure names the product and reports current stock and the request
	assert.Contains(t, e.Error(), product.Name)
	assert.Contains(t, e.Error(), "current: 2")
	assert.Contains(t, e.Error(), "requested: 3")

	// Nothing was applied
	assert.Equal(t, 2, reloadProduct(t, product.ID).StockQuantity)
}

func TestStockInvalidQuantity(t *testing.T) {
	ctx, _ := seedTenant(t)
	shop := seedShop(t, ctx, model.ShopStatusActive)
	product := seedProduct(t, ctx, shop, "10.00", 5)

	stock := NewStockService(testDB)

	for _, qty := range []int{0, -1} {
		_, err := stock.Decrease(ctx, product.ID, qty)
		e, ok := AsError(err)
		require.True(t, ok)
		assert.Equal(t, CodeInvalidQuantity, e.Code)

		_, err = stock.Increase(ctx, product.ID, qty)
		e, ok = AsError(err)
		require.True(t, ok)
		assert.Equal(t, CodeInvalidQuantity, e.Code)
	}
}

func TestStockStatusDerivation(t *testing.T) {
	ctx, _ := seedTenant(t)
	shop := seedShop(t, ctx, model.ShopStatusActive)
	product := seedProduct(t, ctx, shop, "10.00", 2)

	stock := NewStockService(testDB)

	// Reaching zero forces out_of_stock
	p, err := stock.Decrease(ctx, product.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, model.ProductStatusOutOfStock, p.Status)

	// Rising from zero reactivates
	p, err = stock.Increase(ctx, product.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.ProductStatusActive, p.Status)

	// A manually deactivated product stays inactive when restocked
	require.NoError(t, testDB.Model(&model.Product{}).
		Where("id = ?", product.ID).
		Update("status", model.ProductStatusInactive).Error)

	p, err = stock.Increase(ctx, product.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.ProductStatusInactive, p.Status)
}

func TestStockCrossTenantNotFound(t *testing.T) {
	ctx, _ := seedTenant(t)
	shop := seedShop(t, ctx, model.ShopStatusActive)
	product := seedProduct(t, ctx, shop, "10.00", 5)

	otherCtx, _ := seedTenant(t)

	stock := NewStockService(testDB)
	_, err := stock.Decrease(otherCtx, product.ID, 1)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, CodeNotFound, e.Code)
}

func TestStockConcurrentDecrements(t *testing.T) {
	ctx, _ := seedTenant(t)
	shop := seedShop(t, ctx, model.ShopStatusActive)
	product := seedProduct(t, ctx, shop, "10.00", 10)

	stock := NewStockService(testDB)

	// Five workers each want 3 units of a stock of 10: exactly three can win
	concurrency := 5
	var wg sync.WaitGroup
	results := make(chan error, concurrency)

	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := stock.Decrease(ctx, product.ID, 3)
			results <- err
		}()
	}

	wg.Wait()
	close(results)

	successes, insufficient := 0, 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		e, ok := AsError(err)
		require.True(t, ok, "unexpected error: %v", err)
		require.Equal(t, CodeInsufficientStock, e.Code)
		insufficient++
	}

	assert.Equal(t, 3, successes)
	assert.Equal(t, 2, insufficient)

	final := reloadProduct(t, product.ID)
	assert.Equal(t, 1, final.StockQuantity)
	assert.GreaterOrEqual(t, final.StockQuantity, 0)
}

func TestTenantScopeRequired(t *testing.T) {
	ctx, _ := seedTenant(t)
	shop := seedShop(t, ctx, model.ShopStatusActive)
	product := seedProduct(t, ctx, shop, "10.00", 5)

	// No tenant in context: the scope injects an error instead of silently
	// widening the query
	stock := NewStockService(testDB)
	_, err := stock.Decrease(t.Context(), product.ID, 1)
	require.Error(t, err)

	_, hasTenant := tenant.FromContext(t.Context())
	assert.False(t, hasTenant)
	assert.Equal(t, 5, reloadProduct(t, product.ID).StockQuantity)
}
