package service

import (
	"context"
	"errors"
	"fmt"

	"commerce-service/internal/model"
	"commerce-service/internal/tenant"
	"commerce-service/prometheus"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StockService is the only writer of product stock. Every adjustment locks the
// product row inside one transaction, so concurrent mutations of the same
// product serialize instead of racing past each other.
type StockService struct {
	db *gorm.DB
}

// NewStockService creates a stock service
func NewStockService(db *gorm.DB) *StockService {
	return &StockService{db: db}
}

// Increase adds quantity to a product's stock
func (s *StockService) Increase(ctx context.Context, productID uint, quantity int) (*model.Product, error) {
	return s.adjust(ctx, productID, quantity, stockDeltaIncrease)
}

// Decrease removes quantity from a product's stock, failing when the stock
// would go negative
func (s *StockService) Decrease(ctx context.Context, productID uint, quantity int) (*model.Product, error) {
	return s.adjust(ctx, productID, quantity, stockDeltaDecrease)
}

type stockDelta int

const (
	stockDeltaIncrease stockDelta = 1
	stockDeltaDecrease stockDelta = -1
)

func (s *StockService) adjust(ctx context.Context, productID uint, quantity int, direction stockDelta) (*model.Product, error) {
	if quantity <= 0 {
		return nil, NewError(CodeInvalidQuantity, "quantity must be a positive integer")
	}

	var product *model.Product
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		product, err = adjustStockLocked(ctx, tx, productID, quantity*int(direction))
		return err
	})
	if err != nil {
		if e, ok := AsError(err); ok {
			return nil, e
		}
		return nil, Unexpected(fmt.Sprintf("stock adjustment failed: %v", err))
	}
	return product, nil
}

// adjustStockLocked applies a signed stock delta to a product under an
// exclusive row lock. It must run inside the caller's transaction; order
// creation and cancellation reuse it so the whole order operation commits or
// rolls back as one unit.
func adjustStockLocked(ctx context.Context, tx *gorm.DB, productID uint, delta int) (*model.Product, error) {
	if delta == 0 {
		return nil, NewError(CodeInvalidQuantity, "quantity must be a positive integer")
	}

	var product model.Product
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(tenant.Scope(ctx)).
		First(&product, productID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "product does not exist or is not accessible")
		}
		return nil, err
	}

	newQuantity := product.StockQuantity + delta
	if newQuantity < 0 {
		return nil, NewError(CodeInsufficientStock,
			fmt.Sprintf("insufficient stock for product %q (current: %d, requested: %d)",
				product.Name, product.StockQuantity, -delta))
	}

	// Defensive floor; unreachable given the check above
	if newQuantity < 0 {
		newQuantity = 0
	}

	newStatus := product.StatusAfterAdjustment(newQuantity)
	err = tx.Model(&product).Updates(map[string]interface{}{
		"stock_quantity": newQuantity,
		"status":         newStatus,
	}).Error
	if err != nil {
		return nil, err
	}

	product.StockQuantity = newQuantity
	product.Status = newStatus

	prometheus.RecordStockAdjustment(delta)
	return &product, nil
}
