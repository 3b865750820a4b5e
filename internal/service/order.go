package service

import (
	"context"
	"errors"
	"fmt"

	"commerce-service/internal/model"
	"commerce-service/internal/tenant"
	"commerce-service/prometheus"
	"commerce-service/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService owns the order transaction core: creation with atomic stock
// decrements, and the cancel/complete lifecycle transitions.
type OrderService struct {
	db *gorm.DB
}

// NewOrderService creates an order service
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// OrderItemRequest is one requested line item. Duplicate entries for the same
// product are processed independently, not merged.
type OrderItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// CreateOrderInput carries everything needed to create an order
type CreateOrderInput struct {
	ShopID          uint               `json:"shop_id"`
	BuyerProfileID  *uint              `json:"-"`
	CustomerName    string             `json:"customer_name"`
	CustomerEmail   string             `json:"customer_email"`
	ShippingAddress string             `json:"shipping_address"`
	Items           []OrderItemRequest `json:"order_items"`
}

// Create validates inventory availability across all requested line items and
// commits order, items and stock decrements as one atomic unit. The optimistic
// pre-check produces batched, user-friendly messages; the locked decrement
// inside the transaction is the actual correctness guarantee under
// concurrency.
func (s *OrderService) Create(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	log := logger.FromContext(ctx)

	tenantID, err := tenant.MustFromContext(ctx)
	if err != nil {
		return nil, Unexpected("tenant scope not established")
	}

	var shop model.Shop
	err = s.db.WithContext(ctx).Scopes(tenant.Scope(ctx)).First(&shop, in.ShopID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "shop does not exist or is not accessible")
		}
		return nil, Unexpected(fmt.Sprintf("failed to load shop: %v", err))
	}
	if !shop.CanReceiveOrders() {
		return nil, NewError(CodeShopNotReady, "shop is currently unable to receive orders")
	}
	if len(in.Items) == 0 {
		return nil, NewError(CodeValidationFailed, "order must contain at least one item")
	}

	var order *model.Order
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.checkInventory(ctx, tx, in.Items); err != nil {
			return err
		}

		order = &model.Order{
			TenantID:        tenantID,
			ShopID:          shop.ID,
			BuyerProfileID:  in.BuyerProfileID,
			CustomerName:    in.CustomerName,
			CustomerEmail:   in.CustomerEmail,
			ShippingAddress: in.ShippingAddress,
			Status:          model.OrderStatusPending,
		}

		for _, req := range in.Items {
			// The locked decrement re-validates stock under the row lock; a
			// concurrent order that consumed the last units after the
			// pre-check fails here and rolls the whole creation back.
			product, err := adjustStockLocked(ctx, tx, req.ProductID, -req.Quantity)
			if err != nil {
				return err
			}

			order.Items = append(order.Items, model.OrderItem{
				TenantID:  tenantID,
				ProductID: product.ID,
				Quantity:  req.Quantity,
				Price:     product.Price,
			})
		}

		return tx.Create(order).Error
	})
	if err != nil {
		return nil, s.mapCreateError(log, err)
	}

	log.Info("Order created",
		zap.String("order_number", order.OrderNumber),
		zap.Uint("shop_id", shop.ID),
		zap.Int("items", len(order.Items)),
		zap.String("total_amount", order.TotalAmount.String()))
	prometheus.RecordOrderOperation("create", "success")
	return order, nil
}

// checkInventory validates every requested line item before any stock
// mutation. Stock violations accumulate into one multi-message failure so the
// caller sees all offending items in a single response.
func (s *OrderService) checkInventory(ctx context.Context, tx *gorm.DB, items []OrderItemRequest) error {
	var problems []string

	for _, req := range items {
		var product model.Product
		err := tx.Scopes(tenant.Scope(ctx)).First(&product, req.ProductID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return NewError(CodeNotFound, "product does not exist or is not accessible")
			}
			return err
		}

		if req.Quantity <= 0 {
			return NewError(CodeValidationFailed,
				fmt.Sprintf("quantity for product %q must be greater than 0", product.Name))
		}

		if !product.InStock() {
			problems = append(problems,
				fmt.Sprintf("product %q is currently out of stock", product.Name))
			continue
		}

		if product.StockQuantity < req.Quantity {
			problems = append(problems,
				fmt.Sprintf("insufficient stock for product %q (current: %d, requested: %d)",
					product.Name, product.StockQuantity, req.Quantity))
		}
	}

	if len(problems) > 0 {
		return NewError(CodeInventoryNotAvailable, problems...)
	}
	return nil
}

func (s *OrderService) mapCreateError(log *zap.Logger, err error) error {
	prometheus.RecordOrderOperation("create", "failure")

	if e, ok := AsError(err); ok {
		switch e.Code {
		case CodeInsufficientStock:
			// A locked decrement lost the race after the pre-check passed;
			// the caller sees the same inventory failure class either way.
			return NewError(CodeInventoryNotAvailable, e.Messages...)
		case CodeInvalidQuantity:
			return NewError(CodeValidationFailed, e.Messages...)
		default:
			return e
		}
	}

	log.Error("Order creation failed", zap.Error(err))
	return Unexpected(fmt.Sprintf("failed to create order: %v", err))
}
