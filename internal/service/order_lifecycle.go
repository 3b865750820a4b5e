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

// Cancel transitions an order to cancelled and restores the stock recorded in
// its line items. Stock restoration and the status change commit atomically;
// partial cancellation is never observable.
func (s *OrderService) Cancel(ctx context.Context, orderID uint) (*model.Order, error) {
	log := logger.FromContext(ctx)

	order, err := s.get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(model.OrderStatusCancelled) {
		prometheus.RecordOrderOperation("cancel", "rejected")
		return nil, NewError(CodeInvalidState,
			fmt.Sprintf("order status is %s, it cannot be cancelled", order.Status))
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, item := range order.Items {
			if _, err := adjustStockLocked(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}
		return tx.Model(order).Update("status", model.OrderStatusCancelled).Error
	})
	if err != nil {
		prometheus.RecordOrderOperation("cancel", "failure")
		log.Error("Order cancellation failed",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return nil, Unexpected(fmt.Sprintf("failed to cancel order: %v", err))
	}

	order.Status = model.OrderStatusCancelled
	log.Info("Order cancelled", zap.String("order_number", order.OrderNumber))
	prometheus.RecordOrderOperation("cancel", "success")
	return order, nil
}

// Complete transitions an order to completed
func (s *OrderService) Complete(ctx context.Context, orderID uint) (*model.Order, error) {
	log := logger.FromContext(ctx)

	order, err := s.get(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(model.OrderStatusCompleted) {
		prometheus.RecordOrderOperation("complete", "rejected")
		return nil, NewError(CodeInvalidState,
			fmt.Sprintf("order status is %s, it cannot be completed", order.Status))
	}

	err = s.db.WithContext(ctx).
		Model(order).
		Update("status", model.OrderStatusCompleted).Error
	if err != nil {
		prometheus.RecordOrderOperation("complete", "failure")
		log.Error("Order completion failed",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return nil, Unexpected(fmt.Sprintf("failed to complete order: %v", err))
	}

	order.Status = model.OrderStatusCompleted
	log.Info("Order completed", zap.String("order_number", order.OrderNumber))
	prometheus.RecordOrderOperation("complete", "success")
	return order, nil
}

// Get loads a tenant-scoped order with its line items
func (s *OrderService) Get(ctx context.Context, orderID uint) (*model.Order, error) {
	return s.get(ctx, orderID)
}

// List returns the tenant's orders, optionally filtered by shop
func (s *OrderService) List(ctx context.Context, shopID uint) ([]model.Order, error) {
	var orders []model.Order
	query := s.db.WithContext(ctx).Scopes(tenant.Scope(ctx)).Preload("Items")
	if shopID != 0 {
		query = query.Where("shop_id = ?", shopID)
	}
	if err := query.Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, Unexpected(fmt.Sprintf("failed to list orders: %v", err))
	}
	return orders, nil
}

func (s *OrderService) get(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := s.db.WithContext(ctx).
		Scopes(tenant.Scope(ctx)).
		Preload("Items").
		First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "order does not exist or is not accessible")
		}
		return nil, Unexpected(fmt.Sprintf("failed to load order: %v", err))
	}
	return &order, nil
}
