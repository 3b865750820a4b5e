package service

import (
	"context"
	"errors"
	"fmt"

	"commerce-service/internal/model"
	"commerce-service/internal/tenant"
	"commerce-service/prometheus"
	"commerce-service/pkg/logger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PaymentService binds a payment to exactly one order
type PaymentService struct {
	db *gorm.DB
}

// NewPaymentService creates a payment service
func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

// CreatePaymentInput carries the submitted payment fields
type CreatePaymentInput struct {
	Amount               decimal.Decimal `json:"amount"`
	PaymentMethod        string          `json:"payment_method"`
	TransactionReference string          `json:"transaction_reference"`
	Metadata             model.JSONMap   `json:"metadata"`
}

// Create attaches a payment to a pending order exactly once. The guard
// sequence gives fast, distinct failures; the re-check under the order's row
// lock makes the loser of a concurrent double submission fail with
// already_paid, and the unique index on payments.order_id is the final
// backstop.
func (s *PaymentService) Create(ctx context.Context, orderID uint, buyerProfileID uint, in CreatePaymentInput) (*model.Payment, error) {
	log := logger.FromContext(ctx)

	tenantID, err := tenant.MustFromContext(ctx)
	if err != nil {
		return nil, Unexpected("tenant scope not established")
	}

	var order model.Order
	err = s.db.WithContext(ctx).Scopes(tenant.Scope(ctx)).First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "order does not exist or is not accessible")
		}
		return nil, Unexpected(fmt.Sprintf("failed to load order: %v", err))
	}

	if err := checkGuards(s.db.WithContext(ctx), &order, buyerProfileID, in.Amount); err != nil {
		prometheus.RecordPaymentOperation("rejected")
		return nil, err
	}

	var payment *model.Payment
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Re-read the order under an exclusive lock: two concurrent requests
		// both passing the guards serialize here, and the loser observes the
		// winner's committed payment.
		var locked model.Order
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Scopes(tenant.Scope(ctx)).
			First(&locked, order.ID).Error
		if err != nil {
			return err
		}

		if err := checkGuards(tx, &locked, buyerProfileID, in.Amount); err != nil {
			return err
		}

		if locked.BuyerProfileID == nil {
			err = tx.Model(&locked).Update("buyer_profile_id", buyerProfileID).Error
			if err != nil {
				return err
			}
		}

		payment = &model.Payment{
			TenantID:             tenantID,
			OrderID:              locked.ID,
			BuyerProfileID:       buyerProfileID,
			Amount:               in.Amount,
			Status:               model.PaymentStatusCompleted,
			PaymentMethod:        in.PaymentMethod,
			TransactionReference: in.TransactionReference,
			Metadata:             in.Metadata,
		}
		if err := tx.Create(payment).Error; err != nil {
			return err
		}

		return tx.Model(&locked).Update("status", model.OrderStatusProcessing).Error
	})
	if err != nil {
		prometheus.RecordPaymentOperation("failure")
		if e, ok := AsError(err); ok {
			return nil, e
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// A concurrent writer slipped past the lock ordering; the
			// constraint on order_id remains authoritative.
			return nil, NewError(CodeValidationFailed, "a payment already exists for this order")
		}
		log.Error("Payment creation failed",
			zap.String("order_number", order.OrderNumber),
			zap.Error(err))
		return nil, Unexpected(fmt.Sprintf("failed to create payment: %v", err))
	}

	log.Info("Payment created",
		zap.String("order_number", order.OrderNumber),
		zap.String("amount", payment.Amount.String()),
		zap.String("payment_method", payment.PaymentMethod))
	prometheus.RecordPaymentOperation("success")
	return payment, nil
}

// GetByOrder returns the payment bound to an order, if any
func (s *PaymentService) GetByOrder(ctx context.Context, orderID uint) (*model.Payment, error) {
	var payment model.Payment
	err := s.db.WithContext(ctx).
		Scopes(tenant.Scope(ctx)).
		Where("order_id = ?", orderID).
		First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewError(CodeNotFound, "no payment exists for this order")
		}
		return nil, Unexpected(fmt.Sprintf("failed to load payment: %v", err))
	}
	return &payment, nil
}

// checkGuards runs the short-circuiting guard sequence, each failure with a
// distinct code. It queries through db so the locked re-check inside the
// creation transaction sees the transaction's view.
func checkGuards(db *gorm.DB, order *model.Order, buyerProfileID uint, amount decimal.Decimal) error {
	var count int64
	err := db.Model(&model.Payment{}).
		Where("order_id = ?", order.ID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return NewError(CodeAlreadyPaid, "order has already been paid")
	}

	if order.Status != model.OrderStatusPending {
		return NewError(CodeInvalidState,
			fmt.Sprintf("order status is %s, it cannot be paid", order.Status))
	}

	if order.BuyerProfileID != nil && *order.BuyerProfileID != buyerProfileID {
		return NewError(CodeUnauthorized, "order is already assigned to another buyer")
	}

	if !amount.Round(2).Equal(order.TotalAmount.Round(2)) {
		return NewError(CodeInvalidAmount, "payment amount does not match the order total")
	}

	return nil
}
