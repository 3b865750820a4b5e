package model

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the closed set of order lifecycle states
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus rejects unknown status values at the boundary
func ParseOrderStatus(s string) (OrderStatus, error) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled:
		return OrderStatus(s), nil
	}
	return "", fmt.Errorf("invalid order status: %q", s)
}

// orderTransitions is the lifecycle table. Completed and cancelled are
// terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:    {OrderStatusCompleted},
	OrderStatusCompleted:  {},
	OrderStatusCancelled:  {},
}

// CanTransitionTo reports whether the lifecycle allows moving to target.
// Unknown targets are simply not allowed, never a fault.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Order represents a customer order against a shop.
// TotalAmount is derived from the line items and never client-supplied.
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	TenantID        uint            `json:"tenant_id" gorm:"index;not null"`
	ShopID          uint            `json:"shop_id" gorm:"index;not null"`
	BuyerProfileID  *uint           `json:"buyer_profile_id,omitempty" gorm:"index"`
	OrderNumber     string          `json:"order_number" gorm:"type:varchar(32);uniqueIndex;not null"`
	CustomerName    string          `json:"customer_name" gorm:"type:varchar(255);not null"`
	CustomerEmail   string          `json:"customer_email" gorm:"type:varchar(255);not null"`
	ShippingAddress string          `json:"shipping_address" gorm:"type:text;not null"`
	TotalAmount     decimal.Decimal `json:"total_amount" gorm:"type:numeric(12,2);not null"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `json:"-" gorm:"index"`

	Items []OrderItem `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// OrderItem is one line of an order. Price is captured from the product at
// order-creation time and never changes afterward, so historical orders are
// insulated from later price changes.
type OrderItem struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	TenantID  uint            `json:"tenant_id" gorm:"index;not null"`
	OrderID   uint            `json:"order_id" gorm:"index;not null"`
	ProductID uint            `json:"product_id" gorm:"index;not null"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	Price     decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Subtotal returns price multiplied by quantity
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// ComputeTotal sums the subtotals of the order's line items
func (o *Order) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	return total
}

// BeforeCreate generates the order number when absent and derives the total
// from the line items. Order-number uniqueness is enforced by the database
// constraint, not by the generator.
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.OrderNumber == "" {
		o.OrderNumber = GenerateOrderNumber()
	}
	o.TotalAmount = o.ComputeTotal()
	return nil
}

// GenerateOrderNumber returns an order number of the form
// ORD-<YYYYMMDD>-<6 hex chars>
func GenerateOrderNumber() string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return fmt.Sprintf("ORD-%s-%s",
		time.Now().Format("20060102"),
		strings.ToUpper(hex.EncodeToString(buf)))
}
