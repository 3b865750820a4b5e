package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PaymentStatus is the closed set of payment states
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// ParsePaymentStatus rejects unknown status values at the boundary
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch PaymentStatus(s) {
	case PaymentStatusPending, PaymentStatusCompleted, PaymentStatusFailed:
		return PaymentStatus(s), nil
	}
	return "", fmt.Errorf("invalid payment status: %q", s)
}

// JSONMap is an open key/value bag stored as jsonb
type JSONMap map[string]interface{}

// Value implements driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
	return json.Unmarshal(data, m)
}

// Payment binds exactly one payment to an order. The unique index on OrderID
// is the authoritative defense against concurrent double payment.
type Payment struct {
	ID                   uint            `json:"id" gorm:"primaryKey"`
	TenantID             uint            `json:"tenant_id" gorm:"index;not null"`
	OrderID              uint            `json:"order_id" gorm:"uniqueIndex;not null"`
	BuyerProfileID       uint            `json:"buyer_profile_id" gorm:"index;not null"`
	Amount               decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Status               PaymentStatus   `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod        string          `json:"payment_method" gorm:"type:varchar(50)"`
	TransactionReference string          `json:"transaction_reference" gorm:"type:varchar(255)"`
	Metadata             JSONMap         `json:"metadata,omitempty" gorm:"type:jsonb"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	DeletedAt            gorm.DeletedAt  `json:"-" gorm:"index"`
}
