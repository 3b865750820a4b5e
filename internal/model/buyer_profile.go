package model

import (
	"time"

	"gorm.io/gorm"
)

// BuyerProfile is the paying identity on orders and payments
type BuyerProfile struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	UserID      uint           `json:"user_id" gorm:"index;not null"`
	DisplayName string         `json:"display_name" gorm:"type:varchar(100)"`
	Phone       string         `json:"phone" gorm:"type:varchar(50)"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}
