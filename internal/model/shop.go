package model

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ShopStatus is the closed set of shop states
type ShopStatus string

const (
	ShopStatusActive    ShopStatus = "active"
	ShopStatusInactive  ShopStatus = "inactive"
	ShopStatusSuspended ShopStatus = "suspended"
)

// ParseShopStatus rejects unknown status values at the boundary
func ParseShopStatus(s string) (ShopStatus, error) {
	switch ShopStatus(s) {
	case ShopStatusActive, ShopStatusInactive, ShopStatusSuspended:
		return ShopStatus(s), nil
	}
	return "", fmt.Errorf("invalid shop status: %q", s)
}

// Shop represents a shop owned by a tenant
// Shop names are unique within a tenant
type Shop struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	TenantID    uint           `json:"tenant_id" gorm:"uniqueIndex:idx_shops_tenant_name;index;not null"`
	Name        string         `json:"name" gorm:"type:varchar(255);uniqueIndex:idx_shops_tenant_name;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Status      ShopStatus     `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"-" gorm:"index"`
}

// CanReceiveOrders reports whether orders may be created against this shop
func (s *Shop) CanReceiveOrders() bool {
	return s.Status == ShopStatusActive
}
