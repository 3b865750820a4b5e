package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductStatus is the closed set of product states
type ProductStatus string

const (
	ProductStatusActive     ProductStatus = "active"
	ProductStatusInactive   ProductStatus = "inactive"
	ProductStatusOutOfStock ProductStatus = "out_of_stock"
)

// ParseProductStatus rejects unknown status values at the boundary
func ParseProductStatus(s string) (ProductStatus, error) {
	switch ProductStatus(s) {
	case ProductStatusActive, ProductStatusInactive, ProductStatusOutOfStock:
		return ProductStatus(s), nil
	}
	return "", fmt.Errorf("invalid product status: %q", s)
}

// Product represents a product sold by a shop.
// StockQuantity and the derived status are mutated exclusively through the
// stock service's locked adjustment, never by direct field writes.
type Product struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	TenantID      uint            `json:"tenant_id" gorm:"index;not null"`
	ShopID        uint            `json:"shop_id" gorm:"uniqueIndex:idx_products_shop_sku;index;not null"`
	Name          string          `json:"name" gorm:"type:varchar(255);not null"`
	Description   string          `json:"description" gorm:"type:text"`
	SKU           *string         `json:"sku,omitempty" gorm:"type:varchar(100);uniqueIndex:idx_products_shop_sku"`
	Price         decimal.Decimal `json:"price" gorm:"type:numeric(12,2);not null"`
	StockQuantity int             `json:"stock_quantity" gorm:"not null;default:0"`
	Status        ProductStatus   `json:"status" gorm:"type:varchar(20);not null;default:'active'"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `json:"-" gorm:"index"`
}

// InStock reports whether the product can be ordered right now
func (p *Product) InStock() bool {
	return p.StockQuantity > 0 && p.Status == ProductStatusActive
}

// StatusAfterAdjustment derives the status that follows a stock change.
// Reaching zero forces out_of_stock; rising above zero reactivates only a
// product that went out of stock, a manually deactivated product stays
// inactive.
func (p *Product) StatusAfterAdjustment(newQuantity int) ProductStatus {
	if newQuantity == 0 {
		return ProductStatusOutOfStock
	}
	if p.Status == ProductStatusOutOfStock {
		return ProductStatusActive
	}
	return p.Status
}
