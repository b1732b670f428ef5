package shop

import (
	"time"

	"github.com/google/uuid"

	"github.com/noltshop/backend/internal/domain/shared"
)

// ProductMetadata is the per-shop overlay attached to a shared product.
// The (ShopID, ProductID) pair is unique; CustomWebLabel is the only
// tenant-authoritative source of a display label and is written by admin
// action only, never by the ERP sync.
type ProductMetadata struct {
	ShopID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID      int64     `gorm:"primaryKey;autoIncrement:false"`
	CustomWebLabel string    `gorm:"type:varchar(255)"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// TableName returns the table name for GORM
func (ProductMetadata) TableName() string {
	return "shop_product_metadata"
}

// NewProductMetadata creates an overlay row for a shop/product pair
func NewProductMetadata(shopID uuid.UUID, productID int64, customWebLabel string) (*ProductMetadata, error) {
	if shopID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ID", "Shop ID is required")
	}
	if productID <= 0 {
		return nil, shared.NewDomainError("INVALID_ID", "Product ID must be a positive ERP identifier")
	}

	now := time.Now()
	return &ProductMetadata{
		ShopID:         shopID,
		ProductID:      productID,
		CustomWebLabel: customWebLabel,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// SetCustomWebLabel updates the tenant-specific display label override
func (m *ProductMetadata) SetCustomWebLabel(label string) {
	m.CustomWebLabel = label
	m.UpdatedAt = time.Now()
}
