package catalog

import (
	"time"

	"github.com/noltshop/backend/internal/domain/shared"
)

// ProductImage is a locally-owned image attached to a product. Images are
// ordered by Position within their product and are never touched by the
// ERP sync.
type ProductImage struct {
	ID        uint   `gorm:"primaryKey"`
	ProductID int64  `gorm:"not null;index:idx_product_image_position,priority:1"`
	FileName  string `gorm:"type:varchar(255);not null"`
	URL       string `gorm:"type:varchar(512)"`
	Position  int    `gorm:"not null;default:0;index:idx_product_image_position,priority:2"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (ProductImage) TableName() string {
	return "product_images"
}

// NewProductImage creates a new image record for a product
func NewProductImage(productID int64, fileName, url string, position int) (*ProductImage, error) {
	if productID <= 0 {
		return nil, shared.NewDomainError("INVALID_ID", "Image requires a valid product ID")
	}
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Image file name cannot be empty")
	}
	if position < 0 {
		return nil, shared.NewDomainError("INVALID_POSITION", "Image position cannot be negative")
	}

	now := time.Now()
	return &ProductImage{
		ProductID: productID,
		FileName:  fileName,
		URL:       url,
		Position:  position,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// SetPosition moves the image to a new slot in the product's gallery
func (i *ProductImage) SetPosition(position int) error {
	if position < 0 {
		return shared.NewDomainError("INVALID_POSITION", "Image position cannot be negative")
	}
	i.Position = position
	i.UpdatedAt = time.Now()
	return nil
}
