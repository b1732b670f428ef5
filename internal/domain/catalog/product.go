package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/noltshop/backend/internal/domain/shared"
)

// Product represents a product mirrored from the ERP. The ID is the ERP's
// own product identifier and is the join key for every local overlay, so it
// is never regenerated locally.
//
// Label, Ref, Description, prices, Stock and CategoryID are owned by the
// ERP and rewritten on every sync pass. WebLabel and Images are owned
// locally and must survive repeated syncs untouched.
type Product struct {
	ID          int64           `gorm:"primaryKey;autoIncrement:false"`
	Ref         string          `gorm:"type:varchar(64);index"`
	Label       string          `gorm:"type:varchar(255);not null"`
	Description string          `gorm:"type:text"`
	PriceHT     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	PriceTTC    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0"`
	Stock       int64           `gorm:"not null;default:0"`
	CategoryID  *string         `gorm:"type:varchar(32);index"`
	WebLabel    string          `gorm:"type:varchar(255)"`
	Images      []ProductImage  `gorm:"foreignKey:ProductID;references:ID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product keyed by its ERP identifier
func NewProduct(id int64, ref, label string) (*Product, error) {
	if id <= 0 {
		return nil, shared.NewDomainError("INVALID_ID", "Product ID must be a positive ERP identifier")
	}

	now := time.Now()
	return &Product{
		ID:        id,
		Ref:       ref,
		Label:     label,
		PriceHT:   decimal.Zero,
		PriceTTC:  decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyUpstream overwrites the ERP-owned fields with freshly fetched values.
// Prices are normalized to 2 decimal places; negative prices or stock are
// rejected rather than silently clamped.
func (p *Product) ApplyUpstream(ref, label, description string, priceHT, priceTTC decimal.Decimal, stock int64) error {
	if priceHT.IsNegative() || priceTTC.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Product prices cannot be negative")
	}
	if stock < 0 {
		return shared.NewDomainError("INVALID_STOCK", "Product stock cannot be negative")
	}

	p.Ref = ref
	p.Label = label
	p.Description = description
	p.PriceHT = priceHT.Round(2)
	p.PriceTTC = priceTTC.Round(2)
	p.Stock = stock
	p.UpdatedAt = time.Now()

	return nil
}

// SetPrimaryCategory sets the single "primary" category link
func (p *Product) SetPrimaryCategory(categoryID string) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" || categoryID == "0" {
		p.CategoryID = nil
	} else {
		p.CategoryID = &categoryID
	}
	p.UpdatedAt = time.Now()
}

// HasCategory returns true if the product has a primary category assigned
func (p *Product) HasCategory() bool {
	return p.CategoryID != nil
}

// ResolveWebLabel applies the display-label precedence: a tenant override
// wins when it is non-empty after trimming, otherwise the ERP label is
// used. This is a view-time computation and is never written back.
func ResolveWebLabel(customLabel, erpLabel string) string {
	if trimmed := strings.TrimSpace(customLabel); trimmed != "" {
		return customLabel
	}
	return erpLabel
}
