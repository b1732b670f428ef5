package shop

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/noltshop/backend/internal/domain/shared"
)

// Shop is a storefront context. Products are shared across shops; a shop
// only carries per-product overlays, never its own copy of the catalog.
type Shop struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code      string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name      string    `gorm:"type:varchar(100);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for GORM
func (Shop) TableName() string {
	return "shops"
}

// NewShop creates a new shop
func NewShop(code, name string) (*Shop, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Shop code cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Shop name cannot be empty")
	}

	now := time.Now()
	return &Shop{
		ID:        uuid.New(),
		Code:      strings.ToUpper(code),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
