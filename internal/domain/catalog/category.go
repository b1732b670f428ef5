package catalog

import (
	"strings"
	"time"

	"github.com/noltshop/backend/internal/domain/shared"
)

// Category represents a product category mirrored from the ERP.
// The ID is the ERP's own category identifier and is never generated
// locally; categories form a tree via ParentID.
type Category struct {
	ID          string  `gorm:"type:varchar(32);primaryKey"`
	Label       string  `gorm:"type:varchar(255);not null"`
	Description string  `gorm:"type:text"`
	ParentID    *string `gorm:"type:varchar(32);index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (Category) TableName() string {
	return "categories"
}

// NewCategory creates a new category keyed by its ERP identifier
func NewCategory(id, label string) (*Category, error) {
	if err := validateCategoryID(id); err != nil {
		return nil, err
	}

	now := time.Now()
	return &Category{
		ID:        strings.TrimSpace(id),
		Label:     label,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// ApplyUpstream overwrites the ERP-owned fields with freshly fetched values
func (c *Category) ApplyUpstream(label, description string) {
	c.Label = label
	c.Description = description
	c.UpdatedAt = time.Now()
}

// SetParent sets the parent pointer. Empty, zero or self references are
// treated as "root" and clear the pointer instead of keeping a dangling link.
func (c *Category) SetParent(parentID string) {
	parentID = strings.TrimSpace(parentID)
	if parentID == "" || parentID == "0" || parentID == c.ID {
		c.ParentID = nil
	} else {
		c.ParentID = &parentID
	}
	c.UpdatedAt = time.Now()
}

// IsRoot returns true if the category has no parent
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// validateCategoryID validates the ERP category identifier
func validateCategoryID(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return shared.NewDomainError("INVALID_ID", "Category ID cannot be empty")
	}
	if len(id) > 32 {
		return shared.NewDomainError("INVALID_ID", "Category ID cannot exceed 32 characters")
	}
	return nil
}
