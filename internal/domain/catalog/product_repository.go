package catalog

import (
	"context"

	"github.com/noltshop/backend/internal/domain/shared"
)

// ProductRepository defines the persistence operations for products
type ProductRepository interface {
	// FindByID finds a product by its ERP identifier, with images preloaded
	FindByID(ctx context.Context, id int64) (*Product, error)

	// FindAll returns products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByCategory returns products whose primary category matches, or
	// that are linked to the category through the association table
	FindByCategory(ctx context.Context, categoryID string, filter shared.Filter) ([]Product, error)

	// ValidIDs returns the set of product IDs currently present
	ValidIDs(ctx context.Context) (map[int64]struct{}, error)

	// Save creates or updates a single product
	Save(ctx context.Context, product *Product) error

	// UpsertBatch inserts or updates products keyed by their ERP ID,
	// writing ERP-owned columns only: web_label and images are never
	// touched by a batch upsert.
	UpsertBatch(ctx context.Context, products []*Product) error

	// Count returns the number of mirrored products
	Count(ctx context.Context) (int64, error)
}

// ImageRepository defines the persistence operations for product images
type ImageRepository interface {
	// FindByProduct returns a product's images ordered by position
	FindByProduct(ctx context.Context, productID int64) ([]ProductImage, error)

	// Save creates or updates an image record
	Save(ctx context.Context, image *ProductImage) error

	// Reorder rewrites the positions of a product's images to match the
	// given ID order; IDs not belonging to the product are rejected
	Reorder(ctx context.Context, productID int64, orderedIDs []uint) error

	// Delete removes an image record
	Delete(ctx context.Context, productID int64, imageID uint) error
}

// AssociationRepository defines the persistence operations for the derived
// product-category association set
type AssociationRepository interface {
	// RebuildAll truncates the association table and reinserts the given
	// pairs inside a single transaction. Pairs referencing a missing
	// product or category are dropped silently; any failure before commit
	// rolls the whole rebuild back, leaving the previous set intact.
	// Returns the number of pairs actually inserted.
	RebuildAll(ctx context.Context, pairs []ProductCategory) (int, error)

	// FindByProduct returns the category IDs linked to a product
	FindByProduct(ctx context.Context, productID int64) ([]string, error)

	// CountAll returns the size of the association set
	CountAll(ctx context.Context) (int64, error)
}
