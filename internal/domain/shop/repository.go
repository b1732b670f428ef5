package shop

import (
	"context"

	"github.com/google/uuid"
)

// ShopRepository defines the persistence operations for shops
type ShopRepository interface {
	// FindByID finds a shop by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Shop, error)

	// FindByCode finds a shop by its code
	FindByCode(ctx context.Context, code string) (*Shop, error)

	// FindAll returns all shops
	FindAll(ctx context.Context) ([]Shop, error)

	// Save creates or updates a shop
	Save(ctx context.Context, s *Shop) error
}

// ProductMetadataRepository defines the persistence operations for per-shop
// product overlays
type ProductMetadataRepository interface {
	// Find returns the overlay for a shop/product pair
	Find(ctx context.Context, shopID uuid.UUID, productID int64) (*ProductMetadata, error)

	// FindByProducts bulk-fetches overlays for a shop and a set of product
	// IDs, keyed by product ID. Missing overlays are simply absent from
	// the map.
	FindByProducts(ctx context.Context, shopID uuid.UUID, productIDs []int64) (map[int64]ProductMetadata, error)

	// Save upserts an overlay row keyed by (shop, product)
	Save(ctx context.Context, meta *ProductMetadata) error

	// Delete removes an overlay row
	Delete(ctx context.Context, shopID uuid.UUID, productID int64) error
}
