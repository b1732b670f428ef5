package persistence

import (
	"context"

	"github.com/noltshop/backend/internal/domain/catalog"
	"github.com/noltshop/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormImageRepository implements catalog.ImageRepository using GORM
type GormImageRepository struct {
	db *gorm.DB
}

// NewGormImageRepository creates a new GormImageRepository
func NewGormImageRepository(db *gorm.DB) *GormImageRepository {
	return &GormImageRepository{db: db}
}

// FindByProduct returns a product's images ordered by position
func (r *GormImageRepository) FindByProduct(ctx context.Context, productID int64) ([]catalog.ProductImage, error) {
	var images []catalog.ProductImage
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("position ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// Save creates or updates an image record
func (r *GormImageRepository) Save(ctx context.Context, image *catalog.ProductImage) error {
	return r.db.WithContext(ctx).Save(image).Error
}

// Reorder rewrites the positions of a product's images to match the given
// ID order. The full set of the product's image IDs must be supplied;
// unknown or foreign IDs abort the rewrite.
func (r *GormImageRepository) Reorder(ctx context.Context, productID int64, orderedIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []uint
		if err := tx.Model(&catalog.ProductImage{}).
			Where("product_id = ?", productID).
			Pluck("id", &existing).Error; err != nil {
			return err
		}
		if len(existing) != len(orderedIDs) {
			return shared.NewDomainError("INVALID_IMAGE_ORDER", "Image order must include every image of the product exactly once")
		}
		known := make(map[uint]struct{}, len(existing))
		for _, id := range existing {
			known[id] = struct{}{}
		}
		for _, id := range orderedIDs {
			if _, ok := known[id]; !ok {
				return shared.NewDomainError("INVALID_IMAGE_ORDER", "Image does not belong to the product")
			}
			delete(known, id)
		}

		for pos, id := range orderedIDs {
			if err := tx.Model(&catalog.ProductImage{}).
				Where("id = ? AND product_id = ?", id, productID).
				Update("position", pos).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes an image record
func (r *GormImageRepository) Delete(ctx context.Context, productID int64, imageID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", imageID, productID).
		Delete(&catalog.ProductImage{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ catalog.ImageRepository = (*GormImageRepository)(nil)
