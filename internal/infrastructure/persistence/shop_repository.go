package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/noltshop/backend/internal/domain/shared"
	"github.com/noltshop/backend/internal/domain/shop"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormShopRepository implements shop.ShopRepository using GORM
type GormShopRepository struct {
	db *gorm.DB
}

// NewGormShopRepository creates a new GormShopRepository
func NewGormShopRepository(db *gorm.DB) *GormShopRepository {
	return &GormShopRepository{db: db}
}

// FindByID finds a shop by ID
func (r *GormShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*shop.Shop, error) {
	var s shop.Shop
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindByCode finds a shop by its code
func (r *GormShopRepository) FindByCode(ctx context.Context, code string) (*shop.Shop, error) {
	var s shop.Shop
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToUpper(code)).
		First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindAll returns all shops ordered by code
func (r *GormShopRepository) FindAll(ctx context.Context) ([]shop.Shop, error) {
	var shops []shop.Shop
	if err := r.db.WithContext(ctx).
		Order("code ASC").
		Find(&shops).Error; err != nil {
		return nil, err
	}
	return shops, nil
}

// Save creates or updates a shop
func (r *GormShopRepository) Save(ctx context.Context, s *shop.Shop) error {
	return r.db.WithContext(ctx).Save(s).Error
}

var _ shop.ShopRepository = (*GormShopRepository)(nil)

// GormProductMetadataRepository implements shop.ProductMetadataRepository using GORM
type GormProductMetadataRepository struct {
	db *gorm.DB
}

// NewGormProductMetadataRepository creates a new GormProductMetadataRepository
func NewGormProductMetadataRepository(db *gorm.DB) *GormProductMetadataRepository {
	return &GormProductMetadataRepository{db: db}
}

// Find returns the overlay for a shop/product pair
func (r *GormProductMetadataRepository) Find(ctx context.Context, shopID uuid.UUID, productID int64) (*shop.ProductMetadata, error) {
	var meta shop.ProductMetadata
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND product_id = ?", shopID, productID).
		First(&meta).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &meta, nil
}

// FindByProducts bulk-fetches overlays for a shop keyed by product ID
func (r *GormProductMetadataRepository) FindByProducts(ctx context.Context, shopID uuid.UUID, productIDs []int64) (map[int64]shop.ProductMetadata, error) {
	result := make(map[int64]shop.ProductMetadata, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	var rows []shop.ProductMetadata
	if err := r.db.WithContext(ctx).
		Where("shop_id = ? AND product_id IN ?", shopID, productIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.ProductID] = row
	}
	return result, nil
}

// Save upserts an overlay row keyed by (shop, product)
func (r *GormProductMetadataRepository) Save(ctx context.Context, meta *shop.ProductMetadata) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "shop_id"}, {Name: "product_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"custom_web_label", "updated_at",
			}),
		}).
		Create(meta).Error
}

// Delete removes an overlay row
func (r *GormProductMetadataRepository) Delete(ctx context.Context, shopID uuid.UUID, productID int64) error {
	result := r.db.WithContext(ctx).
		Where("shop_id = ? AND product_id = ?", shopID, productID).
		Delete(&shop.ProductMetadata{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ shop.ProductMetadataRepository = (*GormProductMetadataRepository)(nil)
