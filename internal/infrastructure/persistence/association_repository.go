package persistence

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/noltshop/backend/internal/domain/catalog"
)

// rebuildSavePoint marks the state before each pair insert so a failing
// row can be rolled back without aborting the surrounding transaction
const rebuildSavePoint = "rebuild_pair"

// GormAssociationRepository implements catalog.AssociationRepository using GORM
type GormAssociationRepository struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewGormAssociationRepository creates a new GormAssociationRepository
func NewGormAssociationRepository(db *gorm.DB, logger *zap.Logger) *GormAssociationRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GormAssociationRepository{db: db, logger: logger.Named("associations")}
}

// RebuildAll replaces the association set with the given pairs inside a
// single transaction. Pairs referencing a product or category that does not
// exist locally are dropped before insertion; duplicates collapse to one
// row. Surviving pairs are inserted one at a time behind a savepoint: a
// failing row is logged and skipped, the remaining pairs still land. Only a
// failure of the delete or savepoint machinery rolls the whole rebuild
// back, leaving the previous set intact. Returns the number of pairs
// inserted.
func (r *GormAssociationRepository) RebuildAll(ctx context.Context, pairs []catalog.ProductCategory) (int, error) {
	inserted := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var productIDs []int64
		if err := tx.Model(&catalog.Product{}).Pluck("id", &productIDs).Error; err != nil {
			return err
		}
		var categoryIDs []string
		if err := tx.Model(&catalog.Category{}).Pluck("id", &categoryIDs).Error; err != nil {
			return err
		}

		validProducts := make(map[int64]struct{}, len(productIDs))
		for _, id := range productIDs {
			validProducts[id] = struct{}{}
		}
		validCategories := make(map[string]struct{}, len(categoryIDs))
		for _, id := range categoryIDs {
			validCategories[id] = struct{}{}
		}

		seen := make(map[catalog.ProductCategory]struct{}, len(pairs))
		valid := make([]catalog.ProductCategory, 0, len(pairs))
		for _, pair := range pairs {
			if _, ok := validProducts[pair.ProductID]; !ok {
				continue
			}
			if _, ok := validCategories[pair.CategoryID]; !ok {
				continue
			}
			if _, ok := seen[pair]; ok {
				continue
			}
			seen[pair] = struct{}{}
			valid = append(valid, pair)
		}

		if err := tx.Exec("DELETE FROM product_categories").Error; err != nil {
			return err
		}
		for _, pair := range valid {
			if err := tx.SavePoint(rebuildSavePoint).Error; err != nil {
				return err
			}
			if err := tx.Create(&pair).Error; err != nil {
				if rbErr := tx.RollbackTo(rebuildSavePoint).Error; rbErr != nil {
					return rbErr
				}
				r.logger.Warn("association insert skipped",
					zap.Int64("product_id", pair.ProductID),
					zap.String("category_id", pair.CategoryID),
					zap.Error(err))
				continue
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// FindByProduct returns the category IDs linked to a product
func (r *GormAssociationRepository) FindByProduct(ctx context.Context, productID int64) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&catalog.ProductCategory{}).
		Where("product_id = ?", productID).
		Order("category_id ASC").
		Pluck("category_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// CountAll returns the size of the association set
func (r *GormAssociationRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.ProductCategory{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ catalog.AssociationRepository = (*GormAssociationRepository)(nil)
