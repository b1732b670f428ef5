package persistence

import (
	"context"
	"errors"

	"github.com/noltshop/backend/internal/domain/catalog"
	"github.com/noltshop/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCategoryRepository implements catalog.CategoryRepository using GORM
type GormCategoryRepository struct {
	db *gorm.DB
}

// NewGormCategoryRepository creates a new GormCategoryRepository
func NewGormCategoryRepository(db *gorm.DB) *GormCategoryRepository {
	return &GormCategoryRepository{db: db}
}

// FindByID finds a category by its ERP identifier
func (r *GormCategoryRepository) FindByID(ctx context.Context, id string) (*catalog.Category, error) {
	var category catalog.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &category, nil
}

// FindAll returns every mirrored category ordered by label
func (r *GormCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Order("label ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindChildren returns the direct children of a category
func (r *GormCategoryRepository) FindChildren(ctx context.Context, parentID string) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("label ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// FindRoots returns all categories without a parent
func (r *GormCategoryRepository) FindRoots(ctx context.Context) ([]catalog.Category, error) {
	var categories []catalog.Category
	if err := r.db.WithContext(ctx).
		Where("parent_id IS NULL").
		Order("label ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// ValidIDs returns the set of category IDs currently present
func (r *GormCategoryRepository) ValidIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	if err := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// Save creates or updates a single category
func (r *GormCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

// UpsertBatch inserts or updates categories keyed by their ERP ID. Rows
// absent from the batch are left untouched.
func (r *GormCategoryRepository) UpsertBatch(ctx context.Context, categories []*catalog.Category) error {
	if len(categories) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"label", "description", "parent_id", "updated_at",
			}),
		}).
		Create(&categories).Error
}

// Count returns the number of mirrored categories
func (r *GormCategoryRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Category{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ catalog.CategoryRepository = (*GormCategoryRepository)(nil)
