package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/noltshop/backend/internal/domain/catalog"
	"github.com/noltshop/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// productSortColumns whitelists the columns a caller may order products by
var productSortColumns = map[string]struct{}{
	"id":         {},
	"ref":        {},
	"label":      {},
	"price_ht":   {},
	"price_ttc":  {},
	"stock":      {},
	"updated_at": {},
}

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ERP identifier, with images preloaded
func (r *GormProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll returns products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByCategory returns products linked to a category, either as their
// primary category or through the association table
func (r *GormProductRepository) FindByCategory(ctx context.Context, categoryID string, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Where("category_id = ? OR id IN (?)",
			categoryID,
			r.db.Model(&catalog.ProductCategory{}).
				Select("product_id").
				Where("category_id = ?", categoryID),
		)
	query = r.applyFilter(query, filter)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ValidIDs returns the set of product IDs currently present
func (r *GormProductRepository) ValidIDs(ctx context.Context) (map[int64]struct{}, error) {
	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// Save creates or updates a single product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// UpsertBatch inserts or updates products keyed by their ERP ID. Only the
// ERP-owned columns are written on conflict; web_label and image rows are
// never touched here.
func (r *GormProductRepository) UpsertBatch(ctx context.Context, products []*catalog.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Omit("Images").
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"ref", "label", "description", "price_ht", "price_ttc",
				"stock", "category_id", "updated_at",
			}),
		}).
		Create(&products).Error
}

// Count returns the number of mirrored products
func (r *GormProductRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&catalog.Product{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies search, ordering and pagination to a product query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("label ILIKE ? OR ref ILIKE ?", pattern, pattern)
	}

	orderBy := strings.ToLower(filter.OrderBy)
	if _, ok := productSortColumns[orderBy]; !ok {
		orderBy = "label"
	}
	dir := "ASC"
	if strings.EqualFold(filter.OrderDir, "desc") {
		dir = "DESC"
	}
	query = query.Order(orderBy + " " + dir)

	if filter.PageSize > 0 {
		offset := 0
		if filter.Page > 1 {
			offset = (filter.Page - 1) * filter.PageSize
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
