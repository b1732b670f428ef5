package catalog

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/noltshop/backend/internal/domain/catalog"
	"github.com/noltshop/backend/internal/infrastructure/cache"
)

// CategoryService serves the mirrored category tree
type CategoryService struct {
	categoryRepo    catalog.CategoryRepository
	associationRepo catalog.AssociationRepository
	cache           cache.CatalogCache
	logger          *zap.Logger
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(
	categoryRepo catalog.CategoryRepository,
	associationRepo catalog.AssociationRepository,
	catalogCache cache.CatalogCache,
	logger *zap.Logger,
) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalogCache == nil {
		catalogCache = cache.NewNoopCatalogCache()
	}
	return &CategoryService{
		categoryRepo:    categoryRepo,
		associationRepo: associationRepo,
		cache:           catalogCache,
		logger:          logger.Named("catalog"),
	}
}

// List returns every mirrored category
func (s *CategoryService) List(ctx context.Context) ([]CategoryView, error) {
	var cached []CategoryView
	if s.cache.Get(ctx, "categories", &cached) {
		return cached, nil
	}

	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	views := toCategoryViews(categories)
	s.cache.Set(ctx, "categories", views)
	return views, nil
}

// Get returns a single category
func (s *CategoryService) Get(ctx context.Context, id string) (*CategoryView, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	view := toCategoryView(category)
	return &view, nil
}

// Children returns a category's direct children. The parent must exist;
// an existing leaf yields an empty list.
func (s *CategoryService) Children(ctx context.Context, id string) ([]CategoryView, error) {
	if _, err := s.categoryRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("category:%s:children", id)
	var cached []CategoryView
	if s.cache.Get(ctx, cacheKey, &cached) {
		return cached, nil
	}

	children, err := s.categoryRepo.FindChildren(ctx, id)
	if err != nil {
		return nil, err
	}

	views := toCategoryViews(children)
	s.cache.Set(ctx, cacheKey, views)
	return views, nil
}

// Roots returns the categories without a parent
func (s *CategoryService) Roots(ctx context.Context) ([]CategoryView, error) {
	roots, err := s.categoryRepo.FindRoots(ctx)
	if err != nil {
		return nil, err
	}
	return toCategoryViews(roots), nil
}

// ProductCategories returns the IDs of every category a product is linked
// to through the association set
func (s *CategoryService) ProductCategories(ctx context.Context, productID int64) ([]string, error) {
	return s.associationRepo.FindByProduct(ctx, productID)
}

func toCategoryViews(categories []catalog.Category) []CategoryView {
	views := make([]CategoryView, 0, len(categories))
	for i := range categories {
		views = append(views, toCategoryView(&categories[i]))
	}
	return views
}
