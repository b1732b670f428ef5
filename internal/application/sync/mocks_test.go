package sync

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/noltshop/backend/internal/domain/catalog"
	"github.com/noltshop/backend/internal/domain/erp"
	"github.com/noltshop/backend/internal/domain/shared"
)

// MockCatalogClient is a mock implementation of erp.CatalogClient
type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) FetchCategories(ctx context.Context) ([]erp.Category, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]erp.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogClient) FetchChildCategories(ctx context.Context, categoryID string) ([]erp.Category, error) {
	args := m.Called(ctx, categoryID)
	if v := args.Get(0); v != nil {
		return v.([]erp.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogClient) FetchProducts(ctx context.Context, query erp.ProductQuery) ([]erp.Product, error) {
	args := m.Called(ctx, query)
	if v := args.Get(0); v != nil {
		return v.([]erp.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCatalogClient) FetchProductCategories(ctx context.Context, productID int64) ([]string, error) {
	args := m.Called(ctx, productID)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

// MockCategoryRepository is a mock implementation of catalog.CategoryRepository
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id string) (*catalog.Category, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*catalog.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryRepository) FindAll(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]catalog.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryRepository) FindChildren(ctx context.Context, parentID string) ([]catalog.Category, error) {
	args := m.Called(ctx, parentID)
	if v := args.Get(0); v != nil {
		return v.([]catalog.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryRepository) FindRoots(ctx context.Context) ([]catalog.Category, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]catalog.Category), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryRepository) ValidIDs(ctx context.Context) (map[string]struct{}, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(map[string]struct{}), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCategoryRepository) Save(ctx context.Context, category *catalog.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) UpsertBatch(ctx context.Context, categories []*catalog.Category) error {
	args := m.Called(ctx, categories)
	return args.Error(0)
}

func (m *MockCategoryRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id int64) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if v := args.Get(0); v != nil {
		return v.([]catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) FindByCategory(ctx context.Context, categoryID string, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, categoryID, filter)
	if v := args.Get(0); v != nil {
		return v.([]catalog.Product), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) ValidIDs(ctx context.Context) (map[int64]struct{}, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.(map[int64]struct{}), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) UpsertBatch(ctx context.Context, products []*catalog.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockAssociationRepository is a mock implementation of catalog.AssociationRepository
type MockAssociationRepository struct {
	mock.Mock
}

func (m *MockAssociationRepository) RebuildAll(ctx context.Context, pairs []catalog.ProductCategory) (int, error) {
	args := m.Called(ctx, pairs)
	return args.Int(0), args.Error(1)
}

func (m *MockAssociationRepository) FindByProduct(ctx context.Context, productID int64) ([]string, error) {
	args := m.Called(ctx, productID)
	if v := args.Get(0); v != nil {
		return v.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockAssociationRepository) CountAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}
