package shop

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/noltshop/backend/internal/domain/catalog"
	"github.com/noltshop/backend/internal/domain/shared"
	"github.com/noltshop/backend/internal/domain/shop"
)

// MockShopRepository is a mock implementation of shop.ShopRepository
type MockShopRepository struct {
	mock.Mock
}

func (m *MockShopRepository) FindByID(ctx context.Context, id uuid.UUID) (*shop.Shop, error) {
	args := m.Called(ctx, id)
	if v := args.Get(0); v != nil {
		return v.(*shop.Shop), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockShopRepository) FindByCode(ctx context.Context, code string) (*shop.Shop, error) {
	args := m.Called(ctx, code)
	if v := args.Get(0); v != nil {
		return v.(*shop.Shop), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockShopRepository) FindAll(ctx context.Context) ([]shop.Shop, error) {
	args := m.Called(ctx)
	if v := args.Get(0); v != nil {
		return v.([]shop.Shop), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockShopRepository) Save(ctx context.Context, s *shop.Shop) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

// MockProductMetadataRepository is a mock implementation of shop.ProductMetadataRepository
type MockProductMetadataRepository struct {
	mock.Mock
}

func (m *MockProductMetadataRepository) Find(ctx context.Context, shopID uuid.UUID, productID int64) (*shop.ProductMetadata, error) {
	args := m.Called(ctx, shopID, productID)
	if v := args.Get(0); v != nil {
		return v.(*shop.ProductMetadata), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductMetadataRepository) FindByProducts(ctx context.Context, shopID uuid.UUID, productIDs []int64) (map[int64]shop.ProductMetadata, error) {
	args := m.Called(ctx, shopID, productIDs)
	if v := args.Get(0); v != nil {
		return v.(map[int64]shop.ProductMetadata), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductMetadataRepository) Save(ctx context.Context, meta *shop.ProductMetadata) error {
	args := m.Called(ctx, meta)
	return args.Error(0)
}

func (m *MockProductMetadataRepository) Delete(ctx context.Context, shopID uuid.UUID, productID int64) error {
	args := m.Called(ctx, shopID, productID)
	return args.Error(0)
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

// MockImageRepository is a mock implementation of catalog.ImageRepository
type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) FindByProduct(ctx context.Context, productID int64) ([]catalog.ProductImage, error) {
	args := m.Called(ctx, productID)
	if v := args.Get(0); v != nil {
		return v.([]catalog.ProductImage), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockImageRepository) Save(ctx context.Context, image *catalog.ProductImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockImageRepository) Reorder(ctx context.Context, productID int64, orderedIDs []uint) error {
	args := m.Called(ctx, productID, orderedIDs)
	return args.Error(0)
}

func (m *MockImageRepository) Delete(ctx context.Context, productID int64, imageID uint) error {
	args := m.Called(ctx, productID, imageID)
	return args.Error(0)
}
