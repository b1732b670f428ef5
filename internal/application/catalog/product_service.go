package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noltshop/backend/internal/domain/catalog"
	"github.com/noltshop/backend/internal/domain/shared"
	"github.com/noltshop/backend/internal/domain/shop"
	"github.com/noltshop/backend/internal/infrastructure/cache"
)

// ProductService serves the merged catalog read view: ERP-mirrored rows
// overlaid with per-shop display labels at query time. Nothing here writes
// to the product table.
type ProductService struct {
	productRepo  catalog.ProductRepository
	shopRepo     shop.ShopRepository
	metadataRepo shop.ProductMetadataRepository
	cache        cache.CatalogCache
	logger       *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	shopRepo shop.ShopRepository,
	metadataRepo shop.ProductMetadataRepository,
	catalogCache cache.CatalogCache,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalogCache == nil {
		catalogCache = cache.NewNoopCatalogCache()
	}
	return &ProductService{
		productRepo:  productRepo,
		shopRepo:     shopRepo,
		metadataRepo: metadataRepo,
		cache:        catalogCache,
		logger:       logger.Named("catalog"),
	}
}

// List returns a page of products merged with the shop's label overrides.
// categoryID narrows the page to a category's products (primary or linked
// through the association table); an empty categoryID lists everything.
func (s *ProductService) List(ctx context.Context, shopCode, categoryID string, filter shared.Filter) (*ProductListResult, error) {
	cacheKey := fmt.Sprintf("products:%s:%s:%d:%d:%s:%s:%s",
		shopCode, categoryID, filter.Page, filter.PageSize,
		filter.OrderBy, filter.OrderDir, filter.Search)

	var cached ProductListResult
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	var (
		products []catalog.Product
		err      error
	)
	if categoryID != "" {
		products, err = s.productRepo.FindByCategory(ctx, categoryID, filter)
	} else {
		products, err = s.productRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, err
	}

	overrides, err := s.shopOverrides(ctx, shopCode, products)
	if err != nil {
		return nil, err
	}

	items := make([]ProductView, 0, len(products))
	for i := range products {
		items = append(items, toProductView(&products[i], overrides[products[i].ID]))
	}

	result := &ProductListResult{
		Items:    items,
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	s.cache.Set(ctx, cacheKey, result)
	return result, nil
}

// Get returns a single merged product view. The ID is the ERP product
// identifier; malformed IDs are rejected at the handler before they reach
// this lookup.
func (s *ProductService) Get(ctx context.Context, shopCode string, id int64) (*ProductView, error) {
	cacheKey := fmt.Sprintf("product:%d:%s", id, shopCode)
	var cached ProductView
	if s.cache.Get(ctx, cacheKey, &cached) {
		return &cached, nil
	}

	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	override := ""
	if shopID, ok := s.resolveShop(ctx, shopCode); ok {
		meta, err := s.metadataRepo.Find(ctx, shopID, id)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if meta != nil {
			override = meta.CustomWebLabel
		}
	}

	view := toProductView(product, override)
	s.cache.Set(ctx, cacheKey, view)
	return &view, nil
}

// shopOverrides bulk-loads the shop's label overrides for a product page.
// An unknown or empty shop code yields no overrides rather than an error;
// the merged view then falls back to the ERP labels.
func (s *ProductService) shopOverrides(ctx context.Context, shopCode string, products []catalog.Product) (map[int64]string, error) {
	overrides := make(map[int64]string)
	if len(products) == 0 {
		return overrides, nil
	}

	shopID, ok := s.resolveShop(ctx, shopCode)
	if !ok {
		return overrides, nil
	}

	productIDs := make([]int64, 0, len(products))
	for i := range products {
		productIDs = append(productIDs, products[i].ID)
	}

	metadata, err := s.metadataRepo.FindByProducts(ctx, shopID, productIDs)
	if err != nil {
		return nil, err
	}
	for productID, meta := range metadata {
		overrides[productID] = meta.CustomWebLabel
	}
	return overrides, nil
}

func (s *ProductService) resolveShop(ctx context.Context, shopCode string) (uuid.UUID, bool) {
	if shopCode == "" {
		return uuid.Nil, false
	}
	found, err := s.shopRepo.FindByCode(ctx, shopCode)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("shop lookup failed, serving without overrides",
				zap.String("shop_code", shopCode),
				zap.Error(err))
		}
		return uuid.Nil, false
	}
	return found.ID, true
}
