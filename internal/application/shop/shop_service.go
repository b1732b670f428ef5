package shop

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/noltshop/backend/internal/domain/catalog"
	"github.com/noltshop/backend/internal/domain/shared"
	"github.com/noltshop/backend/internal/domain/shop"
	"github.com/noltshop/backend/internal/infrastructure/cache"
)

// ShopService handles storefront registration and the per-shop product
// overlays. Overlay writes are the only path that touches display labels;
// the ERP sync never sees them.
type ShopService struct {
	shopRepo     shop.ShopRepository
	metadataRepo shop.ProductMetadataRepository
	productRepo  catalog.ProductRepository
	cache        cache.CatalogCache
	logger       *zap.Logger
}

// NewShopService creates a new ShopService
func NewShopService(
	shopRepo shop.ShopRepository,
	metadataRepo shop.ProductMetadataRepository,
	productRepo catalog.ProductRepository,
	catalogCache cache.CatalogCache,
	logger *zap.Logger,
) *ShopService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalogCache == nil {
		catalogCache = cache.NewNoopCatalogCache()
	}
	return &ShopService{
		shopRepo:     shopRepo,
		metadataRepo: metadataRepo,
		productRepo:  productRepo,
		cache:        catalogCache,
		logger:       logger.Named("shop"),
	}
}

// Create registers a new storefront. Codes are unique case-insensitively.
func (s *ShopService) Create(ctx context.Context, req CreateShopRequest) (*ShopResponse, error) {
	if _, err := s.shopRepo.FindByCode(ctx, req.Code); err == nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Shop with this code already exists")
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	created, err := shop.NewShop(req.Code, req.Name)
	if err != nil {
		return nil, err
	}
	if err := s.shopRepo.Save(ctx, created); err != nil {
		return nil, err
	}

	s.logger.Info("shop created", zap.String("code", created.Code))
	resp := toShopResponse(created)
	return &resp, nil
}

// List returns every registered shop
func (s *ShopService) List(ctx context.Context) ([]ShopResponse, error) {
	shops, err := s.shopRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ShopResponse, 0, len(shops))
	for i := range shops {
		responses = append(responses, toShopResponse(&shops[i]))
	}
	return responses, nil
}

// GetByCode returns a single shop
func (s *ShopService) GetByCode(ctx context.Context, code string) (*ShopResponse, error) {
	found, err := s.shopRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := toShopResponse(found)
	return &resp, nil
}

// SetWebLabel writes or clears the shop's display-label override for a
// product. A label that is empty after trimming removes the override row,
// so the merged view falls back to the ERP label.
func (s *ShopService) SetWebLabel(ctx context.Context, shopCode string, productID int64, label string) (*WebLabelResponse, error) {
	owner, err := s.shopRepo.FindByCode(ctx, shopCode)
	if err != nil {
		return nil, err
	}
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	resp := &WebLabelResponse{
		ShopCode:  owner.Code,
		ProductID: productID,
		WebLabel:  label,
	}

	if strings.TrimSpace(label) == "" {
		if err := s.metadataRepo.Delete(ctx, owner.ID, productID); err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		resp.WebLabel = ""
		resp.Cleared = true
	} else {
		meta, err := shop.NewProductMetadata(owner.ID, productID, label)
		if err != nil {
			return nil, err
		}
		if err := s.metadataRepo.Save(ctx, meta); err != nil {
			return nil, err
		}
	}

	s.cache.InvalidateAll(ctx)
	s.logger.Info("web label override updated",
		zap.String("shop_code", owner.Code),
		zap.Int64("product_id", productID),
		zap.Bool("cleared", resp.Cleared))
	return resp, nil
}
