package shop

import (
	"context"

	"go.uber.org/zap"

	"github.com/noltshop/backend/internal/application/catalog"
	domaincatalog "github.com/noltshop/backend/internal/domain/catalog"
	"github.com/noltshop/backend/internal/infrastructure/cache"
)

// ImageService manages the locally-owned product image galleries
type ImageService struct {
	imageRepo   domaincatalog.ImageRepository
	productRepo domaincatalog.ProductRepository
	cache       cache.CatalogCache
	logger      *zap.Logger
}

// NewImageService creates a new ImageService
func NewImageService(
	imageRepo domaincatalog.ImageRepository,
	productRepo domaincatalog.ProductRepository,
	catalogCache cache.CatalogCache,
	logger *zap.Logger,
) *ImageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalogCache == nil {
		catalogCache = cache.NewNoopCatalogCache()
	}
	return &ImageService{
		imageRepo:   imageRepo,
		productRepo: productRepo,
		cache:       catalogCache,
		logger:      logger.Named("images"),
	}
}

// Add attaches an image to a product at the end of its gallery
func (s *ImageService) Add(ctx context.Context, productID int64, req AddImageRequest) (*catalog.ImageView, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	existing, err := s.imageRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	image, err := domaincatalog.NewProductImage(productID, req.FileName, req.URL, len(existing))
	if err != nil {
		return nil, err
	}
	if err := s.imageRepo.Save(ctx, image); err != nil {
		return nil, err
	}

	s.cache.InvalidateAll(ctx)
	return &catalog.ImageView{
		ID:       image.ID,
		FileName: image.FileName,
		URL:      image.URL,
		Position: image.Position,
	}, nil
}

// List returns a product's gallery in display order
func (s *ImageService) List(ctx context.Context, productID int64) ([]catalog.ImageView, error) {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	images, err := s.imageRepo.FindByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	views := make([]catalog.ImageView, 0, len(images))
	for _, img := range images {
		views = append(views, catalog.ImageView{
			ID:       img.ID,
			FileName: img.FileName,
			URL:      img.URL,
			Position: img.Position,
		})
	}
	return views, nil
}

// Reorder rewrites the gallery order. The request must list every image of
// the product exactly once.
func (s *ImageService) Reorder(ctx context.Context, productID int64, req ReorderImagesRequest) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	if err := s.imageRepo.Reorder(ctx, productID, req.ImageIDs); err != nil {
		return err
	}

	s.cache.InvalidateAll(ctx)
	s.logger.Info("image gallery reordered",
		zap.Int64("product_id", productID),
		zap.Int("images", len(req.ImageIDs)))
	return nil
}

// Delete removes an image from a product's gallery
func (s *ImageService) Delete(ctx context.Context, productID int64, imageID uint) error {
	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return err
	}
	if err := s.imageRepo.Delete(ctx, productID, imageID); err != nil {
		return err
	}

	s.cache.InvalidateAll(ctx)
	return nil
}
