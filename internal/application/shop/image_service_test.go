package shop

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/noltshop/backend/internal/domain/catalog"
	"github.com/noltshop/backend/internal/domain/shared"
)

func newImageService() (*ImageService, *MockImageRepository, *MockProductRepository) {
	imageRepo := new(MockImageRepository)
	productRepo := new(MockProductRepository)
	service := NewImageService(imageRepo, productRepo, nil, nil)
	return service, imageRepo, productRepo
}

func TestImageService_Add_AppendsAtEnd(t *testing.T) {
	service, imageRepo, productRepo := newImageService()
	ctx := context.Background()

	productRepo.On("FindByID", ctx, int64(501)).Return(&catalog.Product{ID: 501}, nil)
	imageRepo.On("FindByProduct", ctx, int64(501)).Return([]catalog.ProductImage{
		{ID: 1, ProductID: 501, Position: 0},
		{ID: 2, ProductID: 501, Position: 1},
	}, nil)

	var saved *catalog.ProductImage
	imageRepo.On("Save", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*catalog.ProductImage)
		}).
		Return(nil)

	view, err := service.Add(ctx, 501, AddImageRequest{FileName: "maillot-dos.jpg", URL: "/media/maillot-dos.jpg"})

	require.NoError(t, err)
	assert.Equal(t, 2, view.Position)
	require.NotNil(t, saved)
	assert.Equal(t, int64(501), saved.ProductID)
	assert.Equal(t, 2, saved.Position)
}

func TestImageService_Add_UnknownProduct(t *testing.T) {
	service, imageRepo, productRepo := newImageService()
	ctx := context.Background()

	productRepo.On("FindByID", ctx, int64(999)).Return(nil, shared.ErrNotFound)

	_, err := service.Add(ctx, 999, AddImageRequest{FileName: "x.jpg"})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	imageRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestImageService_Reorder(t *testing.T) {
	service, imageRepo, productRepo := newImageService()
	ctx := context.Background()

	productRepo.On("FindByID", ctx, int64(501)).Return(&catalog.Product{ID: 501}, nil)
	imageRepo.On("Reorder", ctx, int64(501), []uint{3, 1, 2}).Return(nil)

	err := service.Reorder(ctx, 501, ReorderImagesRequest{ImageIDs: []uint{3, 1, 2}})

	require.NoError(t, err)
	imageRepo.AssertExpectations(t)
}

func TestImageService_Reorder_RejectedByRepository(t *testing.T) {
	service, imageRepo, productRepo := newImageService()
	ctx := context.Background()

	invalid := shared.NewDomainError("INVALID_IMAGE_ORDER", "Image order must list every image exactly once")
	productRepo.On("FindByID", ctx, int64(501)).Return(&catalog.Product{ID: 501}, nil)
	imageRepo.On("Reorder", ctx, int64(501), []uint{1}).Return(invalid)

	err := service.Reorder(ctx, 501, ReorderImagesRequest{ImageIDs: []uint{1}})

	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_IMAGE_ORDER", domainErr.Code)
}

func TestImageService_Delete(t *testing.T) {
	service, imageRepo, productRepo := newImageService()
	ctx := context.Background()

	productRepo.On("FindByID", ctx, int64(501)).Return(&catalog.Product{ID: 501}, nil)
	imageRepo.On("Delete", ctx, int64(501), uint(2)).Return(nil)

	err := service.Delete(ctx, 501, 2)

	require.NoError(t, err)
}

func TestImageService_Delete_NotFound(t *testing.T) {
	service, imageRepo, productRepo := newImageService()
	ctx := context.Background()

	productRepo.On("FindByID", ctx, int64(501)).Return(&catalog.Product{ID: 501}, nil)
	imageRepo.On("Delete", ctx, int64(501), uint(99)).Return(shared.ErrNotFound)

	err := service.Delete(ctx, 501, 99)

	assert.ErrorIs(t, err, shared.ErrNotFound)
}
