package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/noltshop/backend/internal/application/catalog"
	shopapp "github.com/noltshop/backend/internal/application/shop"
	"github.com/noltshop/backend/internal/domain/shared"
)

// ImageAdmin manages product image galleries
type ImageAdmin interface {
	Add(ctx context.Context, productID int64, req shopapp.AddImageRequest) (*catalogapp.ImageView, error)
	List(ctx context.Context, productID int64) ([]catalogapp.ImageView, error)
	Reorder(ctx context.Context, productID int64, req shopapp.ReorderImagesRequest) error
	Delete(ctx context.Context, productID int64, imageID uint) error
}

// ImageHandler handles product image endpoints
type ImageHandler struct {
	BaseHandler
	images ImageAdmin
}

// NewImageHandler creates a new ImageHandler
func NewImageHandler(images ImageAdmin) *ImageHandler {
	return &ImageHandler{images: images}
}

// RegisterRoutes registers image routes
func (h *ImageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	images := rg.Group("/products/:id/images")
	{
		images.GET("", h.List)
		images.POST("", h.Add)
		images.PUT("/order", h.Reorder)
		images.DELETE("/:imageID", h.Delete)
	}
}

// List returns a product's gallery
func (h *ImageHandler) List(c *gin.Context) {
	productID, ok := getProductID(c)
	if !ok {
		h.InvalidID(c, "Invalid product ID")
		return
	}

	views, err := h.images.List(c.Request.Context(), productID)
	if err != nil {
		h.handleImageError(c, err)
		return
	}
	h.Success(c, views)
}

// Add attaches an image to a product
func (h *ImageHandler) Add(c *gin.Context) {
	productID, ok := getProductID(c)
	if !ok {
		h.InvalidID(c, "Invalid product ID")
		return
	}

	var req shopapp.AddImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid image payload")
		return
	}

	view, err := h.images.Add(c.Request.Context(), productID, req)
	if err != nil {
		h.handleImageError(c, err)
		return
	}
	h.Created(c, view)
}

// Reorder rewrites the gallery order
func (h *ImageHandler) Reorder(c *gin.Context) {
	productID, ok := getProductID(c)
	if !ok {
		h.InvalidID(c, "Invalid product ID")
		return
	}

	var req shopapp.ReorderImagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid reorder payload")
		return
	}

	if err := h.images.Reorder(c.Request.Context(), productID, req); err != nil {
		h.handleImageError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete removes an image from the gallery
func (h *ImageHandler) Delete(c *gin.Context) {
	productID, ok := getProductID(c)
	if !ok {
		h.InvalidID(c, "Invalid product ID")
		return
	}

	imageID, err := strconv.ParseUint(c.Param("imageID"), 10, 32)
	if err != nil {
		h.NotFound(c, "Image not found")
		return
	}

	if err := h.images.Delete(c.Request.Context(), productID, uint(imageID)); err != nil {
		h.handleImageError(c, err)
		return
	}
	h.NoContent(c)
}

func (h *ImageHandler) handleImageError(c *gin.Context, err error) {
	if errors.Is(err, shared.ErrNotFound) {
		h.NotFound(c, "Product or image not found")
		return
	}
	h.HandleError(c, err)
}
