package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/noltshop/backend/internal/application/catalog"
	"github.com/noltshop/backend/internal/domain/shared"
	"github.com/noltshop/backend/internal/interfaces/http/dto"
)

// ProductReader serves the merged product read view
type ProductReader interface {
	List(ctx context.Context, shopCode, categoryID string, filter shared.Filter) (*catalogapp.ProductListResult, error)
	Get(ctx context.Context, shopCode string, id int64) (*catalogapp.ProductView, error)
}

// ProductHandler handles storefront product endpoints
type ProductHandler struct {
	BaseHandler
	products   ProductReader
	categories CategoryReader
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(products ProductReader, categories CategoryReader) *ProductHandler {
	return &ProductHandler{products: products, categories: categories}
}

// RegisterRoutes registers product routes
func (h *ProductHandler) RegisterRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	{
		products.GET("", h.List)
		products.GET("/:id", h.Get)
		products.GET("/:id/categories", h.ListCategories)
	}
}

// List returns a page of products, optionally narrowed to a category
func (h *ProductHandler) List(c *gin.Context) {
	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid list parameters")
		return
	}

	result, err := h.products.List(c.Request.Context(), getShopCode(c), c.Query("category_id"), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Page, result.PageSize, len(result.Items))
}

// Get returns a single product by its ERP identifier. A malformed ID is a
// request error, not a missing product.
func (h *ProductHandler) Get(c *gin.Context) {
	id, ok := getProductID(c)
	if !ok {
		h.InvalidID(c, "Invalid product ID")
		return
	}

	view, err := h.products.Get(c.Request.Context(), getShopCode(c), id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "Product not found")
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, view)
}

// ListCategories returns the category IDs a product is linked to
func (h *ProductHandler) ListCategories(c *gin.Context) {
	id, ok := getProductID(c)
	if !ok {
		h.InvalidID(c, "Invalid product ID")
		return
	}

	ids, err := h.categories.ProductCategories(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	h.Success(c, ids)
}
