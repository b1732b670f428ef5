package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/noltshop/backend/internal/application/catalog"
	"github.com/noltshop/backend/internal/domain/shared"
)

// CategoryReader serves the mirrored category tree
type CategoryReader interface {
	List(ctx context.Context) ([]catalogapp.CategoryView, error)
	Get(ctx context.Context, id string) (*catalogapp.CategoryView, error)
	Children(ctx context.Context, id string) ([]catalogapp.CategoryView, error)
	Roots(ctx context.Context) ([]catalogapp.CategoryView, error)
	ProductCategories(ctx context.Context, productID int64) ([]string, error)
}

// CategoryHandler handles storefront category endpoints
type CategoryHandler struct {
	BaseHandler
	categories CategoryReader
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories CategoryReader) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// RegisterRoutes registers category routes
func (h *CategoryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	{
		categories.GET("", h.List)
		categories.GET("/roots", h.Roots)
		categories.GET("/:id", h.Get)
		categories.GET("/:id/children", h.Children)
	}
}

// List returns every mirrored category
func (h *CategoryHandler) List(c *gin.Context) {
	views, err := h.categories.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, views)
}

// Roots returns the top-level categories
func (h *CategoryHandler) Roots(c *gin.Context) {
	views, err := h.categories.Roots(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, views)
}

// Get returns a single category
func (h *CategoryHandler) Get(c *gin.Context) {
	view, err := h.categories.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "Category not found")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, view)
}

// Children returns a category's direct children
func (h *CategoryHandler) Children(c *gin.Context) {
	views, err := h.categories.Children(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "Category not found")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, views)
}
