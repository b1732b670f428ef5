package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	shopapp "github.com/noltshop/backend/internal/application/shop"
	"github.com/noltshop/backend/internal/domain/shared"
)

// ShopAdmin handles storefront registration and per-shop overlays
type ShopAdmin interface {
	Create(ctx context.Context, req shopapp.CreateShopRequest) (*shopapp.ShopResponse, error)
	List(ctx context.Context) ([]shopapp.ShopResponse, error)
	GetByCode(ctx context.Context, code string) (*shopapp.ShopResponse, error)
	SetWebLabel(ctx context.Context, shopCode string, productID int64, label string) (*shopapp.WebLabelResponse, error)
}

// ShopHandler handles shop administration endpoints
type ShopHandler struct {
	BaseHandler
	shops ShopAdmin
}

// NewShopHandler creates a new ShopHandler
func NewShopHandler(shops ShopAdmin) *ShopHandler {
	return &ShopHandler{shops: shops}
}

// RegisterRoutes registers shop routes
func (h *ShopHandler) RegisterRoutes(rg *gin.RouterGroup) {
	shops := rg.Group("/shops")
	{
		shops.POST("", h.Create)
		shops.GET("", h.List)
		shops.GET("/:code", h.Get)
		shops.PUT("/:code/products/:id/web-label", h.SetWebLabel)
	}
}

// Create registers a new storefront
func (h *ShopHandler) Create(c *gin.Context) {
	var req shopapp.CreateShopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid shop payload")
		return
	}

	resp, err := h.shops.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, resp)
}

// List returns every registered shop
func (h *ShopHandler) List(c *gin.Context) {
	shops, err := h.shops.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, shops)
}

// Get returns a single shop by code
func (h *ShopHandler) Get(c *gin.Context) {
	resp, err := h.shops.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "Shop not found")
			return
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SetWebLabel writes or clears the shop's display label for a product
func (h *ShopHandler) SetWebLabel(c *gin.Context) {
	productID, ok := getProductID(c)
	if !ok {
		h.InvalidID(c, "Invalid product ID")
		return
	}

	var req shopapp.SetWebLabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid web label payload")
		return
	}

	resp, err := h.shops.SetWebLabel(c.Request.Context(), c.Param("code"), productID, req.WebLabel)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			h.NotFound(c, "Shop or product not found")
			return
		}
		h.HandleError(c, err)
		return
	}

	h.Success(c, resp)
}
