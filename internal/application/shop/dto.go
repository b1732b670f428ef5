package shop

import (
	"time"

	"github.com/google/uuid"

	"github.com/noltshop/backend/internal/domain/shop"
)

// CreateShopRequest represents a request to register a storefront
type CreateShopRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
	Name string `json:"name" binding:"required,min=1,max=100"`
}

// SetWebLabelRequest represents a request to override a product's display
// label for one shop. An empty label clears the override.
type SetWebLabelRequest struct {
	WebLabel string `json:"web_label" binding:"max=255"`
}

// AddImageRequest represents a request to attach an image to a product
type AddImageRequest struct {
	FileName string `json:"file_name" binding:"required,min=1,max=255"`
	URL      string `json:"url" binding:"max=512"`
}

// ReorderImagesRequest carries the full gallery in its new order
type ReorderImagesRequest struct {
	ImageIDs []uint `json:"image_ids" binding:"required,min=1"`
}

// ShopResponse represents a shop in API responses
type ShopResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// WebLabelResponse reports the stored override after a write
type WebLabelResponse struct {
	ShopCode  string `json:"shop_code"`
	ProductID int64  `json:"product_id"`
	WebLabel  string `json:"web_label"`
	Cleared   bool   `json:"cleared"`
}

func toShopResponse(s *shop.Shop) ShopResponse {
	return ShopResponse{
		ID:        s.ID,
		Code:      s.Code,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
}
