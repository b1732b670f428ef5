package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noltshop/backend/internal/domain/catalog"
)

// ProductView is the merged read model served to storefronts: ERP-owned
// fields joined with the locally-owned display label resolved for the
// requesting shop.
type ProductView struct {
	ID          int64           `json:"id"`
	Ref         string          `json:"ref"`
	Label       string          `json:"label"`
	WebLabel    string          `json:"web_label"`
	Description string          `json:"description"`
	PriceHT     decimal.Decimal `json:"price_ht"`
	PriceTTC    decimal.Decimal `json:"price_ttc"`
	Stock       int64           `json:"stock"`
	CategoryID  *string         `json:"category_id"`
	Images      []ImageView     `json:"images"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ImageView represents a product image in API responses
type ImageView struct {
	ID       uint   `json:"id"`
	FileName string `json:"file_name"`
	URL      string `json:"url"`
	Position int    `json:"position"`
}

// CategoryView represents a category in API responses
type CategoryView struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
	ParentID    *string `json:"parent_id"`
}

// ProductListResult is a page of merged product views
type ProductListResult struct {
	Items    []ProductView `json:"items"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
}

// resolveDisplayLabel applies the display precedence for one shop: the
// shop's override wins, then the product's local web label, then the ERP
// label.
func resolveDisplayLabel(shopOverride string, product *catalog.Product) string {
	return catalog.ResolveWebLabel(shopOverride,
		catalog.ResolveWebLabel(product.WebLabel, product.Label))
}

func toImageViews(images []catalog.ProductImage) []ImageView {
	views := make([]ImageView, 0, len(images))
	for _, img := range images {
		views = append(views, ImageView{
			ID:       img.ID,
			FileName: img.FileName,
			URL:      img.URL,
			Position: img.Position,
		})
	}
	return views
}

func toProductView(product *catalog.Product, shopOverride string) ProductView {
	return ProductView{
		ID:          product.ID,
		Ref:         product.Ref,
		Label:       product.Label,
		WebLabel:    resolveDisplayLabel(shopOverride, product),
		Description: product.Description,
		PriceHT:     product.PriceHT,
		PriceTTC:    product.PriceTTC,
		Stock:       product.Stock,
		CategoryID:  product.CategoryID,
		Images:      toImageViews(product.Images),
		UpdatedAt:   product.UpdatedAt,
	}
}

func toCategoryView(category *catalog.Category) CategoryView {
	return CategoryView{
		ID:          category.ID,
		Label:       category.Label,
		Description: category.Description,
		ParentID:    category.ParentID,
	}
}
