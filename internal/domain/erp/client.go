package erp

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
)

// Sentinel errors distinguishing upstream failure classes. A format error
// aborts a sync outright; an unavailable error on a single call is
// tolerated and only degrades the sync to partial.
var (
	// ErrUpstreamFormat indicates the ERP responded with a body that does
	// not match any known shape for the endpoint
	ErrUpstreamFormat = errors.New("erp: unexpected response format")

	// ErrUpstreamUnavailable indicates the ERP could not be reached or
	// returned a server error
	ErrUpstreamUnavailable = errors.New("erp: upstream unavailable")
)

// Category is a normalized ERP category. ParentID is empty for root
// categories; the ERP's "0" parent marker is normalized away by the client.
type Category struct {
	ID          string
	Label       string
	Description string
	ParentID    string
}

// Product is a normalized ERP product. Prices are tax-exclusive (HT) and
// tax-inclusive (TTC); Stock is the real aggregate stock reported by the
// ERP, zero when the query did not request stock.
type Product struct {
	ID          int64
	Ref         string
	Label       string
	Description string
	PriceHT     decimal.Decimal
	PriceTTC    decimal.Decimal
	Stock       int64
	CategoryID  string
}

// ProductQuery narrows a product fetch
type ProductQuery struct {
	// CategoryID restricts results to members of one category
	CategoryID string
	// Page selects a result page when Limit is set; zero-based
	Page int
	// Limit caps the number of returned products; zero means no limit
	Limit int
	// IncludeStock asks the ERP to aggregate real stock per product
	IncludeStock bool
}

// CatalogClient fetches catalog data from the ERP. Implementations
// normalize the upstream's inconsistent response shapes; callers only ever
// see the types above or a sentinel error.
type CatalogClient interface {
	// FetchCategories returns every product category visible to the
	// configured API key
	FetchCategories(ctx context.Context) ([]Category, error)

	// FetchChildCategories returns the direct children of a category
	FetchChildCategories(ctx context.Context, categoryID string) ([]Category, error)

	// FetchProducts returns products matching the query
	FetchProducts(ctx context.Context, query ProductQuery) ([]Product, error)

	// FetchProductCategories returns the IDs of every category a product
	// belongs to. A product unknown to the categories module yields an
	// empty slice, not an error.
	FetchProductCategories(ctx context.Context, productID int64) ([]string, error)
}
