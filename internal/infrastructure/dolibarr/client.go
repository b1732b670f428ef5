package dolibarr

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noltshop/backend/internal/domain/erp"
)

// maxResponseSize is the maximum allowed response size from the Dolibarr API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Client implements erp.CatalogClient against the Dolibarr REST API.
// Dolibarr's endpoints are inconsistent: some return bare arrays, some
// return objects keyed by row ID, and numeric fields arrive as strings.
// All of that is normalized here so callers only see erp types.
type Client struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Dolibarr API client
func NewClient(config *Config, logger *zap.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger.Named("dolibarr"),
	}, nil
}

// doRequest performs a GET against the API and returns the body and status
// code. The API key travels as the DOLAPIKEY query parameter on every call.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, int, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("DOLAPIKEY", c.config.APIKey)

	endpoint := c.config.BaseURL + path + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("dolibarr: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", erp.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("dolibarr: failed to read response: %w", err)
	}

	return body, resp.StatusCode, nil
}

// decodeArray decodes a body that must be a JSON array of records
func decodeArray(body []byte) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("%w: expected a JSON array", erp.ErrUpstreamFormat)
	}
	var records []json.RawMessage
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", erp.ErrUpstreamFormat, err)
	}
	return records, nil
}

// decodeRecords decodes a body that may be a JSON array or an object whose
// values are the records
func decodeRecords(body []byte) ([]json.RawMessage, error) {
	trimmed := strings.TrimSpace(string(body))
	switch {
	case strings.HasPrefix(trimmed, "["):
		return decodeArray(body)
	case strings.HasPrefix(trimmed, "{"):
		var keyed map[string]json.RawMessage
		if err := json.Unmarshal(body, &keyed); err != nil {
			return nil, fmt.Errorf("%w: %v", erp.ErrUpstreamFormat, err)
		}
		records := make([]json.RawMessage, 0, len(keyed))
		for _, record := range keyed {
			records = append(records, record)
		}
		return records, nil
	default:
		return nil, fmt.Errorf("%w: expected a JSON array or object", erp.ErrUpstreamFormat)
	}
}

// FetchCategories returns every product category visible to the API key
func (c *Client) FetchCategories(ctx context.Context) ([]erp.Category, error) {
	query := url.Values{}
	query.Set("type", "product")

	body, status, err := c.doRequest(ctx, "/categories", query)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d on /categories", erp.ErrUpstreamUnavailable, status)
	}

	records, err := decodeArray(body)
	if err != nil {
		return nil, err
	}
	return c.mapCategories(records)
}

// FetchChildCategories returns the direct children of a category. It first
// hits the module-specific children endpoint; if that fails for any reason
// it retries against the standard one before giving up.
func (c *Client) FetchChildCategories(ctx context.Context, categoryID string) ([]erp.Category, error) {
	paths := []string{
		"/noltapi/categoriesFilles/" + url.PathEscape(categoryID),
		"/categories/" + url.PathEscape(categoryID) + "/children",
	}

	var lastErr error
	for _, path := range paths {
		body, status, err := c.doRequest(ctx, path, nil)
		if err != nil {
			lastErr = err
			continue
		}
		if status >= 400 {
			lastErr = fmt.Errorf("%w: HTTP %d on %s", erp.ErrUpstreamUnavailable, status, path)
			continue
		}

		records, err := decodeRecords(body)
		if err != nil {
			lastErr = err
			continue
		}
		return c.mapCategories(records)
	}

	c.logger.Warn("all child category endpoints failed",
		zap.String("category_id", categoryID),
		zap.Error(lastErr))
	return nil, fmt.Errorf("%w: child categories of %s", erp.ErrUpstreamUnavailable, categoryID)
}

// FetchProducts returns products matching the query. A 404 on a
// category-filtered fetch means the category has no products and yields an
// empty result; a 404 on the unfiltered listing is an upstream failure.
func (c *Client) FetchProducts(ctx context.Context, q erp.ProductQuery) ([]erp.Product, error) {
	query := url.Values{}
	if q.CategoryID != "" {
		query.Set("category", q.CategoryID)
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
		query.Set("page", strconv.Itoa(q.Page))
	}
	if q.IncludeStock {
		query.Set("includestockdata", "1")
	}
	query.Set("withcategories", "1")

	body, status, err := c.doRequest(ctx, "/products", query)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound && q.CategoryID != "" {
		c.logger.Debug("no products for category",
			zap.String("category_id", q.CategoryID))
		return []erp.Product{}, nil
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d on /products", erp.ErrUpstreamUnavailable, status)
	}

	records, err := decodeArray(body)
	if err != nil {
		return nil, err
	}

	products := make([]erp.Product, 0, len(records))
	for _, record := range records {
		var raw rawProduct
		if err := json.Unmarshal(record, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", erp.ErrUpstreamFormat, err)
		}
		products = append(products, erp.Product{
			ID:          int64(raw.ID),
			Ref:         raw.Ref,
			Label:       raw.Label,
			Description: raw.Description,
			PriceHT:     raw.Price.Decimal,
			PriceTTC:    raw.PriceTTC.Decimal,
			Stock:       int64(raw.StockReel),
			CategoryID:  string(raw.FkCategory),
		})
	}
	return products, nil
}

// FetchProductCategories returns the IDs of every category a product
// belongs to. The endpoint commonly 404s for products outside the category
// module, so a missing or malformed response yields an empty result rather
// than an error.
func (c *Client) FetchProductCategories(ctx context.Context, productID int64) ([]string, error) {
	path := "/products/" + strconv.FormatInt(productID, 10) + "/categories"

	body, status, err := c.doRequest(ctx, path, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		c.logger.Warn("product categories endpoint returned 404",
			zap.Int64("product_id", productID))
		return []string{}, nil
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d on %s", erp.ErrUpstreamUnavailable, status, path)
	}

	records, err := decodeRecords(body)
	if err != nil {
		c.logger.Warn("product categories response not decodable, treating as empty",
			zap.Int64("product_id", productID),
			zap.Error(err))
		return []string{}, nil
	}

	ids := make([]string, 0, len(records))
	for _, record := range records {
		var raw rawCategory
		if err := json.Unmarshal(record, &raw); err != nil {
			continue
		}
		if raw.ID != "" {
			ids = append(ids, string(raw.ID))
		}
	}
	return ids, nil
}

// mapCategories converts raw records into normalized categories
func (c *Client) mapCategories(records []json.RawMessage) ([]erp.Category, error) {
	categories := make([]erp.Category, 0, len(records))
	for _, record := range records {
		var raw rawCategory
		if err := json.Unmarshal(record, &raw); err != nil {
			return nil, fmt.Errorf("%w: %v", erp.ErrUpstreamFormat, err)
		}
		parentID := string(raw.FkParent)
		if parentID == "0" {
			parentID = ""
		}
		categories = append(categories, erp.Category{
			ID:          string(raw.ID),
			Label:       raw.Label,
			Description: raw.Description,
			ParentID:    parentID,
		})
	}
	return categories, nil
}

var _ erp.CatalogClient = (*Client)(nil)
