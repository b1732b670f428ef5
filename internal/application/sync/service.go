package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noltshop/backend/internal/domain/catalog"
	"github.com/noltshop/backend/internal/domain/erp"
	"github.com/noltshop/backend/internal/infrastructure/cache"
)

// ErrSyncAlreadyRunning is reported when a sync pass is triggered while
// another one holds the single-flight guard
var ErrSyncAlreadyRunning = errors.New("sync: a sync pass is already running")

// ReconciliationService pulls the ERP catalog into the local store. One
// pass upserts categories, upserts products without touching locally-owned
// fields, and rebuilds the product-category association set from scratch.
type ReconciliationService struct {
	client          erp.CatalogClient
	categoryRepo    catalog.CategoryRepository
	productRepo     catalog.ProductRepository
	associationRepo catalog.AssociationRepository
	cache           cache.CatalogCache
	logger          *zap.Logger

	// mu provides single-flight over Sync; overlapping scheduled and
	// manual triggers must not interleave upserts with a rebuild.
	mu sync.Mutex
}

// NewReconciliationService creates a new ReconciliationService
func NewReconciliationService(
	client erp.CatalogClient,
	categoryRepo catalog.CategoryRepository,
	productRepo catalog.ProductRepository,
	associationRepo catalog.AssociationRepository,
	catalogCache cache.CatalogCache,
	logger *zap.Logger,
) *ReconciliationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalogCache == nil {
		catalogCache = cache.NewNoopCatalogCache()
	}
	return &ReconciliationService{
		client:          client,
		categoryRepo:    categoryRepo,
		productRepo:     productRepo,
		associationRepo: associationRepo,
		cache:           catalogCache,
		logger:          logger.Named("sync"),
	}
}

// Sync runs a full reconciliation pass. When rootCategoryID is non-empty,
// discovery is limited to that category and its children; otherwise the
// whole upstream catalog is mirrored. Sync never returns an error: every
// failure mode is folded into the report.
func (s *ReconciliationService) Sync(ctx context.Context, rootCategoryID string) *Report {
	startedAt := time.Now()

	if !s.mu.TryLock() {
		return failedReport(startedAt, ErrSyncAlreadyRunning.Error())
	}
	defer s.mu.Unlock()

	report := &Report{Status: StatusSuccess, StartedAt: startedAt}

	s.logger.Info("sync pass started", zap.String("root_category_id", rootCategoryID))

	// Phase 1: categories.
	categories, err := s.discoverCategories(ctx, rootCategoryID)
	if err != nil {
		s.logger.Error("category discovery failed", zap.Error(err))
		return failedReport(startedAt, err.Error())
	}
	if err := s.upsertCategories(ctx, rootCategoryID, categories); err != nil {
		s.logger.Error("category upsert failed", zap.Error(err))
		return failedReport(startedAt, err.Error())
	}
	report.CategoriesUpserted = len(categories)

	// Phase 2: products.
	products, firstSeen, warnings, err := s.discoverProducts(ctx, rootCategoryID, categories)
	if err != nil {
		s.logger.Error("product discovery failed", zap.Error(err))
		return failedReport(startedAt, err.Error())
	}
	report.Warnings = append(report.Warnings, warnings...)

	upserted, skipWarnings, err := s.upsertProducts(ctx, products, firstSeen)
	if err != nil {
		s.logger.Error("product upsert failed", zap.Error(err))
		return failedReport(startedAt, err.Error())
	}
	report.ProductsUpserted = upserted
	report.Warnings = append(report.Warnings, skipWarnings...)

	// Phase 3: associations.
	pairs, assocWarnings := s.discoverAssociations(ctx, products, firstSeen)
	report.Warnings = append(report.Warnings, assocWarnings...)

	inserted, err := s.associationRepo.RebuildAll(ctx, pairs)
	if err != nil {
		// Upserts above already landed; the previous association set
		// survives the rollback, so this degrades rather than fails.
		s.logger.Error("association rebuild failed", zap.Error(err))
		report.Warnings = append(report.Warnings, fmt.Sprintf("association rebuild failed: %v", err))
	}
	report.AssociationsRebuilt = inserted

	if len(report.Warnings) > 0 {
		report.Status = StatusPartial
	}
	report.Duration = time.Since(startedAt)

	s.cache.InvalidateAll(ctx)

	s.logger.Info("sync pass finished",
		zap.String("status", string(report.Status)),
		zap.Int("categories_upserted", report.CategoriesUpserted),
		zap.Int("products_upserted", report.ProductsUpserted),
		zap.Int("associations_rebuilt", report.AssociationsRebuilt),
		zap.Int("warnings", len(report.Warnings)),
		zap.Duration("duration", report.Duration))

	return report
}

// discoverCategories returns the normalized category set for this pass.
// Rooted discovery covers the root plus its children; unrooted discovery
// covers the full upstream list.
func (s *ReconciliationService) discoverCategories(ctx context.Context, rootCategoryID string) ([]erp.Category, error) {
	if rootCategoryID == "" {
		return s.client.FetchCategories(ctx)
	}

	children, err := s.client.FetchChildCategories(ctx, rootCategoryID)
	if err != nil {
		return nil, err
	}

	root := erp.Category{ID: rootCategoryID, Label: rootCategoryID}
	if existing, err := s.categoryRepo.FindByID(ctx, rootCategoryID); err == nil {
		// keep the label we already know instead of overwriting it with
		// the bare ID
		root.Label = existing.Label
		root.Description = existing.Description
	}

	return append([]erp.Category{root}, children...), nil
}

// upsertCategories writes the discovered categories in two passes: first
// all rows with no parent, then a fix-up pass resolving each declared
// parent against the now-complete set. Parents that did not resolve stay
// roots. Upserts never delete rows absent from this pass.
func (s *ReconciliationService) upsertCategories(ctx context.Context, rootCategoryID string, fetched []erp.Category) error {
	if len(fetched) == 0 {
		return nil
	}

	entities := make([]*catalog.Category, 0, len(fetched))
	byID := make(map[string]*catalog.Category, len(fetched))
	deduped := make([]erp.Category, 0, len(fetched))
	for _, raw := range fetched {
		// upstream listings can repeat a category; a multi-row upsert
		// must not touch the same ID twice
		if _, ok := byID[raw.ID]; ok {
			continue
		}
		entity, err := buildCategory(raw)
		if err != nil {
			s.logger.Warn("skipping malformed category",
				zap.String("category_id", raw.ID),
				zap.Error(err))
			continue
		}
		entities = append(entities, entity)
		byID[entity.ID] = entity
		deduped = append(deduped, raw)
	}

	if err := s.categoryRepo.UpsertBatch(ctx, entities); err != nil {
		return err
	}

	// Fix-up pass: resolve parent pointers now that every row exists.
	changed := make([]*catalog.Category, 0, len(entities))
	for _, raw := range deduped {
		entity, ok := byID[raw.ID]
		if !ok {
			continue
		}
		parent := raw.ParentID
		if rootCategoryID != "" && entity.ID != rootCategoryID {
			// Rooted discovery is single-level: children whose declared
			// parent is outside the fetched set hang off the root.
			if _, fetchedParent := byID[parent]; !fetchedParent {
				parent = rootCategoryID
			}
		}
		if _, exists := byID[parent]; !exists {
			parent = ""
		}
		entity.SetParent(parent)
		if entity.ParentID != nil {
			changed = append(changed, entity)
		}
	}
	if len(changed) == 0 {
		return nil
	}
	return s.categoryRepo.UpsertBatch(ctx, changed)
}

// buildCategory constructs a category entity from an upstream record
func buildCategory(raw erp.Category) (*catalog.Category, error) {
	entity, err := catalog.NewCategory(raw.ID, raw.Label)
	if err != nil {
		return nil, err
	}
	entity.ApplyUpstream(raw.Label, raw.Description)
	return entity, nil
}

// discoverProducts returns the deduplicated product set for this pass plus
// the first-seen category per product. A per-category fetch failure under
// rooted discovery degrades that category to empty; an unrooted listing
// failure aborts.
func (s *ReconciliationService) discoverProducts(ctx context.Context, rootCategoryID string, categories []erp.Category) ([]erp.Product, map[int64]string, []string, error) {
	firstSeen := make(map[int64]string)

	if rootCategoryID == "" {
		fetched, err := s.client.FetchProducts(ctx, erp.ProductQuery{IncludeStock: true})
		if err != nil {
			return nil, nil, nil, err
		}
		seen := make(map[int64]struct{}, len(fetched))
		products := make([]erp.Product, 0, len(fetched))
		for _, p := range fetched {
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			products = append(products, p)
		}
		return products, firstSeen, nil, nil
	}

	// Fetch per category in ascending ID order so the first-seen
	// assignment is deterministic across passes.
	categoryIDs := make([]string, 0, len(categories))
	for _, c := range categories {
		categoryIDs = append(categoryIDs, c.ID)
	}
	sort.Strings(categoryIDs)

	var warnings []string
	var products []erp.Product
	seen := make(map[int64]struct{})
	for _, categoryID := range categoryIDs {
		fetched, err := s.client.FetchProducts(ctx, erp.ProductQuery{
			CategoryID:   categoryID,
			IncludeStock: true,
		})
		if err != nil {
			s.logger.Warn("product fetch failed for category, treating as empty",
				zap.String("category_id", categoryID),
				zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("category %s: %v", categoryID, err))
			continue
		}
		for _, p := range fetched {
			if _, ok := firstSeen[p.ID]; !ok {
				firstSeen[p.ID] = categoryID
			}
			if _, ok := seen[p.ID]; ok {
				continue
			}
			seen[p.ID] = struct{}{}
			products = append(products, p)
		}
	}
	return products, firstSeen, warnings, nil
}

// upsertProducts writes ERP-owned product fields. Records that fail domain
// validation are skipped with a warning rather than aborting the pass.
func (s *ReconciliationService) upsertProducts(ctx context.Context, fetched []erp.Product, firstSeen map[int64]string) (int, []string, error) {
	if len(fetched) == 0 {
		return 0, nil, nil
	}

	var warnings []string
	entities := make([]*catalog.Product, 0, len(fetched))
	for _, raw := range fetched {
		entity, err := catalog.NewProduct(raw.ID, raw.Ref, raw.Label)
		if err != nil {
			s.logger.Warn("skipping malformed product",
				zap.Int64("product_id", raw.ID),
				zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("product %d: %v", raw.ID, err))
			continue
		}
		if err := entity.ApplyUpstream(raw.Ref, raw.Label, raw.Description, raw.PriceHT, raw.PriceTTC, raw.Stock); err != nil {
			s.logger.Warn("skipping product with invalid upstream fields",
				zap.Int64("product_id", raw.ID),
				zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("product %d: %v", raw.ID, err))
			continue
		}
		entity.SetPrimaryCategory(s.primaryCategory(raw, firstSeen))
		entities = append(entities, entity)
	}

	if err := s.productRepo.UpsertBatch(ctx, entities); err != nil {
		return 0, nil, err
	}
	return len(entities), warnings, nil
}

// primaryCategory picks the product's explicit category when the payload
// carries one, otherwise the category it was first seen under
func (s *ReconciliationService) primaryCategory(raw erp.Product, firstSeen map[int64]string) string {
	if raw.CategoryID != "" {
		return raw.CategoryID
	}
	return firstSeen[raw.ID]
}

// discoverAssociations builds the pair set for the rebuild using the
// per-product strategy: ask the ERP for every product's category list, and
// fall back to the primary category when the answer is empty. A failed
// per-product fetch degrades to the fallback with a warning.
func (s *ReconciliationService) discoverAssociations(ctx context.Context, products []erp.Product, firstSeen map[int64]string) ([]catalog.ProductCategory, []string) {
	var warnings []string
	pairs := make([]catalog.ProductCategory, 0, len(products))

	for _, p := range products {
		categoryIDs, err := s.client.FetchProductCategories(ctx, p.ID)
		if err != nil {
			s.logger.Warn("product category fetch failed, using primary category",
				zap.Int64("product_id", p.ID),
				zap.Error(err))
			warnings = append(warnings, fmt.Sprintf("product %d associations: %v", p.ID, err))
			categoryIDs = nil
		}
		if len(categoryIDs) == 0 {
			if primary := s.primaryCategory(p, firstSeen); primary != "" {
				categoryIDs = []string{primary}
			}
		}
		for _, categoryID := range categoryIDs {
			pairs = append(pairs, catalog.ProductCategory{
				ProductID:  p.ID,
				CategoryID: categoryID,
			})
		}
	}
	return pairs, warnings
}
