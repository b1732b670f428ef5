package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noltshop/backend/internal/domain/catalog"
	"github.com/noltshop/backend/internal/domain/erp"
	"github.com/noltshop/backend/internal/domain/shared"
	"github.com/noltshop/backend/internal/infrastructure/cache"
)

func newTestService() (*ReconciliationService, *MockCatalogClient, *MockCategoryRepository, *MockProductRepository, *MockAssociationRepository) {
	client := new(MockCatalogClient)
	categoryRepo := new(MockCategoryRepository)
	productRepo := new(MockProductRepository)
	associationRepo := new(MockAssociationRepository)

	service := NewReconciliationService(
		client, categoryRepo, productRepo, associationRepo,
		cache.NewNoopCatalogCache(), zap.NewNop(),
	)
	return service, client, categoryRepo, productRepo, associationRepo
}

func upsertBatchCalls(m *MockCategoryRepository) [][]*catalog.Category {
	var batches [][]*catalog.Category
	for _, call := range m.Calls {
		if call.Method == "UpsertBatch" {
			batches = append(batches, call.Arguments.Get(1).([]*catalog.Category))
		}
	}
	return batches
}

func TestSync_FullCatalog(t *testing.T) {
	service, client, categoryRepo, productRepo, associationRepo := newTestService()
	ctx := context.Background()

	// child arrives before its parent; the two-pass upsert must still
	// resolve the link
	client.On("FetchCategories", ctx).Return([]erp.Category{
		{ID: "184", Label: "Maillots", ParentID: "183"},
		{ID: "183", Label: "Club"},
	}, nil)
	categoryRepo.On("UpsertBatch", ctx, mock.Anything).Return(nil)

	client.On("FetchProducts", ctx, erp.ProductQuery{IncludeStock: true}).Return([]erp.Product{
		{ID: 501, Ref: "MAILLOT-DOM", Label: "Maillot Dom", CategoryID: "184"},
	}, nil)
	productRepo.On("UpsertBatch", ctx, mock.Anything).Return(nil)

	client.On("FetchProductCategories", ctx, int64(501)).Return([]string{"183", "184"}, nil)
	associationRepo.On("RebuildAll", ctx, []catalog.ProductCategory{
		{ProductID: 501, CategoryID: "183"},
		{ProductID: 501, CategoryID: "184"},
	}).Return(2, nil)

	report := service.Sync(ctx, "")

	assert.Equal(t, StatusSuccess, report.Status)
	assert.Equal(t, 2, report.CategoriesUpserted)
	assert.Equal(t, 1, report.ProductsUpserted)
	assert.Equal(t, 2, report.AssociationsRebuilt)
	assert.Empty(t, report.Error)

	// first pass inserts every row parentless, second pass fixes links
	batches := upsertBatchCalls(categoryRepo)
	require.Len(t, batches, 2)
	require.Len(t, batches[0], 2)
	require.Len(t, batches[1], 1)
	assert.Equal(t, "184", batches[1][0].ID)
	require.NotNil(t, batches[1][0].ParentID)
	assert.Equal(t, "183", *batches[1][0].ParentID)

	client.AssertExpectations(t)
	categoryRepo.AssertExpectations(t)
	productRepo.AssertExpectations(t)
	associationRepo.AssertExpectations(t)
}

func TestSync_Rooted_PartialFailureTolerated(t *testing.T) {
	service, client, categoryRepo, productRepo, associationRepo := newTestService()
	ctx := context.Background()

	categoryRepo.On("FindByID", ctx, "9").Return(nil, shared.ErrNotFound)
	client.On("FetchChildCategories", ctx, "9").Return([]erp.Category{
		{ID: "1", Label: "Un", ParentID: "9"},
		{ID: "2", Label: "Deux", ParentID: "9"},
		{ID: "3", Label: "Trois", ParentID: "9"},
	}, nil)
	categoryRepo.On("UpsertBatch", ctx, mock.Anything).Return(nil)

	// categories are fetched in ascending ID order: 1, 2, 3, 9
	client.On("FetchProducts", ctx, erp.ProductQuery{CategoryID: "1", IncludeStock: true}).
		Return([]erp.Product{{ID: 501, Ref: "A", Label: "Produit A"}}, nil)
	client.On("FetchProducts", ctx, erp.ProductQuery{CategoryID: "2", IncludeStock: true}).
		Return(nil, erp.ErrUpstreamUnavailable)
	client.On("FetchProducts", ctx, erp.ProductQuery{CategoryID: "3", IncludeStock: true}).
		Return([]erp.Product{{ID: 502, Ref: "B", Label: "Produit B"}}, nil)
	client.On("FetchProducts", ctx, erp.ProductQuery{CategoryID: "9", IncludeStock: true}).
		Return([]erp.Product{}, nil)

	productRepo.On("UpsertBatch", ctx, mock.Anything).Return(nil)

	// no upstream association data: the primary (first-seen) category is
	// the fallback pair source
	client.On("FetchProductCategories", ctx, int64(501)).Return([]string{}, nil)
	client.On("FetchProductCategories", ctx, int64(502)).Return([]string{}, nil)
	associationRepo.On("RebuildAll", ctx, []catalog.ProductCategory{
		{ProductID: 501, CategoryID: "1"},
		{ProductID: 502, CategoryID: "3"},
	}).Return(2, nil)

	report := service.Sync(ctx, "9")

	assert.Equal(t, StatusPartial, report.Status)
	assert.Equal(t, 4, report.CategoriesUpserted)
	assert.Equal(t, 2, report.ProductsUpserted)
	assert.Equal(t, 2, report.AssociationsRebuilt)
	assert.Len(t, report.Warnings, 1)
	assert.Contains(t, report.Warnings[0], "category 2")

	client.AssertExpectations(t)
}

func TestSync_Rooted_ChildrenHangOffRoot(t *testing.T) {
	service, client, categoryRepo, productRepo, associationRepo := newTestService()
	ctx := context.Background()

	existing, err := catalog.NewCategory("183", "Club")
	require.NoError(t, err)

	categoryRepo.On("FindByID", ctx, "183").Return(existing, nil)
	// the child declares a parent outside the fetched set
	client.On("FetchChildCategories", ctx, "183").Return([]erp.Category{
		{ID: "184", Label: "Maillots", ParentID: "777"},
	}, nil)
	categoryRepo.On("UpsertBatch", ctx, mock.Anything).Return(nil)

	client.On("FetchProducts", ctx, mock.Anything).Return([]erp.Product{}, nil)
	associationRepo.On("RebuildAll", ctx, mock.Anything).Return(0, nil)

	report := service.Sync(ctx, "183")

	assert.Equal(t, StatusSuccess, report.Status)

	batches := upsertBatchCalls(categoryRepo)
	require.Len(t, batches, 2)
	// the root keeps its known label instead of falling back to the ID
	assert.Equal(t, "Club", batches[0][0].Label)

	fixed := batches[1]
	require.Len(t, fixed, 1)
	assert.Equal(t, "184", fixed[0].ID)
	require.NotNil(t, fixed[0].ParentID)
	assert.Equal(t, "183", *fixed[0].ParentID)

	productRepo.AssertNotCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
}

func TestSync_FormatBreakAborts(t *testing.T) {
	service, client, categoryRepo, productRepo, associationRepo := newTestService()
	ctx := context.Background()

	client.On("FetchCategories", ctx).Return([]erp.Category{
		{ID: "183", Label: "Club"},
	}, nil)
	categoryRepo.On("UpsertBatch", ctx, mock.Anything).Return(nil)

	client.On("FetchProducts", ctx, erp.ProductQuery{IncludeStock: true}).
		Return(nil, erp.ErrUpstreamFormat)

	report := service.Sync(ctx, "")

	assert.Equal(t, StatusFailed, report.Status)
	assert.Contains(t, report.Error, erp.ErrUpstreamFormat.Error())
	assert.Zero(t, report.CategoriesUpserted)
	assert.Zero(t, report.ProductsUpserted)
	assert.Zero(t, report.AssociationsRebuilt)

	productRepo.AssertNotCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
	associationRepo.AssertNotCalled(t, "RebuildAll", mock.Anything, mock.Anything)
}

func TestSync_CategoryDiscoveryFailureAborts(t *testing.T) {
	service, client, categoryRepo, productRepo, _ := newTestService()
	ctx := context.Background()

	client.On("FetchCategories", ctx).Return(nil, erp.ErrUpstreamUnavailable)

	report := service.Sync(ctx, "")

	assert.Equal(t, StatusFailed, report.Status)
	categoryRepo.AssertNotCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
	productRepo.AssertNotCalled(t, "UpsertBatch", mock.Anything, mock.Anything)
}

func TestSync_SingleFlight(t *testing.T) {
	service, _, _, _, _ := newTestService()

	service.mu.Lock()
	defer service.mu.Unlock()

	report := service.Sync(context.Background(), "")

	assert.Equal(t, StatusFailed, report.Status)
	assert.Equal(t, ErrSyncAlreadyRunning.Error(), report.Error)
}

func TestSync_RebuildFailureDegradesToPartial(t *testing.T) {
	service, client, categoryRepo, productRepo, associationRepo := newTestService()
	ctx := context.Background()

	client.On("FetchCategories", ctx).Return([]erp.Category{
		{ID: "183", Label: "Club"},
	}, nil)
	categoryRepo.On("UpsertBatch", ctx, mock.Anything).Return(nil)

	client.On("FetchProducts", ctx, erp.ProductQuery{IncludeStock: true}).Return([]erp.Product{
		{ID: 501, Ref: "A", Label: "Produit A", CategoryID: "183"},
	}, nil)
	productRepo.On("UpsertBatch", ctx, mock.Anything).Return(nil)

	client.On("FetchProductCategories", ctx, int64(501)).Return([]string{"183"}, nil)
	associationRepo.On("RebuildAll", ctx, mock.Anything).Return(0, assert.AnError)

	report := service.Sync(ctx, "")

	// upserts already landed and the previous association set survived
	// the rollback, so this is degradation, not failure
	assert.Equal(t, StatusPartial, report.Status)
	assert.Equal(t, 1, report.CategoriesUpserted)
	assert.Equal(t, 1, report.ProductsUpserted)
	assert.Zero(t, report.AssociationsRebuilt)
	assert.NotEmpty(t, report.Warnings)
}

func TestSync_SkipsInvalidUpstreamProducts(t *testing.T) {
	service, client, categoryRepo, productRepo, associationRepo := newTestService()
	ctx := context.Background()

	client.On("FetchCategories", ctx).Return([]erp.Category{
		{ID: "183", Label: "Club"},
	}, nil)
	categoryRepo.On("UpsertBatch", ctx, mock.Anything).Return(nil)

	bad := erp.Product{ID: 0, Ref: "GHOST", Label: "Sans ID"}
	good := erp.Product{ID: 501, Ref: "A", Label: "Produit A", CategoryID: "183"}
	client.On("FetchProducts", ctx, erp.ProductQuery{IncludeStock: true}).
		Return([]erp.Product{bad, good}, nil)

	var upserted []*catalog.Product
	productRepo.On("UpsertBatch", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			upserted = args.Get(1).([]*catalog.Product)
		}).
		Return(nil)

	client.On("FetchProductCategories", ctx, mock.Anything).Return([]string{}, nil)
	associationRepo.On("RebuildAll", ctx, mock.Anything).Return(1, nil)

	report := service.Sync(ctx, "")

	assert.Equal(t, StatusPartial, report.Status)
	assert.Equal(t, 1, report.ProductsUpserted)
	require.Len(t, upserted, 1)
	assert.Equal(t, int64(501), upserted[0].ID)
}

func TestSync_DeduplicatesUpstreamListings(t *testing.T) {
	service, client, categoryRepo, productRepo, associationRepo := newTestService()
	ctx := context.Background()

	// upstream listings can repeat an entry; a multi-row upsert must not
	// see the same ID twice
	client.On("FetchCategories", ctx).Return([]erp.Category{
		{ID: "183", Label: "Club"},
		{ID: "183", Label: "Club"},
		{ID: "184", Label: "Maillots", ParentID: "183"},
		{ID: "184", Label: "Maillots", ParentID: "183"},
	}, nil)
	categoryRepo.On("UpsertBatch", ctx, mock.Anything).Return(nil)

	dup := erp.Product{ID: 501, Ref: "MAILLOT-DOM", Label: "Maillot Dom", CategoryID: "184"}
	client.On("FetchProducts", ctx, erp.ProductQuery{IncludeStock: true}).
		Return([]erp.Product{dup, dup}, nil)

	var upserted []*catalog.Product
	productRepo.On("UpsertBatch", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			upserted = args.Get(1).([]*catalog.Product)
		}).
		Return(nil)

	client.On("FetchProductCategories", ctx, int64(501)).Return([]string{"184"}, nil)
	associationRepo.On("RebuildAll", ctx, mock.Anything).Return(1, nil)

	report := service.Sync(ctx, "")

	assert.Equal(t, StatusSuccess, report.Status)
	assert.Equal(t, 1, report.ProductsUpserted)
	require.Len(t, upserted, 1)

	batches := upsertBatchCalls(categoryRepo)
	require.Len(t, batches, 2)
	require.Len(t, batches[0], 2)
	require.Len(t, batches[1], 1)
	assert.Equal(t, "184", batches[1][0].ID)

	client.AssertNumberOfCalls(t, "FetchProductCategories", 1)
}
