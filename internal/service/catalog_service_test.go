package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pujakart/promotion-service/internal/models"
	"github.com/pujakart/promotion-service/internal/observability"
	"github.com/pujakart/promotion-service/internal/repository"
	"github.com/pujakart/promotion-service/internal/service"
	"github.com/pujakart/promotion-service/internal/testutil"
)

func newCatalogService() (*service.CatalogService, *testutil.InMemoryCatalogStore) {
	store := testutil.NewInMemoryCatalogStore()
	return service.NewCatalogService(store, observability.NewLogger()), store
}

func seedItem(t *testing.T, store *testutil.InMemoryCatalogStore, id string, kind models.CatalogKind, internalID *string, name string) {
	t.Helper()
	require.NoError(t, store.Create(context.Background(), &models.CatalogItem{
		ID:         id,
		Kind:       kind,
		InternalID: internalID,
		Name:       name,
		IsActive:   true,
	}))
}

func strPtr(s string) *string { return &s }

func TestResolveStoreIDWinsOverCustomID(t *testing.T) {
	svc, store := newCatalogService()
	ctx := context.Background()

	seedItem(t, store, "42", models.KindPuja, nil, "Griha Pravesh Puja")
	seedItem(t, store, "a1b2c3", models.KindPuja, strPtr("42"), "Satyanarayan Puja")

	item, err := svc.Resolve(ctx, models.KindPuja, "42")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "42", item.ID)
	assert.Equal(t, "Griha Pravesh Puja", item.Name)
}

func TestResolveFallsBackToCustomID(t *testing.T) {
	svc, store := newCatalogService()
	ctx := context.Background()

	seedItem(t, store, "a1b2c3", models.KindProduct, strPtr("7"), "Brass Diya")

	item, err := svc.Resolve(ctx, models.KindProduct, "7")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "a1b2c3", item.ID)
	require.NotNil(t, item.InternalID)
	assert.Equal(t, "7", *item.InternalID)
}

func TestResolveNumericCoercionBeforeRawString(t *testing.T) {
	svc, store := newCatalogService()
	ctx := context.Background()

	// "042" coerces to "42"; the canonical form is tried first
	seedItem(t, store, "id-canonical", models.KindProduct, strPtr("42"), "Canonical")
	seedItem(t, store, "id-raw", models.KindProduct, strPtr("042"), "Raw")

	item, err := svc.Resolve(ctx, models.KindProduct, "042")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "id-canonical", item.ID)
}

func TestResolveRawStringWhenCanonicalMisses(t *testing.T) {
	svc, store := newCatalogService()
	ctx := context.Background()

	seedItem(t, store, "id-raw", models.KindProduct, strPtr("042"), "Raw")

	item, err := svc.Resolve(ctx, models.KindProduct, "042")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "id-raw", item.ID)
}

func TestResolveMissIsNotAnError(t *testing.T) {
	svc, _ := newCatalogService()

	item, err := svc.Resolve(context.Background(), models.KindPandit, "nope")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestResolveKindsDoNotLeak(t *testing.T) {
	svc, store := newCatalogService()
	ctx := context.Background()

	seedItem(t, store, "shared-key", models.KindProduct, nil, "Product")

	item, err := svc.Resolve(ctx, models.KindPandit, "shared-key")
	require.NoError(t, err)
	assert.Nil(t, item)
}

func TestNextInternalID(t *testing.T) {
	svc, store := newCatalogService()
	ctx := context.Background()

	next, err := svc.NextInternalID(ctx, models.KindPuja)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)

	seedItem(t, store, "uuid-1", models.KindPuja, strPtr("3"), "One")
	seedItem(t, store, "12", models.KindPuja, nil, "Two")
	seedItem(t, store, "uuid-3", models.KindPuja, strPtr("7"), "Three")

	// the numeric store id "12" outranks both custom ids
	next, err = svc.NextInternalID(ctx, models.KindPuja)
	require.NoError(t, err)
	assert.Equal(t, int64(13), next)
}

func TestCreateItemAssignsStoreID(t *testing.T) {
	svc, _ := newCatalogService()

	item, err := svc.CreateItem(context.Background(), models.KindPandit, models.CatalogItem{
		Name:     "Pandit Sharma",
		IsActive: true,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, item.ID)
	assert.Equal(t, models.KindPandit, item.Kind)
}

func TestCreateItemRequiresName(t *testing.T) {
	svc, _ := newCatalogService()

	_, err := svc.CreateItem(context.Background(), models.KindProduct, models.CatalogItem{})
	assert.ErrorIs(t, err, service.ErrNameEmpty)
}

func TestUpdateMissingItem(t *testing.T) {
	svc, _ := newCatalogService()

	_, err := svc.UpdateItem(context.Background(), models.KindProduct, models.CatalogItem{
		ID:   "missing",
		Name: "Renamed",
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestListCarriesBothIdentifiers(t *testing.T) {
	svc, store := newCatalogService()
	ctx := context.Background()

	seedItem(t, store, "store-1", models.KindProduct, strPtr("5"), "With custom id")
	seedItem(t, store, "store-2", models.KindProduct, nil, "Without custom id")

	items, err := svc.List(ctx, models.KindProduct)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, "store-1", items[0].ID)
	require.NotNil(t, items[0].InternalID)
	assert.Equal(t, "5", *items[0].InternalID)
	assert.Nil(t, items[1].InternalID)
}
