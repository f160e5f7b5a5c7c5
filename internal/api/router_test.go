package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pujakart/promotion-service/internal/api"
	"github.com/pujakart/promotion-service/internal/cache"
	"github.com/pujakart/promotion-service/internal/models"
	"github.com/pujakart/promotion-service/internal/observability"
	"github.com/pujakart/promotion-service/internal/service"
	"github.com/pujakart/promotion-service/internal/testutil"
)

type testServer struct {
	handler http.Handler
	coupons *testutil.InMemoryCouponStore
	catalog *testutil.InMemoryCatalogStore
}

func newTestServer() *testServer {
	logger := observability.NewLogger()
	referrals := testutil.NewInMemoryReferralStore()
	coupons := testutil.NewInMemoryCouponStore()
	catalog := testutil.NewInMemoryCatalogStore()
	notifications := testutil.NewInMemoryNotificationStore()

	handler := api.NewRouter(
		service.NewPromotionService(referrals, coupons, cache.NewMemoryCache(), logger),
		service.NewCatalogService(catalog, logger),
		service.NewNotificationService(notifications, logger),
	)
	return &testServer{handler: handler, coupons: coupons, catalog: catalog}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func decodeResult(t *testing.T, rec *httptest.ResponseRecorder) models.ValidationResult {
	t.Helper()
	var result models.ValidationResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	return result
}

func TestRedeemEndpointConsumesLimitedCoupon(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPost, "/admin/coupons", map[string]interface{}{
		"code":                "SAVE10",
		"discount_percentage": 10,
		"usage_limit":         "limited",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/promotions/redeem", map[string]string{
		"code": "SAVE10", "redeemer": "u1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	assert.True(t, result.Valid)
	assert.Equal(t, 10.0, result.DiscountPercentage)

	rec = ts.do(t, http.MethodPost, "/promotions/redeem", map[string]string{
		"code": "SAVE10", "redeemer": "u1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	result = decodeResult(t, rec)
	assert.False(t, result.Valid)
	assert.Equal(t, models.MsgAlreadyUsed, result.Message)
}

func TestValidateEndpointUnknownCode(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPost, "/promotions/validate", map[string]string{
		"code": "BOGUS", "redeemer": "u1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeResult(t, rec)
	assert.False(t, result.Valid)
	assert.Equal(t, models.MsgInvalidCode, result.Message)
}

func TestCreateCouponRejectsBadUsageLimit(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPost, "/admin/coupons", map[string]interface{}{
		"code":                "X",
		"discount_percentage": 10,
		"usage_limit":         "sometimes",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordRedemptionEndpoint(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPost, "/admin/coupons", map[string]interface{}{
		"code":                "SAVE10",
		"discount_percentage": 10,
		"usage_limit":         "unlimited",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = ts.do(t, http.MethodPost, "/promotions/redemptions", map[string]interface{}{
		"code":            "SAVE10",
		"booking_amount":  1000,
		"discount_amount": 100,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"recorded": true}`, rec.Body.String())

	c, ok := ts.coupons.Get("SAVE10")
	require.True(t, ok)
	assert.Equal(t, 1, c.TotalUsed)
}

func TestCatalogResolveEndpoint(t *testing.T) {
	ts := newTestServer()
	internal := "42"
	require.NoError(t, ts.catalog.Create(context.Background(), &models.CatalogItem{
		ID:         "abc",
		Kind:       models.KindPuja,
		InternalID: &internal,
		Name:       "Griha Pravesh Puja",
		IsActive:   true,
	}))

	rec := ts.do(t, http.MethodGet, "/catalog/puja/42", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var item models.CatalogItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &item))
	assert.Equal(t, "abc", item.ID)

	rec = ts.do(t, http.MethodGet, "/catalog/puja/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(t, http.MethodGet, "/catalog/vehicles/42", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBroadcastEndpoint(t *testing.T) {
	ts := newTestServer()

	rec := ts.do(t, http.MethodPost, "/admin/notifications/broadcast", map[string]interface{}{
		"user_ids": []string{"u1", "u2"},
		"title":    "Diwali sale",
		"message":  "20% off all pujas",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"recipients": 2}`, rec.Body.String())

	rec = ts.do(t, http.MethodGet, "/notifications/user/u1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []models.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	assert.Len(t, rows, 1)
}

func TestInvalidBodyRejected(t *testing.T) {
	ts := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/promotions/validate", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
