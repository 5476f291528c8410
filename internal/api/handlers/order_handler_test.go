package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/drinkport/beverage-promo-service/internal/api/handlers"
	"github.com/drinkport/beverage-promo-service/internal/cache"
	"github.com/drinkport/beverage-promo-service/internal/models"
	"github.com/drinkport/beverage-promo-service/internal/service"
)

type staticLister struct{ products []models.Product }

func (l *staticLister) ListProducts(ctx context.Context) ([]models.Product, error) {
	return l.products, nil
}

type zeroLedger struct{}

func (zeroLedger) GetUsed(ctx context.Context, bn, ym string) (int, error) { return 0, nil }
func (zeroLedger) RecordUsage(ctx context.Context, bn, ym string, delta, cap int) (int, error) {
	return delta, nil
}

type noopOrders struct{}

func (noopOrders) Create(ctx context.Context, o *models.Order) error { return nil }

func (noopOrders) CountByUser(ctx context.Context, userID string) (int, error) { return 1, nil }

type noopEntitlements struct{}

func (noopEntitlements) CountForUser(ctx context.Context, userID string) (int, error) { return 1, nil }
func (noopEntitlements) Create(ctx context.Context, req models.ApronRequest) (bool, error) {
	return false, nil
}

func newTestHandler() *handlers.OrderHandler {
	catalog := cache.NewCatalogCache(&staticLister{products: []models.Product{
		{ID: "cola", Name: "Cola 355ml (24 cans)", Price: 17000, Category: models.CategoryCan, IsQualifyingFamily: true},
		{ID: "water", Name: "Spring Water 2L (6 bottles)", Price: 1000, Category: models.CategoryWater},
	}}, time.Minute)

	svc := service.NewOrderService(catalog, zeroLedger{}, noopOrders{}, noopEntitlements{}, zap.NewNop())
	return handlers.NewOrderHandler(catalog, nil, nil, svc, zap.NewNop())
}

func TestListProducts(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	h.ListProducts(rec, httptest.NewRequest(http.MethodGet, "/products", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []handlers.ProductDTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "cola", got[0].ID)
	assert.True(t, got[0].IsQualifyingFamily)
}

func TestQuoteOrder(t *testing.T) {
	h := newTestHandler()
	body := `{
		"business_number": "123-45-67890",
		"cart_items": [
			{"product_id": "cola", "quantity": 3},
			{"product_id": "water", "quantity": 2}
		]
	}`

	rec := httptest.NewRecorder()
	h.QuoteOrder(rec, httptest.NewRequest(http.MethodPost, "/orders/quote", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	var got handlers.QuoteResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 5, got.TotalAllBoxes)
	assert.Equal(t, 3, got.TotalEligibleBoxes)
	assert.Equal(t, int64(53000), got.TotalAmount)
	assert.True(t, got.HasQualifyingProduct)
	assert.Equal(t, 1, got.RawFreeBoxes)
	assert.Equal(t, 1, got.GrantedFreeBoxes)
	assert.Equal(t, "cola", got.FreeProductID)
}

func TestQuoteOrderInvalidBody(t *testing.T) {
	h := newTestHandler()
	rec := httptest.NewRecorder()
	h.QuoteOrder(rec, httptest.NewRequest(http.MethodPost, "/orders/quote", strings.NewReader("{")))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitOrderValidation(t *testing.T) {
	h := newTestHandler()

	rec := httptest.NewRecorder()
	h.SubmitOrder(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(`{"user_id":"u"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// empty cart is rejected distinctly from malformed input
	body := `{
		"user_id": "u", "business_name": "b", "business_number": "123",
		"phone": "p", "delivery_address": "a", "cart_items": []
	}`
	rec = httptest.NewRecorder()
	h.SubmitOrder(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "empty_cart")
}

func TestSubmitOrderSuccess(t *testing.T) {
	h := newTestHandler()
	body := `{
		"user_id": "u", "business_name": "b", "business_number": "123-45-67890",
		"phone": "p", "delivery_address": "a",
		"cart_items": [{"product_id": "cola", "quantity": 3}]
	}`

	rec := httptest.NewRecorder()
	h.SubmitOrder(rec, httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rec.Code)
	var got map[string]interface{}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.NotEmpty(t, got["order_id"])
	assert.Equal(t, float64(4), got["total_boxes"])
}
