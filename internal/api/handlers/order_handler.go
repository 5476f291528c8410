package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/drinkport/beverage-promo-service/internal/cache"
	"github.com/drinkport/beverage-promo-service/internal/models"
	"github.com/drinkport/beverage-promo-service/internal/repository"
	"github.com/drinkport/beverage-promo-service/internal/service"
)

// --- Request / Response DTOs ---

type CartLineDTO struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type QuoteRequest struct {
	BusinessNumber string        `json:"business_number"`
	CartItems      []CartLineDTO `json:"cart_items"`
}

type QuoteResponse struct {
	TotalAllBoxes        int    `json:"total_all_boxes"`
	TotalEligibleBoxes   int    `json:"total_eligible_boxes"`
	TotalAmount          int64  `json:"total_amount"`
	HasQualifyingProduct bool   `json:"has_qualifying_product"`
	RawFreeBoxes         int    `json:"raw_free_boxes"`
	UsedThisMonth        int    `json:"used_this_month"`
	GrantedFreeBoxes     int    `json:"granted_free_boxes"`
	FreeProductID        string `json:"free_product_id,omitempty"`
	FreeProductName      string `json:"free_product_name,omitempty"`
	DiscountPercent      int    `json:"discount_percent"`
	AverageBoxPrice      int64  `json:"average_box_price,omitempty"`
}

type SubmitRequest struct {
	UserID          string        `json:"user_id"`
	BusinessName    string        `json:"business_name"`
	BusinessNumber  string        `json:"business_number"`
	Phone           string        `json:"phone"`
	DeliveryAddress string        `json:"delivery_address"`
	CartItems       []CartLineDTO `json:"cart_items"`
}

type ProductDTO struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Price              int64  `json:"price"`
	Category           string `json:"category"`
	IsQualifyingFamily bool   `json:"is_qualifying_family"`
}

type ApronStatusResponse struct {
	Granted  bool   `json:"granted"`
	Quantity int    `json:"quantity,omitempty"`
	Status   string `json:"status,omitempty"`
}

// --- Handler struct & constructor ---

type OrderHandler struct {
	catalog      *cache.CatalogCache
	orders       *repository.OrderRepo
	entitlements *repository.EntitlementRepo
	service      *service.OrderService
	log          *zap.Logger
}

func NewOrderHandler(catalog *cache.CatalogCache, orders *repository.OrderRepo, entitlements *repository.EntitlementRepo, svc *service.OrderService, log *zap.Logger) *OrderHandler {
	return &OrderHandler{
		catalog:      catalog,
		orders:       orders,
		entitlements: entitlements,
		service:      svc,
		log:          log,
	}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// cartFromLines folds request lines through AddToCart so duplicates and
// non-positive quantities collapse the same way cart edits do.
func cartFromLines(lines []CartLineDTO) models.Cart {
	cart := models.Cart{}
	for _, l := range lines {
		cart = models.AddToCart(cart, l.ProductID, l.Quantity)
	}
	return cart
}

// --- Handlers ---

// ListProducts handles GET /products
func (h *OrderHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.Products(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed_list_products"})
		return
	}
	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, ProductDTO{
			ID:                 p.ID,
			Name:               p.Name,
			Price:              p.Price,
			Category:           string(p.Category),
			IsQualifyingFamily: p.IsQualifyingFamily,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// QuoteOrder handles POST /orders/quote
func (h *OrderHandler) QuoteOrder(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}

	quote, err := h.service.Quote(r.Context(), req.BusinessNumber, cartFromLines(req.CartItems))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, quoteToResponse(quote))
}

func quoteToResponse(q service.Quote) QuoteResponse {
	resp := QuoteResponse{
		TotalAllBoxes:        q.Totals.AllBoxes,
		TotalEligibleBoxes:   q.Totals.EligibleBoxes,
		TotalAmount:          q.Totals.Amount,
		HasQualifyingProduct: q.Eligibility.HasQualifyingProduct,
		RawFreeBoxes:         q.Eligibility.RawFreeBoxes,
		UsedThisMonth:        q.UsedThisMonth,
		GrantedFreeBoxes:     q.GrantedFreeBoxes,
		DiscountPercent:      q.DiscountPercent,
		AverageBoxPrice:      q.AverageBoxPrice,
	}
	if q.FreeProduct != nil {
		resp.FreeProductID = q.FreeProduct.ID
		resp.FreeProductName = q.FreeProduct.Name
	}
	return resp
}

// SubmitOrder handles POST /orders
func (h *OrderHandler) SubmitOrder(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	if req.UserID == "" || req.BusinessName == "" || req.Phone == "" || req.DeliveryAddress == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id, business_name, phone and delivery_address required"})
		return
	}

	order, err := h.service.Submit(r.Context(), service.SubmitRequest{
		UserID:          req.UserID,
		BusinessName:    req.BusinessName,
		BusinessNumber:  req.BusinessNumber,
		Phone:           req.Phone,
		DeliveryAddress: req.DeliveryAddress,
		Cart:            cartFromLines(req.CartItems),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAmbiguousOutcome):
			// The order may have been persisted; the caller must not show a
			// confirmed failure.
			writeJSON(w, http.StatusGatewayTimeout, map[string]string{"error": "ambiguous_outcome"})
		case errors.Is(err, service.ErrEmptyCart):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "empty_cart"})
		default:
			h.log.Error("order submission failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"order_id":      order.ID,
		"total_boxes":   order.TotalBoxes,
		"water_boxes":   order.WaterBoxes,
		"total_amount":  order.TotalAmount,
		"service_items": order.ServiceItems,
		"status":        order.Status,
	})
}

// ListOrders handles GET /orders?business_number=...
func (h *OrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	normalized, err := models.NormalizeBusinessNumber(r.URL.Query().Get("business_number"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "business_number required"})
		return
	}

	orders, err := h.orders.ListByBusiness(r.Context(), normalized)
	if err != nil {
		h.log.Error("order listing failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed_list_orders"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// ApronStatus handles GET /aprons/status?user_id=...
func (h *OrderHandler) ApronStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "user_id required"})
		return
	}

	req, err := h.entitlements.FindByUser(r.Context(), userID)
	if err != nil {
		h.log.Error("apron status lookup failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	if req == nil {
		writeJSON(w, http.StatusOK, ApronStatusResponse{Granted: false})
		return
	}
	writeJSON(w, http.StatusOK, ApronStatusResponse{
		Granted:  true,
		Quantity: req.Quantity,
		Status:   string(req.Status),
	})
}
