package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/drinkport/beverage-promo-service/internal/repository"
	"github.com/drinkport/beverage-promo-service/internal/service"
)

type VerifyRequest struct {
	OrderID  string `json:"order_id"`
	UserID   string `json:"user_id"`
	Decision string `json:"decision"` // existing | new | block
}

type AdminHandler struct {
	orders *repository.OrderRepo
	verify *service.VerifyService
	log    *zap.Logger
}

func NewAdminHandler(orders *repository.OrderRepo, verify *service.VerifyService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{orders: orders, verify: verify, log: log}
}

// VerifyBusiness handles POST /admin/verify
func (h *AdminHandler) VerifyBusiness(w http.ResponseWriter, r *http.Request) {
	var req VerifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_body"})
		return
	}
	if req.OrderID == "" || req.UserID == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "order_id and user_id required"})
		return
	}

	err := h.verify.Verify(r.Context(), req.OrderID, req.UserID, service.Decision(req.Decision))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrOrderNotFound), errors.Is(err, repository.ErrUserNotFound):
			writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
		default:
			h.log.Error("verification failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "verified"})
}

// SettleOrder handles POST /admin/orders/{id}/settle
func (h *AdminHandler) SettleOrder(w http.ResponseWriter, r *http.Request) {
	orderID := chi.URLParam(r, "id")
	if err := h.orders.MarkPaid(r.Context(), orderID, time.Now()); err != nil {
		if errors.Is(err, repository.ErrOrderNotFound) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order_not_found"})
			return
		}
		h.log.Error("settlement failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "settled"})
}
