package api

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/drinkport/beverage-promo-service/internal/api/handlers"
	"github.com/drinkport/beverage-promo-service/internal/cache"
	"github.com/drinkport/beverage-promo-service/internal/repository"
	"github.com/drinkport/beverage-promo-service/internal/service"
)

// NewRouter wires repositories, services and handlers over the shared DB
// handle and builds the HTTP route table.
func NewRouter(db *sql.DB, log *zap.Logger) http.Handler {
	catalogRepo := repository.NewCatalogRepo(db)
	usageRepo := repository.NewUsageRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	entitlementRepo := repository.NewEntitlementRepo(db)
	userRepo := repository.NewUserRepo(db)

	catalog := cache.NewCatalogCache(catalogRepo, 5*time.Minute)
	orderSvc := service.NewOrderService(catalog, usageRepo, orderRepo, entitlementRepo, log)
	verifySvc := service.NewVerifyService(userRepo, orderRepo, entitlementRepo, log)

	orderHandler := handlers.NewOrderHandler(catalog, orderRepo, entitlementRepo, orderSvc, log)
	adminHandler := handlers.NewAdminHandler(orderRepo, verifySvc, log)

	r := chi.NewRouter()

	r.Get("/products", orderHandler.ListProducts)

	r.Route("/orders", func(r chi.Router) {
		r.Post("/quote", orderHandler.QuoteOrder)
		r.Post("/", orderHandler.SubmitOrder)
		r.Get("/", orderHandler.ListOrders)
	})

	r.Get("/aprons/status", orderHandler.ApronStatus)

	r.Route("/admin", func(r chi.Router) {
		r.Post("/verify", adminHandler.VerifyBusiness)
		r.Post("/orders/{id}/settle", adminHandler.SettleOrder)
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
