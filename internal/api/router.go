package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pujakart/promotion-service/internal/api/handlers"
	"github.com/pujakart/promotion-service/internal/service"
)

// NewRouter builds the HTTP router for the promotion-service.
func NewRouter(
	promotions *service.PromotionService,
	catalog *service.CatalogService,
	notifications *service.NotificationService,
) http.Handler {
	r := chi.NewRouter()

	promotionHandler := handlers.NewPromotionHandler(promotions)
	catalogHandler := handlers.NewCatalogHandler(catalog)
	notificationHandler := handlers.NewNotificationHandler(notifications)

	// Storefront endpoints
	r.Route("/promotions", func(r chi.Router) {
		r.Post("/validate", promotionHandler.Validate)
		r.Post("/redeem", promotionHandler.Redeem)
		r.Post("/redemptions", promotionHandler.RecordRedemption)
	})

	r.Route("/catalog", func(r chi.Router) {
		r.Get("/{kind}", catalogHandler.List)
		r.Get("/{kind}/{key}", catalogHandler.Resolve)
	})

	r.Route("/notifications", func(r chi.Router) {
		r.Get("/user/{userID}", notificationHandler.ListForUser)
		r.Patch("/{id}/read", notificationHandler.MarkRead)
	})

	// Admin endpoints
	r.Route("/admin", func(r chi.Router) {
		r.Route("/referral-codes", func(r chi.Router) {
			r.Post("/", promotionHandler.CreateReferralCode)
			r.Get("/", promotionHandler.ListReferralCodes)
			r.Patch("/{id}/active", promotionHandler.SetReferralCodeActive)
		})
		r.Route("/coupons", func(r chi.Router) {
			r.Post("/", promotionHandler.CreateCoupon)
			r.Get("/", promotionHandler.ListCoupons)
			r.Patch("/{id}/active", promotionHandler.SetCouponActive)
		})
		r.Route("/catalog", func(r chi.Router) {
			r.Post("/{kind}", catalogHandler.Create)
			r.Put("/{kind}/{id}", catalogHandler.Update)
			r.Get("/{kind}/next-internal-id", catalogHandler.NextInternalID)
		})
		r.Post("/notifications/broadcast", notificationHandler.Broadcast)
	})

	// health
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
