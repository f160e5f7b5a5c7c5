package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/pujakart/promotion-service/internal/models"
	"github.com/pujakart/promotion-service/internal/repository"
	"github.com/pujakart/promotion-service/internal/service"
)

// --- Request / Response DTOs ---

type ValidateRequest struct {
	Code     string `json:"code"`
	Redeemer string `json:"redeemer"`
}

type RecordRedemptionRequest struct {
	Code           string          `json:"code"`
	BookingAmount  decimal.Decimal `json:"booking_amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}

type CreateReferralCodeRequest struct {
	Code               string  `json:"code"`
	DiscountPercentage float64 `json:"discount_percentage"`
	Description        string  `json:"description"`
	IsActive           *bool   `json:"is_active"`
}

type CreateCouponRequest struct {
	Code               string   `json:"code"`
	DiscountPercentage float64  `json:"discount_percentage"`
	Description        string   `json:"description"`
	IsActive           *bool    `json:"is_active"`
	UsageLimit         string   `json:"usage_limit"`
	AssignedUsers      []string `json:"assigned_users"`
}

type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// --- Handler ---

type PromotionHandler struct {
	service *service.PromotionService
}

func NewPromotionHandler(svc *service.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: svc}
}

// Validate handles POST /promotions/validate: read-only check, nothing is
// consumed. Policy failures come back as 200 with valid=false so the
// storefront can show the message directly.
func (h *PromotionHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	result, err := h.service.Validate(r.Context(), req.Code, req.Redeemer)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Redeem handles POST /promotions/redeem: the combined validate-and-use
// operation. A valid limited coupon has its one-time grant consumed here.
func (h *PromotionHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	result, err := h.service.Redeem(r.Context(), req.Code, req.Redeemer)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// RecordRedemption handles POST /promotions/redemptions, called after a
// booking that used a code is finalized. recorded=false means no matching
// code; the caller's booking is unaffected either way.
func (h *PromotionHandler) RecordRedemption(w http.ResponseWriter, r *http.Request) {
	var req RecordRedemptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	recorded, err := h.service.RecordRedemption(r.Context(), req.Code, req.BookingAmount, req.DiscountAmount)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_record_redemption")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"recorded": recorded})
}

// CreateReferralCode handles POST /admin/referral-codes.
func (h *PromotionHandler) CreateReferralCode(w http.ResponseWriter, r *http.Request) {
	var req CreateReferralCodeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	rc, err := h.service.CreateReferralCode(r.Context(), service.CreateReferralCodeRequest{
		Code:               req.Code,
		DiscountPercentage: req.DiscountPercentage,
		Description:        req.Description,
		IsActive:           activeOrDefault(req.IsActive),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, rc)
}

// ListReferralCodes handles GET /admin/referral-codes.
func (h *PromotionHandler) ListReferralCodes(w http.ResponseWriter, r *http.Request) {
	codes, err := h.service.ListReferralCodes(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_list_referral_codes")
		return
	}
	if codes == nil {
		codes = []models.ReferralCode{}
	}
	writeJSON(w, http.StatusOK, codes)
}

// SetReferralCodeActive handles PATCH /admin/referral-codes/{id}/active.
// Codes are deactivated, never deleted.
func (h *PromotionHandler) SetReferralCodeActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	if err := h.service.SetReferralCodeActive(r.Context(), chi.URLParam(r, "id"), req.IsActive); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_active": req.IsActive})
}

// CreateCoupon handles POST /admin/coupons.
func (h *PromotionHandler) CreateCoupon(w http.ResponseWriter, r *http.Request) {
	var req CreateCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	c, err := h.service.CreateCoupon(r.Context(), service.CreateCouponRequest{
		Code:               req.Code,
		DiscountPercentage: req.DiscountPercentage,
		Description:        req.Description,
		IsActive:           activeOrDefault(req.IsActive),
		UsageLimit:         models.UsageLimit(req.UsageLimit),
		AssignedUsers:      req.AssignedUsers,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// ListCoupons handles GET /admin/coupons.
func (h *PromotionHandler) ListCoupons(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.service.ListCoupons(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed_list_coupons")
		return
	}
	if coupons == nil {
		coupons = []models.Coupon{}
	}
	writeJSON(w, http.StatusOK, coupons)
}

// SetCouponActive handles PATCH /admin/coupons/{id}/active.
func (h *PromotionHandler) SetCouponActive(w http.ResponseWriter, r *http.Request) {
	var req SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body")
		return
	}

	if err := h.service.SetCouponActive(r.Context(), chi.URLParam(r, "id"), req.IsActive); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_active": req.IsActive})
}

func (h *PromotionHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrCodeEmpty),
		errors.Is(err, service.ErrRedeemerEmpty),
		errors.Is(err, service.ErrBadDiscount),
		errors.Is(err, service.ErrBadUsageLimit):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

func activeOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
