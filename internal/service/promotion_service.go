package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/pujakart/promotion-service/internal/cache"
	"github.com/pujakart/promotion-service/internal/models"
	"github.com/pujakart/promotion-service/internal/observability"
	"github.com/pujakart/promotion-service/internal/repository"
)

var (
	ErrCodeEmpty     = errors.New("code is required")
	ErrRedeemerEmpty = errors.New("redeemer is required")
	ErrBadDiscount   = errors.New("discount percentage must be between 0 and 100")
	ErrBadUsageLimit = errors.New("usage limit must be limited or unlimited")
)

// Repos required by the service (interfaces to allow in-memory fakes).

type ReferralStore interface {
	GetActiveByCode(ctx context.Context, code string) (*models.ReferralCode, error)
	Create(ctx context.Context, rc *models.ReferralCode) error
	List(ctx context.Context) ([]models.ReferralCode, error)
	SetActive(ctx context.Context, id string, active bool) error
	IncrementStats(ctx context.Context, code string, bookingAmount, discountAmount decimal.Decimal) (bool, error)
}

type CouponStore interface {
	GetActiveByCode(ctx context.Context, code string) (*models.Coupon, error)
	Create(ctx context.Context, c *models.Coupon) error
	List(ctx context.Context) ([]models.Coupon, error)
	SetActive(ctx context.Context, id string, active bool) error
	HasRedeemed(ctx context.Context, couponID, redeemer string) (bool, error)
	ClaimRedemption(ctx context.Context, couponID, redeemer string) (bool, error)
	IncrementStats(ctx context.Context, code string, bookingAmount, discountAmount decimal.Decimal) (bool, error)
}

const lookupTTL = time.Minute

// PromotionService owns the promotion-code ledger: validation, redemption,
// and usage bookkeeping over referral codes and coupons. Referral codes take
// precedence over coupons when a code value exists in both collections.
type PromotionService struct {
	referrals ReferralStore
	coupons   CouponStore
	cache     cache.Cache
	logger    *observability.Logger
}

func NewPromotionService(referrals ReferralStore, coupons CouponStore, c cache.Cache, logger *observability.Logger) *PromotionService {
	return &PromotionService{
		referrals: referrals,
		coupons:   coupons,
		cache:     c,
		logger:    logger,
	}
}

// Validate checks whether a promotion may be applied without consuming
// anything. Safe to call repeatedly from price-preview screens.
func (s *PromotionService) Validate(ctx context.Context, code, redeemer string) (models.ValidationResult, error) {
	return s.evaluate(ctx, code, redeemer, false)
}

// Redeem is the combined validate-and-use operation. On success for a
// limited coupon the redeemer's one-time grant is consumed atomically as part
// of this call; there is no separate confirmation step. Two concurrent
// redemptions of the same (coupon, redeemer) pair cannot both succeed.
func (s *PromotionService) Redeem(ctx context.Context, code, redeemer string) (models.ValidationResult, error) {
	return s.evaluate(ctx, code, redeemer, true)
}

func (s *PromotionService) evaluate(ctx context.Context, code, redeemer string, consume bool) (models.ValidationResult, error) {
	code = strings.TrimSpace(code)
	redeemer = strings.TrimSpace(redeemer)
	if code == "" {
		return models.InvalidResult(models.MsgInvalidCode), nil
	}
	if redeemer == "" {
		return models.ValidationResult{}, ErrRedeemerEmpty
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "code", Value: code},
		observability.Field{Key: "redeemer", Value: redeemer},
	)

	// Referral codes win: no per-user restriction, no usage set.
	rc, err := s.getReferral(ctx, code)
	if err != nil {
		s.logger.Error(ctx, "failed to look up referral code", err)
		return models.ValidationResult{}, fmt.Errorf("lookup referral: %w", err)
	}
	if rc != nil {
		return models.ValidationResult{
			Valid:              true,
			DiscountPercentage: rc.DiscountPercentage,
			IsCoupon:           false,
			Message:            models.MsgCodeApplied,
		}, nil
	}

	c, err := s.getCoupon(ctx, code)
	if err != nil {
		s.logger.Error(ctx, "failed to look up coupon", err)
		return models.ValidationResult{}, fmt.Errorf("lookup coupon: %w", err)
	}
	if c == nil {
		return models.InvalidResult(models.MsgInvalidCode), nil
	}

	if c.AssignedUsers != nil && !lo.Contains(c.AssignedUsers, redeemer) {
		return models.InvalidResult(models.MsgNotAssigned), nil
	}

	if c.UsageLimit == models.UsageLimited {
		if consume {
			claimed, err := s.coupons.ClaimRedemption(ctx, c.ID, redeemer)
			if err != nil {
				s.logger.Error(ctx, "failed to claim coupon redemption", err)
				return models.ValidationResult{}, fmt.Errorf("claim redemption: %w", err)
			}
			if !claimed {
				return models.InvalidResult(models.MsgAlreadyUsed), nil
			}
		} else {
			used, err := s.coupons.HasRedeemed(ctx, c.ID, redeemer)
			if err != nil {
				s.logger.Error(ctx, "failed to check coupon usage", err)
				return models.ValidationResult{}, fmt.Errorf("check usage: %w", err)
			}
			if used {
				return models.InvalidResult(models.MsgAlreadyUsed), nil
			}
		}
	}

	return models.ValidationResult{
		Valid:              true,
		DiscountPercentage: c.DiscountPercentage,
		IsCoupon:           true,
		IsUnlimited:        c.Unlimited(),
		Message:            models.MsgCodeApplied,
	}, nil
}

// RecordRedemption increments a code's usage counters after a booking that
// used it was finalized. Referral collection first, coupon fallback,
// mirroring validation precedence. All three counters move in a single
// statement. A code that matches nothing is a non-fatal no-op: the booking
// already happened and must not fail over missing bookkeeping.
func (s *PromotionService) RecordRedemption(ctx context.Context, code string, bookingAmount, discountAmount decimal.Decimal) (bool, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return false, nil
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "code", Value: code})

	recorded, err := s.referrals.IncrementStats(ctx, code, bookingAmount, discountAmount)
	if err != nil {
		s.logger.Error(ctx, "failed to record referral redemption", err)
		return false, fmt.Errorf("record referral stats: %w", err)
	}
	if !recorded {
		recorded, err = s.coupons.IncrementStats(ctx, code, bookingAmount, discountAmount)
		if err != nil {
			s.logger.Error(ctx, "failed to record coupon redemption", err)
			return false, fmt.Errorf("record coupon stats: %w", err)
		}
	}
	if !recorded {
		s.logger.Warn(ctx, "redemption stats skipped: code matches no record")
	}
	return recorded, nil
}

// --- Admin operations ---

type CreateReferralCodeRequest struct {
	Code               string
	DiscountPercentage float64
	Description        string
	IsActive           bool
}

func (s *PromotionService) CreateReferralCode(ctx context.Context, req CreateReferralCodeRequest) (models.ReferralCode, error) {
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		return models.ReferralCode{}, ErrCodeEmpty
	}
	if req.DiscountPercentage < 0 || req.DiscountPercentage > 100 {
		return models.ReferralCode{}, ErrBadDiscount
	}

	rc := models.ReferralCode{
		ID:                    uuid.NewString(),
		Code:                  req.Code,
		DiscountPercentage:    req.DiscountPercentage,
		Description:           req.Description,
		IsActive:              req.IsActive,
		TotalDiscountGiven:    decimal.Zero,
		TotalRevenueGenerated: decimal.Zero,
	}
	if err := s.referrals.Create(ctx, &rc); err != nil {
		s.logger.Error(ctx, "failed to create referral code", err)
		return models.ReferralCode{}, fmt.Errorf("create referral code: %w", err)
	}
	s.invalidate(ctx, referralCacheKey(rc.Code))
	return rc, nil
}

type CreateCouponRequest struct {
	Code               string
	DiscountPercentage float64
	Description        string
	IsActive           bool
	UsageLimit         models.UsageLimit
	AssignedUsers      []string
}

func (s *PromotionService) CreateCoupon(ctx context.Context, req CreateCouponRequest) (models.Coupon, error) {
	req.Code = strings.TrimSpace(req.Code)
	if req.Code == "" {
		return models.Coupon{}, ErrCodeEmpty
	}
	if req.DiscountPercentage < 0 || req.DiscountPercentage > 100 {
		return models.Coupon{}, ErrBadDiscount
	}
	if !req.UsageLimit.Valid() {
		return models.Coupon{}, ErrBadUsageLimit
	}

	c := models.Coupon{
		ID:                    uuid.NewString(),
		Code:                  req.Code,
		DiscountPercentage:    req.DiscountPercentage,
		Description:           req.Description,
		IsActive:              req.IsActive,
		UsageLimit:            req.UsageLimit,
		AssignedUsers:         req.AssignedUsers,
		TotalDiscountGiven:    decimal.Zero,
		TotalRevenueGenerated: decimal.Zero,
	}
	if err := s.coupons.Create(ctx, &c); err != nil {
		s.logger.Error(ctx, "failed to create coupon", err)
		return models.Coupon{}, fmt.Errorf("create coupon: %w", err)
	}
	s.invalidate(ctx, couponCacheKey(c.Code))
	return c, nil
}

func (s *PromotionService) ListReferralCodes(ctx context.Context) ([]models.ReferralCode, error) {
	return s.referrals.List(ctx)
}

func (s *PromotionService) ListCoupons(ctx context.Context) ([]models.Coupon, error) {
	return s.coupons.List(ctx)
}

func (s *PromotionService) SetReferralCodeActive(ctx context.Context, id string, active bool) error {
	if err := s.referrals.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.dropReferralCacheByID(ctx, id)
	return nil
}

func (s *PromotionService) SetCouponActive(ctx context.Context, id string, active bool) error {
	if err := s.coupons.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.dropCouponCacheByID(ctx, id)
	return nil
}

// --- Cache-aside lookups ---

func referralCacheKey(code string) string { return "promo:referral:" + code }
func couponCacheKey(code string) string   { return "promo:coupon:" + code }

// cachedLookup wraps an active-only fetch. A cached empty payload encodes a
// recent miss so bogus codes do not hammer the store.
const cacheMiss = "-"

func (s *PromotionService) getReferral(ctx context.Context, code string) (*models.ReferralCode, error) {
	key := referralCacheKey(code)
	if raw, ok := s.cache.Get(ctx, key); ok {
		if raw == cacheMiss {
			return nil, nil
		}
		var rc models.ReferralCode
		if err := json.Unmarshal([]byte(raw), &rc); err == nil {
			return &rc, nil
		}
	}

	rc, err := s.referrals.GetActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.cache.Set(ctx, key, cacheMiss, lookupTTL)
			return nil, nil
		}
		return nil, err
	}
	if raw, err := json.Marshal(rc); err == nil {
		s.cache.Set(ctx, key, string(raw), lookupTTL)
	}
	return rc, nil
}

func (s *PromotionService) getCoupon(ctx context.Context, code string) (*models.Coupon, error) {
	key := couponCacheKey(code)
	if raw, ok := s.cache.Get(ctx, key); ok {
		if raw == cacheMiss {
			return nil, nil
		}
		var c models.Coupon
		if err := json.Unmarshal([]byte(raw), &c); err == nil {
			return &c, nil
		}
	}

	c, err := s.coupons.GetActiveByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.cache.Set(ctx, key, cacheMiss, lookupTTL)
			return nil, nil
		}
		return nil, err
	}
	if raw, err := json.Marshal(c); err == nil {
		s.cache.Set(ctx, key, string(raw), lookupTTL)
	}
	return c, nil
}

func (s *PromotionService) invalidate(ctx context.Context, key string) {
	s.cache.Delete(ctx, key)
}

// Toggling happens by id while the cache is keyed by code, so the code has to
// be found in the current listing before its entry can be dropped.
func (s *PromotionService) dropReferralCacheByID(ctx context.Context, id string) {
	codes, err := s.referrals.List(ctx)
	if err != nil {
		// A stale entry self-heals when the TTL expires.
		s.logger.Error(ctx, "skipping referral cache invalidation: list failed", err)
		return
	}
	for _, rc := range codes {
		if rc.ID == id {
			s.cache.Delete(ctx, referralCacheKey(rc.Code))
			return
		}
	}
}

func (s *PromotionService) dropCouponCacheByID(ctx context.Context, id string) {
	coupons, err := s.coupons.List(ctx)
	if err != nil {
		s.logger.Error(ctx, "skipping coupon cache invalidation: list failed", err)
		return
	}
	for _, c := range coupons {
		if c.ID == id {
			s.cache.Delete(ctx, couponCacheKey(c.Code))
			return
		}
	}
}
