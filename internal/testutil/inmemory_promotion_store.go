// Package testutil provides in-memory implementations of the service
// store interfaces for tests.
package testutil

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/pujakart/promotion-service/internal/models"
	"github.com/pujakart/promotion-service/internal/repository"
)

// InMemoryReferralStore implements service.ReferralStore.
type InMemoryReferralStore struct {
	mu    sync.Mutex
	items []*models.ReferralCode

	// Err, when set, makes every operation fail with it.
	Err error
	// ListErr, when set, makes only List fail with it.
	ListErr error
}

func NewInMemoryReferralStore() *InMemoryReferralStore {
	return &InMemoryReferralStore{}
}

func (s *InMemoryReferralStore) GetActiveByCode(_ context.Context, code string) (*models.ReferralCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, rc := range s.items {
		if rc.Code == code && rc.IsActive {
			copied := *rc
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *InMemoryReferralStore) Create(_ context.Context, rc *models.ReferralCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	copied := *rc
	s.items = append(s.items, &copied)
	return nil
}

func (s *InMemoryReferralStore) List(_ context.Context) ([]models.ReferralCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]models.ReferralCode, len(s.items))
	for i, rc := range s.items {
		out[i] = *rc
	}
	return out, nil
}

func (s *InMemoryReferralStore) SetActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, rc := range s.items {
		if rc.ID == id {
			rc.IsActive = active
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *InMemoryReferralStore) IncrementStats(_ context.Context, code string, bookingAmount, discountAmount decimal.Decimal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for _, rc := range s.items {
		if rc.Code == code {
			rc.TotalUsed++
			rc.TotalDiscountGiven = rc.TotalDiscountGiven.Add(discountAmount)
			rc.TotalRevenueGenerated = rc.TotalRevenueGenerated.Add(bookingAmount)
			return true, nil
		}
	}
	return false, nil
}

// Get returns a snapshot by code regardless of active state, for assertions.
func (s *InMemoryReferralStore) Get(code string) (models.ReferralCode, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rc := range s.items {
		if rc.Code == code {
			return *rc, true
		}
	}
	return models.ReferralCode{}, false
}

// InMemoryCouponStore implements service.CouponStore.
type InMemoryCouponStore struct {
	mu          sync.Mutex
	items       []*models.Coupon
	redemptions map[string]map[string]bool

	Err     error
	ListErr error
}

func NewInMemoryCouponStore() *InMemoryCouponStore {
	return &InMemoryCouponStore{redemptions: make(map[string]map[string]bool)}
}

func (s *InMemoryCouponStore) GetActiveByCode(_ context.Context, code string) (*models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, c := range s.items {
		if c.Code == code && c.IsActive {
			copied := *c
			if c.AssignedUsers != nil {
				// An empty allow-list means "valid for nobody" and must stay
				// distinguishable from nil ("open to all"), same as a scanned
				// '{}' array column.
				copied.AssignedUsers = append(make([]string, 0, len(c.AssignedUsers)), c.AssignedUsers...)
			}
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *InMemoryCouponStore) Create(_ context.Context, c *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	copied := *c
	s.items = append(s.items, &copied)
	return nil
}

func (s *InMemoryCouponStore) List(_ context.Context) ([]models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	out := make([]models.Coupon, len(s.items))
	for i, c := range s.items {
		out[i] = *c
	}
	return out, nil
}

func (s *InMemoryCouponStore) SetActive(_ context.Context, id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, c := range s.items {
		if c.ID == id {
			c.IsActive = active
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *InMemoryCouponStore) HasRedeemed(_ context.Context, couponID, redeemer string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	return s.redemptions[couponID][redeemer], nil
}

func (s *InMemoryCouponStore) ClaimRedemption(_ context.Context, couponID, redeemer string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	set, ok := s.redemptions[couponID]
	if !ok {
		set = make(map[string]bool)
		s.redemptions[couponID] = set
	}
	if set[redeemer] {
		return false, nil
	}
	set[redeemer] = true
	return true, nil
}

func (s *InMemoryCouponStore) IncrementStats(_ context.Context, code string, bookingAmount, discountAmount decimal.Decimal) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return false, s.Err
	}
	for _, c := range s.items {
		if c.Code == code {
			c.TotalUsed++
			c.TotalDiscountGiven = c.TotalDiscountGiven.Add(discountAmount)
			c.TotalRevenueGenerated = c.TotalRevenueGenerated.Add(bookingAmount)
			return true, nil
		}
	}
	return false, nil
}

// Get returns a snapshot by code regardless of active state, for assertions.
func (s *InMemoryCouponStore) Get(code string) (models.Coupon, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.items {
		if c.Code == code {
			return *c, true
		}
	}
	return models.Coupon{}, false
}

// RedemptionCount reports how many redeemers consumed the coupon's grant.
func (s *InMemoryCouponStore) RedemptionCount(couponID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.redemptions[couponID])
}
