package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UsageLimit controls how many times a single redeemer may use a coupon.
type UsageLimit string

const (
	// UsageLimited coupons may be redeemed at most once per redeemer, ever.
	UsageLimited UsageLimit = "limited"
	// UsageUnlimited coupons carry no per-redeemer cap.
	UsageUnlimited UsageLimit = "unlimited"
)

func (u UsageLimit) Valid() bool {
	return u == UsageLimited || u == UsageUnlimited
}

// ReferralCode is an open promotion: any redeemer may apply an active
// referral code any number of times. Usage counters are maintained by the
// stats recorder, never by validation.
type ReferralCode struct {
	ID                    string          `json:"id"`
	Code                  string          `json:"code"`
	DiscountPercentage    float64         `json:"discount_percentage"`
	Description           string          `json:"description"`
	IsActive              bool            `json:"is_active"`
	TotalUsed             int             `json:"total_used"`
	TotalDiscountGiven    decimal.Decimal `json:"total_discount_given"`
	TotalRevenueGenerated decimal.Decimal `json:"total_revenue_generated"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// Coupon is a restricted promotion. AssignedUsers nil means the coupon is
// open to every redeemer; a non-nil slice is an allow-list. The set of
// redeemers who already consumed a limited coupon's grant lives in its own
// redemption table, not on this struct.
type Coupon struct {
	ID                    string          `json:"id"`
	Code                  string          `json:"code"`
	DiscountPercentage    float64         `json:"discount_percentage"`
	Description           string          `json:"description"`
	IsActive              bool            `json:"is_active"`
	UsageLimit            UsageLimit      `json:"usage_limit"`
	AssignedUsers         []string        `json:"assigned_users"`
	TotalUsed             int             `json:"total_used"`
	TotalDiscountGiven    decimal.Decimal `json:"total_discount_given"`
	TotalRevenueGenerated decimal.Decimal `json:"total_revenue_generated"`
	CreatedAt             time.Time       `json:"created_at"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// Unlimited reports whether the coupon has no per-redeemer cap.
func (c *Coupon) Unlimited() bool {
	return c.UsageLimit == UsageUnlimited
}
