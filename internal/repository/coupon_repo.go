package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/pujakart/promotion-service/internal/models"
)

type CouponRepo struct {
	db *sql.DB
}

func NewCouponRepo(db *sql.DB) *CouponRepo {
	return &CouponRepo{db: db}
}

const couponColumns = `
	id, code, discount_percentage, description, is_active, usage_limit, assigned_users,
	total_used, total_discount_given, total_revenue_generated,
	created_at, updated_at
`

func scanCoupon(row interface{ Scan(dest ...interface{}) error }) (*models.Coupon, error) {
	var c models.Coupon
	var assigned pq.StringArray
	err := row.Scan(
		&c.ID,
		&c.Code,
		&c.DiscountPercentage,
		&c.Description,
		&c.IsActive,
		&c.UsageLimit,
		&assigned,
		&c.TotalUsed,
		&c.TotalDiscountGiven,
		&c.TotalRevenueGenerated,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	// NULL stays nil (open to all users); '{}' is an empty allow-list.
	c.AssignedUsers = assigned
	return &c, nil
}

// GetActiveByCode returns the active coupon with exactly this code.
func (r *CouponRepo) GetActiveByCode(ctx context.Context, code string) (*models.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons WHERE code = $1 AND is_active = TRUE`

	c, err := scanCoupon(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *CouponRepo) Create(ctx context.Context, c *models.Coupon) error {
	query := `
		INSERT INTO coupons
		(id, code, discount_percentage, description, is_active, usage_limit, assigned_users,
		 total_used, total_discount_given, total_revenue_generated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 0, 0, 0, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	var assigned interface{}
	if c.AssignedUsers != nil {
		assigned = pq.StringArray(c.AssignedUsers)
	}
	return r.db.QueryRowContext(ctx, query,
		c.ID,
		c.Code,
		c.DiscountPercentage,
		c.Description,
		c.IsActive,
		c.UsageLimit,
		assigned,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (r *CouponRepo) List(ctx context.Context) ([]models.Coupon, error) {
	query := `SELECT ` + couponColumns + ` FROM coupons ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var coupons []models.Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, err
		}
		coupons = append(coupons, *c)
	}
	return coupons, rows.Err()
}

func (r *CouponRepo) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE coupons SET is_active = $2, updated_at = NOW() WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, active)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// HasRedeemed reports whether the redeemer already consumed this coupon's
// one-time grant. Used by the read-only validate path.
func (r *CouponRepo) HasRedeemed(ctx context.Context, couponID, redeemer string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM coupon_redemptions WHERE coupon_id = $1 AND redeemer = $2)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, couponID, redeemer).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ClaimRedemption adds the redeemer to the coupon's redemption set if and
// only if it is not already present. The conditional insert is a single
// atomic statement, so two concurrent claims for the same pair can never
// both succeed. Returns false when the grant was already consumed.
func (r *CouponRepo) ClaimRedemption(ctx context.Context, couponID, redeemer string) (bool, error) {
	query := `
		INSERT INTO coupon_redemptions (coupon_id, redeemer, redeemed_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (coupon_id, redeemer) DO NOTHING
	`
	res, err := r.db.ExecContext(ctx, query, couponID, redeemer)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// IncrementStats mirrors ReferralRepo.IncrementStats for coupons.
func (r *CouponRepo) IncrementStats(ctx context.Context, code string, bookingAmount, discountAmount decimal.Decimal) (bool, error) {
	query := `
		UPDATE coupons
		SET total_used = total_used + 1,
		    total_discount_given = total_discount_given + $2,
		    total_revenue_generated = total_revenue_generated + $3,
		    updated_at = NOW()
		WHERE code = $1
	`
	res, err := r.db.ExecContext(ctx, query, code, discountAmount, bookingAmount)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
