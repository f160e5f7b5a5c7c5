package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/pujakart/promotion-service/internal/models"
)

type ReferralRepo struct {
	db *sql.DB
}

func NewReferralRepo(db *sql.DB) *ReferralRepo {
	return &ReferralRepo{db: db}
}

const referralColumns = `
	id, code, discount_percentage, description, is_active,
	total_used, total_discount_given, total_revenue_generated,
	created_at, updated_at
`

func scanReferral(row interface{ Scan(dest ...interface{}) error }) (*models.ReferralCode, error) {
	var rc models.ReferralCode
	err := row.Scan(
		&rc.ID,
		&rc.Code,
		&rc.DiscountPercentage,
		&rc.Description,
		&rc.IsActive,
		&rc.TotalUsed,
		&rc.TotalDiscountGiven,
		&rc.TotalRevenueGenerated,
		&rc.CreatedAt,
		&rc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &rc, nil
}

// GetActiveByCode returns the active referral code with exactly this code.
func (r *ReferralRepo) GetActiveByCode(ctx context.Context, code string) (*models.ReferralCode, error) {
	query := `SELECT ` + referralColumns + ` FROM referral_codes WHERE code = $1 AND is_active = TRUE`

	rc, err := scanReferral(r.db.QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return rc, nil
}

func (r *ReferralRepo) Create(ctx context.Context, rc *models.ReferralCode) error {
	query := `
		INSERT INTO referral_codes
		(id, code, discount_percentage, description, is_active,
		 total_used, total_discount_given, total_revenue_generated, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, 0, 0, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRowContext(ctx, query,
		rc.ID,
		rc.Code,
		rc.DiscountPercentage,
		rc.Description,
		rc.IsActive,
	).Scan(&rc.CreatedAt, &rc.UpdatedAt)
}

func (r *ReferralRepo) List(ctx context.Context) ([]models.ReferralCode, error) {
	query := `SELECT ` + referralColumns + ` FROM referral_codes ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var codes []models.ReferralCode
	for rows.Next() {
		rc, err := scanReferral(rows)
		if err != nil {
			return nil, err
		}
		codes = append(codes, *rc)
	}
	return codes, rows.Err()
}

// SetActive toggles a referral code. Codes are never hard-deleted.
func (r *ReferralRepo) SetActive(ctx context.Context, id string, active bool) error {
	query := `UPDATE referral_codes SET is_active = $2, updated_at = NOW() WHERE id = $1`

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

// IncrementStats bumps all three usage counters in one statement so a
// redemption event can never be half-recorded. Matches codes regardless of
// active state. Returns false when no row matched.
func (r *ReferralRepo) IncrementStats(ctx context.Context, code string, bookingAmount, discountAmount decimal.Decimal) (bool, error) {
	query := `
		UPDATE referral_codes
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
