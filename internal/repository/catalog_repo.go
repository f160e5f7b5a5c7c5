package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pujakart/promotion-service/internal/models"
)

type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

const catalogColumns = `
	id, kind, internal_id, name, category, price, image_url, description, is_active,
	created_at, updated_at
`

func scanCatalogItem(row interface{ Scan(dest ...interface{}) error }) (*models.CatalogItem, error) {
	var item models.CatalogItem
	var internalID sql.NullString
	err := row.Scan(
		&item.ID,
		&item.Kind,
		&internalID,
		&item.Name,
		&item.Category,
		&item.Price,
		&item.ImageURL,
		&item.Description,
		&item.IsActive,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if internalID.Valid {
		item.InternalID = &internalID.String
	}
	return &item, nil
}

// GetByStoreID fetches by the store-assigned identifier, the routing key.
func (r *CatalogRepo) GetByStoreID(ctx context.Context, kind models.CatalogKind, id string) (*models.CatalogItem, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_items WHERE kind = $1 AND id = $2`

	item, err := scanCatalogItem(r.db.QueryRowContext(ctx, query, kind, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// GetByInternalID fetches by exact match on the admin-supplied custom id.
// When several items share a custom id the oldest wins, keeping resolution
// deterministic.
func (r *CatalogRepo) GetByInternalID(ctx context.Context, kind models.CatalogKind, internalID string) (*models.CatalogItem, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_items
		WHERE kind = $1 AND internal_id = $2 ORDER BY created_at ASC LIMIT 1`

	item, err := scanCatalogItem(r.db.QueryRowContext(ctx, query, kind, internalID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *CatalogRepo) List(ctx context.Context, kind models.CatalogKind) ([]models.CatalogItem, error) {
	query := `SELECT ` + catalogColumns + ` FROM catalog_items WHERE kind = $1 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, kind)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CatalogItem
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

func (r *CatalogRepo) Create(ctx context.Context, item *models.CatalogItem) error {
	query := `
		INSERT INTO catalog_items
		(id, kind, internal_id, name, category, price, image_url, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	var internalID interface{}
	if item.InternalID != nil {
		internalID = *item.InternalID
	}
	return r.db.QueryRowContext(ctx, query,
		item.ID,
		item.Kind,
		internalID,
		item.Name,
		item.Category,
		item.Price,
		item.ImageURL,
		item.Description,
		item.IsActive,
	).Scan(&item.CreatedAt, &item.UpdatedAt)
}

func (r *CatalogRepo) Update(ctx context.Context, item *models.CatalogItem) error {
	query := `
		UPDATE catalog_items
		SET internal_id = $3, name = $4, category = $5, price = $6,
		    image_url = $7, description = $8, is_active = $9, updated_at = NOW()
		WHERE kind = $1 AND id = $2
	`
	var internalID interface{}
	if item.InternalID != nil {
		internalID = *item.InternalID
	}
	res, err := r.db.ExecContext(ctx, query,
		item.Kind,
		item.ID,
		internalID,
		item.Name,
		item.Category,
		item.Price,
		item.ImageURL,
		item.Description,
		item.IsActive,
	)
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
