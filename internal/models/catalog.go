package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogKind selects one of the catalog collections.
type CatalogKind string

const (
	KindProduct CatalogKind = "product"
	KindPuja    CatalogKind = "puja"
	KindPandit  CatalogKind = "pandit"
)

// ParseCatalogKind maps a URL segment to a catalog kind.
func ParseCatalogKind(s string) (CatalogKind, bool) {
	switch CatalogKind(s) {
	case KindProduct, KindPuja, KindPandit:
		return CatalogKind(s), true
	}
	return "", false
}

// CatalogItem is a product, puja, or pandit listing. ID is the store-assigned
// identifier used for all routing. InternalID is an optional admin-supplied
// custom identifier kept only for display and lookup convenience; the two may
// collide in value space and must never be conflated.
type CatalogItem struct {
	ID          string          `json:"id"`
	Kind        CatalogKind     `json:"kind"`
	InternalID  *string         `json:"internal_id,omitempty"`
	Name        string          `json:"name"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	ImageURL    string          `json:"image_url,omitempty"`
	Description string          `json:"description,omitempty"`
	IsActive    bool            `json:"is_active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
