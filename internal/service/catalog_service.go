package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/pujakart/promotion-service/internal/models"
	"github.com/pujakart/promotion-service/internal/observability"
	"github.com/pujakart/promotion-service/internal/repository"
)

var ErrNameEmpty = errors.New("name is required")

type CatalogStore interface {
	GetByStoreID(ctx context.Context, kind models.CatalogKind, id string) (*models.CatalogItem, error)
	GetByInternalID(ctx context.Context, kind models.CatalogKind, internalID string) (*models.CatalogItem, error)
	List(ctx context.Context, kind models.CatalogKind) ([]models.CatalogItem, error)
	Create(ctx context.Context, item *models.CatalogItem) error
	Update(ctx context.Context, item *models.CatalogItem) error
}

// CatalogService resolves catalog lookups whose key is of unknown
// provenance: a store-assigned id or an admin-supplied custom id, numeric or
// string. Store-id interpretation always wins, so a custom id that collides
// with another item's store id resolves deterministically.
type CatalogService struct {
	catalog CatalogStore
	logger  *observability.Logger
}

func NewCatalogService(catalog CatalogStore, logger *observability.Logger) *CatalogService {
	return &CatalogService{catalog: catalog, logger: logger}
}

// Resolve returns the matching item or (nil, nil) when nothing matches.
// Absence is a normal outcome for callers, not an error.
func (s *CatalogService) Resolve(ctx context.Context, kind models.CatalogKind, key string) (*models.CatalogItem, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}

	item, err := s.catalog.GetByStoreID(ctx, kind, key)
	if err == nil {
		return item, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Error(ctx, "failed to fetch catalog item by store id", err)
		return nil, fmt.Errorf("fetch by store id: %w", err)
	}

	// Custom-id fallback: canonical numeric form first, then the raw string.
	if canonical, ok := numericForm(key); ok && canonical != key {
		item, err = s.catalog.GetByInternalID(ctx, kind, canonical)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			s.logger.Error(ctx, "failed to fetch catalog item by custom id", err)
			return nil, fmt.Errorf("fetch by custom id: %w", err)
		}
	}

	item, err = s.catalog.GetByInternalID(ctx, kind, key)
	if err == nil {
		return item, nil
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	s.logger.Error(ctx, "failed to fetch catalog item by custom id", err)
	return nil, fmt.Errorf("fetch by custom id: %w", err)
}

func (s *CatalogService) List(ctx context.Context, kind models.CatalogKind) ([]models.CatalogItem, error) {
	return s.catalog.List(ctx, kind)
}

// NextInternalID proposes the next sequential custom id for admin forms:
// one past the largest numeric value seen across store ids and custom ids.
func (s *CatalogService) NextInternalID(ctx context.Context, kind models.CatalogKind) (int64, error) {
	items, err := s.catalog.List(ctx, kind)
	if err != nil {
		return 0, err
	}

	var max int64
	for _, item := range items {
		if n, err := strconv.ParseInt(strings.TrimSpace(item.ID), 10, 64); err == nil && n > max {
			max = n
		}
		if item.InternalID != nil {
			if n, err := strconv.ParseInt(strings.TrimSpace(*item.InternalID), 10, 64); err == nil && n > max {
				max = n
			}
		}
	}
	return max + 1, nil
}

func (s *CatalogService) CreateItem(ctx context.Context, kind models.CatalogKind, item models.CatalogItem) (models.CatalogItem, error) {
	if strings.TrimSpace(item.Name) == "" {
		return models.CatalogItem{}, ErrNameEmpty
	}
	item.ID = uuid.NewString()
	item.Kind = kind
	if err := s.catalog.Create(ctx, &item); err != nil {
		s.logger.Error(ctx, "failed to create catalog item", err)
		return models.CatalogItem{}, fmt.Errorf("create catalog item: %w", err)
	}
	return item, nil
}

func (s *CatalogService) UpdateItem(ctx context.Context, kind models.CatalogKind, item models.CatalogItem) (models.CatalogItem, error) {
	if strings.TrimSpace(item.Name) == "" {
		return models.CatalogItem{}, ErrNameEmpty
	}
	item.Kind = kind
	if err := s.catalog.Update(ctx, &item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.CatalogItem{}, err
		}
		s.logger.Error(ctx, "failed to update catalog item", err)
		return models.CatalogItem{}, fmt.Errorf("update catalog item: %w", err)
	}
	return item, nil
}

// numericForm reports the canonical decimal rendering of a numeric-looking
// key ("042" -> "42"). Non-numeric keys pass through untouched.
func numericForm(key string) (string, bool) {
	if n, err := strconv.ParseInt(key, 10, 64); err == nil {
		return strconv.FormatInt(n, 10), true
	}
	if f, err := strconv.ParseFloat(key, 64); err == nil {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}
