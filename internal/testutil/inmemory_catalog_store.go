package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/pujakart/promotion-service/internal/models"
	"github.com/pujakart/promotion-service/internal/repository"
)

// InMemoryCatalogStore implements service.CatalogStore. Items keep their
// insertion order so duplicate custom ids resolve to the oldest item, same
// as the SQL implementation.
type InMemoryCatalogStore struct {
	mu    sync.Mutex
	items []*models.CatalogItem

	Err error
}

func NewInMemoryCatalogStore() *InMemoryCatalogStore {
	return &InMemoryCatalogStore{}
}

func (s *InMemoryCatalogStore) GetByStoreID(_ context.Context, kind models.CatalogKind, id string) (*models.CatalogItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, item := range s.items {
		if item.Kind == kind && item.ID == id {
			copied := *item
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *InMemoryCatalogStore) GetByInternalID(_ context.Context, kind models.CatalogKind, internalID string) (*models.CatalogItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	for _, item := range s.items {
		if item.Kind == kind && item.InternalID != nil && *item.InternalID == internalID {
			copied := *item
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *InMemoryCatalogStore) List(_ context.Context, kind models.CatalogKind) ([]models.CatalogItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []models.CatalogItem
	for _, item := range s.items {
		if item.Kind == kind {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *InMemoryCatalogStore) Create(_ context.Context, item *models.CatalogItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now
	copied := *item
	s.items = append(s.items, &copied)
	return nil
}

func (s *InMemoryCatalogStore) Update(_ context.Context, item *models.CatalogItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i, existing := range s.items {
		if existing.Kind == item.Kind && existing.ID == item.ID {
			item.CreatedAt = existing.CreatedAt
			item.UpdatedAt = time.Now().UTC()
			copied := *item
			s.items[i] = &copied
			return nil
		}
	}
	return repository.ErrNotFound
}
