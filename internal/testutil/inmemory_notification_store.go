package testutil

import (
	"context"
	"sync"

	"github.com/pujakart/promotion-service/internal/models"
	"github.com/pujakart/promotion-service/internal/repository"
)

// InMemoryNotificationStore implements service.NotificationStore.
type InMemoryNotificationStore struct {
	mu   sync.Mutex
	rows []models.Notification

	Err error
}

func NewInMemoryNotificationStore() *InMemoryNotificationStore {
	return &InMemoryNotificationStore{}
}

func (s *InMemoryNotificationStore) InsertBatch(_ context.Context, notifications []models.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.rows = append(s.rows, notifications...)
	return nil
}

func (s *InMemoryNotificationStore) ListForUser(_ context.Context, userID string) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	var out []models.Notification
	for _, n := range s.rows {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *InMemoryNotificationStore) MarkRead(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for i := range s.rows {
		if s.rows[i].ID == id {
			s.rows[i].Read = true
			return nil
		}
	}
	return repository.ErrNotFound
}

// All returns a snapshot of every stored notification.
func (s *InMemoryNotificationStore) All() []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Notification(nil), s.rows...)
}
