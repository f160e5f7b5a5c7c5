package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/pujakart/promotion-service/internal/concurrency"
	"github.com/pujakart/promotion-service/internal/models"
	"github.com/pujakart/promotion-service/internal/observability"
)

var (
	ErrNoRecipients = errors.New("at least one recipient is required")
	ErrTitleEmpty   = errors.New("title is required")
)

type NotificationStore interface {
	InsertBatch(ctx context.Context, notifications []models.Notification) error
	ListForUser(ctx context.Context, userID string) ([]models.Notification, error)
	MarkRead(ctx context.Context, id string) error
}

type NotificationService struct {
	notifications NotificationStore
	logger        *observability.Logger
}

func NewNotificationService(notifications NotificationStore, logger *observability.Logger) *NotificationService {
	return &NotificationService{notifications: notifications, logger: logger}
}

const broadcastWorkers = 4

// Broadcast sends one notification per distinct recipient. Rows are built
// concurrently for large recipient lists, then written in a single
// transaction so a broadcast never lands partially. Returns the number of
// recipients reached.
func (s *NotificationService) Broadcast(ctx context.Context, userIDs []string, title, message, notifType string) (int, error) {
	userIDs = lo.Uniq(lo.Filter(userIDs, func(id string, _ int) bool {
		return strings.TrimSpace(id) != ""
	}))
	if len(userIDs) == 0 {
		return 0, ErrNoRecipients
	}
	if strings.TrimSpace(title) == "" {
		return 0, ErrTitleEmpty
	}

	now := time.Now().UTC()
	rows := make([]models.Notification, len(userIDs))

	workers := broadcastWorkers
	if len(userIDs) < workers {
		workers = len(userIDs)
	}
	// Each worker fills a disjoint stride of the slice.
	concurrency.RunWorkers(ctx, workers, func(_ context.Context, idx int) {
		for i := idx; i < len(userIDs); i += workers {
			rows[i] = models.Notification{
				ID:             uuid.NewString(),
				UserID:         userIDs[i],
				Title:          title,
				Message:        message,
				Read:           false,
				Type:           notifType,
				AdminGenerated: true,
				CreatedAt:      now,
			}
		}
	})

	if err := s.notifications.InsertBatch(ctx, rows); err != nil {
		s.logger.Error(ctx, "failed to broadcast notifications", err)
		return 0, fmt.Errorf("broadcast notifications: %w", err)
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "recipients", Value: len(rows)})
	s.logger.Info(ctx, "notification broadcast delivered")
	return len(rows), nil
}

func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]models.Notification, error) {
	return s.notifications.ListForUser(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	return s.notifications.MarkRead(ctx, id)
}
