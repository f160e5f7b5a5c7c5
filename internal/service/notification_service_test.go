package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pujakart/promotion-service/internal/observability"
	"github.com/pujakart/promotion-service/internal/service"
	"github.com/pujakart/promotion-service/internal/testutil"
)

func newNotificationService() (*service.NotificationService, *testutil.InMemoryNotificationStore) {
	store := testutil.NewInMemoryNotificationStore()
	return service.NewNotificationService(store, observability.NewLogger()), store
}

func TestBroadcastReachesEachRecipientOnce(t *testing.T) {
	svc, store := newNotificationService()

	sent, err := svc.Broadcast(context.Background(),
		[]string{"u1", "u2", "u1", "", "u3"},
		"Navratri offers", "Festival discounts are live", "promo")
	require.NoError(t, err)
	assert.Equal(t, 3, sent)

	rows := store.All()
	require.Len(t, rows, 3)
	seen := make(map[string]bool)
	for _, n := range rows {
		assert.NotEmpty(t, n.ID)
		assert.Equal(t, "Navratri offers", n.Title)
		assert.Equal(t, "Festival discounts are live", n.Message)
		assert.Equal(t, "promo", n.Type)
		assert.True(t, n.AdminGenerated)
		assert.False(t, n.Read)
		assert.False(t, seen[n.UserID])
		seen[n.UserID] = true
	}
}

func TestBroadcastRequiresRecipientsAndTitle(t *testing.T) {
	svc, _ := newNotificationService()
	ctx := context.Background()

	_, err := svc.Broadcast(ctx, nil, "title", "msg", "")
	assert.ErrorIs(t, err, service.ErrNoRecipients)

	_, err = svc.Broadcast(ctx, []string{"u1"}, "  ", "msg", "")
	assert.ErrorIs(t, err, service.ErrTitleEmpty)
}

func TestBroadcastStoreFailureDeliversNothing(t *testing.T) {
	svc, store := newNotificationService()
	store.Err = errors.New("store unavailable")

	_, err := svc.Broadcast(context.Background(), []string{"u1", "u2"}, "title", "msg", "")
	require.Error(t, err)

	store.Err = nil
	assert.Empty(t, store.All())
}

func TestMarkReadAndList(t *testing.T) {
	svc, store := newNotificationService()
	ctx := context.Background()

	_, err := svc.Broadcast(ctx, []string{"u1"}, "title", "msg", "")
	require.NoError(t, err)

	rows := store.All()
	require.Len(t, rows, 1)

	require.NoError(t, svc.MarkRead(ctx, rows[0].ID))

	listed, err := svc.ListForUser(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.True(t, listed[0].Read)
}
