package businessflow

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/optiplan/optiplan/app/dto"
	"github.com/optiplan/optiplan/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedNotification(t *testing.T, repo *fakeNotificationRepo, userID uint, kind models.NotificationKind) *models.Notification {
	t.Helper()
	n := &models.Notification{
		UserID: userID,
		Kind:   kind,
		Title:  "Test notification",
		Body:   "Something happened on your plan",
	}
	require.NoError(t, repo.Save(context.Background(), n))
	return n
}

func TestListNotifications(t *testing.T) {
	ctx := context.Background()
	notifs := &fakeNotificationRepo{}
	flow := NewNotificationFlow(notifs, &fakeAuditRepo{}, nil)

	seedNotification(t, notifs, 1, models.NotificationKindAssetsRequested)
	seedNotification(t, notifs, 1, models.NotificationKindAssetsConfirmed)
	seedNotification(t, notifs, 2, models.NotificationKindAssetsRequested)

	resp, err := flow.ListNotifications(ctx, &dto.ListNotificationsRequest{UserID: 1}, testMetadata())
	require.NoError(t, err)

	assert.Equal(t, int64(2), resp.Total)
	assert.Equal(t, int64(2), resp.UnreadCount)
	require.Len(t, resp.Notifications, 2)
	// Newest first
	assert.Equal(t, string(models.NotificationKindAssetsConfirmed), resp.Notifications[0].Kind)
}

func TestMarkNotificationRead(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		notifs := &fakeNotificationRepo{}
		audit := &fakeAuditRepo{}
		flow := NewNotificationFlow(notifs, audit, nil)

		n := seedNotification(t, notifs, 1, models.NotificationKindAssetsRequested)
		seedNotification(t, notifs, 1, models.NotificationKindAssetsConfirmed)

		resp, err := flow.MarkNotificationRead(ctx, &dto.MarkNotificationReadRequest{
			UserID:           1,
			NotificationUUID: n.UUID.String(),
		}, testMetadata())
		require.NoError(t, err)

		assert.Equal(t, n.UUID.String(), resp.UUID)
		assert.Equal(t, int64(1), resp.UnreadCount)

		stored, err := notifs.ByID(ctx, n.ID)
		require.NoError(t, err)
		assert.NotNil(t, stored.ReadAt)

		entry := audit.last()
		require.NotNil(t, entry)
		assert.Equal(t, models.AuditActionNotificationRead, entry.Action)
	})

	t.Run("AlreadyReadKeepsTimestamp", func(t *testing.T) {
		notifs := &fakeNotificationRepo{}
		flow := NewNotificationFlow(notifs, &fakeAuditRepo{}, nil)

		n := seedNotification(t, notifs, 1, models.NotificationKindAssetsRequested)

		_, err := flow.MarkNotificationRead(ctx, &dto.MarkNotificationReadRequest{
			UserID: 1, NotificationUUID: n.UUID.String(),
		}, testMetadata())
		require.NoError(t, err)

		first, err := notifs.ByID(ctx, n.ID)
		require.NoError(t, err)
		readAt := *first.ReadAt

		_, err = flow.MarkNotificationRead(ctx, &dto.MarkNotificationReadRequest{
			UserID: 1, NotificationUUID: n.UUID.String(),
		}, testMetadata())
		require.NoError(t, err)

		second, err := notifs.ByID(ctx, n.ID)
		require.NoError(t, err)
		assert.Equal(t, readAt, *second.ReadAt)
	})

	t.Run("OtherUsersNotification", func(t *testing.T) {
		notifs := &fakeNotificationRepo{}
		flow := NewNotificationFlow(notifs, &fakeAuditRepo{}, nil)

		n := seedNotification(t, notifs, 2, models.NotificationKindAssetsRequested)

		_, err := flow.MarkNotificationRead(ctx, &dto.MarkNotificationReadRequest{
			UserID: 1, NotificationUUID: n.UUID.String(),
		}, testMetadata())
		assert.True(t, IsNotificationAccessDenied(err))
	})

	t.Run("NotFound", func(t *testing.T) {
		flow := NewNotificationFlow(&fakeNotificationRepo{}, &fakeAuditRepo{}, nil)

		_, err := flow.MarkNotificationRead(ctx, &dto.MarkNotificationReadRequest{
			UserID: 1, NotificationUUID: uuid.NewString(),
		}, testMetadata())
		assert.True(t, IsNotificationNotFound(err))
	})
}

func TestUnreadCount(t *testing.T) {
	ctx := context.Background()
	notifs := &fakeNotificationRepo{}
	flow := NewNotificationFlow(notifs, &fakeAuditRepo{}, nil)

	seedNotification(t, notifs, 1, models.NotificationKindAssetsRequested)
	read := seedNotification(t, notifs, 1, models.NotificationKindAssetsConfirmed)
	require.NoError(t, notifs.MarkRead(ctx, read.ID, read.CreatedAt))

	resp, err := flow.UnreadCount(ctx, &dto.UnreadCountRequest{UserID: 1}, testMetadata())
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.UnreadCount)
}
