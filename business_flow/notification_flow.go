package businessflow

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/optiplan/optiplan/app/dto"
	"github.com/optiplan/optiplan/models"
	"github.com/optiplan/optiplan/repository"
	"github.com/optiplan/optiplan/utils"
	"github.com/redis/go-redis/v9"
)

const unreadCountTTL = 5 * time.Minute

// UnreadCountCacheKey is the cache key for a user's unread notification
// count. Anything that appends notifications must invalidate it.
func UnreadCountCacheKey(userID uint) string {
	return fmt.Sprintf("optiplan:notifications:unread:%d", userID)
}

func unreadCountKey(userID uint) string {
	return UnreadCountCacheKey(userID)
}

// NotificationFlow handles in-app notifications for practice users
type NotificationFlow interface {
	ListNotifications(ctx context.Context, req *dto.ListNotificationsRequest, metadata *ClientMetadata) (*dto.ListNotificationsResponse, error)
	MarkNotificationRead(ctx context.Context, req *dto.MarkNotificationReadRequest, metadata *ClientMetadata) (*dto.MarkNotificationReadResponse, error)
	UnreadCount(ctx context.Context, req *dto.UnreadCountRequest, metadata *ClientMetadata) (*dto.UnreadCountResponse, error)
}

// NotificationFlowImpl implements the notification business flow
type NotificationFlowImpl struct {
	notificationRepo repository.NotificationRepository
	auditRepo        repository.AuditLogRepository
	rc               *redis.Client
}

// NewNotificationFlow creates a new notification flow instance
func NewNotificationFlow(
	notificationRepo repository.NotificationRepository,
	auditRepo repository.AuditLogRepository,
	rc *redis.Client,
) NotificationFlow {
	return &NotificationFlowImpl{
		notificationRepo: notificationRepo,
		auditRepo:        auditRepo,
		rc:               rc,
	}
}

// ListNotifications returns a user's notifications, newest first
func (s *NotificationFlowImpl) ListNotifications(ctx context.Context, req *dto.ListNotificationsRequest, metadata *ClientMetadata) (*dto.ListNotificationsResponse, error) {
	page, pageSize := normalizePaging(req.Page, req.PageSize)

	notifications, err := s.notificationRepo.ListByUser(ctx, req.UserID, pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_LOOKUP_FAILED", "Failed to list notifications", err)
	}

	filter := models.NotificationFilter{UserID: &req.UserID}
	total, err := s.notificationRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_LOOKUP_FAILED", "Failed to count notifications", err)
	}

	unread, err := s.unreadCount(ctx, req.UserID)
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_LOOKUP_FAILED", "Failed to count unread notifications", err)
	}

	out := make([]dto.NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, ToNotificationDTO(*n))
	}

	return &dto.ListNotificationsResponse{
		Message:       "Notifications retrieved successfully",
		Notifications: out,
		Total:         total,
		UnreadCount:   unread,
	}, nil
}

// MarkNotificationRead stamps read_at on one of the user's notifications.
// Marking an already read notification keeps its original read time.
func (s *NotificationFlowImpl) MarkNotificationRead(ctx context.Context, req *dto.MarkNotificationReadRequest, metadata *ClientMetadata) (*dto.MarkNotificationReadResponse, error) {
	notification, err := s.notificationRepo.ByUUID(ctx, req.NotificationUUID)
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_LOOKUP_FAILED", "Failed to lookup notification", err)
	}
	if notification == nil {
		return nil, NewBusinessError("NOTIFICATION_NOT_FOUND", "Notification not found", ErrNotificationNotFound)
	}
	if notification.UserID != req.UserID {
		return nil, NewBusinessError("NOTIFICATION_ACCESS_DENIED", "Notification belongs to another user", ErrNotificationAccessDenied)
	}

	if !notification.IsRead() {
		if err := s.notificationRepo.MarkRead(ctx, notification.ID, utils.UTCNow()); err != nil {
			return nil, NewBusinessError("NOTIFICATION_UPDATE_FAILED", "Failed to mark notification as read", err)
		}
		if s.rc != nil {
			s.rc.Del(ctx, unreadCountKey(req.UserID))
		}
		_ = s.auditRepo.Save(ctx, newAuditLogForUser(ctx, req.UserID, models.AuditActionNotificationRead,
			fmt.Sprintf("Notification read: %s", notification.UUID), metadata))
	}

	unread, err := s.unreadCount(ctx, req.UserID)
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_LOOKUP_FAILED", "Failed to count unread notifications", err)
	}

	return &dto.MarkNotificationReadResponse{
		Message:     "Notification marked as read",
		UUID:        notification.UUID.String(),
		UnreadCount: unread,
	}, nil
}

// UnreadCount returns the user's unread notification count
func (s *NotificationFlowImpl) UnreadCount(ctx context.Context, req *dto.UnreadCountRequest, metadata *ClientMetadata) (*dto.UnreadCountResponse, error) {
	unread, err := s.unreadCount(ctx, req.UserID)
	if err != nil {
		return nil, NewBusinessError("NOTIFICATION_LOOKUP_FAILED", "Failed to count unread notifications", err)
	}

	return &dto.UnreadCountResponse{
		Message:     "Unread count retrieved successfully",
		UnreadCount: unread,
	}, nil
}

// unreadCount reads the cached counter, falling back to the database on a
// miss or a cache error
func (s *NotificationFlowImpl) unreadCount(ctx context.Context, userID uint) (int64, error) {
	if s.rc != nil {
		if cached, err := s.rc.Get(ctx, unreadCountKey(userID)).Result(); err == nil {
			if count, parseErr := strconv.ParseInt(cached, 10, 64); parseErr == nil {
				return count, nil
			}
		}
	}

	count, err := s.notificationRepo.CountUnread(ctx, userID)
	if err != nil {
		return 0, err
	}

	if s.rc != nil {
		s.rc.Set(ctx, unreadCountKey(userID), strconv.FormatInt(count, 10), unreadCountTTL)
	}

	return count, nil
}

// newAuditLogForUser builds a success audit entry attributed to a user
func newAuditLogForUser(ctx context.Context, userID uint, action, description string, metadata *ClientMetadata) *models.AuditLog {
	audit := newAuditLog(ctx, action, description, true, nil, metadata)
	audit.UserID = &userID
	return audit
}
