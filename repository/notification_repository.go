package repository

import (
	"context"
	"time"

	"github.com/optiplan/optiplan/models"
	"github.com/optiplan/optiplan/utils"
	"gorm.io/gorm"
)

// NotificationRepositoryImpl implements the NotificationRepository interface
type NotificationRepositoryImpl struct {
	*BaseRepository[models.Notification, models.NotificationFilter]
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &NotificationRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Notification, models.NotificationFilter](db),
	}
}

// ByUUID retrieves a notification by UUID
func (r *NotificationRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Notification, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.NotificationFilter{UUID: &parsedUUID}
	notifications, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(notifications) == 0 {
		return nil, nil
	}

	return notifications[0], nil
}

// ListByUser retrieves a user's notifications, newest first
func (r *NotificationRepositoryImpl) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error) {
	filter := models.NotificationFilter{UserID: &userID}
	return r.ByFilter(ctx, filter, "created_at DESC, id DESC", limit, offset)
}

// CountUnread counts a user's unread notifications
func (r *NotificationRepositoryImpl) CountUnread(ctx context.Context, userID uint) (int64, error) {
	filter := models.NotificationFilter{
		UserID: &userID,
		Unread: utils.ToPtr(true),
	}
	return r.Count(ctx, filter)
}

// MarkRead stamps read_at on an unread notification. Marking an already
// read notification is a no-op, keeping the original read time.
func (r *NotificationRepositoryImpl) MarkRead(ctx context.Context, id uint, at time.Time) error {
	db := r.getDB(ctx)
	return db.Model(&models.Notification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", at).Error
}

// ByFilter retrieves notifications based on filter criteria
func (r *NotificationRepositoryImpl) ByFilter(ctx context.Context, filter models.NotificationFilter, orderBy string, limit, offset int) ([]*models.Notification, error) {
	db := r.getDB(ctx)

	var notifications []*models.Notification
	query := r.applyFilter(db, filter)

	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	err := query.Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	return notifications, nil
}

// Count returns the number of notifications matching the filter
func (r *NotificationRepositoryImpl) Count(ctx context.Context, filter models.NotificationFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Notification{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *NotificationRepositoryImpl) applyFilter(db *gorm.DB, filter models.NotificationFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.UserID != nil {
		db = db.Where("user_id = ?", *filter.UserID)
	}
	if filter.SelectionID != nil {
		db = db.Where("selection_id = ?", *filter.SelectionID)
	}
	if filter.Kind != nil {
		db = db.Where("kind = ?", *filter.Kind)
	}
	if filter.Unread != nil {
		if *filter.Unread {
			db = db.Where("read_at IS NULL")
		} else {
			db = db.Where("read_at IS NOT NULL")
		}
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
