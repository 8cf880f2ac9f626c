package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/optiplan/optiplan/utils"
	"gorm.io/gorm"
)

// NotificationKind mirrors the workflow event that raised the notification
type NotificationKind string

const (
	NotificationKindAssetsRequested   NotificationKind = "assets_requested"
	NotificationKindAssetsSubmitted   NotificationKind = "assets_submitted"
	NotificationKindAssetsConfirmed   NotificationKind = "assets_confirmed"
	NotificationKindRevisionRequested NotificationKind = "revision_requested"
	NotificationKindPlannerDigest     NotificationKind = "planner_digest"
)

// Notification is an in-app message for one user about one workflow event
type Notification struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:uk_notifications_uuid" json:"uuid"`
	UserID      uint             `gorm:"not null;index:idx_notifications_user_id" json:"user_id"`
	SelectionID *uint            `gorm:"index:idx_notifications_selection_id" json:"selection_id,omitempty"`
	Kind        NotificationKind `gorm:"size:32;not null" json:"kind"`
	Title       string           `gorm:"size:255;not null" json:"title"`
	Body        string           `gorm:"type:text;not null" json:"body"`
	ReadAt      *time.Time       `gorm:"index:idx_notifications_read_at" json:"read_at,omitempty"`
	CreatedAt   time.Time        `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_notifications_created_at" json:"created_at"`

	// Relations
	User      *User      `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
	Selection *Selection `gorm:"foreignKey:SelectionID;references:ID" json:"selection,omitempty"`
}

// TableName returns the table name for the model
func (Notification) TableName() string {
	return "notifications"
}

// BeforeCreate is called before creating a new record
func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.UUID == uuid.Nil {
		n.UUID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = utils.UTCNow()
	}
	return nil
}

// IsRead checks if the notification has been read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}

// NotificationFilter represents filter criteria for notifications
type NotificationFilter struct {
	ID            *uint             `json:"id,omitempty"`
	UUID          *uuid.UUID        `json:"uuid,omitempty"`
	UserID        *uint             `json:"user_id,omitempty"`
	SelectionID   *uint             `json:"selection_id,omitempty"`
	Kind          *NotificationKind `json:"kind,omitempty"`
	Unread        *bool             `json:"unread,omitempty"`
	CreatedAfter  *time.Time        `json:"created_after,omitempty"`
	CreatedBefore *time.Time        `json:"created_before,omitempty"`
}
