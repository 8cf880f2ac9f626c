// Package repository provides data access layer implementations and interfaces for database operations
package repository

import (
	"context"
	"time"

	"github.com/optiplan/optiplan/models"
)

// RepositoryContext key for transaction in context
type contextKey string

const TxContextKey contextKey = "tx"

// TxManager runs a function inside a database transaction carried in the
// context, so every repository call made by the function joins the same
// transaction.
type TxManager interface {
	Do(ctx context.Context, fn func(context.Context) error) error
}

type Repository[T any, F any] interface {
	ByID(ctx context.Context, id uint) (*T, error)
	ByFilter(ctx context.Context, filter F, orderBy string, limit, offset int) ([]*T, error)
	Save(ctx context.Context, entity *T) error
	SaveBatch(ctx context.Context, entities []*T) error
	Count(ctx context.Context, filter F) (int64, error)
}

// PracticeRepository defines operations for practices
type PracticeRepository interface {
	Repository[models.Practice, models.PracticeFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Practice, error)
	ByCode(ctx context.Context, code string) (*models.Practice, error)
	ListActive(ctx context.Context, limit, offset int) ([]*models.Practice, error)
}

// UserRepository defines operations for practice-side users
type UserRepository interface {
	Repository[models.User, models.UserFilter]
	ByUUID(ctx context.Context, uuid string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByIDs(ctx context.Context, ids []uint) ([]*models.User, error)
	ListByPractice(ctx context.Context, practiceID uint) ([]*models.User, error)
	ListPlanners(ctx context.Context) ([]*models.User, error)
	UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error
}

// AdminRepository defines operations for marketing-team administrators
type AdminRepository interface {
	Repository[models.Admin, models.AdminFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Admin, error)
	ByEmail(ctx context.Context, email string) (*models.Admin, error)
	UpdateLastLogin(ctx context.Context, adminID uint, at time.Time) error
}

// CampaignRepository defines operations for catalog campaigns
type CampaignRepository interface {
	Repository[models.Campaign, models.CampaignFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Campaign, error)
	ListActive(ctx context.Context, limit, offset int) ([]*models.Campaign, error)
	ListByTier(ctx context.Context, tier models.CampaignTier) ([]*models.Campaign, error)
}

// BespokeCampaignRepository defines operations for practice-specific campaigns
type BespokeCampaignRepository interface {
	Repository[models.BespokeCampaign, models.BespokeCampaignFilter]
	ByUUID(ctx context.Context, uuid string) (*models.BespokeCampaign, error)
	ListByPractice(ctx context.Context, practiceID uint) ([]*models.BespokeCampaign, error)
}

// SelectionRepository defines operations for plan selections
type SelectionRepository interface {
	Repository[models.Selection, models.SelectionFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Selection, error)
	ListByPractice(ctx context.Context, practiceID uint, limit, offset int) ([]*models.Selection, error)
	ListByStatus(ctx context.Context, status models.SelectionStatus, limit, offset int) ([]*models.Selection, error)
	ListUpcoming(ctx context.Context, from, to time.Time) ([]*models.Selection, error)
	Update(ctx context.Context, selection models.Selection) error
	Delete(ctx context.Context, id uint) error
}

// CommunicationLogRepository defines operations for the append-only
// workflow log. There are no update or delete operations.
type CommunicationLogRepository interface {
	Repository[models.CommunicationLog, models.CommunicationLogFilter]
	ListBySelection(ctx context.Context, selectionID uint) ([]*models.CommunicationLog, error)
}

// NotificationRepository defines operations for in-app notifications
type NotificationRepository interface {
	Repository[models.Notification, models.NotificationFilter]
	ByUUID(ctx context.Context, uuid string) (*models.Notification, error)
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, id uint, at time.Time) error
}

// AuditLogRepository defines operations for audit logs
type AuditLogRepository interface {
	Repository[models.AuditLog, models.AuditLogFilter]
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]*models.AuditLog, error)
	ListByAction(ctx context.Context, action string, limit, offset int) ([]*models.AuditLog, error)
	ListFailedActions(ctx context.Context, limit, offset int) ([]*models.AuditLog, error)
}
