package repository

import (
	"context"

	"github.com/optiplan/optiplan/models"
	"gorm.io/gorm"
)

// CommunicationLogRepositoryImpl implements the CommunicationLogRepository
// interface. The log is append-only, so only Save and read operations exist.
type CommunicationLogRepositoryImpl struct {
	*BaseRepository[models.CommunicationLog, models.CommunicationLogFilter]
}

// NewCommunicationLogRepository creates a new communication log repository
func NewCommunicationLogRepository(db *gorm.DB) CommunicationLogRepository {
	return &CommunicationLogRepositoryImpl{
		BaseRepository: NewBaseRepository[models.CommunicationLog, models.CommunicationLogFilter](db),
	}
}

// ListBySelection retrieves the full log for one selection, oldest first
func (r *CommunicationLogRepositoryImpl) ListBySelection(ctx context.Context, selectionID uint) ([]*models.CommunicationLog, error) {
	filter := models.CommunicationLogFilter{SelectionID: &selectionID}
	return r.ByFilter(ctx, filter, "created_at ASC, id ASC", 0, 0)
}

// ByFilter retrieves log entries based on filter criteria
func (r *CommunicationLogRepositoryImpl) ByFilter(ctx context.Context, filter models.CommunicationLogFilter, orderBy string, limit, offset int) ([]*models.CommunicationLog, error) {
	db := r.getDB(ctx)

	var entries []*models.CommunicationLog
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

	err := query.Find(&entries).Error
	if err != nil {
		return nil, err
	}

	return entries, nil
}

// Count returns the number of log entries matching the filter
func (r *CommunicationLogRepositoryImpl) Count(ctx context.Context, filter models.CommunicationLogFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.CommunicationLog{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *CommunicationLogRepositoryImpl) applyFilter(db *gorm.DB, filter models.CommunicationLogFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.SelectionID != nil {
		db = db.Where("selection_id = ?", *filter.SelectionID)
	}
	if filter.Event != nil {
		db = db.Where("event = ?", *filter.Event)
	}
	if filter.ActorType != nil {
		db = db.Where("actor_type = ?", *filter.ActorType)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
