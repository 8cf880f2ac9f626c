package repository

import (
	"context"
	"errors"
	"time"

	"github.com/optiplan/optiplan/models"
	"github.com/optiplan/optiplan/utils"
	"gorm.io/gorm"
)

// SelectionRepositoryImpl implements the SelectionRepository interface
type SelectionRepositoryImpl struct {
	*BaseRepository[models.Selection, models.SelectionFilter]
}

// NewSelectionRepository creates a new selection repository
func NewSelectionRepository(db *gorm.DB) SelectionRepository {
	return &SelectionRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Selection, models.SelectionFilter](db),
	}
}

// ByID retrieves a selection by ID with campaign relations preloaded
func (r *SelectionRepositoryImpl) ByID(ctx context.Context, id uint) (*models.Selection, error) {
	db := r.getDB(ctx)

	var selection models.Selection
	err := db.Preload("Practice").
		Preload("Campaign").
		Preload("BespokeCampaign").
		Last(&selection, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &selection, nil
}

// ByUUID retrieves a selection by UUID
func (r *SelectionRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Selection, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.SelectionFilter{UUID: &parsedUUID}
	selections, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(selections) == 0 {
		return nil, nil
	}

	return selections[0], nil
}

// ListByPractice retrieves a practice's plan ordered by start date
func (r *SelectionRepositoryImpl) ListByPractice(ctx context.Context, practiceID uint, limit, offset int) ([]*models.Selection, error) {
	filter := models.SelectionFilter{PracticeID: &practiceID}
	return r.ByFilter(ctx, filter, "from_date ASC, id ASC", limit, offset)
}

// ListByStatus retrieves selections in one workflow status
func (r *SelectionRepositoryImpl) ListByStatus(ctx context.Context, status models.SelectionStatus, limit, offset int) ([]*models.Selection, error) {
	filter := models.SelectionFilter{Status: &status}
	return r.ByFilter(ctx, filter, "from_date ASC, id ASC", limit, offset)
}

// ListUpcoming retrieves selections starting inside the given window
func (r *SelectionRepositoryImpl) ListUpcoming(ctx context.Context, from, to time.Time) ([]*models.Selection, error) {
	filter := models.SelectionFilter{
		FromAfter:  &from,
		FromBefore: &to,
	}
	return r.ByFilter(ctx, filter, "from_date ASC, id ASC", 0, 0)
}

// Update persists a modified selection
func (r *SelectionRepositoryImpl) Update(ctx context.Context, selection models.Selection) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	now := utils.UTCNow()
	selection.UpdatedAt = &now

	err = db.Save(&selection).Error
	if err != nil {
		return err
	}

	return nil
}

// Delete removes a selection. Workflow rules around removability are
// enforced by the caller.
func (r *SelectionRepositoryImpl) Delete(ctx context.Context, id uint) error {
	db, shouldCommit, err := r.getDBForWrite(ctx)
	if err != nil {
		return err
	}

	if shouldCommit {
		defer func() {
			if err != nil {
				db.Rollback()
			} else {
				db.Commit()
			}
		}()
	}

	err = db.Delete(&models.Selection{}, id).Error
	if err != nil {
		return err
	}

	return nil
}

// ByFilter retrieves selections based on filter criteria
func (r *SelectionRepositoryImpl) ByFilter(ctx context.Context, filter models.SelectionFilter, orderBy string, limit, offset int) ([]*models.Selection, error) {
	db := r.getDB(ctx)

	var selections []*models.Selection
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

	query = query.Preload("Practice").
		Preload("Campaign").
		Preload("BespokeCampaign")

	err := query.Find(&selections).Error
	if err != nil {
		return nil, err
	}

	return selections, nil
}

// Count returns the number of selections matching the filter
func (r *SelectionRepositoryImpl) Count(ctx context.Context, filter models.SelectionFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Selection{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *SelectionRepositoryImpl) applyFilter(db *gorm.DB, filter models.SelectionFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.PracticeID != nil {
		db = db.Where("practice_id = ?", *filter.PracticeID)
	}
	if filter.CampaignID != nil {
		db = db.Where("campaign_id = ?", *filter.CampaignID)
	}
	if filter.BespokeCampaignID != nil {
		db = db.Where("bespoke_campaign_id = ?", *filter.BespokeCampaignID)
	}
	if filter.Status != nil {
		db = db.Where("status = ?", *filter.Status)
	}
	if filter.Bespoke != nil {
		db = db.Where("bespoke = ?", *filter.Bespoke)
	}
	if filter.FromAfter != nil {
		db = db.Where("from_date >= ?", *filter.FromAfter)
	}
	if filter.FromBefore != nil {
		db = db.Where("from_date < ?", *filter.FromBefore)
	}
	if filter.ToAfter != nil {
		db = db.Where("to_date >= ?", *filter.ToAfter)
	}
	if filter.ToBefore != nil {
		db = db.Where("to_date < ?", *filter.ToBefore)
	}
	if filter.CreatedAfter != nil {
		db = db.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		db = db.Where("created_at < ?", *filter.CreatedBefore)
	}

	return db
}
