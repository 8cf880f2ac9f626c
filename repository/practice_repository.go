package repository

import (
	"context"

	"github.com/optiplan/optiplan/models"
	"github.com/optiplan/optiplan/utils"
	"gorm.io/gorm"
)

// PracticeRepositoryImpl implements the PracticeRepository interface
type PracticeRepositoryImpl struct {
	*BaseRepository[models.Practice, models.PracticeFilter]
}

// NewPracticeRepository creates a new practice repository
func NewPracticeRepository(db *gorm.DB) PracticeRepository {
	return &PracticeRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Practice, models.PracticeFilter](db),
	}
}

// ByUUID retrieves a practice by UUID
func (r *PracticeRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Practice, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.PracticeFilter{UUID: &parsedUUID}
	practices, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(practices) == 0 {
		return nil, nil
	}

	return practices[0], nil
}

// ByCode retrieves a practice by its unique code
func (r *PracticeRepositoryImpl) ByCode(ctx context.Context, code string) (*models.Practice, error) {
	filter := models.PracticeFilter{Code: &code}
	practices, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(practices) == 0 {
		return nil, nil
	}

	return practices[0], nil
}

// ListActive retrieves active practices with pagination
func (r *PracticeRepositoryImpl) ListActive(ctx context.Context, limit, offset int) ([]*models.Practice, error) {
	filter := models.PracticeFilter{IsActive: utils.ToPtr(true)}
	return r.ByFilter(ctx, filter, "name ASC", limit, offset)
}

// ByFilter retrieves practices based on filter criteria
func (r *PracticeRepositoryImpl) ByFilter(ctx context.Context, filter models.PracticeFilter, orderBy string, limit, offset int) ([]*models.Practice, error) {
	db := r.getDB(ctx)

	var practices []*models.Practice
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

	err := query.Find(&practices).Error
	if err != nil {
		return nil, err
	}

	return practices, nil
}

// Count returns the number of practices matching the filter
func (r *PracticeRepositoryImpl) Count(ctx context.Context, filter models.PracticeFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Practice{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *PracticeRepositoryImpl) applyFilter(db *gorm.DB, filter models.PracticeFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Code != nil {
		db = db.Where("code = ?", *filter.Code)
	}
	if filter.Name != nil {
		db = db.Where("name ILIKE ?", "%"+*filter.Name+"%")
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}

	return db
}
