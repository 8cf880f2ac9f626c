package repository

import (
	"context"

	"github.com/optiplan/optiplan/models"
	"github.com/optiplan/optiplan/utils"
	"gorm.io/gorm"
)

// CampaignRepositoryImpl implements the CampaignRepository interface
type CampaignRepositoryImpl struct {
	*BaseRepository[models.Campaign, models.CampaignFilter]
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *gorm.DB) CampaignRepository {
	return &CampaignRepositoryImpl{
		BaseRepository: NewBaseRepository[models.Campaign, models.CampaignFilter](db),
	}
}

// ByUUID retrieves a catalog campaign by UUID
func (r *CampaignRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.Campaign, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.CampaignFilter{UUID: &parsedUUID}
	campaigns, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(campaigns) == 0 {
		return nil, nil
	}

	return campaigns[0], nil
}

// ListActive retrieves active catalog campaigns in display order
func (r *CampaignRepositoryImpl) ListActive(ctx context.Context, limit, offset int) ([]*models.Campaign, error) {
	filter := models.CampaignFilter{IsActive: utils.ToPtr(true)}
	return r.ByFilter(ctx, filter, "sort_order ASC, name ASC", limit, offset)
}

// ListByTier retrieves active catalog campaigns of one tier
func (r *CampaignRepositoryImpl) ListByTier(ctx context.Context, tier models.CampaignTier) ([]*models.Campaign, error) {
	filter := models.CampaignFilter{
		Tier:     &tier,
		IsActive: utils.ToPtr(true),
	}
	return r.ByFilter(ctx, filter, "sort_order ASC, name ASC", 0, 0)
}

// ByFilter retrieves catalog campaigns based on filter criteria
func (r *CampaignRepositoryImpl) ByFilter(ctx context.Context, filter models.CampaignFilter, orderBy string, limit, offset int) ([]*models.Campaign, error) {
	db := r.getDB(ctx)

	var campaigns []*models.Campaign
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

	err := query.Find(&campaigns).Error
	if err != nil {
		return nil, err
	}

	return campaigns, nil
}

// Count returns the number of catalog campaigns matching the filter
func (r *CampaignRepositoryImpl) Count(ctx context.Context, filter models.CampaignFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.Campaign{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *CampaignRepositoryImpl) applyFilter(db *gorm.DB, filter models.CampaignFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.Category != nil {
		db = db.Where("category = ?", *filter.Category)
	}
	if filter.Tier != nil {
		db = db.Where("tier = ?", *filter.Tier)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}

	return db
}

// BespokeCampaignRepositoryImpl implements the BespokeCampaignRepository interface
type BespokeCampaignRepositoryImpl struct {
	*BaseRepository[models.BespokeCampaign, models.BespokeCampaignFilter]
}

// NewBespokeCampaignRepository creates a new bespoke campaign repository
func NewBespokeCampaignRepository(db *gorm.DB) BespokeCampaignRepository {
	return &BespokeCampaignRepositoryImpl{
		BaseRepository: NewBaseRepository[models.BespokeCampaign, models.BespokeCampaignFilter](db),
	}
}

// ByUUID retrieves a bespoke campaign by UUID
func (r *BespokeCampaignRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.BespokeCampaign, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.BespokeCampaignFilter{UUID: &parsedUUID}
	campaigns, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(campaigns) == 0 {
		return nil, nil
	}

	return campaigns[0], nil
}

// ListByPractice retrieves the active bespoke campaigns created for a practice
func (r *BespokeCampaignRepositoryImpl) ListByPractice(ctx context.Context, practiceID uint) ([]*models.BespokeCampaign, error) {
	filter := models.BespokeCampaignFilter{
		PracticeID: &practiceID,
		IsActive:   utils.ToPtr(true),
	}
	return r.ByFilter(ctx, filter, "created_at DESC", 0, 0)
}

// ByFilter retrieves bespoke campaigns based on filter criteria
func (r *BespokeCampaignRepositoryImpl) ByFilter(ctx context.Context, filter models.BespokeCampaignFilter, orderBy string, limit, offset int) ([]*models.BespokeCampaign, error) {
	db := r.getDB(ctx)

	var campaigns []*models.BespokeCampaign
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

	err := query.Find(&campaigns).Error
	if err != nil {
		return nil, err
	}

	return campaigns, nil
}

// Count returns the number of bespoke campaigns matching the filter
func (r *BespokeCampaignRepositoryImpl) Count(ctx context.Context, filter models.BespokeCampaignFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.BespokeCampaign{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *BespokeCampaignRepositoryImpl) applyFilter(db *gorm.DB, filter models.BespokeCampaignFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("uuid = ?", *filter.UUID)
	}
	if filter.PracticeID != nil {
		db = db.Where("practice_id = ?", *filter.PracticeID)
	}
	if filter.IsActive != nil {
		db = db.Where("is_active = ?", *filter.IsActive)
	}

	return db
}
