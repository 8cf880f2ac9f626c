package repository

import (
	"context"
	"errors"
	"time"

	"github.com/optiplan/optiplan/models"
	"github.com/optiplan/optiplan/utils"
	"gorm.io/gorm"
)

// UserRepositoryImpl implements the UserRepository interface
type UserRepositoryImpl struct {
	*BaseRepository[models.User, models.UserFilter]
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &UserRepositoryImpl{
		BaseRepository: NewBaseRepository[models.User, models.UserFilter](db),
	}
}

// ByID retrieves a user by ID with practices preloaded
func (r *UserRepositoryImpl) ByID(ctx context.Context, id uint) (*models.User, error) {
	db := r.getDB(ctx)

	var user models.User
	err := db.Preload("Practices").Last(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

// ByUUID retrieves a user by UUID
func (r *UserRepositoryImpl) ByUUID(ctx context.Context, uuid string) (*models.User, error) {
	parsedUUID, err := utils.ParseUUID(uuid)
	if err != nil {
		return nil, err
	}

	filter := models.UserFilter{UUID: &parsedUUID}
	users, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(users) == 0 {
		return nil, nil
	}

	return users[0], nil
}

// ByEmail retrieves a user by email
func (r *UserRepositoryImpl) ByEmail(ctx context.Context, email string) (*models.User, error) {
	filter := models.UserFilter{Email: &email}
	users, err := r.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return nil, err
	}

	if len(users) == 0 {
		return nil, nil
	}

	return users[0], nil
}

// ByIDs retrieves users by a set of IDs
func (r *UserRepositoryImpl) ByIDs(ctx context.Context, ids []uint) ([]*models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	db := r.getDB(ctx)

	var users []*models.User
	err := db.Preload("Practices").Where("id IN ?", ids).Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

// ListByPractice retrieves the active users assigned to a practice
func (r *UserRepositoryImpl) ListByPractice(ctx context.Context, practiceID uint) ([]*models.User, error) {
	filter := models.UserFilter{
		PracticeID: &practiceID,
		IsActive:   utils.ToPtr(true),
	}
	return r.ByFilter(ctx, filter, "users.last_name ASC", 0, 0)
}

// ListPlanners retrieves all active regional planners
func (r *UserRepositoryImpl) ListPlanners(ctx context.Context) ([]*models.User, error) {
	filter := models.UserFilter{
		Role:     utils.ToPtr(models.UserRolePlanner),
		IsActive: utils.ToPtr(true),
	}
	return r.ByFilter(ctx, filter, "users.last_name ASC", 0, 0)
}

// UpdateLastLogin records a successful login time
func (r *UserRepositoryImpl) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	db := r.getDB(ctx)
	return db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_login_at", at).Error
}

// ByFilter retrieves users based on filter criteria
func (r *UserRepositoryImpl) ByFilter(ctx context.Context, filter models.UserFilter, orderBy string, limit, offset int) ([]*models.User, error) {
	db := r.getDB(ctx)

	var users []*models.User
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

	query = query.Preload("Practices")

	err := query.Find(&users).Error
	if err != nil {
		return nil, err
	}

	return users, nil
}

// Count returns the number of users matching the filter
func (r *UserRepositoryImpl) Count(ctx context.Context, filter models.UserFilter) (int64, error) {
	db := r.getDB(ctx)

	var count int64
	query := r.applyFilter(db.Model(&models.User{}), filter)

	err := query.Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *UserRepositoryImpl) applyFilter(db *gorm.DB, filter models.UserFilter) *gorm.DB {
	if filter.ID != nil {
		db = db.Where("users.id = ?", *filter.ID)
	}
	if filter.UUID != nil {
		db = db.Where("users.uuid = ?", *filter.UUID)
	}
	if filter.Email != nil {
		db = db.Where("users.email = ?", *filter.Email)
	}
	if filter.Role != nil {
		db = db.Where("users.role = ?", *filter.Role)
	}
	if filter.IsActive != nil {
		db = db.Where("users.is_active = ?", *filter.IsActive)
	}
	if filter.PracticeID != nil {
		db = db.Joins("JOIN user_practices ON user_practices.user_id = users.id").
			Where("user_practices.practice_id = ?", *filter.PracticeID)
	}

	return db
}
