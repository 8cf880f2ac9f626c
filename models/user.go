package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/optiplan/optiplan/utils"
	"gorm.io/gorm"
)

// UserRole distinguishes practice staff from regional planners
type UserRole string

const (
	UserRoleStaff   UserRole = "staff"
	UserRolePlanner UserRole = "planner"
)

// Valid checks if the role is valid
func (r UserRole) Valid() bool {
	return r == UserRoleStaff || r == UserRolePlanner
}

// Scan implements the sql.Scanner interface for UserRole
func (r *UserRole) Scan(value any) error {
	if value == nil {
		*r = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*r = UserRole(v)
	case []byte:
		*r = UserRole(string(v))
	default:
		return fmt.Errorf("cannot scan %T into UserRole", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for UserRole
func (r UserRole) Value() (driver.Value, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid UserRole: %s", r)
	}
	return string(r), nil
}

// User represents a practice-side account. A user may belong to several
// practices; planners typically do.
type User struct {
	ID                        uint       `gorm:"primaryKey" json:"id"`
	UUID                      uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_users_uuid" json:"uuid"`
	FirstName                 string     `gorm:"size:100;not null" json:"first_name"`
	LastName                  string     `gorm:"size:100;not null" json:"last_name"`
	Email                     string     `gorm:"size:255;not null;uniqueIndex:uk_users_email" json:"email"`
	PasswordHash              string     `gorm:"size:255;not null" json:"-"`
	Role                      UserRole   `gorm:"type:user_role;not null;default:'staff'" json:"role"`
	EmailNotificationsEnabled bool       `gorm:"not null;default:true" json:"email_notifications_enabled"`
	IsActive                  bool       `gorm:"not null;default:true" json:"is_active"`
	LastLoginAt               *time.Time `json:"last_login_at,omitempty"`
	CreatedAt                 time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt                 *time.Time `json:"updated_at,omitempty"`

	// Relations
	Practices []Practice `gorm:"many2many:user_practices;" json:"practices,omitempty"`
}

// TableName returns the table name for the model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is called before creating a new record
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UUID == uuid.Nil {
		u.UUID = uuid.New()
	}
	if u.Role == "" {
		u.Role = UserRoleStaff
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (u *User) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	u.UpdatedAt = &now
	return nil
}

// FullName returns the user's display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// IsPlanner checks if the user is a regional planner
func (u *User) IsPlanner() bool {
	return u.Role == UserRolePlanner
}

// MemberOf checks if the user is assigned to the given practice
func (u *User) MemberOf(practiceID uint) bool {
	for _, p := range u.Practices {
		if p.ID == practiceID {
			return true
		}
	}
	return false
}

// UserFilter represents filter criteria for users
type UserFilter struct {
	ID         *uint      `json:"id,omitempty"`
	UUID       *uuid.UUID `json:"uuid,omitempty"`
	Email      *string    `json:"email,omitempty"`
	Role       *UserRole  `json:"role,omitempty"`
	IsActive   *bool      `json:"is_active,omitempty"`
	PracticeID *uint      `json:"practice_id,omitempty"`
}
