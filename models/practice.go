// Package models contains domain entities and business models for the
// campaign planner.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/optiplan/optiplan/utils"
	"gorm.io/gorm"
)

// Practice represents one optician practice (a physical location) that
// plans campaigns
type Practice struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	UUID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:uk_practices_uuid" json:"uuid"`
	Name         string     `gorm:"size:255;not null" json:"name"`
	Code         string     `gorm:"size:64;not null;uniqueIndex:uk_practices_code" json:"code"`
	Email        *string    `gorm:"size:255" json:"email,omitempty"`
	Phone        *string    `gorm:"size:32" json:"phone,omitempty"`
	AddressLine1 *string    `gorm:"size:255" json:"address_line1,omitempty"`
	AddressLine2 *string    `gorm:"size:255" json:"address_line2,omitempty"`
	City         *string    `gorm:"size:128" json:"city,omitempty"`
	Postcode     *string    `gorm:"size:16" json:"postcode,omitempty"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`

	// Relations
	Users []User `gorm:"many2many:user_practices;" json:"users,omitempty"`
}

// TableName returns the table name for the model
func (Practice) TableName() string {
	return "practices"
}

// BeforeCreate is called before creating a new record
func (p *Practice) BeforeCreate(tx *gorm.DB) error {
	if p.UUID == uuid.Nil {
		p.UUID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (p *Practice) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	p.UpdatedAt = &now
	return nil
}

// PracticeFilter represents filter criteria for practices
type PracticeFilter struct {
	ID       *uint      `json:"id,omitempty"`
	UUID     *uuid.UUID `json:"uuid,omitempty"`
	Code     *string    `json:"code,omitempty"`
	Name     *string    `json:"name,omitempty"`
	IsActive *bool      `json:"is_active,omitempty"`
}
