package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/optiplan/optiplan/utils"
	"gorm.io/gorm"
)

// CampaignTier ranks catalog campaigns by expected impact
type CampaignTier string

const (
	CampaignTierGood   CampaignTier = "good"
	CampaignTierBetter CampaignTier = "better"
	CampaignTierBest   CampaignTier = "best"
)

// Valid checks if the tier is valid
func (t CampaignTier) Valid() bool {
	return t == CampaignTierGood || t == CampaignTierBetter || t == CampaignTierBest
}

// Scan implements the sql.Scanner interface for CampaignTier
func (t *CampaignTier) Scan(value any) error {
	if value == nil {
		*t = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*t = CampaignTier(v)
	case []byte:
		*t = CampaignTier(string(v))
	default:
		return fmt.Errorf("cannot scan %T into CampaignTier", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for CampaignTier
func (t CampaignTier) Value() (driver.Value, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("invalid CampaignTier: %s", t)
	}
	return string(t), nil
}

// Campaign is a catalog campaign every practice can put on its plan.
// OfferedAssets is the template copied into a selection when the
// campaign is added to a plan.
type Campaign struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	UUID          uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:uk_campaigns_uuid" json:"uuid"`
	Name          string        `gorm:"size:255;not null" json:"name"`
	Description   string        `gorm:"type:text" json:"description"`
	Category      string        `gorm:"size:128;not null;index:idx_campaigns_category" json:"category"`
	Tier          CampaignTier  `gorm:"type:campaign_tier;not null;default:'good';index:idx_campaigns_tier" json:"tier"`
	ImageURL      *string       `gorm:"size:512" json:"image_url,omitempty"`
	OfferedAssets AssetsPayload `gorm:"type:jsonb;not null" json:"offered_assets"`
	IsActive      bool          `gorm:"not null;default:true" json:"is_active"`
	SortOrder     int           `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt     time.Time     `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt     *time.Time    `json:"updated_at,omitempty"`
}

// TableName returns the table name for the model
func (Campaign) TableName() string {
	return "campaigns"
}

// BeforeCreate is called before creating a new record
func (c *Campaign) BeforeCreate(tx *gorm.DB) error {
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.Tier == "" {
		c.Tier = CampaignTierGood
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (c *Campaign) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	c.UpdatedAt = &now
	return nil
}

// CampaignFilter represents filter criteria for catalog campaigns
type CampaignFilter struct {
	ID       *uint         `json:"id,omitempty"`
	UUID     *uuid.UUID    `json:"uuid,omitempty"`
	Category *string       `json:"category,omitempty"`
	Tier     *CampaignTier `json:"tier,omitempty"`
	IsActive *bool         `json:"is_active,omitempty"`
}

// BespokeCampaign is a one-off campaign visible only to the practice it
// was created for
type BespokeCampaign struct {
	ID            uint          `gorm:"primaryKey" json:"id"`
	UUID          uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:uk_bespoke_campaigns_uuid" json:"uuid"`
	PracticeID    uint          `gorm:"not null;index:idx_bespoke_campaigns_practice_id" json:"practice_id"`
	Name          string        `gorm:"size:255;not null" json:"name"`
	Description   string        `gorm:"type:text" json:"description"`
	OfferedAssets AssetsPayload `gorm:"type:jsonb;not null" json:"offered_assets"`
	CreatedByID   *uint         `json:"created_by_id,omitempty"`
	IsActive      bool          `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time     `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt     *time.Time    `json:"updated_at,omitempty"`

	// Relations
	Practice  *Practice `gorm:"foreignKey:PracticeID;references:ID" json:"practice,omitempty"`
	CreatedBy *Admin    `gorm:"foreignKey:CreatedByID;references:ID" json:"created_by,omitempty"`
}

// TableName returns the table name for the model
func (BespokeCampaign) TableName() string {
	return "bespoke_campaigns"
}

// BeforeCreate is called before creating a new record
func (b *BespokeCampaign) BeforeCreate(tx *gorm.DB) error {
	if b.UUID == uuid.Nil {
		b.UUID = uuid.New()
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (b *BespokeCampaign) BeforeUpdate(tx *gorm.DB) error {
	now := utils.UTCNow()
	b.UpdatedAt = &now
	return nil
}

// BespokeCampaignFilter represents filter criteria for bespoke campaigns
type BespokeCampaignFilter struct {
	ID         *uint      `json:"id,omitempty"`
	UUID       *uuid.UUID `json:"uuid,omitempty"`
	PracticeID *uint      `json:"practice_id,omitempty"`
	IsActive   *bool      `json:"is_active,omitempty"`
}
