package models

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/optiplan/optiplan/utils"
	"gorm.io/gorm"
)

// SelectionStatus represents the asset-workflow status of a plan selection
type SelectionStatus string

const (
	SelectionStatusOnPlan                   SelectionStatus = "on_plan"
	SelectionStatusAssetsRequested          SelectionStatus = "assets_requested"
	SelectionStatusAwaitingPracticeResponse SelectionStatus = "awaiting_practice_response"
	SelectionStatusAssetsSubmitted          SelectionStatus = "assets_submitted"
	SelectionStatusFeedbackRequested        SelectionStatus = "feedback_requested"
	SelectionStatusAssetsConfirmed          SelectionStatus = "assets_confirmed"
)

// String returns the string representation of the status
func (s SelectionStatus) String() string {
	return string(s)
}

// Valid checks if the status is valid
func (s SelectionStatus) Valid() bool {
	switch s {
	case SelectionStatusOnPlan, SelectionStatusAssetsRequested,
		SelectionStatusAwaitingPracticeResponse, SelectionStatusAssetsSubmitted,
		SelectionStatusFeedbackRequested, SelectionStatusAssetsConfirmed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the workflow is finished for this selection
func (s SelectionStatus) IsTerminal() bool {
	return s == SelectionStatusAssetsConfirmed
}

// Scan implements the sql.Scanner interface for SelectionStatus
func (s *SelectionStatus) Scan(value any) error {
	if value == nil {
		*s = ""
		return nil
	}

	switch v := value.(type) {
	case string:
		*s = SelectionStatus(v)
	case []byte:
		*s = SelectionStatus(string(v))
	default:
		return fmt.Errorf("cannot scan %T into SelectionStatus", value)
	}

	return nil
}

// Value implements the driver.Valuer interface for SelectionStatus
func (s SelectionStatus) Value() (driver.Value, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid SelectionStatus: %s", s)
	}
	return string(s), nil
}

// Selection represents one campaign chosen by one practice for a date range
type Selection struct {
	ID                uint            `gorm:"primaryKey" json:"id"`
	UUID              uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uk_selections_uuid" json:"uuid"`
	PracticeID        uint            `gorm:"not null;index:idx_selections_practice_id" json:"practice_id"`
	CampaignID        *uint           `gorm:"index:idx_selections_campaign_id" json:"campaign_id,omitempty"`
	BespokeCampaignID *uint           `gorm:"index:idx_selections_bespoke_campaign_id" json:"bespoke_campaign_id,omitempty"`
	FromDate          time.Time       `gorm:"not null;index:idx_selections_from_date" json:"from_date"`
	ToDate            time.Time       `gorm:"not null;index:idx_selections_to_date" json:"to_date"`
	Status            SelectionStatus `gorm:"type:selection_status;not null;default:'on_plan';index:idx_selections_status" json:"status"`
	Assets            AssetsPayload   `gorm:"type:jsonb;not null" json:"assets"`
	Bespoke           bool            `gorm:"not null;default:false" json:"bespoke"`
	CreatedAt         time.Time       `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_selections_created_at" json:"created_at"`
	UpdatedAt         *time.Time      `json:"updated_at,omitempty"`

	// Relations
	Practice        *Practice        `gorm:"foreignKey:PracticeID;references:ID" json:"practice,omitempty"`
	Campaign        *Campaign        `gorm:"foreignKey:CampaignID;references:ID" json:"campaign,omitempty"`
	BespokeCampaign *BespokeCampaign `gorm:"foreignKey:BespokeCampaignID;references:ID" json:"bespoke_campaign,omitempty"`
}

// TableName returns the table name for the model
func (Selection) TableName() string {
	return "selections"
}

// BeforeCreate is called before creating a new record
func (s *Selection) BeforeCreate(tx *gorm.DB) error {
	if err := s.validateCampaignRef(); err != nil {
		return err
	}
	if s.UUID == uuid.Nil {
		s.UUID = uuid.New()
	}
	if s.Status == "" {
		s.Status = SelectionStatusOnPlan
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = utils.UTCNow()
	}
	return nil
}

// BeforeUpdate is called before updating a record
func (s *Selection) BeforeUpdate(tx *gorm.DB) error {
	if err := s.validateCampaignRef(); err != nil {
		return err
	}
	now := utils.UTCNow()
	s.UpdatedAt = &now
	return nil
}

// validateCampaignRef enforces that exactly one of campaign_id and
// bespoke_campaign_id is set, and that the bespoke flag agrees.
func (s *Selection) validateCampaignRef() error {
	if (s.CampaignID == nil) == (s.BespokeCampaignID == nil) {
		return fmt.Errorf("selection must reference exactly one of campaign_id and bespoke_campaign_id")
	}
	s.Bespoke = s.BespokeCampaignID != nil
	return nil
}

// CanTransitionTo checks if the selection can transition to the given status
func (s *Selection) CanTransitionTo(newStatus SelectionStatus) bool {
	switch s.Status {
	case SelectionStatusOnPlan:
		return newStatus == SelectionStatusAssetsRequested
	case SelectionStatusAssetsRequested:
		return newStatus == SelectionStatusAssetsRequested ||
			newStatus == SelectionStatusAwaitingPracticeResponse ||
			newStatus == SelectionStatusAssetsSubmitted
	case SelectionStatusAwaitingPracticeResponse:
		return newStatus == SelectionStatusAssetsRequested ||
			newStatus == SelectionStatusAssetsSubmitted
	case SelectionStatusAssetsSubmitted:
		return newStatus == SelectionStatusAssetsConfirmed ||
			newStatus == SelectionStatusFeedbackRequested
	case SelectionStatusFeedbackRequested:
		return newStatus == SelectionStatusAssetsRequested ||
			newStatus == SelectionStatusAssetsSubmitted
	default:
		return false
	}
}

// IsRemovable checks if the practice may still take the selection off its plan
func (s *Selection) IsRemovable() bool {
	return s.Status != SelectionStatusAssetsConfirmed
}

// GetStatusDisplayName returns a human-readable status name
func (s *Selection) GetStatusDisplayName() string {
	switch s.Status {
	case SelectionStatusOnPlan:
		return "On Plan"
	case SelectionStatusAssetsRequested:
		return "Assets Requested"
	case SelectionStatusAwaitingPracticeResponse:
		return "Awaiting Practice Response"
	case SelectionStatusAssetsSubmitted:
		return "Assets Submitted"
	case SelectionStatusFeedbackRequested:
		return "Revision Requested"
	case SelectionStatusAssetsConfirmed:
		return "Assets Confirmed"
	default:
		return "Unknown"
	}
}

// SelectionFilter represents filter criteria for selections
type SelectionFilter struct {
	ID                *uint            `json:"id,omitempty"`
	UUID              *uuid.UUID       `json:"uuid,omitempty"`
	PracticeID        *uint            `json:"practice_id,omitempty"`
	CampaignID        *uint            `json:"campaign_id,omitempty"`
	BespokeCampaignID *uint            `json:"bespoke_campaign_id,omitempty"`
	Status            *SelectionStatus `json:"status,omitempty"`
	Bespoke           *bool            `json:"bespoke,omitempty"`
	FromAfter         *time.Time       `json:"from_after,omitempty"`
	FromBefore        *time.Time       `json:"from_before,omitempty"`
	ToAfter           *time.Time       `json:"to_after,omitempty"`
	ToBefore          *time.Time       `json:"to_before,omitempty"`
	CreatedAfter      *time.Time       `json:"created_after,omitempty"`
	CreatedBefore     *time.Time       `json:"created_before,omitempty"`
}
