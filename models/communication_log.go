package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/optiplan/optiplan/utils"
	"gorm.io/gorm"
)

// CommunicationEvent names one workflow event recorded in the log
type CommunicationEvent string

const (
	CommunicationEventAssetsRequested     CommunicationEvent = "assets_requested"
	CommunicationEventRequestAcknowledged CommunicationEvent = "request_acknowledged"
	CommunicationEventAssetsSubmitted     CommunicationEvent = "assets_submitted"
	CommunicationEventAssetsConfirmed     CommunicationEvent = "assets_confirmed"
	CommunicationEventRevisionRequested   CommunicationEvent = "revision_requested"
)

// Valid checks if the event is valid
func (e CommunicationEvent) Valid() bool {
	switch e {
	case CommunicationEventAssetsRequested, CommunicationEventRequestAcknowledged,
		CommunicationEventAssetsSubmitted, CommunicationEventAssetsConfirmed,
		CommunicationEventRevisionRequested:
		return true
	default:
		return false
	}
}

// ActorType identifies which side of the workflow performed an event
type ActorType string

const (
	ActorTypeAdmin    ActorType = "admin"
	ActorTypePractice ActorType = "practice"
)

// Recipient is a notified party snapshot, captured at event time so the
// log stays accurate if the user is later renamed or removed
type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RecipientList is stored as a jsonb array
type RecipientList []Recipient

// Value implements the driver.Valuer interface for RecipientList
func (r RecipientList) Value() (driver.Value, error) {
	if r == nil {
		return json.Marshal([]Recipient{})
	}
	return json.Marshal(r)
}

// Scan implements the sql.Scanner interface for RecipientList
func (r *RecipientList) Scan(value any) error {
	if value == nil {
		*r = nil
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into RecipientList", value)
	}

	return json.Unmarshal(data, r)
}

// CommunicationLog is one append-only record of a workflow event on a
// selection. Rows are never updated or deleted.
type CommunicationLog struct {
	ID          uint               `gorm:"primaryKey" json:"id"`
	UUID        uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex:uk_communication_logs_uuid" json:"uuid"`
	SelectionID uint               `gorm:"not null;index:idx_communication_logs_selection_id" json:"selection_id"`
	Event       CommunicationEvent `gorm:"type:communication_event;not null" json:"event"`
	FromStatus  SelectionStatus    `gorm:"type:selection_status;not null" json:"from_status"`
	ToStatus    SelectionStatus    `gorm:"type:selection_status;not null" json:"to_status"`
	ActorType   ActorType          `gorm:"size:16;not null" json:"actor_type"`
	ActorID     uint               `gorm:"not null" json:"actor_id"`
	ActorName   string             `gorm:"size:255;not null" json:"actor_name"`
	Note        string             `gorm:"type:text" json:"note"`
	Assets      AssetsPayload      `gorm:"type:jsonb;not null" json:"assets"`
	Recipients  RecipientList      `gorm:"type:jsonb;not null" json:"recipients"`
	CreatedAt   time.Time          `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC');index:idx_communication_logs_created_at" json:"created_at"`

	// Relations
	Selection *Selection `gorm:"foreignKey:SelectionID;references:ID" json:"selection,omitempty"`
}

// TableName returns the table name for the model
func (CommunicationLog) TableName() string {
	return "communication_logs"
}

// BeforeCreate is called before creating a new record
func (c *CommunicationLog) BeforeCreate(tx *gorm.DB) error {
	if !c.Event.Valid() {
		return fmt.Errorf("invalid communication event: %s", c.Event)
	}
	if c.UUID == uuid.Nil {
		c.UUID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = utils.UTCNow()
	}
	return nil
}

// CommunicationLogFilter represents filter criteria for the log
type CommunicationLogFilter struct {
	ID            *uint               `json:"id,omitempty"`
	UUID          *uuid.UUID          `json:"uuid,omitempty"`
	SelectionID   *uint               `json:"selection_id,omitempty"`
	Event         *CommunicationEvent `json:"event,omitempty"`
	ActorType     *ActorType          `json:"actor_type,omitempty"`
	CreatedAfter  *time.Time          `json:"created_after,omitempty"`
	CreatedBefore *time.Time          `json:"created_before,omitempty"`
}
