package dto

import (
	"github.com/optiplan/optiplan/models"
)

// RequestAssetsRequest represents an administrator requesting asset
// choices from a practice for one selection
type RequestAssetsRequest struct {
	AdminID            uint                    `json:"-"`
	SelectionUUID      string                  `json:"-" validate:"required,uuid"`
	PrintedAssets      []models.AssetItem      `json:"printed_assets,omitempty" validate:"omitempty,dive"`
	DigitalAssets      []models.AssetItem      `json:"digital_assets,omitempty" validate:"omitempty,dive"`
	ExternalPlacements []models.AssetItem      `json:"external_placements,omitempty" validate:"omitempty,dive"`
	RequestedCreatives []models.CreativeOption `json:"requested_creatives,omitempty" validate:"omitempty,max=4,dive"`
	RequestNote        string                  `json:"request_note,omitempty" validate:"omitempty,max=2000"`
	RecipientIDs       []uint                  `json:"recipient_ids,omitempty" validate:"omitempty,max=50,dive,gt=0"`
}

// RequestAssetsResponse represents the outcome of an asset request
type RequestAssetsResponse struct {
	Message   string       `json:"message"`
	Selection SelectionDTO `json:"selection"`
	Notified  int          `json:"notified"`
	Warning   string       `json:"warning,omitempty"`
}

// RequestAssetsBulkRequest applies the same asset request to several selections
type RequestAssetsBulkRequest struct {
	AdminID            uint                    `json:"-"`
	SelectionUUIDs     []string                `json:"selection_uuids" validate:"required,min=1,max=100,dive,uuid"`
	PrintedAssets      []models.AssetItem      `json:"printed_assets,omitempty" validate:"omitempty,dive"`
	DigitalAssets      []models.AssetItem      `json:"digital_assets,omitempty" validate:"omitempty,dive"`
	ExternalPlacements []models.AssetItem      `json:"external_placements,omitempty" validate:"omitempty,dive"`
	RequestedCreatives []models.CreativeOption `json:"requested_creatives,omitempty" validate:"omitempty,max=4,dive"`
	RequestNote        string                  `json:"request_note,omitempty" validate:"omitempty,max=2000"`
}

// BulkItemError describes one failed selection in a bulk request
type BulkItemError struct {
	SelectionUUID string `json:"selection_uuid"`
	Code          string `json:"code"`
	Message       string `json:"message"`
}

// RequestAssetsBulkResponse reports per-selection outcomes of a bulk request
type RequestAssetsBulkResponse struct {
	Message   string          `json:"message"`
	Processed int             `json:"processed"`
	Sent      int             `json:"sent"`
	Skipped   int             `json:"skipped"`
	Errors    []BulkItemError `json:"errors,omitempty"`
}

// AcknowledgeRequestRequest represents a practice user acknowledging an
// open asset request
type AcknowledgeRequestRequest struct {
	UserID        uint   `json:"-"`
	PracticeID    uint   `json:"-"`
	SelectionUUID string `json:"-" validate:"required,uuid"`
}

// AcknowledgeRequestResponse represents the acknowledgement outcome
type AcknowledgeRequestResponse struct {
	Message   string       `json:"message"`
	Selection SelectionDTO `json:"selection"`
}

// SubmitAssetsRequest represents a practice submitting its asset choices
type SubmitAssetsRequest struct {
	UserID             uint               `json:"-"`
	PracticeID         uint               `json:"-"`
	SelectionUUID      string             `json:"-" validate:"required,uuid"`
	PrintedAssets      []models.AssetItem `json:"printed_assets,omitempty" validate:"omitempty,dive"`
	DigitalAssets      []models.AssetItem `json:"digital_assets,omitempty" validate:"omitempty,dive"`
	ExternalPlacements []models.AssetItem `json:"external_placements,omitempty" validate:"omitempty,dive"`
	ChosenCreative     *string            `json:"chosen_creative,omitempty" validate:"omitempty,max=255"`
	PracticeNote       string             `json:"practice_note,omitempty" validate:"omitempty,max=2000"`
}

// SubmitAssetsResponse represents the submission outcome
type SubmitAssetsResponse struct {
	Message   string       `json:"message"`
	Selection SelectionDTO `json:"selection"`
	TotalCost int64        `json:"total_cost"`
	Warning   string       `json:"warning,omitempty"`
}

// ConfirmAssetsRequest represents an administrator confirming a submission
type ConfirmAssetsRequest struct {
	AdminID       uint   `json:"-"`
	SelectionUUID string `json:"-" validate:"required,uuid"`
	Note          string `json:"note,omitempty" validate:"omitempty,max=2000"`
}

// ConfirmAssetsResponse represents the confirmation outcome
type ConfirmAssetsResponse struct {
	Message   string       `json:"message"`
	Selection SelectionDTO `json:"selection"`
	Warning   string       `json:"warning,omitempty"`
}

// RequestRevisionRequest represents an administrator sending a submission
// back to the practice with feedback
type RequestRevisionRequest struct {
	AdminID       uint   `json:"-"`
	SelectionUUID string `json:"-" validate:"required,uuid"`
	Feedback      string `json:"feedback" validate:"required,min=1,max=2000"`
}

// RequestRevisionResponse represents the revision-request outcome
type RequestRevisionResponse struct {
	Message   string       `json:"message"`
	Selection SelectionDTO `json:"selection"`
	Warning   string       `json:"warning,omitempty"`
}

// CommunicationLogEntryDTO is one workflow log entry in responses
type CommunicationLogEntryDTO struct {
	ID         uint                 `json:"id"`
	UUID       string               `json:"uuid"`
	Event      string               `json:"event"`
	FromStatus string               `json:"from_status"`
	ToStatus   string               `json:"to_status"`
	ActorType  string               `json:"actor_type"`
	ActorName  string               `json:"actor_name"`
	Note       string               `json:"note,omitempty"`
	Assets     models.AssetsPayload `json:"assets"`
	Recipients []RecipientDTO       `json:"recipients"`
	CreatedAt  string               `json:"created_at"`
}

// RecipientDTO is one notified party in a log entry
type RecipientDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ListCommunicationLogRequest fetches the workflow history of a selection
type ListCommunicationLogRequest struct {
	SelectionUUID string `json:"-" validate:"required,uuid"`
}

// ListCommunicationLogResponse represents a selection's workflow history
type ListCommunicationLogResponse struct {
	Message string                     `json:"message"`
	Entries []CommunicationLogEntryDTO `json:"entries"`
}
