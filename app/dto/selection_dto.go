package dto

import (
	"time"

	"github.com/optiplan/optiplan/models"
)

// AddSelectionRequest represents the request to add a campaign to a
// practice's plan. Exactly one of campaign_uuid and bespoke_campaign_uuid
// must be provided.
type AddSelectionRequest struct {
	PracticeID          uint      `json:"-"`
	CampaignUUID        *string   `json:"campaign_uuid,omitempty" validate:"omitempty,uuid"`
	BespokeCampaignUUID *string   `json:"bespoke_campaign_uuid,omitempty" validate:"omitempty,uuid"`
	FromDate            time.Time `json:"from_date" validate:"required"`
	ToDate              time.Time `json:"to_date" validate:"required"`
}

// SelectionDTO is the plan selection projection used in responses
type SelectionDTO struct {
	ID                uint                 `json:"id"`
	UUID              string               `json:"uuid"`
	PracticeID        uint                 `json:"practice_id"`
	CampaignName      string               `json:"campaign_name"`
	CampaignUUID      string               `json:"campaign_uuid,omitempty"`
	Bespoke           bool                 `json:"bespoke"`
	FromDate          string               `json:"from_date"`
	ToDate            string               `json:"to_date"`
	Status            string               `json:"status"`
	StatusDisplayName string               `json:"status_display_name"`
	Assets            models.AssetsPayload `json:"assets"`
	TotalCost         int64                `json:"total_cost"`
	CreatedAt         string               `json:"created_at"`
	UpdatedAt         string               `json:"updated_at,omitempty"`
}

// AddSelectionResponse represents the response to adding a selection
type AddSelectionResponse struct {
	Message   string       `json:"message"`
	Selection SelectionDTO `json:"selection"`
}

// ListSelectionsRequest represents the request to list a practice's plan
type ListSelectionsRequest struct {
	PracticeID uint    `json:"-"`
	Status     *string `json:"status,omitempty" validate:"omitempty"`
	Page       int     `json:"page" validate:"omitempty,min=1"`
	PageSize   int     `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// ListSelectionsResponse represents a practice's plan
type ListSelectionsResponse struct {
	Message    string         `json:"message"`
	Selections []SelectionDTO `json:"selections"`
	Total      int64          `json:"total"`
	PlanCost   int64          `json:"plan_cost"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

// RemoveSelectionRequest represents the request to take a selection off the plan
type RemoveSelectionRequest struct {
	PracticeID    uint   `json:"-"`
	SelectionUUID string `json:"-" validate:"required,uuid"`
}

// RemoveSelectionResponse represents the response to removing a selection
type RemoveSelectionResponse struct {
	Message string `json:"message"`
	UUID    string `json:"uuid"`
}

// QuickPopulateRequest represents the request to fill a plan from one
// catalog tier in a single step
type QuickPopulateRequest struct {
	PracticeID uint      `json:"-"`
	Tier       string    `json:"tier" validate:"required,oneof=good better best"`
	FromDate   time.Time `json:"from_date" validate:"required"`
	ToDate     time.Time `json:"to_date" validate:"required"`
}

// QuickPopulateResponse represents the response to quick-populating a plan
type QuickPopulateResponse struct {
	Message    string         `json:"message"`
	Selections []SelectionDTO `json:"selections"`
	Added      int            `json:"added"`
	Skipped    int            `json:"skipped"`
}

// SelectionCostRequest represents the request for a selection's cost breakdown
type SelectionCostRequest struct {
	PracticeID    uint   `json:"-"`
	SelectionUUID string `json:"-" validate:"required,uuid"`
}

// CostLineDTO is one priced line in a cost breakdown
type CostLineDTO struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	Quantity     int    `json:"quantity"`
	ChosenOption string `json:"chosen_option,omitempty"`
	LineCost     int64  `json:"line_cost"`
}

// SelectionCostResponse represents a selection's itemized cost
type SelectionCostResponse struct {
	Message   string        `json:"message"`
	UUID      string        `json:"uuid"`
	Lines     []CostLineDTO `json:"lines"`
	TotalCost int64         `json:"total_cost"`
}

// GetSelectionRequest represents the request to fetch one selection
type GetSelectionRequest struct {
	PracticeID    uint   `json:"-"`
	SelectionUUID string `json:"-" validate:"required,uuid"`
}

// GetSelectionResponse represents the response to fetching one selection
type GetSelectionResponse struct {
	Message   string       `json:"message"`
	Selection SelectionDTO `json:"selection"`
}

// ListCampaignsRequest represents the request to browse the catalog
type ListCampaignsRequest struct {
	PracticeID uint    `json:"-"`
	Tier       *string `json:"tier,omitempty" validate:"omitempty,oneof=good better best"`
	Category   *string `json:"category,omitempty" validate:"omitempty,max=128"`
	Page       int     `json:"page" validate:"omitempty,min=1"`
	PageSize   int     `json:"page_size" validate:"omitempty,min=1,max=100"`
}

// CampaignDTO is the catalog campaign projection used in responses
type CampaignDTO struct {
	ID            uint                 `json:"id"`
	UUID          string               `json:"uuid"`
	Name          string               `json:"name"`
	Description   string               `json:"description"`
	Category      string               `json:"category"`
	Tier          string               `json:"tier"`
	ImageURL      string               `json:"image_url,omitempty"`
	OfferedAssets models.AssetsPayload `json:"offered_assets"`
	Bespoke       bool                 `json:"bespoke"`
}

// ListCampaignsResponse represents the browsable catalog for a practice,
// catalog campaigns plus any bespoke campaigns created for it
type ListCampaignsResponse struct {
	Message   string        `json:"message"`
	Campaigns []CampaignDTO `json:"campaigns"`
	Total     int64         `json:"total"`
}
