package businessflow

import (
	"context"
	"fmt"
	"time"

	"github.com/optiplan/optiplan/app/dto"
	"github.com/optiplan/optiplan/models"
	"github.com/optiplan/optiplan/repository"
	"github.com/optiplan/optiplan/utils"
)

// PlanFlow handles a practice's campaign plan: browsing the catalog and
// adding, listing and removing selections
type PlanFlow interface {
	ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest, metadata *ClientMetadata) (*dto.ListCampaignsResponse, error)
	AddSelection(ctx context.Context, req *dto.AddSelectionRequest, metadata *ClientMetadata) (*dto.AddSelectionResponse, error)
	GetSelection(ctx context.Context, req *dto.GetSelectionRequest, metadata *ClientMetadata) (*dto.GetSelectionResponse, error)
	ListSelections(ctx context.Context, req *dto.ListSelectionsRequest, metadata *ClientMetadata) (*dto.ListSelectionsResponse, error)
	RemoveSelection(ctx context.Context, req *dto.RemoveSelectionRequest, metadata *ClientMetadata) (*dto.RemoveSelectionResponse, error)
	QuickPopulate(ctx context.Context, req *dto.QuickPopulateRequest, metadata *ClientMetadata) (*dto.QuickPopulateResponse, error)
	SelectionCost(ctx context.Context, req *dto.SelectionCostRequest, metadata *ClientMetadata) (*dto.SelectionCostResponse, error)
}

// PlanFlowImpl implements the plan business flow
type PlanFlowImpl struct {
	selectionRepo repository.SelectionRepository
	campaignRepo  repository.CampaignRepository
	bespokeRepo   repository.BespokeCampaignRepository
	practiceRepo  repository.PracticeRepository
	auditRepo     repository.AuditLogRepository
	tx            repository.TxManager
}

// NewPlanFlow creates a new plan flow instance
func NewPlanFlow(
	selectionRepo repository.SelectionRepository,
	campaignRepo repository.CampaignRepository,
	bespokeRepo repository.BespokeCampaignRepository,
	practiceRepo repository.PracticeRepository,
	auditRepo repository.AuditLogRepository,
	tx repository.TxManager,
) PlanFlow {
	return &PlanFlowImpl{
		selectionRepo: selectionRepo,
		campaignRepo:  campaignRepo,
		bespokeRepo:   bespokeRepo,
		practiceRepo:  practiceRepo,
		auditRepo:     auditRepo,
		tx:            tx,
	}
}

// ListCampaigns returns the catalog plus the practice's bespoke campaigns
func (s *PlanFlowImpl) ListCampaigns(ctx context.Context, req *dto.ListCampaignsRequest, metadata *ClientMetadata) (*dto.ListCampaignsResponse, error) {
	filter := models.CampaignFilter{IsActive: utils.ToPtr(true)}
	if req.Tier != nil {
		tier := models.CampaignTier(*req.Tier)
		if !tier.Valid() {
			return nil, NewBusinessError("INVALID_TIER", "Invalid campaign tier", ErrInvalidTier)
		}
		filter.Tier = &tier
	}
	if req.Category != nil {
		filter.Category = req.Category
	}

	page, pageSize := normalizePaging(req.Page, req.PageSize)
	campaigns, err := s.campaignRepo.ByFilter(ctx, filter, "sort_order ASC, name ASC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to list campaigns", err)
	}

	total, err := s.campaignRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to count campaigns", err)
	}

	out := make([]dto.CampaignDTO, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, ToCampaignDTO(*c))
	}

	// Bespoke campaigns are appended to the first page only
	if page == 1 {
		bespoke, err := s.bespokeRepo.ListByPractice(ctx, req.PracticeID)
		if err != nil {
			return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to list bespoke campaigns", err)
		}
		for _, b := range bespoke {
			out = append(out, ToBespokeCampaignDTO(*b))
		}
		total += int64(len(bespoke))
	}

	return &dto.ListCampaignsResponse{
		Message:   "Campaigns retrieved successfully",
		Campaigns: out,
		Total:     total,
	}, nil
}

// AddSelection puts a campaign on the practice's plan for a date range.
// The campaign's offered assets are copied onto the selection so later
// catalog edits do not disturb plans already in flight.
func (s *PlanFlowImpl) AddSelection(ctx context.Context, req *dto.AddSelectionRequest, metadata *ClientMetadata) (*dto.AddSelectionResponse, error) {
	if (req.CampaignUUID == nil) == (req.BespokeCampaignUUID == nil) {
		return nil, NewBusinessError("CAMPAIGN_REF_REQUIRED", "Exactly one campaign reference is required", ErrCampaignRefRequired)
	}
	if req.ToDate.Before(req.FromDate) {
		return nil, NewBusinessError("INVALID_DATE_RANGE", "Start date cannot be after end date", ErrStartDateAfterEndDate)
	}

	practice, err := s.getPractice(ctx, req.PracticeID)
	if err != nil {
		return nil, err
	}

	var selection *models.Selection
	err = s.tx.Do(ctx, func(txCtx context.Context) error {
		selection, err = s.buildSelection(txCtx, req, practice)
		if err != nil {
			return err
		}
		return s.selectionRepo.Save(txCtx, selection)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Selection creation failed: %s", err.Error())
		_ = s.createAuditLog(ctx, models.AuditActionSelectionCreated, errMsg, false, &errMsg, metadata)
		return nil, wrapWorkflowError("SELECTION_CREATION_FAILED", "Failed to add campaign to plan", err)
	}

	msg := fmt.Sprintf("Selection created: %s", selection.UUID)
	_ = s.createAuditLog(ctx, models.AuditActionSelectionCreated, msg, true, nil, metadata)

	// Reload with relations for the response
	full, err := s.selectionRepo.ByID(ctx, selection.ID)
	if err == nil && full != nil {
		selection = full
	}

	return &dto.AddSelectionResponse{
		Message:   "Campaign added to plan",
		Selection: ToSelectionDTO(*selection),
	}, nil
}

// buildSelection resolves the campaign reference, enforces overlap rules
// and snapshots the offered assets
func (s *PlanFlowImpl) buildSelection(ctx context.Context, req *dto.AddSelectionRequest, practice *models.Practice) (*models.Selection, error) {
	selection := &models.Selection{
		PracticeID: practice.ID,
		FromDate:   utils.TimeToUTC(req.FromDate),
		ToDate:     utils.TimeToUTC(req.ToDate),
		Status:     models.SelectionStatusOnPlan,
	}

	switch {
	case req.CampaignUUID != nil:
		campaign, err := s.campaignRepo.ByUUID(ctx, *req.CampaignUUID)
		if err != nil {
			return nil, fmt.Errorf("failed to lookup campaign: %w", err)
		}
		if campaign == nil {
			return nil, ErrCampaignNotFound
		}
		if !campaign.IsActive {
			return nil, ErrCampaignInactive
		}
		selection.CampaignID = &campaign.ID
		selection.Assets = campaign.OfferedAssets

		if err := s.checkOverlap(ctx, practice.ID, &campaign.ID, nil, selection.FromDate, selection.ToDate); err != nil {
			return nil, err
		}

	case req.BespokeCampaignUUID != nil:
		bespoke, err := s.bespokeRepo.ByUUID(ctx, *req.BespokeCampaignUUID)
		if err != nil {
			return nil, fmt.Errorf("failed to lookup bespoke campaign: %w", err)
		}
		if bespoke == nil {
			return nil, ErrCampaignNotFound
		}
		if bespoke.PracticeID != practice.ID {
			return nil, ErrBespokeAccessDenied
		}
		if !bespoke.IsActive {
			return nil, ErrCampaignInactive
		}
		selection.BespokeCampaignID = &bespoke.ID
		selection.Assets = bespoke.OfferedAssets

		if err := s.checkOverlap(ctx, practice.ID, nil, &bespoke.ID, selection.FromDate, selection.ToDate); err != nil {
			return nil, err
		}
	}

	return selection, nil
}

// checkOverlap rejects a second selection of the same campaign whose date
// range intersects an existing one
func (s *PlanFlowImpl) checkOverlap(ctx context.Context, practiceID uint, campaignID, bespokeID *uint, from, to time.Time) error {
	filter := models.SelectionFilter{PracticeID: &practiceID}
	if campaignID != nil {
		filter.CampaignID = campaignID
	}
	if bespokeID != nil {
		filter.BespokeCampaignID = bespokeID
	}

	existing, err := s.selectionRepo.ByFilter(ctx, filter, "", 0, 0)
	if err != nil {
		return fmt.Errorf("failed to check for overlapping selections: %w", err)
	}

	for _, sel := range existing {
		if overlaps(sel.FromDate, sel.ToDate, from, to) {
			return ErrSelectionOverlaps
		}
	}

	return nil
}

// overlaps reports whether two inclusive date ranges intersect
func overlaps(aFrom, aTo, bFrom, bTo time.Time) bool {
	return !aTo.Before(bFrom) && !bTo.Before(aFrom)
}

// GetSelection returns one selection on the practice's plan
func (s *PlanFlowImpl) GetSelection(ctx context.Context, req *dto.GetSelectionRequest, metadata *ClientMetadata) (*dto.GetSelectionResponse, error) {
	selection, err := s.selectionRepo.ByUUID(ctx, req.SelectionUUID)
	if err != nil {
		return nil, NewBusinessError("SELECTION_LOOKUP_FAILED", "Failed to lookup selection", err)
	}
	if selection == nil || selection.PracticeID != req.PracticeID {
		return nil, NewBusinessError("SELECTION_NOT_FOUND", "Selection not found", ErrSelectionNotFound)
	}

	return &dto.GetSelectionResponse{
		Message:   "Selection retrieved successfully",
		Selection: ToSelectionDTO(*selection),
	}, nil
}

// ListSelections returns the practice's plan with its running total cost
func (s *PlanFlowImpl) ListSelections(ctx context.Context, req *dto.ListSelectionsRequest, metadata *ClientMetadata) (*dto.ListSelectionsResponse, error) {
	filter := models.SelectionFilter{PracticeID: &req.PracticeID}
	if req.Status != nil {
		status := models.SelectionStatus(*req.Status)
		if !status.Valid() {
			return nil, NewBusinessError("INVALID_STATUS", "Invalid selection status", ErrInvalidStatus)
		}
		filter.Status = &status
	}

	page, pageSize := normalizePaging(req.Page, req.PageSize)
	selections, err := s.selectionRepo.ByFilter(ctx, filter, "from_date ASC, id ASC", pageSize, (page-1)*pageSize)
	if err != nil {
		return nil, NewBusinessError("SELECTION_LOOKUP_FAILED", "Failed to list selections", err)
	}

	total, err := s.selectionRepo.Count(ctx, filter)
	if err != nil {
		return nil, NewBusinessError("SELECTION_LOOKUP_FAILED", "Failed to count selections", err)
	}

	out := make([]dto.SelectionDTO, 0, len(selections))
	var planCost int64
	for _, sel := range selections {
		d := ToSelectionDTO(*sel)
		planCost += d.TotalCost
		out = append(out, d)
	}

	return &dto.ListSelectionsResponse{
		Message:    "Plan retrieved successfully",
		Selections: out,
		Total:      total,
		PlanCost:   planCost,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

// RemoveSelection takes a selection off the plan. Confirmed selections
// are kept for the record and cannot be removed.
func (s *PlanFlowImpl) RemoveSelection(ctx context.Context, req *dto.RemoveSelectionRequest, metadata *ClientMetadata) (*dto.RemoveSelectionResponse, error) {
	var removedUUID string
	err := s.tx.Do(ctx, func(txCtx context.Context) error {
		selection, err := s.selectionRepo.ByUUID(txCtx, req.SelectionUUID)
		if err != nil {
			return fmt.Errorf("failed to lookup selection: %w", err)
		}
		if selection == nil || selection.PracticeID != req.PracticeID {
			return ErrSelectionNotFound
		}
		if !selection.IsRemovable() {
			return ErrSelectionNotRemovable
		}

		removedUUID = selection.UUID.String()
		return s.selectionRepo.Delete(txCtx, selection.ID)
	})
	if err != nil {
		errMsg := fmt.Sprintf("Selection removal failed: %s", err.Error())
		_ = s.createAuditLog(ctx, models.AuditActionSelectionRemoved, errMsg, false, &errMsg, metadata)
		return nil, wrapWorkflowError("SELECTION_REMOVAL_FAILED", "Failed to remove selection", err)
	}

	msg := fmt.Sprintf("Selection removed: %s", removedUUID)
	_ = s.createAuditLog(ctx, models.AuditActionSelectionRemoved, msg, true, nil, metadata)

	return &dto.RemoveSelectionResponse{
		Message: "Selection removed from plan",
		UUID:    removedUUID,
	}, nil
}

// QuickPopulate fills the plan with every active campaign of one tier for
// the given period. Campaigns already on the plan for an overlapping
// period are skipped rather than duplicated.
func (s *PlanFlowImpl) QuickPopulate(ctx context.Context, req *dto.QuickPopulateRequest, metadata *ClientMetadata) (*dto.QuickPopulateResponse, error) {
	tier := models.CampaignTier(req.Tier)
	if !tier.Valid() {
		return nil, NewBusinessError("INVALID_TIER", "Invalid campaign tier", ErrInvalidTier)
	}
	if req.ToDate.Before(req.FromDate) {
		return nil, NewBusinessError("INVALID_DATE_RANGE", "Start date cannot be after end date", ErrStartDateAfterEndDate)
	}

	practice, err := s.getPractice(ctx, req.PracticeID)
	if err != nil {
		return nil, err
	}

	campaigns, err := s.campaignRepo.ListByTier(ctx, tier)
	if err != nil {
		return nil, NewBusinessError("CAMPAIGN_LOOKUP_FAILED", "Failed to list campaigns", err)
	}
	if len(campaigns) == 0 {
		return nil, NewBusinessError("NO_CAMPAIGNS_IN_TIER", "No active campaigns in the requested tier", ErrNoCampaignsInTier)
	}

	var created []*models.Selection
	var skipped int
	err = s.tx.Do(ctx, func(txCtx context.Context) error {
		existing, err := s.selectionRepo.ListByPractice(txCtx, practice.ID, 0, 0)
		if err != nil {
			return fmt.Errorf("failed to list existing selections: %w", err)
		}

		onPlan := make(map[uint]bool)
		for _, sel := range existing {
			if sel.CampaignID != nil && overlaps(sel.FromDate, sel.ToDate, req.FromDate, req.ToDate) {
				onPlan[*sel.CampaignID] = true
			}
		}

		var batch []*models.Selection
		for _, c := range campaigns {
			if onPlan[c.ID] {
				skipped++
				continue
			}
			batch = append(batch, &models.Selection{
				PracticeID: practice.ID,
				CampaignID: &c.ID,
				FromDate:   utils.TimeToUTC(req.FromDate),
				ToDate:     utils.TimeToUTC(req.ToDate),
				Status:     models.SelectionStatusOnPlan,
				Assets:     c.OfferedAssets,
			})
		}

		if err := s.selectionRepo.SaveBatch(txCtx, batch); err != nil {
			return fmt.Errorf("failed to save selections: %w", err)
		}

		created = batch
		return nil
	})
	if err != nil {
		errMsg := fmt.Sprintf("Quick populate failed: %s", err.Error())
		_ = s.createAuditLog(ctx, models.AuditActionPlanPopulated, errMsg, false, &errMsg, metadata)
		return nil, NewBusinessError("QUICK_POPULATE_FAILED", "Failed to populate plan", err)
	}

	msg := fmt.Sprintf("Plan populated with %d %s-tier campaigns (%d skipped)", len(created), tier, skipped)
	_ = s.createAuditLog(ctx, models.AuditActionPlanPopulated, msg, true, nil, metadata)

	out := make([]dto.SelectionDTO, 0, len(created))
	for _, sel := range created {
		out = append(out, ToSelectionDTO(*sel))
	}

	return &dto.QuickPopulateResponse{
		Message:    msg,
		Selections: out,
		Added:      len(created),
		Skipped:    skipped,
	}, nil
}

// SelectionCost itemizes what a selection currently costs. Every surface
// that shows prices goes through this breakdown so the numbers agree.
func (s *PlanFlowImpl) SelectionCost(ctx context.Context, req *dto.SelectionCostRequest, metadata *ClientMetadata) (*dto.SelectionCostResponse, error) {
	selection, err := s.selectionRepo.ByUUID(ctx, req.SelectionUUID)
	if err != nil {
		return nil, NewBusinessError("SELECTION_LOOKUP_FAILED", "Failed to lookup selection", err)
	}
	if selection == nil || selection.PracticeID != req.PracticeID {
		return nil, NewBusinessError("SELECTION_NOT_FOUND", "Selection not found", ErrSelectionNotFound)
	}

	items := selection.Assets.SelectedItems()
	lines := make([]dto.CostLineDTO, 0, len(items))
	for _, item := range items {
		line := dto.CostLineDTO{
			Name:     item.Name,
			Type:     string(item.Type),
			Quantity: item.Quantity,
			LineCost: item.LineCost(),
		}
		if item.ChosenOption != nil {
			line.ChosenOption = *item.ChosenOption
		}
		lines = append(lines, line)
	}

	return &dto.SelectionCostResponse{
		Message:   "Selection cost retrieved successfully",
		UUID:      selection.UUID.String(),
		Lines:     lines,
		TotalCost: selection.Assets.TotalCost(),
	}, nil
}

func (s *PlanFlowImpl) getPractice(ctx context.Context, practiceID uint) (*models.Practice, error) {
	practice, err := s.practiceRepo.ByID(ctx, practiceID)
	if err != nil {
		return nil, NewBusinessError("PRACTICE_LOOKUP_FAILED", "Failed to lookup practice", err)
	}
	if practice == nil {
		return nil, NewBusinessError("PRACTICE_NOT_FOUND", "Practice not found", ErrPracticeNotFound)
	}
	if !practice.IsActive {
		return nil, NewBusinessError("PRACTICE_INACTIVE", "Practice is inactive", ErrPracticeInactive)
	}
	return practice, nil
}

// createAuditLog creates an audit log entry for a plan operation
func (s *PlanFlowImpl) createAuditLog(ctx context.Context, action, description string, success bool, errorMsg *string, metadata *ClientMetadata) error {
	return s.auditRepo.Save(ctx, newAuditLog(ctx, action, description, success, errorMsg, metadata))
}

func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}
	return page, pageSize
}
