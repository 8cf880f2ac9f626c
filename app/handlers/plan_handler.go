package handlers

import (
	"log"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/optiplan/optiplan/app/dto"
	"github.com/optiplan/optiplan/app/middleware"
	businessflow "github.com/optiplan/optiplan/business_flow"
)

// PlanHandlerInterface defines the contract for plan handlers
type PlanHandlerInterface interface {
	ListCampaigns(c fiber.Ctx) error
	ListSelections(c fiber.Ctx) error
	AddSelection(c fiber.Ctx) error
	GetSelection(c fiber.Ctx) error
	SelectionCost(c fiber.Ctx) error
	RemoveSelection(c fiber.Ctx) error
	QuickPopulate(c fiber.Ctx) error
}

// PlanHandler handles campaign-plan HTTP requests for practice users
type PlanHandler struct {
	planFlow  businessflow.PlanFlow
	validator *validator.Validate
}

// NewPlanHandler creates a new plan handler
func NewPlanHandler(planFlow businessflow.PlanFlow) *PlanHandler {
	return &PlanHandler{
		planFlow:  planFlow,
		validator: validator.New(),
	}
}

// ListCampaigns handles browsing the campaign catalog
// @Summary Browse campaign catalog
// @Description List catalog campaigns plus any bespoke campaigns created for the practice
// @Tags Plan
// @Produce json
// @Param practiceUUID path string true "Practice UUID"
// @Param tier query string false "Filter by tier (good, better, best)"
// @Param category query string false "Filter by category"
// @Success 200 {object} dto.APIResponse{data=dto.ListCampaignsResponse} "Campaigns retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not assigned to practice"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/practices/{practiceUUID}/campaigns [get]
func (h *PlanHandler) ListCampaigns(c fiber.Ctx) error {
	practiceID, ok := middleware.GetPracticeIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusForbidden, "Practice not resolved", "PRACTICE_ACCESS_DENIED", nil)
	}

	req := dto.ListCampaignsRequest{
		PracticeID: practiceID,
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 50),
	}
	if tier := c.Query("tier"); tier != "" {
		req.Tier = &tier
	}
	if category := c.Query("category"); category != "" {
		req.Category = &category
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/practices/:practiceUUID/campaigns")
	defer cancel()

	result, err := h.planFlow.ListCampaigns(ctx, &req, metadata)
	if err != nil {
		log.Println("Campaign listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list campaigns", "CAMPAIGN_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListSelections handles listing a practice's plan
// @Summary List plan selections
// @Description List the practice's campaign plan with total plan cost
// @Tags Plan
// @Produce json
// @Param practiceUUID path string true "Practice UUID"
// @Param status query string false "Filter by workflow status"
// @Success 200 {object} dto.APIResponse{data=dto.ListSelectionsResponse} "Selections retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not assigned to practice"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/practices/{practiceUUID}/plan [get]
func (h *PlanHandler) ListSelections(c fiber.Ctx) error {
	practiceID, ok := middleware.GetPracticeIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusForbidden, "Practice not resolved", "PRACTICE_ACCESS_DENIED", nil)
	}

	req := dto.ListSelectionsRequest{
		PracticeID: practiceID,
		Page:       queryInt(c, "page", 1),
		PageSize:   queryInt(c, "page_size", 50),
	}
	if status := c.Query("status"); status != "" {
		req.Status = &status
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/practices/:practiceUUID/plan")
	defer cancel()

	result, err := h.planFlow.ListSelections(ctx, &req, metadata)
	if err != nil {
		log.Println("Selection listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list selections", "SELECTION_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// AddSelection handles adding a campaign to the plan
// @Summary Add selection
// @Description Add a catalog or bespoke campaign to the practice's plan
// @Tags Plan
// @Accept json
// @Produce json
// @Param practiceUUID path string true "Practice UUID"
// @Param request body dto.AddSelectionRequest true "Selection data"
// @Success 201 {object} dto.APIResponse{data=dto.AddSelectionResponse} "Selection added"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not assigned to practice"
// @Failure 404 {object} dto.APIResponse "Campaign not found"
// @Failure 409 {object} dto.APIResponse "Overlapping selection for the campaign"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/practices/{practiceUUID}/plan/selections [post]
func (h *PlanHandler) AddSelection(c fiber.Ctx) error {
	practiceID, ok := middleware.GetPracticeIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusForbidden, "Practice not resolved", "PRACTICE_ACCESS_DENIED", nil)
	}

	var req dto.AddSelectionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.PracticeID = practiceID

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/practices/:practiceUUID/plan/selections")
	defer cancel()

	result, err := h.planFlow.AddSelection(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsCampaignRefRequired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Exactly one of campaign_uuid and bespoke_campaign_uuid must be provided", "CAMPAIGN_REF_REQUIRED", nil)
		}
		if businessflow.IsStartDateAfterEndDate(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Start date cannot be after end date", "START_DATE_AFTER_END_DATE", nil)
		}
		if businessflow.IsCampaignNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Campaign not found", "CAMPAIGN_NOT_FOUND", nil)
		}
		if businessflow.IsCampaignInactive(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Campaign is not active", "CAMPAIGN_INACTIVE", nil)
		}
		if businessflow.IsBespokeAccessDenied(err) {
			return errorResponse(c, fiber.StatusForbidden, "Bespoke campaign belongs to another practice", "BESPOKE_ACCESS_DENIED", nil)
		}
		if businessflow.IsSelectionOverlaps(err) {
			return errorResponse(c, fiber.StatusConflict, "Campaign is already on the plan for an overlapping period", "SELECTION_OVERLAPS", nil)
		}

		log.Println("Selection creation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to add selection", "SELECTION_CREATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// GetSelection handles fetching one selection
// @Summary Get selection
// @Description Fetch one plan selection with its asset payload and cost
// @Tags Plan
// @Produce json
// @Param practiceUUID path string true "Practice UUID"
// @Param uuid path string true "Selection UUID"
// @Success 200 {object} dto.APIResponse{data=dto.GetSelectionResponse} "Selection retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not assigned to practice"
// @Failure 404 {object} dto.APIResponse "Selection not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/practices/{practiceUUID}/plan/selections/{uuid} [get]
func (h *PlanHandler) GetSelection(c fiber.Ctx) error {
	practiceID, ok := middleware.GetPracticeIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusForbidden, "Practice not resolved", "PRACTICE_ACCESS_DENIED", nil)
	}

	req := dto.GetSelectionRequest{
		PracticeID:    practiceID,
		SelectionUUID: c.Params("uuid"),
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/practices/:practiceUUID/plan/selections/"+req.SelectionUUID)
	defer cancel()

	result, err := h.planFlow.GetSelection(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsSelectionNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Selection not found", "SELECTION_NOT_FOUND", nil)
		}

		log.Println("Selection fetch failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch selection", "SELECTION_FETCH_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// SelectionCost handles fetching a selection's itemized cost
// @Summary Selection cost breakdown
// @Description Itemize the current cost of one selection, line by line
// @Tags Plan
// @Produce json
// @Param practiceUUID path string true "Practice UUID"
// @Param uuid path string true "Selection UUID"
// @Success 200 {object} dto.APIResponse{data=dto.SelectionCostResponse} "Cost retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not assigned to practice"
// @Failure 404 {object} dto.APIResponse "Selection not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/practices/{practiceUUID}/plan/selections/{uuid}/cost [get]
func (h *PlanHandler) SelectionCost(c fiber.Ctx) error {
	practiceID, ok := middleware.GetPracticeIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusForbidden, "Practice not resolved", "PRACTICE_ACCESS_DENIED", nil)
	}

	req := dto.SelectionCostRequest{
		PracticeID:    practiceID,
		SelectionUUID: c.Params("uuid"),
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/practices/:practiceUUID/plan/selections/"+req.SelectionUUID+"/cost")
	defer cancel()

	result, err := h.planFlow.SelectionCost(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsSelectionNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Selection not found", "SELECTION_NOT_FOUND", nil)
		}

		log.Println("Selection cost fetch failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch selection cost", "SELECTION_COST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// RemoveSelection handles taking a selection off the plan
// @Summary Remove selection
// @Description Remove a selection from the plan. Confirmed selections cannot be removed.
// @Tags Plan
// @Produce json
// @Param practiceUUID path string true "Practice UUID"
// @Param uuid path string true "Selection UUID"
// @Success 200 {object} dto.APIResponse{data=dto.RemoveSelectionResponse} "Selection removed"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not assigned to practice"
// @Failure 404 {object} dto.APIResponse "Selection not found"
// @Failure 409 {object} dto.APIResponse "Selection already confirmed"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/practices/{practiceUUID}/plan/selections/{uuid} [delete]
func (h *PlanHandler) RemoveSelection(c fiber.Ctx) error {
	practiceID, ok := middleware.GetPracticeIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusForbidden, "Practice not resolved", "PRACTICE_ACCESS_DENIED", nil)
	}

	req := dto.RemoveSelectionRequest{
		PracticeID:    practiceID,
		SelectionUUID: c.Params("uuid"),
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/practices/:practiceUUID/plan/selections/"+req.SelectionUUID)
	defer cancel()

	result, err := h.planFlow.RemoveSelection(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsSelectionNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Selection not found", "SELECTION_NOT_FOUND", nil)
		}
		if businessflow.IsSelectionNotRemovable(err) {
			return errorResponse(c, fiber.StatusConflict, "Selection cannot be removed after confirmation", "SELECTION_NOT_REMOVABLE", nil)
		}

		log.Println("Selection removal failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to remove selection", "SELECTION_REMOVE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// QuickPopulate handles filling a plan from one catalog tier
// @Summary Quick-populate plan
// @Description Add every active campaign of a catalog tier to the plan in one step
// @Tags Plan
// @Accept json
// @Produce json
// @Param practiceUUID path string true "Practice UUID"
// @Param request body dto.QuickPopulateRequest true "Tier and period"
// @Success 201 {object} dto.APIResponse{data=dto.QuickPopulateResponse} "Plan populated"
// @Failure 400 {object} dto.APIResponse "Validation error or empty tier"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not assigned to practice"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/practices/{practiceUUID}/plan/quick-populate [post]
func (h *PlanHandler) QuickPopulate(c fiber.Ctx) error {
	practiceID, ok := middleware.GetPracticeIDFromContext(c)
	if !ok {
		return errorResponse(c, fiber.StatusForbidden, "Practice not resolved", "PRACTICE_ACCESS_DENIED", nil)
	}

	var req dto.QuickPopulateRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.PracticeID = practiceID

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/practices/:practiceUUID/plan/quick-populate")
	defer cancel()

	result, err := h.planFlow.QuickPopulate(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsInvalidTier(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid campaign tier", "INVALID_TIER", nil)
		}
		if businessflow.IsNoCampaignsInTier(err) {
			return errorResponse(c, fiber.StatusBadRequest, "No active campaigns in the requested tier", "NO_CAMPAIGNS_IN_TIER", nil)
		}
		if businessflow.IsStartDateAfterEndDate(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Start date cannot be after end date", "START_DATE_AFTER_END_DATE", nil)
		}

		log.Println("Quick populate failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to populate plan", "QUICK_POPULATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusCreated, result.Message, result)
}

// queryInt parses an integer query parameter, falling back to a default
func queryInt(c fiber.Ctx, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}
