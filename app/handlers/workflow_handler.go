package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/optiplan/optiplan/app/dto"
	"github.com/optiplan/optiplan/app/middleware"
	businessflow "github.com/optiplan/optiplan/business_flow"
)

// WorkflowHandlerInterface defines the contract for practice-side workflow handlers
type WorkflowHandlerInterface interface {
	AcknowledgeRequest(c fiber.Ctx) error
	SubmitAssets(c fiber.Ctx) error
}

// WorkflowHandler handles practice-side asset workflow HTTP requests
type WorkflowHandler struct {
	workflowFlow businessflow.WorkflowFlow
	validator    *validator.Validate
}

// NewWorkflowHandler creates a new workflow handler
func NewWorkflowHandler(workflowFlow businessflow.WorkflowFlow) *WorkflowHandler {
	return &WorkflowHandler{
		workflowFlow: workflowFlow,
		validator:    validator.New(),
	}
}

// AcknowledgeRequest handles a practice acknowledging an open asset request
// @Summary Acknowledge asset request
// @Description Acknowledge an open asset request, moving the selection to awaiting_practice_response
// @Tags Workflow
// @Produce json
// @Param practiceUUID path string true "Practice UUID"
// @Param uuid path string true "Selection UUID"
// @Success 200 {object} dto.APIResponse{data=dto.AcknowledgeRequestResponse} "Request acknowledged"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not assigned to practice"
// @Failure 404 {object} dto.APIResponse "Selection not found"
// @Failure 409 {object} dto.APIResponse "No open asset request to acknowledge"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/practices/{practiceUUID}/plan/selections/{uuid}/acknowledge [post]
func (h *WorkflowHandler) AcknowledgeRequest(c fiber.Ctx) error {
	userID, practiceID, errResp := practiceActor(c)
	if errResp != nil {
		return errResp
	}

	req := dto.AcknowledgeRequestRequest{
		UserID:        userID,
		PracticeID:    practiceID,
		SelectionUUID: c.Params("uuid"),
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/practices/:practiceUUID/plan/selections/"+req.SelectionUUID+"/acknowledge")
	defer cancel()

	result, err := h.workflowFlow.AcknowledgeRequest(ctx, &req, metadata)
	if err != nil {
		if resp := workflowErrorResponse(c, err); resp != nil {
			return resp
		}

		log.Println("Acknowledge request failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to acknowledge request", "ACKNOWLEDGE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// SubmitAssets handles a practice submitting its asset choices
// @Summary Submit asset choices
// @Description Submit the practice's asset selections and chosen creative for review
// @Tags Workflow
// @Accept json
// @Produce json
// @Param practiceUUID path string true "Practice UUID"
// @Param uuid path string true "Selection UUID"
// @Param request body dto.SubmitAssetsRequest true "Asset choices"
// @Success 200 {object} dto.APIResponse{data=dto.SubmitAssetsResponse} "Assets submitted"
// @Failure 400 {object} dto.APIResponse "Validation error, nothing selected, or creative not offered"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Not assigned to practice"
// @Failure 404 {object} dto.APIResponse "Selection not found"
// @Failure 409 {object} dto.APIResponse "Selection status does not allow submission"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/practices/{practiceUUID}/plan/selections/{uuid}/assets [post]
func (h *WorkflowHandler) SubmitAssets(c fiber.Ctx) error {
	userID, practiceID, errResp := practiceActor(c)
	if errResp != nil {
		return errResp
	}

	var req dto.SubmitAssetsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.UserID = userID
	req.PracticeID = practiceID
	req.SelectionUUID = c.Params("uuid")

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/practices/:practiceUUID/plan/selections/"+req.SelectionUUID+"/assets")
	defer cancel()

	result, err := h.workflowFlow.SubmitAssets(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsNothingSelected(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Submission must select at least one asset", "NOTHING_SELECTED", nil)
		}
		if businessflow.IsChosenCreativeNotOffered(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Chosen creative was not among the offered options", "CHOSEN_CREATIVE_NOT_OFFERED", nil)
		}
		if resp := workflowErrorResponse(c, err); resp != nil {
			return resp
		}

		log.Println("Asset submission failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to submit assets", "SUBMIT_ASSETS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// practiceActor pulls the authenticated user and resolved practice out of
// the request context
func practiceActor(c fiber.Ctx) (uint, uint, error) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok || userID == 0 {
		return 0, 0, errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}
	practiceID, ok := middleware.GetPracticeIDFromContext(c)
	if !ok {
		return 0, 0, errorResponse(c, fiber.StatusForbidden, "Practice not resolved", "PRACTICE_ACCESS_DENIED", nil)
	}
	return userID, practiceID, nil
}

// workflowErrorResponse maps the workflow errors shared by every transition
// endpoint. Returns nil when the error is not one of them.
func workflowErrorResponse(c fiber.Ctx, err error) error {
	if businessflow.IsSelectionNotFound(err) {
		return errorResponse(c, fiber.StatusNotFound, "Selection not found", "SELECTION_NOT_FOUND", nil)
	}
	if businessflow.IsNotPracticeMember(err) {
		return errorResponse(c, fiber.StatusForbidden, "You are not assigned to this practice", "PRACTICE_ACCESS_DENIED", nil)
	}
	if businessflow.IsSelectionAlreadyConfirmed(err) {
		return errorResponse(c, fiber.StatusConflict, "Selection is already confirmed", "SELECTION_ALREADY_CONFIRMED", nil)
	}
	if businessflow.IsInvalidTransition(err) {
		return errorResponse(c, fiber.StatusConflict, "Selection status does not allow this operation", "INVALID_TRANSITION", nil)
	}
	if businessflow.IsUserNotFound(err) || businessflow.IsAdminNotFound(err) || businessflow.IsAccountInactive(err) {
		return errorResponse(c, fiber.StatusUnauthorized, "Account not found or inactive", "ACCOUNT_INACTIVE", nil)
	}
	return nil
}
