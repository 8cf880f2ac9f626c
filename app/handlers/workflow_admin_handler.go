package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/optiplan/optiplan/app/dto"
	"github.com/optiplan/optiplan/app/middleware"
	businessflow "github.com/optiplan/optiplan/business_flow"
)

// WorkflowAdminHandlerInterface defines the contract for admin-side workflow handlers
type WorkflowAdminHandlerInterface interface {
	RequestAssets(c fiber.Ctx) error
	RequestAssetsBulk(c fiber.Ctx) error
	ConfirmAssets(c fiber.Ctx) error
	RequestRevision(c fiber.Ctx) error
	ListCommunicationLog(c fiber.Ctx) error
}

// WorkflowAdminHandler handles admin-side asset workflow HTTP requests
type WorkflowAdminHandler struct {
	workflowFlow businessflow.WorkflowFlow
	validator    *validator.Validate
}

// NewWorkflowAdminHandler creates a new admin workflow handler
func NewWorkflowAdminHandler(workflowFlow businessflow.WorkflowFlow) *WorkflowAdminHandler {
	return &WorkflowAdminHandler{
		workflowFlow: workflowFlow,
		validator:    validator.New(),
	}
}

// RequestAssets handles an admin requesting asset choices from a practice
// @Summary Request assets
// @Description Send an asset request to the practice behind a selection. Re-requesting overwrites the previous offer.
// @Tags Admin Workflow
// @Accept json
// @Produce json
// @Param uuid path string true "Selection UUID"
// @Param request body dto.RequestAssetsRequest true "Offered assets and creatives"
// @Success 200 {object} dto.APIResponse{data=dto.RequestAssetsResponse} "Asset request sent"
// @Failure 400 {object} dto.APIResponse "Validation error or empty offer"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Selection not found"
// @Failure 409 {object} dto.APIResponse "Selection status does not allow an asset request"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/selections/{uuid}/request-assets [post]
func (h *WorkflowAdminHandler) RequestAssets(c fiber.Ctx) error {
	adminID, errResp := adminActor(c)
	if errResp != nil {
		return errResp
	}

	var req dto.RequestAssetsRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.AdminID = adminID
	req.SelectionUUID = c.Params("uuid")

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/admin/selections/"+req.SelectionUUID+"/request-assets")
	defer cancel()

	result, err := h.workflowFlow.RequestAssets(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsNoAssetsRequested(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Asset request must offer at least one asset", "NO_ASSETS_REQUESTED", nil)
		}
		if businessflow.IsTooManyCreativeOptions(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Too many creative options offered", "TOO_MANY_CREATIVE_OPTIONS", nil)
		}
		if businessflow.IsInvalidRecipient(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Recipient is not an active member of the practice", "INVALID_RECIPIENT", nil)
		}
		if resp := workflowErrorResponse(c, err); resp != nil {
			return resp
		}

		log.Println("Asset request failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to request assets", "REQUEST_ASSETS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// RequestAssetsBulk handles sending one asset request to several selections
// @Summary Request assets in bulk
// @Description Apply the same asset request to up to 100 selections, reporting per-selection outcomes
// @Tags Admin Workflow
// @Accept json
// @Produce json
// @Param request body dto.RequestAssetsBulkRequest true "Selections and offered assets"
// @Success 200 {object} dto.APIResponse{data=dto.RequestAssetsBulkResponse} "Bulk request processed"
// @Failure 400 {object} dto.APIResponse "Validation error"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/selections/request-assets [post]
func (h *WorkflowAdminHandler) RequestAssetsBulk(c fiber.Ctx) error {
	adminID, errResp := adminActor(c)
	if errResp != nil {
		return errResp
	}

	var req dto.RequestAssetsBulkRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.AdminID = adminID

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/admin/selections/request-assets")
	defer cancel()

	result, err := h.workflowFlow.RequestAssetsBulk(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsNoAssetsRequested(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Asset request must offer at least one asset", "NO_ASSETS_REQUESTED", nil)
		}
		if businessflow.IsTooManyCreativeOptions(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Too many creative options offered", "TOO_MANY_CREATIVE_OPTIONS", nil)
		}

		log.Println("Bulk asset request failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to process bulk request", "BULK_REQUEST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ConfirmAssets handles an admin confirming a submission
// @Summary Confirm assets
// @Description Confirm a practice's submitted assets, finalizing the selection
// @Tags Admin Workflow
// @Accept json
// @Produce json
// @Param uuid path string true "Selection UUID"
// @Param request body dto.ConfirmAssetsRequest false "Optional confirmation note"
// @Success 200 {object} dto.APIResponse{data=dto.ConfirmAssetsResponse} "Assets confirmed"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Selection not found"
// @Failure 409 {object} dto.APIResponse "Selection status does not allow confirmation"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/selections/{uuid}/confirm [post]
func (h *WorkflowAdminHandler) ConfirmAssets(c fiber.Ctx) error {
	adminID, errResp := adminActor(c)
	if errResp != nil {
		return errResp
	}

	var req dto.ConfirmAssetsRequest
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&req); err != nil {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
		}
	}
	req.AdminID = adminID
	req.SelectionUUID = c.Params("uuid")

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/admin/selections/"+req.SelectionUUID+"/confirm")
	defer cancel()

	result, err := h.workflowFlow.ConfirmAssets(ctx, &req, metadata)
	if err != nil {
		if resp := workflowErrorResponse(c, err); resp != nil {
			return resp
		}

		log.Println("Asset confirmation failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to confirm assets", "CONFIRM_ASSETS_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// RequestRevision handles an admin sending a submission back with feedback
// @Summary Request revision
// @Description Send a submission back to the practice with feedback for another pass
// @Tags Admin Workflow
// @Accept json
// @Produce json
// @Param uuid path string true "Selection UUID"
// @Param request body dto.RequestRevisionRequest true "Feedback for the practice"
// @Success 200 {object} dto.APIResponse{data=dto.RequestRevisionResponse} "Revision requested"
// @Failure 400 {object} dto.APIResponse "Validation error or missing feedback"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Selection not found"
// @Failure 409 {object} dto.APIResponse "Selection status does not allow a revision request"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/selections/{uuid}/request-revision [post]
func (h *WorkflowAdminHandler) RequestRevision(c fiber.Ctx) error {
	adminID, errResp := adminActor(c)
	if errResp != nil {
		return errResp
	}

	var req dto.RequestRevisionRequest
	if err := c.Bind().JSON(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	req.AdminID = adminID
	req.SelectionUUID = c.Params("uuid")

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/admin/selections/"+req.SelectionUUID+"/request-revision")
	defer cancel()

	result, err := h.workflowFlow.RequestRevision(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsFeedbackRequired(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Feedback is required when requesting a revision", "FEEDBACK_REQUIRED", nil)
		}
		if resp := workflowErrorResponse(c, err); resp != nil {
			return resp
		}

		log.Println("Revision request failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to request revision", "REQUEST_REVISION_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ListCommunicationLog handles fetching a selection's workflow history
// @Summary List communication log
// @Description Fetch the append-only workflow history of a selection
// @Tags Admin Workflow
// @Produce json
// @Param uuid path string true "Selection UUID"
// @Success 200 {object} dto.APIResponse{data=dto.ListCommunicationLogResponse} "Log retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Selection not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/selections/{uuid}/log [get]
func (h *WorkflowAdminHandler) ListCommunicationLog(c fiber.Ctx) error {
	if _, errResp := adminActor(c); errResp != nil {
		return errResp
	}

	req := dto.ListCommunicationLogRequest{
		SelectionUUID: c.Params("uuid"),
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/admin/selections/"+req.SelectionUUID+"/log")
	defer cancel()

	result, err := h.workflowFlow.ListCommunicationLog(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsSelectionNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Selection not found", "SELECTION_NOT_FOUND", nil)
		}

		log.Println("Communication log fetch failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch communication log", "COMMUNICATION_LOG_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// adminActor pulls the authenticated admin out of the request context
func adminActor(c fiber.Ctx) (uint, error) {
	adminID, ok := middleware.GetAdminIDFromContext(c)
	if !ok || adminID == 0 {
		return 0, errorResponse(c, fiber.StatusUnauthorized, "Admin authentication required", "ADMIN_AUTHENTICATION_REQUIRED", nil)
	}
	return adminID, nil
}
