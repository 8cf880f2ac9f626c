package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/optiplan/optiplan/app/dto"
	businessflow "github.com/optiplan/optiplan/business_flow"
)

// ReportAdminHandlerInterface defines the contract for admin reporting handlers
type ReportAdminHandlerInterface interface {
	ListSelections(c fiber.Ctx) error
	ExportPlan(c fiber.Ctx) error
}

// ReportAdminHandler handles admin reporting HTTP requests
type ReportAdminHandler struct {
	reportFlow businessflow.ReportFlow
	validator  *validator.Validate
}

// NewReportAdminHandler creates a new admin reporting handler
func NewReportAdminHandler(reportFlow businessflow.ReportFlow) *ReportAdminHandler {
	return &ReportAdminHandler{
		reportFlow: reportFlow,
		validator:  validator.New(),
	}
}

// ListSelections handles the cross-practice selection listing
// @Summary List selections across practices
// @Description List campaign selections across all practices, optionally filtered by status
// @Tags Admin Reports
// @Produce json
// @Param status query string false "Filter by workflow status"
// @Success 200 {object} dto.APIResponse{data=dto.AdminListSelectionsResponse} "Selections retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/selections [get]
func (h *ReportAdminHandler) ListSelections(c fiber.Ctx) error {
	adminID, errResp := adminActor(c)
	if errResp != nil {
		return errResp
	}

	req := dto.AdminListSelectionsRequest{
		AdminID:  adminID,
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 50),
	}
	if status := c.Query("status"); status != "" {
		req.Status = &status
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/admin/selections")
	defer cancel()

	result, err := h.reportFlow.AdminListSelections(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsInvalidStatus(err) {
			return errorResponse(c, fiber.StatusBadRequest, "Invalid selection status", "INVALID_STATUS", nil)
		}

		log.Println("Admin selection listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list selections", "SELECTION_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// ExportPlan handles the plan spreadsheet export
// @Summary Export plans as XLSX
// @Description Generate a spreadsheet of campaign plans, one sheet per practice
// @Tags Admin Reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param practice_uuid query string false "Limit export to one practice"
// @Success 200 {file} binary "Spreadsheet file"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 404 {object} dto.APIResponse "Practice not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/admin/export [get]
func (h *ReportAdminHandler) ExportPlan(c fiber.Ctx) error {
	adminID, errResp := adminActor(c)
	if errResp != nil {
		return errResp
	}

	req := dto.ExportPlanRequest{AdminID: adminID}
	if practiceUUID := c.Query("practice_uuid"); practiceUUID != "" {
		req.PracticeUUID = &practiceUUID
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/admin/export")
	defer cancel()

	result, err := h.reportFlow.ExportPlanXLSX(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsPracticeNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Practice not found", "PRACTICE_NOT_FOUND", nil)
		}

		log.Println("Plan export failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to export plans", "PLAN_EXPORT_FAILED", nil)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+result.FileName+`"`)
	return c.Status(fiber.StatusOK).Send(result.Content)
}
