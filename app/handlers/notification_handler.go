package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/optiplan/optiplan/app/dto"
	"github.com/optiplan/optiplan/app/middleware"
	businessflow "github.com/optiplan/optiplan/business_flow"
)

// NotificationHandlerInterface defines the contract for notification handlers
type NotificationHandlerInterface interface {
	ListNotifications(c fiber.Ctx) error
	MarkNotificationRead(c fiber.Ctx) error
	UnreadCount(c fiber.Ctx) error
}

// NotificationHandler handles in-app notification HTTP requests
type NotificationHandler struct {
	notificationFlow businessflow.NotificationFlow
	validator        *validator.Validate
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationFlow businessflow.NotificationFlow) *NotificationHandler {
	return &NotificationHandler{
		notificationFlow: notificationFlow,
		validator:        validator.New(),
	}
}

// ListNotifications handles listing the authenticated user's notifications
// @Summary List notifications
// @Description List the authenticated user's notifications, newest first
// @Tags Notifications
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.ListNotificationsResponse} "Notifications retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/notifications [get]
func (h *NotificationHandler) ListNotifications(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok || userID == 0 {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	req := dto.ListNotificationsRequest{
		UserID:   userID,
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 50),
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/notifications")
	defer cancel()

	result, err := h.notificationFlow.ListNotifications(ctx, &req, metadata)
	if err != nil {
		log.Println("Notification listing failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to list notifications", "NOTIFICATION_LIST_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// MarkNotificationRead handles marking one notification as read
// @Summary Mark notification read
// @Description Mark one of the authenticated user's notifications as read
// @Tags Notifications
// @Produce json
// @Param uuid path string true "Notification UUID"
// @Success 200 {object} dto.APIResponse{data=dto.MarkNotificationReadResponse} "Notification marked read"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 403 {object} dto.APIResponse "Notification belongs to another user"
// @Failure 404 {object} dto.APIResponse "Notification not found"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/notifications/{uuid}/read [post]
func (h *NotificationHandler) MarkNotificationRead(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok || userID == 0 {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	req := dto.MarkNotificationReadRequest{
		UserID:           userID,
		NotificationUUID: c.Params("uuid"),
	}

	if err := h.validator.Struct(&req); err != nil {
		return errorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationMessages(err))
	}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/notifications/"+req.NotificationUUID+"/read")
	defer cancel()

	result, err := h.notificationFlow.MarkNotificationRead(ctx, &req, metadata)
	if err != nil {
		if businessflow.IsNotificationNotFound(err) {
			return errorResponse(c, fiber.StatusNotFound, "Notification not found", "NOTIFICATION_NOT_FOUND", nil)
		}
		if businessflow.IsNotificationAccessDenied(err) {
			return errorResponse(c, fiber.StatusForbidden, "Notification belongs to another user", "NOTIFICATION_ACCESS_DENIED", nil)
		}

		log.Println("Mark notification read failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to mark notification as read", "NOTIFICATION_UPDATE_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}

// UnreadCount handles fetching the user's unread notification count
// @Summary Unread notification count
// @Description Fetch the authenticated user's unread notification count
// @Tags Notifications
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.UnreadCountResponse} "Count retrieved"
// @Failure 401 {object} dto.APIResponse "Unauthorized"
// @Failure 500 {object} dto.APIResponse "Internal server error"
// @Router /api/v1/notifications/unread-count [get]
func (h *NotificationHandler) UnreadCount(c fiber.Ctx) error {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok || userID == 0 {
		return errorResponse(c, fiber.StatusUnauthorized, "Authentication required", "AUTHENTICATION_REQUIRED", nil)
	}

	req := dto.UnreadCountRequest{UserID: userID}

	metadata := businessflow.NewClientMetadata(c.IP(), c.Get("User-Agent"))

	ctx, cancel := createRequestContext(c, "/api/v1/notifications/unread-count")
	defer cancel()

	result, err := h.notificationFlow.UnreadCount(ctx, &req, metadata)
	if err != nil {
		log.Println("Unread count fetch failed", err)
		return errorResponse(c, fiber.StatusInternalServerError, "Failed to fetch unread count", "UNREAD_COUNT_FAILED", nil)
	}

	return successResponse(c, fiber.StatusOK, result.Message, result)
}
