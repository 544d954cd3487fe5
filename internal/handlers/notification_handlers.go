package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"sijuk_backend/internal/middleware"
	"sijuk_backend/internal/services"
	"sijuk_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// NotificationHandler holds the notification service.
type NotificationHandler struct {
	notificationService services.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(ns services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: ns}
}

// ListNotifications handles fetching the caller's notifications.
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated.", ""))
		return
	}

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed <= 0 {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid limit format.", "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	notifications, err := h.notificationService.List(actor, limit)
	if err != nil {
		utils.LogError(err, "ListNotifications: Error from notificationService.List")
		if errors.Is(err, services.ErrForbidden) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You do not have permission to view notifications.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch notifications.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": notifications})
}

// MarkNotificationRead handles marking one notification as read.
func (h *NotificationHandler) MarkNotificationRead(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Not authenticated.", ""))
		return
	}

	notificationID := c.Param("id")

	notification, err := h.notificationService.MarkRead(actor, notificationID)
	if err != nil {
		utils.LogError(err, "MarkNotificationRead: Error from notificationService.MarkRead for ID "+notificationID)
		switch {
		case errors.Is(err, services.ErrNotificationNotFound):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Notification not found.", err.Error()))
		case errors.Is(err, services.ErrForbidden):
			utils.RespondWithError(c, utils.NewAPIError(http.StatusForbidden, utils.ErrCodeForbidden, "You do not have permission to modify notifications.", err.Error()))
		default:
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to mark notification read.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, notification)
}
