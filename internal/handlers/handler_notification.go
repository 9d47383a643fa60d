package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	portssvc "github.com/vladisc/financial-server/internal/core/ports/services"
	"github.com/vladisc/financial-server/internal/dto"
	"github.com/vladisc/financial-server/internal/middleware"
)

// notificationHandler handles notification ingestion and listing.
type notificationHandler struct {
	notificationService portssvc.NotificationSvcFacade
}

// newNotificationHandler creates a new notificationHandler.
func newNotificationHandler(ns portssvc.NotificationSvcFacade) *notificationHandler {
	return &notificationHandler{notificationService: ns}
}

// registerNotificationRoutes registers notification routes. Ingestion is rate
// limited because each request can fan out into model calls.
func registerNotificationRoutes(rg *gin.RouterGroup, notificationService portssvc.NotificationSvcFacade, ingestLimiter *limiter.Limiter) {
	h := newNotificationHandler(notificationService)

	notifications := rg.Group("/notifications")
	{
		notifications.POST("", middleware.RateLimit(ingestLimiter), h.ingestNotifications)
		notifications.GET("", h.listNotifications)
	}
}

// ingestNotifications godoc
// @Summary Ingest a notification batch
// @Description Accepts a JSON array of push notifications, extracts transactions from them, and persists both. Records already ingested are skipped without error.
// @Tags notifications
// @Accept json
// @Produce json
// @Param notifications body dto.IngestNotificationsRequest true "Notification batch"
// @Success 201 {object} dto.IngestResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "No record in the batch could be persisted"
// @Failure 429 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications [post]
func (h *notificationHandler) ingestNotifications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.IngestNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.notificationService.IngestNotifications(c.Request.Context(), userID, req)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to ingest notifications", slog.String("error", err.Error()))
			c.JSON(status, ErrorResponse{Error: "Failed to ingest notifications"})
			return
		}
		c.JSON(status, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// listNotifications godoc
// @Summary List notifications
// @Description Retrieves the user's stored notifications, optionally bounded by a date window, newest first.
// @Tags notifications
// @Produce json
// @Param start_date query string false "Window start (yyyy-MM-dd, inclusive)"
// @Param end_date query string false "Window end (yyyy-MM-dd, inclusive)"
// @Success 200 {array} dto.NotificationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /notifications [get]
func (h *notificationHandler) listNotifications(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	window, err := parseTimeWindow(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), userID, window)
	if err != nil {
		logger.Error("Failed to list notifications", slog.String("error", err.Error()))
		c.JSON(statusForError(err), ErrorResponse{Error: "Failed to list notifications"})
		return
	}

	c.JSON(http.StatusOK, dto.ToNotificationResponses(notifications))
}
