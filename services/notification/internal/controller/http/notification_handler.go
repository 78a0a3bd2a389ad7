package http

import (
	"net/http"
	"strconv"

	"learnhub/pkg/logger"
	"learnhub/pkg/middleware"
	"learnhub/services/notification/internal/entity"
	"learnhub/services/notification/internal/usecase"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationUseCase usecase.NotificationUseCase
	logger              *logger.Logger
}

func NewNotificationHandler(notificationUseCase usecase.NotificationUseCase, logger *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
		logger:              logger,
	}
}

// GetNotifications godoc
// @Summary      Get user notifications
// @Description  Newest first, optionally filtered by state
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        state  query  string  false  "UNREAD, READ or ARCHIVED"
// @Param        limit  query  int     false  "Page size (max 100)"  default(50)
// @Param        offset query  int     false  "Offset"               default(0)
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]interface{}
// @Router       /notifications [get]
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	var filter entity.ListFilter
	if raw := c.Query("state"); raw != "" {
		state, ok := entity.ParseState(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "state must be one of UNREAD, READ, ARCHIVED"})
			return
		}
		filter.State = state
	}
	filter.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "50"))
	filter.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	filter.Normalize()

	notifications, total, err := h.notificationUseCase.List(c.Request.Context(), userID, filter)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": notifications,
		"count":         len(notifications),
		"total":         total,
		"offset":        filter.Offset,
	})
}

// GetUnreadCount godoc
// @Summary      Unread badge counter
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]int64
// @Router       /notifications/unread-count [get]
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	unread, err := h.notificationUseCase.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unread": unread})
}

// MarkRead godoc
// @Summary      Mark a notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      200  {object}  entity.Notification
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Router       /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	n, err := h.notificationUseCase.MarkRead(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, n)
}

// Archive godoc
// @Summary      Archive a notification
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Notification ID"
// @Success      200  {object}  entity.Notification
// @Failure      404  {object}  map[string]string
// @Router       /notifications/{id}/archive [post]
func (h *NotificationHandler) Archive(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	n, err := h.notificationUseCase.Archive(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, n)
}

// MarkAllRead godoc
// @Summary      Mark every unread notification as read
// @Tags         notifications
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		middleware.AbortUnauthorized(c)
		return
	}

	updated, err := h.notificationUseCase.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Notifications marked as read", "updated": updated})
}
