package handler

import (
	"log/slog"
	"net/http"

	"veritaslab/internal/microservices/http-api/dto"
	"veritaslab/internal/microservices/http-api/middleware"
	"veritaslab/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService service.NotificationService
	logger              *slog.Logger
}

func NewNotificationHandler(notificationService service.NotificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService, logger: logger}
}

// RegisterRoutes registers the inbox routes, all of them scoped to the caller.
func (h *NotificationHandler) RegisterRoutes(rg *gin.RouterGroup, guards Guards) {
	notifications := rg.Group("/notifications", guards.Required)
	{
		notifications.GET("", h.List)
		notifications.GET("/unread-count", h.UnreadCount)
		notifications.PUT("/read-all", h.MarkAllAsRead)
		notifications.PUT("/:id/read", h.MarkAsRead)
		notifications.DELETE("/:id", h.Delete)
	}
}

// GET /api/notifications
func (h *NotificationHandler) List(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	notifications, unread, err := h.notificationService.List(ctx, middleware.UserIDFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NotificationListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	})
}

// GET /api/notifications/unread-count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	count, err := h.notificationService.UnreadCount(ctx, middleware.UserIDFrom(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.UnreadCountResponse{Count: count})
}

// PUT /api/notifications/:id/read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.notificationService.MarkAsRead(ctx, middleware.UserIDFrom(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification marked as read"})
}

// PUT /api/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.notificationService.MarkAllAsRead(ctx, middleware.UserIDFrom(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "all notifications marked as read"})
}

// DELETE /api/notifications/:id
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := h.notificationService.Delete(ctx, middleware.UserIDFrom(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "notification deleted"})
}
