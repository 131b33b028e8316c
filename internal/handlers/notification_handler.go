package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/ripplefeed/backend/internal/notifier"
	"github.com/ripplefeed/backend/internal/repositories"
	"gorm.io/gorm"
)

// NotificationHandler handles HTTP requests related to notifications
type NotificationHandler struct {
	notificationRepository repositories.NotificationRepository
	notifier               *notifier.Service
	admins                 map[uint]struct{}
}

// NewNotificationHandler creates a new NotificationHandler. Only users in
// admins may broadcast.
func NewNotificationHandler(notificationRepo repositories.NotificationRepository, notif *notifier.Service, admins map[uint]struct{}) *NotificationHandler {
	return &NotificationHandler{
		notificationRepository: notificationRepo,
		notifier:               notif,
		admins:                 admins,
	}
}

// RegisterNotificationRoutes registers notification-related routes
func (h *NotificationHandler) RegisterNotificationRoutes(g *echo.Group) {
	g.GET("/notifications", h.GetNotifications)
	g.GET("/notifications/unread-count", h.GetUnreadCount)
	g.PUT("/notifications/:id/read", h.MarkAsRead)
	g.PUT("/notifications/read-all", h.MarkAllAsRead)
	g.DELETE("/notifications/:id", h.DeleteNotification)
	g.POST("/admin/broadcast", h.Broadcast)
}

// GetNotifications retrieves the authenticated user's notifications,
// newest first, at most 50 per page
func (h *NotificationHandler) GetNotifications(c echo.Context) error {
	currentUserID, err := currentUserID(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	if limit <= 0 || limit > 50 {
		limit = 50
	}

	notifications, total, err := h.notificationRepository.GetByRecipientID(currentUserID, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"notifications": notifications,
		"meta": echo.Map{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	})
}

// GetUnreadCount returns how many unread notifications the user has
func (h *NotificationHandler) GetUnreadCount(c echo.Context) error {
	currentUserID, err := currentUserID(c)
	if err != nil {
		return err
	}

	count, err := h.notificationRepository.GetUnreadCount(currentUserID)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"unread_count": count})
}

// MarkAsRead marks a single notification as read. Only the recipient may
// mark it; anyone else gets 403, a missing record gets 404.
func (h *NotificationHandler) MarkAsRead(c echo.Context) error {
	currentUserID, err := currentUserID(c)
	if err != nil {
		return err
	}

	notificationID, err := parseNotificationID(c)
	if err != nil {
		return err
	}

	notification, err := h.notificationRepository.GetByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if notification.RecipientID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only mark your own notifications as read")
	}

	if err := h.notificationRepository.MarkAsRead(notificationID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

// MarkAllAsRead marks every unread notification of the user as read
func (h *NotificationHandler) MarkAllAsRead(c echo.Context) error {
	currentUserID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.notificationRepository.MarkAllAsRead(currentUserID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read"})
}

// DeleteNotification deletes a single notification owned by the caller
func (h *NotificationHandler) DeleteNotification(c echo.Context) error {
	currentUserID, err := currentUserID(c)
	if err != nil {
		return err
	}

	notificationID, err := parseNotificationID(c)
	if err != nil {
		return err
	}

	notification, err := h.notificationRepository.GetByID(notificationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Notification not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if notification.RecipientID != currentUserID {
		return echo.NewHTTPError(http.StatusForbidden, "You can only delete your own notifications")
	}

	if err := h.notificationRepository.DeleteNotification(notificationID); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.NoContent(http.StatusNoContent)
}

// BroadcastRequest defines the payload for an admin broadcast
type BroadcastRequest struct {
	Message string `json:"message" validate:"required,min=1,max=500"`
}

// Broadcast pushes an announcement to every connected user. Restricted to
// the configured admin allowlist; no durable records are written.
func (h *NotificationHandler) Broadcast(c echo.Context) error {
	currentUserID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if _, ok := h.admins[currentUserID]; !ok {
		return echo.NewHTTPError(http.StatusForbidden, "Broadcast is restricted to administrators")
	}

	var req BroadcastRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}

	validate := validator.New()
	if err := validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	h.notifier.Broadcast(req.Message, currentUserID)

	return c.JSON(http.StatusOK, echo.Map{"message": "Broadcast sent"})
}

func parseNotificationID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "Invalid notification ID")
	}
	return uint(id), nil
}
