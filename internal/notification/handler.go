package notification

import (
	"strconv"

	"github.com/clipstream-labs/clipstream/backend/internal/apperrors"
	"github.com/clipstream-labs/clipstream/backend/internal/auth"
	"github.com/clipstream-labs/clipstream/backend/internal/httpapi"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler exposes the notification read API
type Handler struct {
	service  *Service
	response httpapi.ResponseHandler
}

// NewHandler creates a new notification handler
func NewHandler(service *Service, response httpapi.ResponseHandler) *Handler {
	return &Handler{
		service:  service,
		response: response,
	}
}

// RegisterRoutes registers the notification routes on the given group.
// All routes require authentication.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("", h.list)
	group.GET("/unread-count", h.unreadCount)
	group.PUT("/:id/read", h.markRead)
	group.PUT("/read-all", h.markAllRead)
}

func (h *Handler) list(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		h.response.UnauthorizedResponse(c, "Authentication required")
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	notifications, err := h.service.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		h.response.InternalErrorResponse(c, "Failed to list notifications", err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"notifications": notifications}, "Notifications retrieved")
}

func (h *Handler) unreadCount(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		h.response.UnauthorizedResponse(c, "Authentication required")
		return
	}

	count, err := h.service.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		h.response.InternalErrorResponse(c, "Failed to count unread notifications", err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"unread_count": count}, "Unread count retrieved")
}

func (h *Handler) markRead(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		h.response.UnauthorizedResponse(c, "Authentication required")
		return
	}

	notificationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "id", "Invalid notification ID")
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), userID, notificationID); err != nil {
		if apperrors.IsNotFound(err) {
			h.response.NotFoundResponse(c, "Notification not found")
			return
		}
		h.response.InternalErrorResponse(c, "Failed to mark notification as read", err)
		return
	}
	h.response.SuccessResponse(c, nil, "Notification marked as read")
}

func (h *Handler) markAllRead(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		h.response.UnauthorizedResponse(c, "Authentication required")
		return
	}

	if err := h.service.MarkAllRead(c.Request.Context(), userID); err != nil {
		h.response.InternalErrorResponse(c, "Failed to mark notifications as read", err)
		return
	}
	h.response.SuccessResponse(c, nil, "All notifications marked as read")
}
