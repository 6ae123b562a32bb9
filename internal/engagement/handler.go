package engagement

import (
	"errors"
	"strconv"

	"github.com/clipstream-labs/clipstream/backend/internal/apperrors"
	"github.com/clipstream-labs/clipstream/backend/internal/auth"
	"github.com/clipstream-labs/clipstream/backend/internal/comment"
	"github.com/clipstream-labs/clipstream/backend/internal/httpapi"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler exposes the engagement operations over HTTP
type Handler struct {
	service  Service
	response httpapi.ResponseHandler
}

// NewHandler creates a new engagement handler
func NewHandler(service Service, response httpapi.ResponseHandler) *Handler {
	return &Handler{
		service:  service,
		response: response,
	}
}

// RegisterRoutes registers the engagement routes on the given group.
// All routes require authentication.
func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/users/:id/follow", h.follow)
	group.DELETE("/users/:id/follow", h.unfollow)
	group.GET("/users/:id/follow-status", h.followStatus)
	group.GET("/users/:id/followers", h.followers)
	group.GET("/users/:id/following", h.following)

	group.POST("/videos/:id/like", h.likeVideo)
	group.DELETE("/videos/:id/like", h.unlikeVideo)
	group.POST("/videos/:id/save", h.saveVideo)
	group.DELETE("/videos/:id/save", h.unsaveVideo)
	group.GET("/videos/:id/engagement", h.videoEngagement)
	group.POST("/videos/:id/view", h.viewVideo)

	group.POST("/videos/:id/comments", h.addComment)
	group.GET("/videos/:id/comments", h.rootComments)
	group.GET("/comments/:id/replies", h.replies)
	group.POST("/comments/:id/like", h.likeComment)
	group.DELETE("/comments/:id/like", h.unlikeComment)
}

// handleError maps domain errors onto the response envelope
func (h *Handler) handleError(c *gin.Context, err error) {
	var validationErr *apperrors.ValidationError
	if errors.As(err, &validationErr) {
		h.response.ValidationErrorResponse(c, validationErr.Field, validationErr.Message)
		return
	}
	if apperrors.IsNotFound(err) {
		h.response.NotFoundResponse(c, err.Error())
		return
	}
	h.response.InternalErrorResponse(c, "Operation failed", err)
}

func (h *Handler) callerAndTarget(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		h.response.UnauthorizedResponse(c, "Authentication required")
		return uuid.Nil, uuid.Nil, false
	}
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.response.ValidationErrorResponse(c, "id", "Invalid ID")
		return uuid.Nil, uuid.Nil, false
	}
	return userID, targetID, true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, limit
}

func (h *Handler) follow(c *gin.Context) {
	userID, targetID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}
	changed, err := h.service.FollowUser(c.Request.Context(), userID, targetID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"changed": changed}, "Followed")
}

func (h *Handler) unfollow(c *gin.Context) {
	userID, targetID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}
	changed, err := h.service.UnfollowUser(c.Request.Context(), userID, targetID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"changed": changed}, "Unfollowed")
}

func (h *Handler) followStatus(c *gin.Context) {
	userID, targetID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}
	following, err := h.service.IsFollowing(c.Request.Context(), userID, targetID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"following": following}, "Follow status retrieved")
}

func (h *Handler) followers(c *gin.Context) {
	_, targetID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)
	ids, err := h.service.ListFollowers(c.Request.Context(), targetID, page, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"followers": ids, "page": page, "limit": limit}, "Followers retrieved")
}

func (h *Handler) following(c *gin.Context) {
	_, targetID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)
	ids, err := h.service.ListFollowing(c.Request.Context(), targetID, page, limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"following": ids, "page": page, "limit": limit}, "Following retrieved")
}

func (h *Handler) likeVideo(c *gin.Context) {
	userID, videoID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}
	changed, err := h.service.LikeVideo(c.Request.Context(), userID, videoID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"changed": changed}, "Video liked")
}

func (h *Handler) unlikeVideo(c *gin.Context) {
	userID, videoID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}
	changed, err := h.service.UnlikeVideo(c.Request.Context(), userID, videoID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"changed": changed}, "Video unliked")
}

func (h *Handler) saveVideo(c *gin.Context) {
	userID, videoID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}
	changed, err := h.service.SaveVideo(c.Request.Context(), userID, videoID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"changed": changed}, "Video saved")
}

func (h *Handler) unsaveVideo(c *gin.Context) {
	userID, videoID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}
	changed, err := h.service.UnsaveVideo(c.Request.Context(), userID, videoID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"changed": changed}, "Video unsaved")
}

func (h *Handler) videoEngagement(c *gin.Context) {
	userID, videoID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}
	liked, err := h.service.HasLikedVideo(c.Request.Context(), userID, videoID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	saved, err := h.service.HasSavedVideo(c.Request.Context(), userID, videoID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"liked": liked, "saved": saved}, "Engagement retrieved")
}

func (h *Handler) viewVideo(c *gin.Context) {
	userID, videoID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}
	first, err := h.service.ViewVideo(c.Request.Context(), userID, videoID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"first_view": first}, "View recorded")
}

type addCommentRequest struct {
	Content  string     `json:"content" binding:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
}

func (h *Handler) addComment(c *gin.Context) {
	userID, videoID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}
	var req addCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.response.ValidationErrorResponse(c, "content", "Invalid request body")
		return
	}
	created, err := h.service.AddComment(c.Request.Context(), userID, videoID, req.ParentID, req.Content)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.response.SuccessResponse(c, created, "Comment created")
}

func (h *Handler) rootComments(c *gin.Context) {
	_, videoID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)
	comments, err := h.service.GetRootComments(c.Request.Context(), videoID, comment.FilterOptions{Page: page, Limit: limit})
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.response.SuccessResponse(c, comments, "Comments retrieved")
}

func (h *Handler) replies(c *gin.Context) {
	_, parentID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)
	comments, err := h.service.GetChildren(c.Request.Context(), parentID, comment.FilterOptions{Page: page, Limit: limit})
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.response.SuccessResponse(c, comments, "Replies retrieved")
}

func (h *Handler) likeComment(c *gin.Context) {
	userID, commentID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}
	changed, err := h.service.LikeComment(c.Request.Context(), userID, commentID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"changed": changed}, "Comment liked")
}

func (h *Handler) unlikeComment(c *gin.Context) {
	userID, commentID, ok := h.callerAndTarget(c)
	if !ok {
		return
	}
	changed, err := h.service.UnlikeComment(c.Request.Context(), userID, commentID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.response.SuccessResponse(c, gin.H{"changed": changed}, "Comment unliked")
}
