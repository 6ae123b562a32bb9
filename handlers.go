package main

import (
	"strconv"

	"github.com/clipstream-labs/clipstream/backend/internal/apperrors"
	"github.com/clipstream-labs/clipstream/backend/internal/auth"
	"github.com/clipstream-labs/clipstream/backend/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (a *App) handleHealth(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		a.response.InternalErrorResponse(c, "Database unavailable", err)
		return
	}
	a.response.SuccessResponse(c, gin.H{"status": "ok"}, "Service healthy")
}

func (a *App) handleVideoUpload(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		a.response.UnauthorizedResponse(c, "Authentication required")
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		a.response.ValidationErrorResponse(c, "file", "Video file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		a.response.InternalErrorResponse(c, "Failed to read uploaded file", err)
		return
	}
	defer file.Close()

	v, err := a.videos.Upload(c.Request.Context(), userID, title, description, storage.Object{
		Reader:      file,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		a.handleVideoError(c, err)
		return
	}
	a.response.SuccessResponse(c, v, "Video uploaded")
}

func (a *App) handleVideoList(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	videos, err := a.videos.List(c.Request.Context(), page, limit)
	if err != nil {
		a.handleVideoError(c, err)
		return
	}
	a.response.SuccessResponse(c, gin.H{"videos": videos, "page": page, "limit": limit}, "Videos retrieved")
}

func (a *App) handleVideoGet(c *gin.Context) {
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		a.response.ValidationErrorResponse(c, "id", "Invalid video ID")
		return
	}

	v, err := a.videos.Get(c.Request.Context(), videoID)
	if err != nil {
		a.handleVideoError(c, err)
		return
	}
	a.response.SuccessResponse(c, v, "Video retrieved")
}

// handleVideoWatch returns the video and records the caller's view
func (a *App) handleVideoWatch(c *gin.Context) {
	userID, ok := auth.UserIDFromContext(c)
	if !ok {
		a.response.UnauthorizedResponse(c, "Authentication required")
		return
	}
	videoID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		a.response.ValidationErrorResponse(c, "id", "Invalid video ID")
		return
	}

	v, err := a.videos.Get(c.Request.Context(), videoID)
	if err != nil {
		a.handleVideoError(c, err)
		return
	}

	first, err := a.engagement.ViewVideo(c.Request.Context(), userID, videoID)
	if err != nil {
		a.handleVideoError(c, err)
		return
	}
	a.response.SuccessResponse(c, gin.H{"video": v, "first_view": first}, "Video retrieved")
}

func (a *App) handleVideoError(c *gin.Context, err error) {
	if apperrors.IsValidation(err) {
		a.response.ValidationErrorResponse(c, "request", err.Error())
		return
	}
	if apperrors.IsNotFound(err) {
		a.response.NotFoundResponse(c, err.Error())
		return
	}
	a.response.InternalErrorResponse(c, "Video operation failed", err)
}
