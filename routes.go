package main

import (
	"github.com/clipstream-labs/clipstream/backend/internal/auth"
	"github.com/clipstream-labs/clipstream/backend/internal/engagement"
	"github.com/clipstream-labs/clipstream/backend/internal/notification"
)

// setupRoutes registers all HTTP routes
func (a *App) setupRoutes() {
	a.router.GET("/health", a.handleHealth)

	api := a.router.Group("/api/v1")
	authenticated := api.Group("")
	authenticated.Use(auth.Middleware(a.tokens, a.response))

	// Engagement operations (follow/like/save/view/comment)
	engagementHandler := engagement.NewHandler(a.engagement, a.response)
	engagementHandler.RegisterRoutes(authenticated)

	// Video catalog and upload
	authenticated.POST("/videos", a.handleVideoUpload)
	authenticated.GET("/videos", a.handleVideoList)
	authenticated.GET("/videos/:id", a.handleVideoGet)
	authenticated.GET("/videos/:id/watch", a.handleVideoWatch)

	// Notification read API, only when the persistent sink is up
	if a.notifications != nil {
		notificationHandler := notification.NewHandler(a.notifications, a.response)
		notificationHandler.RegisterRoutes(authenticated.Group("/notifications"))
	}
}
