package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/clipstream-labs/clipstream/backend/internal/logger"
	"github.com/google/uuid"
)

// Service persists engagement events as per-recipient notifications.
// It implements Sink for the write path and backs the notification API
// for the read path.
type Service struct {
	repository Repository
	logger     logger.Logger
	enabled    bool
}

// NewService creates a new notification service
func NewService(repository Repository, logger logger.Logger, enabled bool) *Service {
	return &Service{
		repository: repository,
		logger:     logger,
		enabled:    enabled,
	}
}

// Publish stores the event as a notification for its recipient
func (s *Service) Publish(ctx context.Context, event *Event) error {
	if !s.enabled {
		return nil
	}

	n := &Notification{
		ID:        uuid.New(),
		UserID:    event.RecipientID,
		Type:      event.Type,
		Content:   renderContent(event.Type),
		ActorID:   event.ActorID,
		VideoID:   event.VideoID,
		CommentID: event.CommentID,
		CreatedAt: time.Now(),
	}
	if err := s.repository.Save(ctx, n); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Type, err)
	}

	s.logger.LogDebug("notification published", map[string]interface{}{
		"type":      string(event.Type),
		"recipient": event.RecipientID.String(),
	})
	return nil
}

func renderContent(t EventType) string {
	switch t {
	case EventUserFollowed:
		return "started following you"
	case EventVideoLiked:
		return "liked your video"
	case EventCommentLiked:
		return "liked your comment"
	case EventCommentCreated:
		return "commented on your video"
	case EventVideoUploaded:
		return "uploaded a new video"
	default:
		return string(t)
	}
}

// List returns a page of the user's notifications, newest first
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.repository.ListByUser(ctx, userID, limit, offset)
}

// UnreadCount returns the number of unread notifications for the user
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repository.UnreadCount(ctx, userID)
}

// MarkRead marks one of the user's notifications as read
func (s *Service) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return s.repository.MarkRead(ctx, userID, notificationID)
}

// MarkAllRead marks all of the user's notifications as read
func (s *Service) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return s.repository.MarkAllRead(ctx, userID)
}
