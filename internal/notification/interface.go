package notification

import (
	"context"

	"github.com/google/uuid"
)

// Sink receives engagement events. Implementations must tolerate being
// called after the producing transaction has committed; there is no way
// to roll the event back.
type Sink interface {
	Publish(ctx context.Context, event *Event) error
}

// Repository persists notifications
type Repository interface {
	Save(ctx context.Context, n *Notification) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error)
	UnreadCount(ctx context.Context, userID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) error
}
