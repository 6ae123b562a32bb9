package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification is a persisted, per-recipient notification row
type Notification struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"user_id"`
	Type      EventType  `json:"type"`
	Content   string     `json:"content"`
	ActorID   uuid.UUID  `json:"actor_id"`
	VideoID   *uuid.UUID `json:"video_id,omitempty"`
	CommentID *uuid.UUID `json:"comment_id,omitempty"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// IsRead reports whether the notification has been read
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
