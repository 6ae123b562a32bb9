package notification

import (
	"github.com/google/uuid"
)

// EventType identifies what kind of engagement produced a notification
type EventType string

const (
	EventUserFollowed   EventType = "USER_FOLLOWED"
	EventVideoLiked     EventType = "VIDEO_LIKED"
	EventCommentLiked   EventType = "COMMENT_LIKED"
	EventCommentCreated EventType = "COMMENT_CREATED"
	EventVideoUploaded  EventType = "VIDEO_UPLOADED"
)

// Event is an engagement fact to be delivered to a recipient. Events
// are emitted after the producing unit of work commits, and delivery
// failures never fail the operation that produced them.
type Event struct {
	Type        EventType  `json:"type"`
	ActorID     uuid.UUID  `json:"actor_id"`
	RecipientID uuid.UUID  `json:"recipient_id"`
	VideoID     *uuid.UUID `json:"video_id,omitempty"`
	CommentID   *uuid.UUID `json:"comment_id,omitempty"`
}
