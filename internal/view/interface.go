package view

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store persists view records. TryCreate follows the same idempotency
// contract as the edge store: it reports whether this call created the
// record, and a pre-existing record is not an error.
type Store interface {
	WithTx(tx *gorm.DB) Store
	TryCreate(ctx context.Context, userID, videoID uuid.UUID) (bool, error)
	IncrementRepeat(ctx context.Context, userID, videoID uuid.UUID) error
	Get(ctx context.Context, userID, videoID uuid.UUID) (*ViewRecord, error)
}

// Tracker records views with at-most-once semantics toward the video's
// public view counter. RecordView reports whether this was the user's
// first view of the video.
type Tracker interface {
	RecordView(ctx context.Context, userID, videoID uuid.UUID) (bool, error)
	GetRecord(ctx context.Context, userID, videoID uuid.UUID) (*ViewRecord, error)
}
