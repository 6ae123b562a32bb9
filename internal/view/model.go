package view

import (
	"time"

	"github.com/google/uuid"
)

// ViewRecord tracks that a user has watched a video. One row exists per
// (user, video) pair no matter how many times the video is rewatched;
// rewatches bump ViewCount only. The video's own views counter is
// incremented exactly once, when this row is first created.
type ViewRecord struct {
	UserID       uuid.UUID `json:"user_id" gorm:"type:uuid;primaryKey"`
	VideoID      uuid.UUID `json:"video_id" gorm:"type:uuid;primaryKey"`
	ViewCount    int64     `json:"view_count" gorm:"not null;default:1"`
	CreatedAt    time.Time `json:"created_at"`
	LastViewedAt time.Time `json:"last_viewed_at"`
}

func (ViewRecord) TableName() string {
	return "view_records"
}
