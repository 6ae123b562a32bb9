package video

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Video represents an uploaded short video.
// LikeCount, SavesCount, Views and CommentsCount are denormalized counters
// summarizing engagement rows; they are mutated only through the engagement
// layer's atomic operations. No other writer may increment them.
type Video struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID       uuid.UUID `gorm:"type:uuid;not null;index" json:"ownerId"`
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `json:"description"`
	URL           string    `json:"url"`
	ThumbnailURL  string    `json:"thumbnailUrl"`
	StorageKey    string    `json:"-"`
	FileSize      int64     `json:"fileSize"`
	LikeCount     int64     `gorm:"not null;default:0" json:"likeCount"`
	SavesCount    int64     `gorm:"not null;default:0" json:"savesCount"`
	Views         int64     `gorm:"not null;default:0" json:"views"`
	CommentsCount int64     `gorm:"not null;default:0" json:"commentsCount"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// BeforeCreate hook for Video model
func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}
