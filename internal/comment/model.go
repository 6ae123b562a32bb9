package comment

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxDepth is the number of levels a comment thread may have. Levels are
// zero-based, so valid levels are 0 through MaxDepth-1. Replies that
// would land deeper are attached to the target's parent instead, keeping
// them visible at the deepest level rather than rejected.
const MaxDepth = 3

// Comment is a single comment in a video's thread tree. Root comments
// have a nil ParentID and level 0.
type Comment struct {
	ID        uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey"`
	VideoID   uuid.UUID  `json:"video_id" gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID  `json:"author_id" gorm:"type:uuid;not null"`
	ParentID  *uuid.UUID `json:"parent_id,omitempty" gorm:"type:uuid;index"`
	Level     int        `json:"level" gorm:"not null;default:0"`
	Content   string     `json:"content" gorm:"type:text;not null"`
	LikeCount int64      `json:"like_count" gorm:"not null;default:0"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// BeforeCreate generates a UUID if not set
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
