package identity

import (
	"context"

	"github.com/clipstream-labs/clipstream/backend/internal/video"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store answers existence and ownership questions about the entities
// engagement edges point at. Reads are cheap lookups by primary key.
type Store interface {
	WithTx(tx *gorm.DB) Store
	UserExists(ctx context.Context, id uuid.UUID) (bool, error)
	VideoExists(ctx context.Context, id uuid.UUID) (bool, error)
	GetVideo(ctx context.Context, id uuid.UUID) (*video.Video, error)
}
