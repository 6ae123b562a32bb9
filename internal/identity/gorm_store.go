package identity

import (
	"context"
	"errors"

	"github.com/clipstream-labs/clipstream/backend/internal/apperrors"
	"github.com/clipstream-labs/clipstream/backend/internal/video"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a new gorm-backed identity store
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) WithTx(tx *gorm.DB) Store {
	return &gormStore{db: tx}
}

func (s *gormStore) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists(ctx, "users", id)
}

func (s *gormStore) VideoExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.exists(ctx, "videos", id)
}

func (s *gormStore) exists(ctx context.Context, table string, id uuid.UUID) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Table(table).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperrors.NewTransientError("failed to check "+table+" existence", err)
	}
	return count > 0, nil
}

func (s *gormStore) GetVideo(ctx context.Context, id uuid.UUID) (*video.Video, error) {
	var v video.Video
	err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("video", id.String())
		}
		return nil, apperrors.NewTransientError("failed to load video", err)
	}
	return &v, nil
}
