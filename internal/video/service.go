package video

import (
	"context"
	"errors"
	"fmt"

	"github.com/clipstream-labs/clipstream/backend/internal/apperrors"
	"github.com/clipstream-labs/clipstream/backend/internal/logger"
	"github.com/clipstream-labs/clipstream/backend/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service handles video metadata and asset storage
type Service struct {
	db      *gorm.DB
	storage storage.ObjectStore
	logger  logger.Logger
}

// NewService creates a new video service
func NewService(db *gorm.DB, store storage.ObjectStore, logger logger.Logger) *Service {
	return &Service{
		db:      db,
		storage: store,
		logger:  logger,
	}
}

// Get retrieves a video by id
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Video, error) {
	var v Video
	if err := s.db.WithContext(ctx).First(&v, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("video", id.String())
		}
		return nil, apperrors.NewTransientError("failed to load video", err)
	}
	return &v, nil
}

// List returns the most recent videos, newest first
func (s *Service) List(ctx context.Context, page, pageSize int) ([]Video, error) {
	if page < 1 {
		page = 1
	}
	var videos []Video
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&videos).Error
	if err != nil {
		return nil, apperrors.NewTransientError("failed to list videos", err)
	}
	return videos, nil
}

// Upload stores the asset in object storage and creates the video row
func (s *Service) Upload(ctx context.Context, ownerID uuid.UUID, title, description string, asset storage.Object) (*Video, error) {
	if title == "" {
		return nil, apperrors.NewValidationError("title", "title is required")
	}

	key := fmt.Sprintf("videos/%s/%s", ownerID, uuid.New())
	url, err := s.storage.Upload(ctx, key, asset)
	if err != nil {
		return nil, apperrors.NewTransientError("failed to upload video asset", err)
	}

	v := &Video{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		URL:         url,
		StorageKey:  key,
		FileSize:    asset.Size,
	}
	if err := s.db.WithContext(ctx).Create(v).Error; err != nil {
		// Best effort: don't leave an orphaned asset behind
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			s.logger.LogWarn("failed to delete orphaned asset", map[string]interface{}{
				"key":   key,
				"error": delErr.Error(),
			})
		}
		return nil, apperrors.NewTransientError("failed to create video record", err)
	}

	s.logger.LogInfo("video uploaded", map[string]interface{}{
		"videoId": v.ID.String(),
		"ownerId": ownerID.String(),
	})
	return v, nil
}
