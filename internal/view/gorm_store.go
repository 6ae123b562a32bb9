package view

import (
	"context"
	"errors"
	"time"

	"github.com/clipstream-labs/clipstream/backend/internal/apperrors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type gormStore struct {
	db *gorm.DB
}

// NewStore creates a new gorm-backed view record store
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) WithTx(tx *gorm.DB) Store {
	return &gormStore{db: tx}
}

func (s *gormStore) TryCreate(ctx context.Context, userID, videoID uuid.UUID) (bool, error) {
	now := time.Now()
	rec := &ViewRecord{
		UserID:       userID,
		VideoID:      videoID,
		ViewCount:    1,
		CreatedAt:    now,
		LastViewedAt: now,
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "video_id"}},
		DoNothing: true,
	}).Create(rec)
	if result.Error != nil {
		return false, apperrors.NewTransientError("failed to create view record", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (s *gormStore) IncrementRepeat(ctx context.Context, userID, videoID uuid.UUID) error {
	result := s.db.WithContext(ctx).Model(&ViewRecord{}).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		Updates(map[string]interface{}{
			"view_count":     gorm.Expr("view_count + 1"),
			"last_viewed_at": time.Now(),
		})
	if result.Error != nil {
		return apperrors.NewTransientError("failed to increment view count", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewNotFoundError("view record", userID.String()+"/"+videoID.String())
	}
	return nil
}

func (s *gormStore) Get(ctx context.Context, userID, videoID uuid.UUID) (*ViewRecord, error) {
	var rec ViewRecord
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND video_id = ?", userID, videoID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("view record", userID.String()+"/"+videoID.String())
		}
		return nil, apperrors.NewTransientError("failed to load view record", err)
	}
	return &rec, nil
}
