package comment

import (
	"context"
	"errors"

	"github.com/clipstream-labs/clipstream/backend/internal/apperrors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a new gorm-backed comment repository
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{db: tx}
}

func (r *gormRepository) Create(ctx context.Context, c *Comment) error {
	if err := r.db.WithContext(ctx).Create(c).Error; err != nil {
		return apperrors.NewTransientError("failed to create comment", err)
	}
	return nil
}

func (r *gormRepository) GetByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	var c Comment
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("comment", id.String())
		}
		return nil, apperrors.NewTransientError("failed to load comment", err)
	}
	return &c, nil
}

func (r *gormRepository) ListRoots(ctx context.Context, videoID uuid.UUID, opts FilterOptions) (*PaginatedComments, error) {
	query := r.db.WithContext(ctx).Model(&Comment{}).
		Where("video_id = ? AND parent_id IS NULL", videoID)
	return r.paginate(query, opts)
}

func (r *gormRepository) ListChildren(ctx context.Context, parentID uuid.UUID, opts FilterOptions) (*PaginatedComments, error) {
	query := r.db.WithContext(ctx).Model(&Comment{}).
		Where("parent_id = ?", parentID)
	return r.paginate(query, opts)
}

func (r *gormRepository) paginate(query *gorm.DB, opts FilterOptions) (*PaginatedComments, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apperrors.NewTransientError("failed to count comments", err)
	}

	var comments []Comment
	offset := (opts.Page - 1) * opts.Limit
	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(opts.Limit).
		Find(&comments).Error
	if err != nil {
		return nil, apperrors.NewTransientError("failed to list comments", err)
	}

	return &PaginatedComments{
		Comments: comments,
		Total:    total,
		Page:     opts.Page,
		Limit:    opts.Limit,
	}, nil
}
