package edge

import (
	"context"
	"time"

	"github.com/clipstream-labs/clipstream/backend/internal/apperrors"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormStore implements the Store interface on a gorm connection
type gormStore struct {
	db *gorm.DB
}

// NewStore creates a new gorm-backed edge store
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// WithTx returns a store bound to the given transaction
func (s *gormStore) WithTx(tx *gorm.DB) Store {
	return &gormStore{db: tx}
}

// TryCreate inserts the edge, relying on the unique (subject, kind,
// target) index to turn a duplicate into a no-op instead of an error.
func (s *gormStore) TryCreate(ctx context.Context, subjectID uuid.UUID, kind Kind, targetID uuid.UUID, targetType TargetType) (bool, error) {
	e := &Edge{
		ID:         uuid.New(),
		SubjectID:  subjectID,
		Kind:       kind,
		TargetID:   targetID,
		TargetType: targetType,
		CreatedAt:  time.Now().UTC(),
	}

	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "subject_id"}, {Name: "kind"}, {Name: "target_id"}},
		DoNothing: true,
	}).Create(e)
	if result.Error != nil {
		return false, apperrors.NewTransientError("failed to create edge", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// TryDelete removes the edge if present
func (s *gormStore) TryDelete(ctx context.Context, subjectID uuid.UUID, kind Kind, targetID uuid.UUID) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("subject_id = ? AND kind = ? AND target_id = ?", subjectID, kind, targetID).
		Delete(&Edge{})
	if result.Error != nil {
		return false, apperrors.NewTransientError("failed to delete edge", result.Error)
	}

	return result.RowsAffected == 1, nil
}

// Exists reports whether the triple is present
func (s *gormStore) Exists(ctx context.Context, subjectID uuid.UUID, kind Kind, targetID uuid.UUID) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&Edge{}).
		Where("subject_id = ? AND kind = ? AND target_id = ?", subjectID, kind, targetID).
		Count(&count).Error
	if err != nil {
		return false, apperrors.NewTransientError("failed to check edge existence", err)
	}
	return count > 0, nil
}

// ListSubjects returns subjects pointing at target, newest first
func (s *gormStore) ListSubjects(ctx context.Context, kind Kind, targetID uuid.UUID, page, pageSize int) ([]uuid.UUID, error) {
	if page < 1 {
		page = 1
	}
	subjects := make([]uuid.UUID, 0, pageSize)
	err := s.db.WithContext(ctx).Model(&Edge{}).
		Where("kind = ? AND target_id = ?", kind, targetID).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Pluck("subject_id", &subjects).Error
	if err != nil {
		return nil, apperrors.NewTransientError("failed to list edge subjects", err)
	}
	return subjects, nil
}

// ListTargets returns targets the subject points at, newest first
func (s *gormStore) ListTargets(ctx context.Context, subjectID uuid.UUID, kind Kind, page, pageSize int) ([]uuid.UUID, error) {
	if page < 1 {
		page = 1
	}
	targets := make([]uuid.UUID, 0, pageSize)
	err := s.db.WithContext(ctx).Model(&Edge{}).
		Where("subject_id = ? AND kind = ?", subjectID, kind).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Pluck("target_id", &targets).Error
	if err != nil {
		return nil, apperrors.NewTransientError("failed to list edge targets", err)
	}
	return targets, nil
}
