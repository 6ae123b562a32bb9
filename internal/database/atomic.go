package database

import (
	"context"
	"fmt"

	"github.com/clipstream-labs/clipstream/backend/internal/apperrors"
	"gorm.io/gorm"
)

// gormUnitOfWork implements UnitOfWork on a gorm connection
type gormUnitOfWork struct {
	db     *gorm.DB
	logger Logger
}

// NewUnitOfWork creates a UnitOfWork backed by gorm transactions
func NewUnitOfWork(db *gorm.DB, logger Logger) UnitOfWork {
	return &gormUnitOfWork{
		db:     db,
		logger: logger,
	}
}

// WithAtomicUnit opens a transaction scoped to ctx and guarantees
// commit-or-rollback on every exit path, including panics inside fn.
// A cancelled or expired ctx before commit rolls the unit back in full.
func (u *gormUnitOfWork) WithAtomicUnit(ctx context.Context, fn func(tx *gorm.DB) error) (err error) {
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperrors.NewTransientError("failed to begin transaction", tx.Error)
	}

	defer func() {
		if r := recover(); r != nil {
			if rbErr := tx.Rollback().Error; rbErr != nil {
				u.logger.LogWarn("rollback after panic failed", map[string]interface{}{
					"error": rbErr.Error(),
				})
			}
			err = apperrors.NewTransientError(fmt.Sprintf("panic in atomic unit: %v", r), nil)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			u.logger.LogWarn("rollback failed", map[string]interface{}{
				"error": rbErr.Error(),
			})
		}
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return apperrors.NewTransientError("failed to commit transaction", err)
	}
	return nil
}
