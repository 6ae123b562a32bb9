package counter

import (
	"context"
	"fmt"

	"github.com/clipstream-labs/clipstream/backend/internal/apperrors"
	"github.com/clipstream-labs/clipstream/backend/internal/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// gormPropagator implements the Propagator interface on a gorm connection
type gormPropagator struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewPropagator creates a new gorm-backed counter propagator
func NewPropagator(db *gorm.DB, logger logger.Logger) Propagator {
	return &gormPropagator{
		db:     db,
		logger: logger,
	}
}

// WithTx returns a propagator bound to the given transaction
func (p *gormPropagator) WithTx(tx *gorm.DB) Propagator {
	return &gormPropagator{
		db:     tx,
		logger: p.logger,
	}
}

// ApplyDelta adds delta to the named counter with a single guarded SQL
// update. The guard keeps the counter from ever going negative; when a
// decrement is refused the counter is clamped instead and the drift is
// surfaced to observability rather than the caller.
func (p *gormPropagator) ApplyDelta(ctx context.Context, entity Entity, id uuid.UUID, field Field, delta int64) error {
	if !Allowed(entity, field) {
		return apperrors.NewInvariantError(fmt.Sprintf("counter field %q is not allowed on entity %q", field, entity))
	}

	col := string(field)
	result := p.db.WithContext(ctx).
		Table(string(entity)).
		Where("id = ?", id).
		Where(col+" + ? >= 0", delta).
		UpdateColumn(col, gorm.Expr(col+" + ?", delta))
	if result.Error != nil {
		return apperrors.NewTransientError("failed to apply counter delta", result.Error)
	}
	if result.RowsAffected == 1 {
		return nil
	}

	// No row was updated: either the entity is missing, or a decrement
	// would have driven the counter negative.
	var count int64
	if err := p.db.WithContext(ctx).Table(string(entity)).Where("id = ?", id).Count(&count).Error; err != nil {
		return apperrors.NewTransientError("failed to resolve counter target", err)
	}
	if count == 0 {
		return apperrors.NewNotFoundError(string(entity), id.String())
	}

	if delta >= 0 {
		// Entity exists but the guarded increment did not apply; this
		// should be impossible and means the row was lost mid-operation.
		return apperrors.NewTransientError("counter increment did not apply", nil)
	}

	// Counter drift: the stored value is smaller than the edges it is
	// supposed to summarize. Clamp to zero, guarded so a concurrent
	// increment is not wiped out.
	p.logger.LogWarn("counter clamp: decrement would go negative", map[string]interface{}{
		"entity": string(entity),
		"id":     id.String(),
		"field":  col,
		"delta":  delta,
	})
	result = p.db.WithContext(ctx).
		Table(string(entity)).
		Where("id = ?", id).
		Where(col+" + ? < 0", delta).
		UpdateColumn(col, 0)
	if result.Error != nil {
		return apperrors.NewTransientError("failed to clamp counter", result.Error)
	}
	return nil
}
