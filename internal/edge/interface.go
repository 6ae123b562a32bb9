package edge

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Store defines the interface for edge persistence. The boolean results
// carry the idempotency contract: a duplicate create and a missing delete
// are no-ops, not errors.
type Store interface {
	// WithTx returns a Store bound to the given transaction
	WithTx(tx *gorm.DB) Store

	// TryCreate inserts the edge unless the (subject, kind, target)
	// triple already exists. Under concurrent calls for the same triple,
	// exactly one caller observes created=true.
	TryCreate(ctx context.Context, subjectID uuid.UUID, kind Kind, targetID uuid.UUID, targetType TargetType) (created bool, err error)

	// TryDelete removes the edge if present and reports whether a row
	// was actually deleted.
	TryDelete(ctx context.Context, subjectID uuid.UUID, kind Kind, targetID uuid.UUID) (deleted bool, err error)

	// Exists reports whether the triple is present.
	Exists(ctx context.Context, subjectID uuid.UUID, kind Kind, targetID uuid.UUID) (bool, error)

	// ListSubjects returns subjects pointing at target with the given
	// kind (e.g. the followers of a user), newest first.
	ListSubjects(ctx context.Context, kind Kind, targetID uuid.UUID, page, pageSize int) ([]uuid.UUID, error)

	// ListTargets returns targets the subject points at with the given
	// kind (e.g. the users someone follows), newest first.
	ListTargets(ctx context.Context, subjectID uuid.UUID, kind Kind, page, pageSize int) ([]uuid.UUID, error)
}
