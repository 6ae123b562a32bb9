package counter

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Entity names a table carrying denormalized counters
type Entity string

const (
	EntityUser    Entity = "users"
	EntityVideo   Entity = "videos"
	EntityComment Entity = "comments"
)

// Field names a counter column
type Field string

const (
	FieldFollowerCount  Field = "follower_count"
	FieldFollowingCount Field = "following_count"
	FieldLikeCount      Field = "like_count"
	FieldSavesCount     Field = "saves_count"
	FieldViews          Field = "views"
	FieldCommentsCount  Field = "comments_count"
)

// allowedFields is the closed set of counters the propagator may touch,
// keyed by entity. Field names reach SQL as identifiers, so nothing
// outside this table may ever be passed through.
var allowedFields = map[Entity]map[Field]struct{}{
	EntityUser: {
		FieldFollowerCount:  {},
		FieldFollowingCount: {},
	},
	EntityVideo: {
		FieldLikeCount:     {},
		FieldSavesCount:    {},
		FieldViews:         {},
		FieldCommentsCount: {},
	},
	EntityComment: {
		FieldLikeCount: {},
	},
}

// Propagator is the sole writer of denormalized counters on parent
// entities. ApplyDelta uses an atomic storage-side increment, never a
// read-modify-write, so concurrent operations on the same entity cannot
// lose updates.
type Propagator interface {
	// WithTx returns a Propagator bound to the given transaction
	WithTx(tx *gorm.DB) Propagator

	// ApplyDelta adds delta to the named counter. A decrement that would
	// drive the counter below zero is clamped to zero and logged as a
	// data-consistency warning; the caller does not see an error.
	ApplyDelta(ctx context.Context, entity Entity, id uuid.UUID, field Field, delta int64) error
}

// Allowed reports whether the entity/field pair is a known counter
func Allowed(entity Entity, field Field) bool {
	fields, ok := allowedFields[entity]
	if !ok {
		return false
	}
	_, ok = fields[field]
	return ok
}
