package edge

import (
	"time"

	"github.com/google/uuid"
)

// Kind tags the relationship an edge represents
type Kind string

const (
	// KindFollow is a user following another user
	KindFollow Kind = "FOLLOW"

	// KindLikeVideo is a user liking a video
	KindLikeVideo Kind = "LIKE_VIDEO"

	// KindLikeComment is a user liking a comment
	KindLikeComment Kind = "LIKE_COMMENT"

	// KindSave is a user saving a video
	KindSave Kind = "SAVE"
)

// TargetType names the entity class an edge points at
type TargetType string

const (
	TargetUser    TargetType = "USER"
	TargetVideo   TargetType = "VIDEO"
	TargetComment TargetType = "COMMENT"
)

// Edge is a directed, kind-tagged relationship between two entities.
// At most one edge per (subject, kind, target) triple may exist at any
// time; the unique index is what makes TryCreate race-safe. Edges are
// created and deleted, never updated in place.
type Edge struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	SubjectID  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_edges_triple,priority:1" json:"subjectId"`
	Kind       Kind       `gorm:"type:varchar(32);not null;uniqueIndex:idx_edges_triple,priority:2" json:"kind"`
	TargetID   uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_edges_triple,priority:3;index:idx_edges_target" json:"targetId"`
	TargetType TargetType `gorm:"type:varchar(16);not null" json:"targetType"`
	CreatedAt  time.Time  `json:"createdAt"`
}
