package comment

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FilterOptions carries pagination for comment listings
type FilterOptions struct {
	Page  int
	Limit int
}

// PaginatedComments is a page of comments plus the total count for the
// same filter
type PaginatedComments struct {
	Comments []Comment `json:"comments"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
}

// Repository persists comments
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, c *Comment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	ListRoots(ctx context.Context, videoID uuid.UUID, opts FilterOptions) (*PaginatedComments, error)
	ListChildren(ctx context.Context, parentID uuid.UUID, opts FilterOptions) (*PaginatedComments, error)
}

// Tree is the read/write surface for a video's comment thread tree
type Tree interface {
	AddComment(ctx context.Context, authorID, videoID uuid.UUID, parentID *uuid.UUID, content string) (*Comment, error)
	GetComment(ctx context.Context, id uuid.UUID) (*Comment, error)
	GetRootComments(ctx context.Context, videoID uuid.UUID, opts FilterOptions) (*PaginatedComments, error)
	GetChildren(ctx context.Context, parentID uuid.UUID, opts FilterOptions) (*PaginatedComments, error)
}
