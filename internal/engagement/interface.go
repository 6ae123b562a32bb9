package engagement

import (
	"context"

	"github.com/clipstream-labs/clipstream/backend/internal/comment"
	"github.com/google/uuid"
)

// Service is the single entry point for engagement writes. Edges,
// counters and view records are never touched directly by handlers;
// every mutation goes through here so the counter invariants hold.
//
// Do/undo operations report whether they actually changed anything: a
// duplicate follow or a redundant unlike is a no-op result, not an
// error, so double-clicks stay quiet.
type Service interface {
	FollowUser(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	UnfollowUser(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error)
	ListFollowers(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]uuid.UUID, error)
	ListFollowing(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]uuid.UUID, error)

	LikeVideo(ctx context.Context, userID, videoID uuid.UUID) (bool, error)
	UnlikeVideo(ctx context.Context, userID, videoID uuid.UUID) (bool, error)
	HasLikedVideo(ctx context.Context, userID, videoID uuid.UUID) (bool, error)

	LikeComment(ctx context.Context, userID, commentID uuid.UUID) (bool, error)
	UnlikeComment(ctx context.Context, userID, commentID uuid.UUID) (bool, error)

	SaveVideo(ctx context.Context, userID, videoID uuid.UUID) (bool, error)
	UnsaveVideo(ctx context.Context, userID, videoID uuid.UUID) (bool, error)
	HasSavedVideo(ctx context.Context, userID, videoID uuid.UUID) (bool, error)

	// ViewVideo records a view and reports whether it was the user's
	// first view of the video.
	ViewVideo(ctx context.Context, userID, videoID uuid.UUID) (bool, error)

	AddComment(ctx context.Context, authorID, videoID uuid.UUID, parentID *uuid.UUID, content string) (*comment.Comment, error)
	GetRootComments(ctx context.Context, videoID uuid.UUID, opts comment.FilterOptions) (*comment.PaginatedComments, error)
	GetChildren(ctx context.Context, parentID uuid.UUID, opts comment.FilterOptions) (*comment.PaginatedComments, error)
}
