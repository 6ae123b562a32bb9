package engagement

import (
	"context"

	"github.com/clipstream-labs/clipstream/backend/internal/apperrors"
	"github.com/clipstream-labs/clipstream/backend/internal/comment"
	"github.com/clipstream-labs/clipstream/backend/internal/counter"
	"github.com/clipstream-labs/clipstream/backend/internal/database"
	"github.com/clipstream-labs/clipstream/backend/internal/edge"
	"github.com/clipstream-labs/clipstream/backend/internal/identity"
	"github.com/clipstream-labs/clipstream/backend/internal/logger"
	"github.com/clipstream-labs/clipstream/backend/internal/notification"
	"github.com/clipstream-labs/clipstream/backend/internal/view"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type service struct {
	edges      edge.Store
	identities identity.Store
	propagator counter.Propagator
	uow        database.UnitOfWork
	tracker    view.Tracker
	comments   comment.Tree
	sink       notification.Sink
	logger     logger.Logger
}

// NewService creates the engagement service
func NewService(
	edges edge.Store,
	identities identity.Store,
	propagator counter.Propagator,
	uow database.UnitOfWork,
	tracker view.Tracker,
	comments comment.Tree,
	sink notification.Sink,
	logger logger.Logger,
) Service {
	return &service{
		edges:      edges,
		identities: identities,
		propagator: propagator,
		uow:        uow,
		tracker:    tracker,
		comments:   comments,
		sink:       sink,
		logger:     logger,
	}
}

// emit delivers an event to the sink after the producing transaction has
// committed. Delivery runs detached from the request lifetime and a
// failure is logged, never surfaced to the caller.
func (s *service) emit(ctx context.Context, event *notification.Event) {
	if s.sink == nil {
		return
	}
	if event.ActorID == event.RecipientID {
		return
	}
	detached := context.WithoutCancel(ctx)
	go func() {
		if err := s.sink.Publish(detached, event); err != nil {
			s.logger.LogWarn("event delivery failed", map[string]interface{}{
				"type":  string(event.Type),
				"error": err.Error(),
			})
		}
	}()
}

func (s *service) FollowUser(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	if followerID == followeeID {
		return false, apperrors.NewValidationError("followee_id", "cannot follow yourself")
	}
	exists, err := s.identities.UserExists(ctx, followeeID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, apperrors.NewNotFoundError("user", followeeID.String())
	}

	var created bool
	err = s.uow.WithAtomicUnit(ctx, func(tx *gorm.DB) error {
		created, err = s.edges.WithTx(tx).TryCreate(ctx, followerID, edge.KindFollow, followeeID, edge.TargetUser)
		if err != nil || !created {
			return err
		}
		prop := s.propagator.WithTx(tx)
		if err := prop.ApplyDelta(ctx, counter.EntityUser, followeeID, counter.FieldFollowerCount, 1); err != nil {
			return err
		}
		return prop.ApplyDelta(ctx, counter.EntityUser, followerID, counter.FieldFollowingCount, 1)
	})
	if err != nil {
		return false, err
	}

	if created {
		s.emit(ctx, &notification.Event{
			Type:        notification.EventUserFollowed,
			ActorID:     followerID,
			RecipientID: followeeID,
		})
	}
	return created, nil
}

func (s *service) UnfollowUser(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	var deleted bool
	err := s.uow.WithAtomicUnit(ctx, func(tx *gorm.DB) error {
		var err error
		deleted, err = s.edges.WithTx(tx).TryDelete(ctx, followerID, edge.KindFollow, followeeID)
		if err != nil || !deleted {
			return err
		}
		prop := s.propagator.WithTx(tx)
		if err := prop.ApplyDelta(ctx, counter.EntityUser, followeeID, counter.FieldFollowerCount, -1); err != nil {
			return err
		}
		return prop.ApplyDelta(ctx, counter.EntityUser, followerID, counter.FieldFollowingCount, -1)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *service) IsFollowing(ctx context.Context, followerID, followeeID uuid.UUID) (bool, error) {
	return s.edges.Exists(ctx, followerID, edge.KindFollow, followeeID)
}

func (s *service) ListFollowers(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]uuid.UUID, error) {
	page, pageSize = clampPage(page, pageSize)
	return s.edges.ListSubjects(ctx, edge.KindFollow, userID, page, pageSize)
}

func (s *service) ListFollowing(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]uuid.UUID, error) {
	page, pageSize = clampPage(page, pageSize)
	return s.edges.ListTargets(ctx, userID, edge.KindFollow, page, pageSize)
}

const (
	defaultListPageSize = 20
	maxListPageSize     = 100
)

// clampPage keeps caller-supplied paging inside sane bounds; the page
// size never reaches SQL unclamped.
func clampPage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = defaultListPageSize
	}
	if pageSize > maxListPageSize {
		pageSize = maxListPageSize
	}
	return page, pageSize
}

func (s *service) LikeVideo(ctx context.Context, userID, videoID uuid.UUID) (bool, error) {
	v, err := s.identities.GetVideo(ctx, videoID)
	if err != nil {
		return false, err
	}

	var created bool
	err = s.uow.WithAtomicUnit(ctx, func(tx *gorm.DB) error {
		created, err = s.edges.WithTx(tx).TryCreate(ctx, userID, edge.KindLikeVideo, videoID, edge.TargetVideo)
		if err != nil || !created {
			return err
		}
		return s.propagator.WithTx(tx).ApplyDelta(ctx, counter.EntityVideo, videoID, counter.FieldLikeCount, 1)
	})
	if err != nil {
		return false, err
	}

	if created {
		s.emit(ctx, &notification.Event{
			Type:        notification.EventVideoLiked,
			ActorID:     userID,
			RecipientID: v.OwnerID,
			VideoID:     &videoID,
		})
	}
	return created, nil
}

func (s *service) UnlikeVideo(ctx context.Context, userID, videoID uuid.UUID) (bool, error) {
	return s.undoEdge(ctx, userID, edge.KindLikeVideo, videoID, counter.EntityVideo, videoID, counter.FieldLikeCount)
}

func (s *service) HasLikedVideo(ctx context.Context, userID, videoID uuid.UUID) (bool, error) {
	return s.edges.Exists(ctx, userID, edge.KindLikeVideo, videoID)
}

func (s *service) LikeComment(ctx context.Context, userID, commentID uuid.UUID) (bool, error) {
	c, err := s.comments.GetComment(ctx, commentID)
	if err != nil {
		return false, err
	}

	var created bool
	err = s.uow.WithAtomicUnit(ctx, func(tx *gorm.DB) error {
		created, err = s.edges.WithTx(tx).TryCreate(ctx, userID, edge.KindLikeComment, commentID, edge.TargetComment)
		if err != nil || !created {
			return err
		}
		return s.propagator.WithTx(tx).ApplyDelta(ctx, counter.EntityComment, commentID, counter.FieldLikeCount, 1)
	})
	if err != nil {
		return false, err
	}

	if created {
		s.emit(ctx, &notification.Event{
			Type:        notification.EventCommentLiked,
			ActorID:     userID,
			RecipientID: c.AuthorID,
			VideoID:     &c.VideoID,
			CommentID:   &commentID,
		})
	}
	return created, nil
}

func (s *service) UnlikeComment(ctx context.Context, userID, commentID uuid.UUID) (bool, error) {
	return s.undoEdge(ctx, userID, edge.KindLikeComment, commentID, counter.EntityComment, commentID, counter.FieldLikeCount)
}

func (s *service) SaveVideo(ctx context.Context, userID, videoID uuid.UUID) (bool, error) {
	exists, err := s.identities.VideoExists(ctx, videoID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, apperrors.NewNotFoundError("video", videoID.String())
	}

	// Saves are private; no event is emitted.
	var created bool
	err = s.uow.WithAtomicUnit(ctx, func(tx *gorm.DB) error {
		created, err = s.edges.WithTx(tx).TryCreate(ctx, userID, edge.KindSave, videoID, edge.TargetVideo)
		if err != nil || !created {
			return err
		}
		return s.propagator.WithTx(tx).ApplyDelta(ctx, counter.EntityVideo, videoID, counter.FieldSavesCount, 1)
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func (s *service) UnsaveVideo(ctx context.Context, userID, videoID uuid.UUID) (bool, error) {
	return s.undoEdge(ctx, userID, edge.KindSave, videoID, counter.EntityVideo, videoID, counter.FieldSavesCount)
}

// undoEdge removes an edge and reverses its single counter in one atomic
// unit. A missing edge is a quiet no-op.
func (s *service) undoEdge(ctx context.Context, subjectID uuid.UUID, kind edge.Kind, targetID uuid.UUID, entity counter.Entity, entityID uuid.UUID, field counter.Field) (bool, error) {
	var deleted bool
	err := s.uow.WithAtomicUnit(ctx, func(tx *gorm.DB) error {
		var err error
		deleted, err = s.edges.WithTx(tx).TryDelete(ctx, subjectID, kind, targetID)
		if err != nil || !deleted {
			return err
		}
		return s.propagator.WithTx(tx).ApplyDelta(ctx, entity, entityID, field, -1)
	})
	if err != nil {
		return false, err
	}
	return deleted, nil
}

func (s *service) HasSavedVideo(ctx context.Context, userID, videoID uuid.UUID) (bool, error) {
	return s.edges.Exists(ctx, userID, edge.KindSave, videoID)
}

func (s *service) ViewVideo(ctx context.Context, userID, videoID uuid.UUID) (bool, error) {
	exists, err := s.identities.VideoExists(ctx, videoID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, apperrors.NewNotFoundError("video", videoID.String())
	}
	return s.tracker.RecordView(ctx, userID, videoID)
}

func (s *service) AddComment(ctx context.Context, authorID, videoID uuid.UUID, parentID *uuid.UUID, content string) (*comment.Comment, error) {
	c, err := s.comments.AddComment(ctx, authorID, videoID, parentID, content)
	if err != nil {
		return nil, err
	}

	v, err := s.identities.GetVideo(ctx, videoID)
	if err != nil {
		// The comment is already committed; losing the event is
		// acceptable, losing the comment is not.
		s.logger.LogWarn("comment event skipped", map[string]interface{}{
			"comment_id": c.ID.String(),
			"error":      err.Error(),
		})
		return c, nil
	}

	s.emit(ctx, &notification.Event{
		Type:        notification.EventCommentCreated,
		ActorID:     authorID,
		RecipientID: v.OwnerID,
		VideoID:     &videoID,
		CommentID:   &c.ID,
	})
	return c, nil
}

func (s *service) GetRootComments(ctx context.Context, videoID uuid.UUID, opts comment.FilterOptions) (*comment.PaginatedComments, error) {
	return s.comments.GetRootComments(ctx, videoID, opts)
}

func (s *service) GetChildren(ctx context.Context, parentID uuid.UUID, opts comment.FilterOptions) (*comment.PaginatedComments, error) {
	return s.comments.GetChildren(ctx, parentID, opts)
}
