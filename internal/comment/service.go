package comment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/clipstream-labs/clipstream/backend/internal/apperrors"
	"github.com/clipstream-labs/clipstream/backend/internal/cache"
	"github.com/clipstream-labs/clipstream/backend/internal/config"
	"github.com/clipstream-labs/clipstream/backend/internal/counter"
	"github.com/clipstream-labs/clipstream/backend/internal/identity"
	"github.com/clipstream-labs/clipstream/backend/internal/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnitOfWork mirrors UnitOfWork; declared locally because the
// database package imports this one for auto-migration.
type UnitOfWork interface {
	WithAtomicUnit(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service implements Tree on top of the comment repository. Root-comment
// pages are cached in redis under a short TTL; the repository stays the
// source of truth and cache failures only cost the shortcut.
type Service struct {
	repo       Repository
	identities identity.Store
	cache      cache.Service
	propagator counter.Propagator
	uow        UnitOfWork
	logger     logger.Logger
	cfg        config.EngagementConfig
}

// NewService creates a new comment service
func NewService(repo Repository, identities identity.Store, cacheService cache.Service, propagator counter.Propagator, uow UnitOfWork, logger logger.Logger, cfg config.EngagementConfig) *Service {
	return &Service{
		repo:       repo,
		identities: identities,
		cache:      cacheService,
		propagator: propagator,
		uow:        uow,
		logger:     logger,
		cfg:        cfg,
	}
}

func (s *Service) maxDepth() int {
	if s.cfg.MaxCommentDepth > 0 {
		return s.cfg.MaxCommentDepth
	}
	return MaxDepth
}

// AddComment creates a comment on a video. Creation and the video's
// comments counter move in one atomic unit. Replies deeper than the
// thread depth limit are attached to the target's parent so they stay at
// the deepest level instead of being rejected.
func (s *Service) AddComment(ctx context.Context, authorID, videoID uuid.UUID, parentID *uuid.UUID, content string) (*Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewValidationError("content", "content is required")
	}
	if s.cfg.MaxContentLen > 0 && len(content) > s.cfg.MaxContentLen {
		return nil, apperrors.NewValidationError("content", fmt.Sprintf("content exceeds %d characters", s.cfg.MaxContentLen))
	}

	exists, err := s.identities.VideoExists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("video", videoID.String())
	}

	level := 0
	effectiveParent := parentID
	if parentID != nil {
		parent, err := s.repo.GetByID(ctx, *parentID)
		if err != nil {
			return nil, err
		}
		if parent.VideoID != videoID {
			return nil, apperrors.NewValidationError("parent_id", "parent comment belongs to a different video")
		}
		if parent.Level+1 >= s.maxDepth() {
			// Keep the reply at the deepest level as a sibling of the
			// target rather than growing the chain. The level is clamped
			// rather than copied so a parent stored deeper than the limit
			// cannot propagate its corruption.
			effectiveParent = parent.ParentID
			level = s.maxDepth() - 1
			if parent.Level >= s.maxDepth() {
				s.logger.LogWarn("comment stored deeper than the depth limit", map[string]interface{}{
					"comment_id": parent.ID.String(),
					"level":      parent.Level,
				})
			}
		} else {
			level = parent.Level + 1
		}
	}

	c := &Comment{
		VideoID:  videoID,
		AuthorID: authorID,
		ParentID: effectiveParent,
		Level:    level,
		Content:  content,
	}
	err = s.uow.WithAtomicUnit(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, c); err != nil {
			return err
		}
		return s.propagator.WithTx(tx).ApplyDelta(ctx, counter.EntityVideo, videoID, counter.FieldCommentsCount, 1)
	})
	if err != nil {
		return nil, err
	}

	s.logger.LogDebug("comment created", map[string]interface{}{
		"comment_id": c.ID.String(),
		"video_id":   videoID.String(),
		"level":      level,
	})
	return c, nil
}

func (s *Service) GetComment(ctx context.Context, id uuid.UUID) (*Comment, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetRootComments(ctx context.Context, videoID uuid.UUID, opts FilterOptions) (*PaginatedComments, error) {
	exists, err := s.identities.VideoExists(ctx, videoID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError("video", videoID.String())
	}

	opts = s.normalize(opts)
	key := rootsCacheKey(videoID, opts.Page, opts.Limit)
	if s.cache != nil {
		// A miss and a cache failure look the same from here; both fall
		// through to the repository.
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != "" {
			var page PaginatedComments
			if err := json.Unmarshal([]byte(raw), &page); err == nil {
				return &page, nil
			}
			s.logger.LogWarn("comment cache entry unreadable", map[string]interface{}{
				"key": key,
			})
		}
	}

	page, err := s.repo.ListRoots(ctx, videoID, opts)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(page); err == nil {
			if err := s.cache.Set(ctx, key, string(raw), s.pageCacheTTL()); err != nil {
				s.logger.LogWarn("comment cache set failed", map[string]interface{}{
					"key":   key,
					"error": err.Error(),
				})
			}
		}
	}
	return page, nil
}

func rootsCacheKey(videoID uuid.UUID, page, limit int) string {
	return fmt.Sprintf("comments:roots:%s:%d:%d", videoID, page, limit)
}

// pageCacheTTL bounds how stale a cached root page can be; new comments
// become visible once the entry expires rather than through invalidation.
func (s *Service) pageCacheTTL() time.Duration {
	if s.cfg.CommentCacheTTL > 0 {
		return s.cfg.CommentCacheTTL
	}
	return 30 * time.Second
}

func (s *Service) GetChildren(ctx context.Context, parentID uuid.UUID, opts FilterOptions) (*PaginatedComments, error) {
	if _, err := s.repo.GetByID(ctx, parentID); err != nil {
		return nil, err
	}
	return s.repo.ListChildren(ctx, parentID, s.normalize(opts))
}

func (s *Service) normalize(opts FilterOptions) FilterOptions {
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = s.cfg.DefaultPageSize
	}
	if s.cfg.MaxPageSize > 0 && opts.Limit > s.cfg.MaxPageSize {
		opts.Limit = s.cfg.MaxPageSize
	}
	return opts
}
