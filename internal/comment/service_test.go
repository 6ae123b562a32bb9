package comment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/clipstream-labs/clipstream/backend/internal/apperrors"
	"github.com/clipstream-labs/clipstream/backend/internal/config"
	"github.com/clipstream-labs/clipstream/backend/internal/counter"
	"github.com/clipstream-labs/clipstream/backend/internal/identity"
	"github.com/clipstream-labs/clipstream/backend/internal/video"
	"github.com/clipstream-labs/clipstream/backend/testhelper"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryRepository struct {
	mu        sync.Mutex
	comments  map[uuid.UUID]*Comment
	order     []uuid.UUID
	rootLists int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{comments: make(map[uuid.UUID]*Comment)}
}

func (r *memoryRepository) WithTx(tx *gorm.DB) Repository { return r }

func (r *memoryRepository) Create(ctx context.Context, c *Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	stored := *c
	r.comments[c.ID] = &stored
	r.order = append(r.order, c.ID)
	return nil
}

func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.comments[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("comment", id.String())
	}
	copied := *c
	return &copied, nil
}

func (r *memoryRepository) ListRoots(ctx context.Context, videoID uuid.UUID, opts FilterOptions) (*PaginatedComments, error) {
	r.mu.Lock()
	r.rootLists++
	r.mu.Unlock()
	return r.list(func(c *Comment) bool {
		return c.VideoID == videoID && c.ParentID == nil
	}, opts)
}

func (r *memoryRepository) ListChildren(ctx context.Context, parentID uuid.UUID, opts FilterOptions) (*PaginatedComments, error) {
	return r.list(func(c *Comment) bool {
		return c.ParentID != nil && *c.ParentID == parentID
	}, opts)
}

func (r *memoryRepository) list(match func(*Comment) bool, opts FilterOptions) (*PaginatedComments, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []Comment
	for _, id := range r.order {
		if c := r.comments[id]; match(c) {
			matched = append(matched, *c)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	start := (opts.Page - 1) * opts.Limit
	if start > len(matched) {
		start = len(matched)
	}
	end := start + opts.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return &PaginatedComments{
		Comments: matched[start:end],
		Total:    total,
		Page:     opts.Page,
		Limit:    opts.Limit,
	}, nil
}

type stubIdentity struct {
	videos map[uuid.UUID]bool
}

func (s *stubIdentity) WithTx(tx *gorm.DB) identity.Store { return s }

func (s *stubIdentity) UserExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return true, nil
}

func (s *stubIdentity) VideoExists(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.videos[id], nil
}

func (s *stubIdentity) GetVideo(ctx context.Context, id uuid.UUID) (*video.Video, error) {
	if !s.videos[id] {
		return nil, apperrors.NewNotFoundError("video", id.String())
	}
	return &video.Video{ID: id}, nil
}

type stubCounters struct {
	mu            sync.Mutex
	commentsCount map[uuid.UUID]int64
}

func (s *stubCounters) WithTx(tx *gorm.DB) counter.Propagator { return s }

func (s *stubCounters) ApplyDelta(ctx context.Context, entity counter.Entity, id uuid.UUID, field counter.Field, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entity == counter.EntityVideo && field == counter.FieldCommentsCount {
		if s.commentsCount == nil {
			s.commentsCount = make(map[uuid.UUID]int64)
		}
		s.commentsCount[id] += delta
	}
	return nil
}

type passthroughUOW struct{}

func (passthroughUOW) WithAtomicUnit(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func testConfig() config.EngagementConfig {
	return config.EngagementConfig{
		MaxCommentDepth: 3,
		DefaultPageSize: 20,
		MaxPageSize:     100,
		MaxContentLen:   500,
		CommentCacheTTL: time.Minute,
	}
}

func newTestService() (*Service, *memoryRepository, *stubIdentity, *stubCounters) {
	repo := newMemoryRepository()
	ids := &stubIdentity{videos: make(map[uuid.UUID]bool)}
	counters := &stubCounters{}
	svc := NewService(repo, ids, nil, counters, passthroughUOW{}, testhelper.NewTestLogger(false), testConfig())
	return svc, repo, ids, counters
}

func TestAddCommentPlacement(t *testing.T) {
	t.Run("reply chain flattens at the deepest level", func(t *testing.T) {
		svc, _, ids, _ := newTestService()
		videoID := uuid.New()
		ids.videos[videoID] = true
		author := uuid.New()

		// bob replies to alice, carol replies to bob, and so on: the
		// chain stops deepening at level 2
		var parent *uuid.UUID
		var levels []int
		var created []*Comment
		for i := 0; i < 5; i++ {
			c, err := svc.AddComment(context.Background(), author, videoID, parent, "reply")
			require.NoError(t, err)
			levels = append(levels, c.Level)
			created = append(created, c)
			parent = &c.ID
		}

		assert.Equal(t, []int{0, 1, 2, 2, 2}, levels)

		// The two flattened replies hang off the level-1 comment, the
		// same parent as the first level-2 comment
		require.NotNil(t, created[3].ParentID)
		require.NotNil(t, created[4].ParentID)
		assert.Equal(t, created[1].ID, *created[3].ParentID)
		assert.Equal(t, created[1].ID, *created[4].ParentID)
	})

	t.Run("root comment has no parent and level zero", func(t *testing.T) {
		svc, _, ids, _ := newTestService()
		videoID := uuid.New()
		ids.videos[videoID] = true

		c, err := svc.AddComment(context.Background(), uuid.New(), videoID, nil, "first")
		require.NoError(t, err)
		assert.Nil(t, c.ParentID)
		assert.Equal(t, 0, c.Level)
	})

	t.Run("parent from another video is rejected", func(t *testing.T) {
		svc, _, ids, _ := newTestService()
		videoA := uuid.New()
		videoB := uuid.New()
		ids.videos[videoA] = true
		ids.videos[videoB] = true

		parent, err := svc.AddComment(context.Background(), uuid.New(), videoA, nil, "on A")
		require.NoError(t, err)

		_, err = svc.AddComment(context.Background(), uuid.New(), videoB, &parent.ID, "cross")
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("unknown video is rejected", func(t *testing.T) {
		svc, _, _, _ := newTestService()
		_, err := svc.AddComment(context.Background(), uuid.New(), uuid.New(), nil, "hi")
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("unknown parent is rejected", func(t *testing.T) {
		svc, _, ids, _ := newTestService()
		videoID := uuid.New()
		ids.videos[videoID] = true

		missing := uuid.New()
		_, err := svc.AddComment(context.Background(), uuid.New(), videoID, &missing, "hi")
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestAddCommentValidation(t *testing.T) {
	svc, _, ids, _ := newTestService()
	videoID := uuid.New()
	ids.videos[videoID] = true

	t.Run("empty content", func(t *testing.T) {
		_, err := svc.AddComment(context.Background(), uuid.New(), videoID, nil, "   ")
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("content too long", func(t *testing.T) {
		_, err := svc.AddComment(context.Background(), uuid.New(), videoID, nil, strings.Repeat("a", 501))
		assert.True(t, apperrors.IsValidation(err))
	})

	t.Run("content is trimmed", func(t *testing.T) {
		c, err := svc.AddComment(context.Background(), uuid.New(), videoID, nil, "  hello  ")
		require.NoError(t, err)
		assert.Equal(t, "hello", c.Content)
	})
}

func TestAddCommentCounters(t *testing.T) {
	svc, _, ids, counters := newTestService()
	videoID := uuid.New()
	ids.videos[videoID] = true

	root, err := svc.AddComment(context.Background(), uuid.New(), videoID, nil, "root")
	require.NoError(t, err)
	_, err = svc.AddComment(context.Background(), uuid.New(), videoID, &root.ID, "reply")
	require.NoError(t, err)

	// Replies count toward the video's comment total too
	assert.Equal(t, int64(2), counters.commentsCount[videoID])
}

func TestGetRootCommentsAndChildren(t *testing.T) {
	svc, _, ids, _ := newTestService()
	videoID := uuid.New()
	ids.videos[videoID] = true

	root, err := svc.AddComment(context.Background(), uuid.New(), videoID, nil, "root")
	require.NoError(t, err)
	_, err = svc.AddComment(context.Background(), uuid.New(), videoID, &root.ID, "reply one")
	require.NoError(t, err)
	_, err = svc.AddComment(context.Background(), uuid.New(), videoID, &root.ID, "reply two")
	require.NoError(t, err)

	roots, err := svc.GetRootComments(context.Background(), videoID, FilterOptions{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), roots.Total)
	assert.Len(t, roots.Comments, 1)
	assert.Equal(t, 20, roots.Limit)

	children, err := svc.GetChildren(context.Background(), root.ID, FilterOptions{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), children.Total)
	assert.Len(t, children.Comments, 2)

	t.Run("page size is capped", func(t *testing.T) {
		capped, err := svc.GetRootComments(context.Background(), videoID, FilterOptions{Page: 1, Limit: 1000})
		require.NoError(t, err)
		assert.Equal(t, 100, capped.Limit)
	})

	t.Run("unknown video rejected", func(t *testing.T) {
		_, err := svc.GetRootComments(context.Background(), uuid.New(), FilterOptions{})
		assert.True(t, apperrors.IsNotFound(err))
	})

	t.Run("unknown parent rejected", func(t *testing.T) {
		_, err := svc.GetChildren(context.Background(), uuid.New(), FilterOptions{})
		assert.True(t, apperrors.IsNotFound(err))
	})
}

// pageCache is an in-memory cache.Service; failing toggles every call
// into an error
type pageCache struct {
	mu      sync.Mutex
	values  map[string]string
	failing bool
}

func newPageCache() *pageCache {
	return &pageCache{values: make(map[string]string)}
}

func (c *pageCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.failing {
		return errors.New("cache down")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = fmt.Sprintf("%v", value)
	return nil
}

func (c *pageCache) Get(ctx context.Context, key string) (string, error) {
	if c.failing {
		return "", errors.New("cache down")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *pageCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *pageCache) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
	if c.failing {
		return false, errors.New("cache down")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.values[key]; ok {
		return false, nil
	}
	c.values[key] = fmt.Sprintf("%v", value)
	return true, nil
}

func (c *pageCache) Exists(ctx context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok, nil
}

func (c *pageCache) Close() error { return nil }

func TestGetRootCommentsCaching(t *testing.T) {
	newCachedService := func(pages *pageCache) (*Service, *memoryRepository, *stubIdentity) {
		repo := newMemoryRepository()
		ids := &stubIdentity{videos: make(map[uuid.UUID]bool)}
		svc := NewService(repo, ids, pages, &stubCounters{}, passthroughUOW{}, testhelper.NewTestLogger(false), testConfig())
		return svc, repo, ids
	}

	t.Run("repeat reads of a page skip the repository", func(t *testing.T) {
		pages := newPageCache()
		svc, repo, ids := newCachedService(pages)
		videoID := uuid.New()
		ids.videos[videoID] = true

		first, err := svc.AddComment(context.Background(), uuid.New(), videoID, nil, "root")
		require.NoError(t, err)

		got, err := svc.GetRootComments(context.Background(), videoID, FilterOptions{})
		require.NoError(t, err)
		require.Len(t, got.Comments, 1)
		assert.Equal(t, 1, repo.rootLists)

		again, err := svc.GetRootComments(context.Background(), videoID, FilterOptions{})
		require.NoError(t, err)
		require.Len(t, again.Comments, 1)
		assert.Equal(t, first.ID, again.Comments[0].ID)
		assert.Equal(t, 1, repo.rootLists)
	})

	t.Run("distinct pages are cached separately", func(t *testing.T) {
		pages := newPageCache()
		svc, repo, ids := newCachedService(pages)
		videoID := uuid.New()
		ids.videos[videoID] = true

		_, err := svc.GetRootComments(context.Background(), videoID, FilterOptions{Page: 1, Limit: 10})
		require.NoError(t, err)
		_, err = svc.GetRootComments(context.Background(), videoID, FilterOptions{Page: 2, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, 2, repo.rootLists)
	})

	t.Run("cache failure falls back to the repository", func(t *testing.T) {
		pages := newPageCache()
		pages.failing = true
		svc, repo, ids := newCachedService(pages)
		videoID := uuid.New()
		ids.videos[videoID] = true

		_, err := svc.AddComment(context.Background(), uuid.New(), videoID, nil, "root")
		require.NoError(t, err)

		got, err := svc.GetRootComments(context.Background(), videoID, FilterOptions{})
		require.NoError(t, err)
		assert.Len(t, got.Comments, 1)
		got, err = svc.GetRootComments(context.Background(), videoID, FilterOptions{})
		require.NoError(t, err)
		assert.Len(t, got.Comments, 1)
		assert.Equal(t, 2, repo.rootLists)
	})
}

func TestAddCommentClampsCorruptedParentLevel(t *testing.T) {
	repo := newMemoryRepository()
	ids := &stubIdentity{videos: make(map[uuid.UUID]bool)}
	log := testhelper.NewTestLogger(false)
	svc := NewService(repo, ids, nil, &stubCounters{}, passthroughUOW{}, log, testConfig())

	videoID := uuid.New()
	ids.videos[videoID] = true

	// A parent stored deeper than the limit must not push its reply
	// deeper still
	grandparentID := uuid.New()
	parent := &Comment{
		ID:       uuid.New(),
		VideoID:  videoID,
		AuthorID: uuid.New(),
		ParentID: &grandparentID,
		Level:    5,
		Content:  "too deep",
	}
	require.NoError(t, repo.Create(context.Background(), parent))

	c, err := svc.AddComment(context.Background(), uuid.New(), videoID, &parent.ID, "reply")
	require.NoError(t, err)
	assert.Equal(t, MaxDepth-1, c.Level)
	require.NotNil(t, c.ParentID)
	assert.Equal(t, grandparentID, *c.ParentID)
	assert.True(t, log.HasWarnContaining("depth limit"))
}
