package view

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/clipstream-labs/clipstream/backend/internal/apperrors"
	"github.com/clipstream-labs/clipstream/backend/internal/counter"
	"github.com/clipstream-labs/clipstream/backend/testhelper"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memoryStore struct {
	mu      sync.Mutex
	records map[string]*ViewRecord
}

func newMemoryStore() *memoryStore {
	return &memoryStore{records: make(map[string]*ViewRecord)}
}

func recordKey(userID, videoID uuid.UUID) string {
	return userID.String() + "|" + videoID.String()
}

func (s *memoryStore) WithTx(tx *gorm.DB) Store { return s }

func (s *memoryStore) TryCreate(ctx context.Context, userID, videoID uuid.UUID) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := recordKey(userID, videoID)
	if _, ok := s.records[key]; ok {
		return false, nil
	}
	now := time.Now()
	s.records[key] = &ViewRecord{
		UserID:       userID,
		VideoID:      videoID,
		ViewCount:    1,
		CreatedAt:    now,
		LastViewedAt: now,
	}
	return true, nil
}

func (s *memoryStore) IncrementRepeat(ctx context.Context, userID, videoID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[recordKey(userID, videoID)]
	if !ok {
		return apperrors.NewNotFoundError("view record", "")
	}
	rec.ViewCount++
	rec.LastViewedAt = time.Now()
	return nil
}

func (s *memoryStore) Get(ctx context.Context, userID, videoID uuid.UUID) (*ViewRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[recordKey(userID, videoID)]
	if !ok {
		return nil, apperrors.NewNotFoundError("view record", "")
	}
	copied := *rec
	return &copied, nil
}

// memoryCache is an in-memory cache.Service; failing toggles every call
// into an error
type memoryCache struct {
	mu      sync.Mutex
	values  map[string]string
	failing bool
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[string]string)}
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if c.failing {
		return errors.New("cache down")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = fmt.Sprintf("%v", value)
	return nil
}

func (c *memoryCache) Get(ctx context.Context, key string) (string, error) {
	if c.failing {
		return "", errors.New("cache down")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *memoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *memoryCache) SetNX(ctx context.Context, key string, value interface{}, ttl time.Duration) (bool, error) {
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

func (c *memoryCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.failing {
		return false, errors.New("cache down")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok, nil
}

func (c *memoryCache) Close() error { return nil }

type recordingCounters struct {
	mu    sync.Mutex
	views map[uuid.UUID]int64
}

func (r *recordingCounters) WithTx(tx *gorm.DB) counter.Propagator { return r }

func (r *recordingCounters) ApplyDelta(ctx context.Context, entity counter.Entity, id uuid.UUID, field counter.Field, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entity == counter.EntityVideo && field == counter.FieldViews {
		if r.views == nil {
			r.views = make(map[uuid.UUID]int64)
		}
		r.views[id] += delta
	}
	return nil
}

type passthroughUOW struct{}

func (passthroughUOW) WithAtomicUnit(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestTracker(cache *memoryCache) (*TrackerService, *memoryStore, *recordingCounters, *testhelper.TestLogger) {
	store := newMemoryStore()
	counters := &recordingCounters{}
	log := testhelper.NewTestLogger(false)
	tracker := NewTracker(store, cache, counters, passthroughUOW{}, log, time.Minute)
	return tracker, store, counters, log
}

func TestRecordView(t *testing.T) {
	t.Run("first view increments the video counter once", func(t *testing.T) {
		tracker, store, counters, _ := newTestTracker(newMemoryCache())
		userID := uuid.New()
		videoID := uuid.New()

		first, err := tracker.RecordView(context.Background(), userID, videoID)
		require.NoError(t, err)
		assert.True(t, first)
		assert.Equal(t, int64(1), counters.views[videoID])

		rec, err := store.Get(context.Background(), userID, videoID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), rec.ViewCount)
	})

	t.Run("rewatches bump only the record", func(t *testing.T) {
		tracker, store, counters, _ := newTestTracker(newMemoryCache())
		userID := uuid.New()
		videoID := uuid.New()

		for i := 0; i < 3; i++ {
			_, err := tracker.RecordView(context.Background(), userID, videoID)
			require.NoError(t, err)
		}

		assert.Equal(t, int64(1), counters.views[videoID])
		rec, err := store.Get(context.Background(), userID, videoID)
		require.NoError(t, err)
		assert.Equal(t, int64(3), rec.ViewCount)
	})

	t.Run("different viewers each count", func(t *testing.T) {
		tracker, _, counters, _ := newTestTracker(newMemoryCache())
		videoID := uuid.New()

		for i := 0; i < 4; i++ {
			_, err := tracker.RecordView(context.Background(), uuid.New(), videoID)
			require.NoError(t, err)
		}
		assert.Equal(t, int64(4), counters.views[videoID])
	})

	t.Run("cache failure falls through to the database", func(t *testing.T) {
		cache := newMemoryCache()
		cache.failing = true
		tracker, store, counters, log := newTestTracker(cache)
		userID := uuid.New()
		videoID := uuid.New()

		first, err := tracker.RecordView(context.Background(), userID, videoID)
		require.NoError(t, err)
		assert.True(t, first)
		assert.Equal(t, int64(1), counters.views[videoID])
		assert.True(t, log.HasWarnContaining("view cache"))

		// Still deduplicates on the database record
		first, err = tracker.RecordView(context.Background(), userID, videoID)
		require.NoError(t, err)
		assert.False(t, first)
		assert.Equal(t, int64(1), counters.views[videoID])

		rec, err := store.Get(context.Background(), userID, videoID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), rec.ViewCount)
	})

	t.Run("cached pair skips the insert attempt", func(t *testing.T) {
		cache := newMemoryCache()
		tracker, store, counters, _ := newTestTracker(cache)
		userID := uuid.New()
		videoID := uuid.New()

		_, err := tracker.RecordView(context.Background(), userID, videoID)
		require.NoError(t, err)

		// Second call takes the cache fast path
		first, err := tracker.RecordView(context.Background(), userID, videoID)
		require.NoError(t, err)
		assert.False(t, first)
		assert.Equal(t, int64(1), counters.views[videoID])

		rec, err := store.Get(context.Background(), userID, videoID)
		require.NoError(t, err)
		assert.Equal(t, int64(2), rec.ViewCount)
	})
}
