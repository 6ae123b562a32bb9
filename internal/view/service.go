package view

import (
	"context"
	"fmt"
	"time"

	"github.com/clipstream-labs/clipstream/backend/internal/cache"
	"github.com/clipstream-labs/clipstream/backend/internal/counter"
	"github.com/clipstream-labs/clipstream/backend/internal/logger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UnitOfWork mirrors UnitOfWork; declared locally because the
// database package imports this one for auto-migration.
type UnitOfWork interface {
	WithAtomicUnit(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// TrackerService implements Tracker. The view record table is the source
// of truth; redis only short-circuits the common rewatch case so repeat
// views by the same user skip the insert attempt. Cache failures are
// logged and ignored.
type TrackerService struct {
	store      Store
	cache      cache.Service
	propagator counter.Propagator
	uow        UnitOfWork
	logger     logger.Logger
	cacheTTL   time.Duration
}

// NewTracker creates a new view tracker service
func NewTracker(store Store, cacheService cache.Service, propagator counter.Propagator, uow UnitOfWork, logger logger.Logger, cacheTTL time.Duration) *TrackerService {
	return &TrackerService{
		store:      store,
		cache:      cacheService,
		propagator: propagator,
		uow:        uow,
		logger:     logger,
		cacheTTL:   cacheTTL,
	}
}

func viewCacheKey(userID, videoID uuid.UUID) string {
	return fmt.Sprintf("view:%s:%s", userID, videoID)
}

// RecordView registers a view of videoID by userID. The first view for a
// pair creates the record and increments the video's views counter in
// the same atomic unit; later views only bump the record's rewatch
// count. Reports whether this was the first view.
func (t *TrackerService) RecordView(ctx context.Context, userID, videoID uuid.UUID) (bool, error) {
	key := viewCacheKey(userID, videoID)
	if t.cache != nil {
		seen, err := t.cache.Exists(ctx, key)
		if err != nil {
			t.logger.LogWarn("view cache lookup failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		} else if seen {
			if err := t.store.IncrementRepeat(ctx, userID, videoID); err != nil {
				return false, err
			}
			return false, nil
		}
	}

	var first bool
	err := t.uow.WithAtomicUnit(ctx, func(tx *gorm.DB) error {
		store := t.store.WithTx(tx)
		created, err := store.TryCreate(ctx, userID, videoID)
		if err != nil {
			return err
		}
		if created {
			first = true
			return t.propagator.WithTx(tx).ApplyDelta(ctx, counter.EntityVideo, videoID, counter.FieldViews, 1)
		}
		return store.IncrementRepeat(ctx, userID, videoID)
	})
	if err != nil {
		return false, err
	}

	if t.cache != nil {
		if _, err := t.cache.SetNX(ctx, key, "1", t.cacheTTL); err != nil {
			t.logger.LogWarn("view cache set failed", map[string]interface{}{
				"key":   key,
				"error": err.Error(),
			})
		}
	}
	return first, nil
}

func (t *TrackerService) GetRecord(ctx context.Context, userID, videoID uuid.UUID) (*ViewRecord, error) {
	return t.store.Get(ctx, userID, videoID)
}
