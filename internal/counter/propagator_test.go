package counter

import (
	"context"
	"testing"

	"github.com/clipstream-labs/clipstream/backend/internal/apperrors"
	"github.com/clipstream-labs/clipstream/backend/testhelper"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func TestAllowed(t *testing.T) {
	cases := []struct {
		entity Entity
		field  Field
		want   bool
	}{
		{EntityUser, FieldFollowerCount, true},
		{EntityUser, FieldFollowingCount, true},
		{EntityUser, FieldLikeCount, false},
		{EntityVideo, FieldLikeCount, true},
		{EntityVideo, FieldSavesCount, true},
		{EntityVideo, FieldViews, true},
		{EntityVideo, FieldCommentsCount, true},
		{EntityVideo, FieldFollowerCount, false},
		{EntityComment, FieldLikeCount, true},
		{EntityComment, FieldViews, false},
		{Entity("sessions"), FieldViews, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Allowed(tc.entity, tc.field), "%s.%s", tc.entity, tc.field)
	}
}

func TestApplyDeltaRejectsUnknownField(t *testing.T) {
	// The allow-list check runs before any SQL is built, so a nil db is
	// never reached
	p := NewPropagator(nil, testhelper.NewTestLogger(false))

	err := p.ApplyDelta(context.Background(), EntityUser, uuid.New(), Field("password"), 1)
	var invariantErr *apperrors.InvariantError
	assert.ErrorAs(t, err, &invariantErr)

	err = p.ApplyDelta(context.Background(), Entity("tokens"), uuid.New(), FieldViews, 1)
	assert.ErrorAs(t, err, &invariantErr)
}

// videoRow is the slice of the videos table the propagator touches
type videoRow struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	LikeCount int64     `gorm:"not null;default:0"`
}

func (videoRow) TableName() string { return "videos" }

func seedVideo(t *testing.T, likeCount int64) (*gorm.DB, uuid.UUID) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&videoRow{}))

	id := uuid.New()
	require.NoError(t, db.Create(&videoRow{ID: id, LikeCount: likeCount}).Error)
	return db, id
}

func likeCount(t *testing.T, db *gorm.DB, id uuid.UUID) int64 {
	t.Helper()
	var row videoRow
	require.NoError(t, db.First(&row, "id = ?", id).Error)
	return row.LikeCount
}

func TestApplyDeltaGuardedUpdate(t *testing.T) {
	t.Run("increment and decrement move the stored value", func(t *testing.T) {
		db, id := seedVideo(t, 0)
		p := NewPropagator(db, testhelper.NewTestLogger(false))

		require.NoError(t, p.ApplyDelta(context.Background(), EntityVideo, id, FieldLikeCount, 1))
		require.NoError(t, p.ApplyDelta(context.Background(), EntityVideo, id, FieldLikeCount, 1))
		assert.Equal(t, int64(2), likeCount(t, db, id))

		require.NoError(t, p.ApplyDelta(context.Background(), EntityVideo, id, FieldLikeCount, -1))
		assert.Equal(t, int64(1), likeCount(t, db, id))
	})

	t.Run("decrement to exactly zero is a normal update", func(t *testing.T) {
		db, id := seedVideo(t, 1)
		log := testhelper.NewTestLogger(false)
		p := NewPropagator(db, log)

		require.NoError(t, p.ApplyDelta(context.Background(), EntityVideo, id, FieldLikeCount, -1))
		assert.Equal(t, int64(0), likeCount(t, db, id))
		assert.False(t, log.HasWarnContaining("counter clamp"))
	})

	t.Run("decrement below zero clamps and warns", func(t *testing.T) {
		db, id := seedVideo(t, 0)
		log := testhelper.NewTestLogger(false)
		p := NewPropagator(db, log)

		require.NoError(t, p.ApplyDelta(context.Background(), EntityVideo, id, FieldLikeCount, -1))
		assert.Equal(t, int64(0), likeCount(t, db, id))
		assert.True(t, log.HasWarnContaining("counter clamp"))
	})

	t.Run("deep decrement clamps to zero, not below", func(t *testing.T) {
		db, id := seedVideo(t, 2)
		p := NewPropagator(db, testhelper.NewTestLogger(false))

		require.NoError(t, p.ApplyDelta(context.Background(), EntityVideo, id, FieldLikeCount, -5))
		assert.Equal(t, int64(0), likeCount(t, db, id))
	})

	t.Run("missing entity is reported, not created", func(t *testing.T) {
		db, _ := seedVideo(t, 0)
		p := NewPropagator(db, testhelper.NewTestLogger(false))

		err := p.ApplyDelta(context.Background(), EntityVideo, uuid.New(), FieldLikeCount, 1)
		assert.True(t, apperrors.IsNotFound(err))
	})
}
