package notification_test

import (
	"context"
	"testing"

	"github.com/clipstream-labs/clipstream/backend/internal/notification"
	"github.com/clipstream-labs/clipstream/backend/testhelper"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryRepository struct {
	saved []*notification.Notification
}

func (r *memoryRepository) Save(ctx context.Context, n *notification.Notification) error {
	r.saved = append(r.saved, n)
	return nil
}

func (r *memoryRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*notification.Notification, error) {
	var out []*notification.Notification
	for _, n := range r.saved {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *memoryRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, n := range r.saved {
		if n.UserID == userID && !n.IsRead() {
			count++
		}
	}
	return count, nil
}

func (r *memoryRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return nil
}

func (r *memoryRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	return nil
}

func TestPublish(t *testing.T) {
	t.Run("event becomes a persisted notification", func(t *testing.T) {
		repo := &memoryRepository{}
		svc := notification.NewService(repo, testhelper.NewTestLogger(false), true)

		actor := uuid.New()
		recipient := uuid.New()
		videoID := uuid.New()

		err := svc.Publish(context.Background(), &notification.Event{
			Type:        notification.EventVideoLiked,
			ActorID:     actor,
			RecipientID: recipient,
			VideoID:     &videoID,
		})
		require.NoError(t, err)
		require.Len(t, repo.saved, 1)

		n := repo.saved[0]
		assert.Equal(t, recipient, n.UserID)
		assert.Equal(t, actor, n.ActorID)
		assert.Equal(t, notification.EventVideoLiked, n.Type)
		assert.Equal(t, "liked your video", n.Content)
		require.NotNil(t, n.VideoID)
		assert.Equal(t, videoID, *n.VideoID)
		assert.NotEqual(t, uuid.Nil, n.ID)
		assert.False(t, n.CreatedAt.IsZero())
		assert.Nil(t, n.ReadAt)
	})

	t.Run("disabled service drops events silently", func(t *testing.T) {
		repo := &memoryRepository{}
		svc := notification.NewService(repo, testhelper.NewTestLogger(false), false)

		err := svc.Publish(context.Background(), &notification.Event{
			Type:        notification.EventUserFollowed,
			ActorID:     uuid.New(),
			RecipientID: uuid.New(),
		})
		require.NoError(t, err)
		assert.Empty(t, repo.saved)
	})
}
