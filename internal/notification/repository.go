package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/clipstream-labs/clipstream/backend/internal/apperrors"
	"github.com/clipstream-labs/clipstream/backend/internal/logger"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// ScyllaRepository implements Repository on a gocql session
type ScyllaRepository struct {
	session *gocql.Session
	logger  logger.Logger
}

// NewScyllaRepository creates a new ScyllaDB-backed notification repository
func NewScyllaRepository(session *gocql.Session, logger logger.Logger) *ScyllaRepository {
	return &ScyllaRepository{
		session: session,
		logger:  logger,
	}
}

func (r *ScyllaRepository) Save(ctx context.Context, n *Notification) error {
	query := `INSERT INTO notifications (id, user_id, type, content, actor_id, video_id, comment_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	var videoID, commentID interface{}
	if n.VideoID != nil {
		videoID = gocql.UUID(*n.VideoID)
	}
	if n.CommentID != nil {
		commentID = gocql.UUID(*n.CommentID)
	}

	if err := r.session.Query(query,
		gocql.UUID(n.ID),
		gocql.UUID(n.UserID),
		string(n.Type),
		n.Content,
		gocql.UUID(n.ActorID),
		videoID,
		commentID,
		n.CreatedAt,
	).WithContext(ctx).Exec(); err != nil {
		r.logger.LogError(err, "failed to save notification")
		return fmt.Errorf("failed to save notification: %w", err)
	}
	return nil
}

func (r *ScyllaRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Notification, error) {
	query := `SELECT id, user_id, type, content, actor_id, video_id, comment_id, read_at, created_at
			FROM notifications WHERE user_id = ? LIMIT ?`

	iter := r.session.Query(query, gocql.UUID(userID), limit+offset).WithContext(ctx).Iter()
	defer iter.Close()

	notifications := make([]*Notification, 0, limit)
	skipped := 0
	for {
		n, ok, err := scanNotification(iter)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if skipped < offset {
			skipped++
			continue
		}
		notifications = append(notifications, n)
		if len(notifications) >= limit {
			break
		}
	}

	if err := iter.Close(); err != nil {
		r.logger.LogError(err, "failed to iterate notifications")
		return nil, fmt.Errorf("failed to iterate notifications: %w", err)
	}
	return notifications, nil
}

func scanNotification(iter *gocql.Iter) (*Notification, bool, error) {
	var (
		n         Notification
		id        gocql.UUID
		userID    gocql.UUID
		actorID   gocql.UUID
		typ       string
		videoID   gocql.UUID
		commentID gocql.UUID
		readAt    time.Time
	)
	if !iter.Scan(&id, &userID, &typ, &n.Content, &actorID, &videoID, &commentID, &readAt, &n.CreatedAt) {
		return nil, false, nil
	}
	n.ID = uuid.UUID(id)
	n.UserID = uuid.UUID(userID)
	n.ActorID = uuid.UUID(actorID)
	n.Type = EventType(typ)

	var zero gocql.UUID
	if videoID != zero {
		vid := uuid.UUID(videoID)
		n.VideoID = &vid
	}
	if commentID != zero {
		cid := uuid.UUID(commentID)
		n.CommentID = &cid
	}
	if !readAt.IsZero() {
		t := readAt
		n.ReadAt = &t
	}
	return &n, true, nil
}

func (r *ScyllaRepository) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT read_at FROM notifications WHERE user_id = ?`

	iter := r.session.Query(query, gocql.UUID(userID)).WithContext(ctx).Iter()
	count := 0
	var readAt time.Time
	for iter.Scan(&readAt) {
		if readAt.IsZero() {
			count++
		}
	}
	if err := iter.Close(); err != nil {
		r.logger.LogError(err, "failed to count unread notifications")
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *ScyllaRepository) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	// The clustering key includes created_at, so resolve the full
	// primary key through the id index first.
	lookup := `SELECT user_id, created_at FROM notifications WHERE id = ?`

	var ownerID gocql.UUID
	var createdAt time.Time
	err := r.session.Query(lookup, gocql.UUID(notificationID)).WithContext(ctx).Scan(&ownerID, &createdAt)
	if err != nil {
		if errors.Is(err, gocql.ErrNotFound) {
			return apperrors.NewNotFoundError("notification", notificationID.String())
		}
		r.logger.LogError(err, "failed to look up notification")
		return fmt.Errorf("failed to look up notification: %w", err)
	}
	if uuid.UUID(ownerID) != userID {
		return apperrors.NewNotFoundError("notification", notificationID.String())
	}

	update := `UPDATE notifications SET read_at = ? WHERE user_id = ? AND created_at = ? AND id = ?`
	if err := r.session.Query(update, time.Now(), gocql.UUID(userID), createdAt, gocql.UUID(notificationID)).WithContext(ctx).Exec(); err != nil {
		r.logger.LogError(err, "failed to mark notification as read")
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

func (r *ScyllaRepository) MarkAllRead(ctx context.Context, userID uuid.UUID) error {
	query := `SELECT id, created_at, read_at FROM notifications WHERE user_id = ?`

	iter := r.session.Query(query, gocql.UUID(userID)).WithContext(ctx).Iter()
	type key struct {
		id        gocql.UUID
		createdAt time.Time
	}
	var unread []key
	var (
		id        gocql.UUID
		createdAt time.Time
		readAt    time.Time
	)
	for iter.Scan(&id, &createdAt, &readAt) {
		if readAt.IsZero() {
			unread = append(unread, key{id: id, createdAt: createdAt})
		}
	}
	if err := iter.Close(); err != nil {
		r.logger.LogError(err, "failed to list unread notifications")
		return fmt.Errorf("failed to list unread notifications: %w", err)
	}

	now := time.Now()
	update := `UPDATE notifications SET read_at = ? WHERE user_id = ? AND created_at = ? AND id = ?`
	for _, k := range unread {
		if err := r.session.Query(update, now, gocql.UUID(userID), k.createdAt, k.id).WithContext(ctx).Exec(); err != nil {
			r.logger.LogError(err, "failed to mark notification as read")
			return fmt.Errorf("failed to mark notification as read: %w", err)
		}
	}
	return nil
}
