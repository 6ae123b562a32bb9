package notification

import (
	"fmt"

	"github.com/clipstream-labs/clipstream/backend/internal/logger"
	"github.com/gocql/gocql"
)

// SchemaManager handles the ScyllaDB schema for notifications
type SchemaManager struct {
	session  *gocql.Session
	keyspace string
	logger   logger.Logger
}

// NewSchemaManager creates a new schema manager for notifications
func NewSchemaManager(session *gocql.Session, keyspace string, logger logger.Logger) *SchemaManager {
	return &SchemaManager{
		session:  session,
		keyspace: keyspace,
		logger:   logger,
	}
}

// CreateTables creates the notification tables if they don't exist
func (m *SchemaManager) CreateTables() error {
	// Partitioned by recipient, newest first within the partition
	tableQuery := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.notifications (
			id uuid,
			user_id uuid,
			type text,
			content text,
			actor_id uuid,
			video_id uuid,
			comment_id uuid,
			read_at timestamp,
			created_at timestamp,
			PRIMARY KEY ((user_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`,
		m.keyspace,
	)
	if err := m.session.Query(tableQuery).Exec(); err != nil {
		m.logger.LogError(err, "failed to create notifications table")
		return fmt.Errorf("failed to create notifications table: %w", err)
	}

	// Lookups by notification id alone go through this index
	idIndexQuery := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS notifications_id_idx ON %s.notifications (id)`,
		m.keyspace,
	)
	if err := m.session.Query(idIndexQuery).Exec(); err != nil {
		m.logger.LogError(err, "failed to create notification id index")
		return fmt.Errorf("failed to create notification id index: %w", err)
	}

	m.logger.LogInfo("notification tables created", map[string]interface{}{
		"keyspace": m.keyspace,
	})
	return nil
}
