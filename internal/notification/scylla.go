package notification

import (
	"fmt"
	"strings"

	"github.com/clipstream-labs/clipstream/backend/internal/config"
	"github.com/clipstream-labs/clipstream/backend/internal/logger"
	"github.com/gocql/gocql"
)

// NewScyllaSession connects to the ScyllaDB cluster, creates the
// keyspace if needed and returns a session bound to it with the
// notification schema applied.
func NewScyllaSession(cfg config.ScyllaDBConfig, log logger.Logger) (*gocql.Session, error) {
	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Consistency = parseConsistency(cfg.Consistency)
	if cfg.Timeout > 0 {
		cluster.Timeout = cfg.Timeout
		cluster.ConnectTimeout = cfg.Timeout
	}

	// First session has no keyspace so the keyspace itself can be created
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ScyllaDB: %w", err)
	}

	keyspaceQuery := fmt.Sprintf(`
		CREATE KEYSPACE IF NOT EXISTS %s
		WITH REPLICATION = {
			'class': 'SimpleStrategy',
			'replication_factor': 1
		}`, cfg.Keyspace)
	if err := session.Query(keyspaceQuery).Exec(); err != nil {
		session.Close()
		return nil, fmt.Errorf("failed to create keyspace: %w", err)
	}
	session.Close()

	cluster.Keyspace = cfg.Keyspace
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to keyspace %s: %w", cfg.Keyspace, err)
	}

	schema := NewSchemaManager(session, cfg.Keyspace, log)
	if err := schema.CreateTables(); err != nil {
		session.Close()
		return nil, err
	}

	log.LogInfo("connected to ScyllaDB", map[string]interface{}{
		"hosts":    cfg.Hosts,
		"keyspace": cfg.Keyspace,
	})
	return session, nil
}

func parseConsistency(name string) gocql.Consistency {
	switch strings.ToLower(name) {
	case "one":
		return gocql.One
	case "local_quorum":
		return gocql.LocalQuorum
	case "quorum", "":
		return gocql.Quorum
	case "all":
		return gocql.All
	default:
		return gocql.Quorum
	}
}
