package database

import (
	"context"

	"github.com/clipstream-labs/clipstream/backend/internal/logger"
	"gorm.io/gorm"
)

// Service defines the interface for database operations
type Service interface {
	Connect() (*gorm.DB, error)
	Close() error
}

// UnitOfWork runs a group of storage mutations as a single atomic unit:
// every mutation inside fn commits or rolls back together, with no
// observable intermediate state.
type UnitOfWork interface {
	WithAtomicUnit(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Logger interface for logging operations
type Logger = logger.Logger
