package config

import (
	"github.com/clipstream-labs/clipstream/backend/internal/logger"
)

// Service defines the interface for configuration operations
type Service interface {
	Load(path string) (*Config, error)
}

// Logger interface for logging operations
type Logger = logger.Logger
