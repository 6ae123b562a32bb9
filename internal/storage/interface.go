package storage

import (
	"context"
	"io"
)

// Object is a binary asset to be stored
type Object struct {
	Reader      io.Reader
	Size        int64
	ContentType string
}

// ObjectStore defines the interface for binary object storage. Upload
// returns the public URL of the stored object; Delete removes it by key.
type ObjectStore interface {
	Upload(ctx context.Context, key string, obj Object) (url string, err error)
	Delete(ctx context.Context, key string) error
	Close() error
}

// Logger interface for logging operations
type Logger interface {
	LogInfo(msg string, fields map[string]interface{})
	LogError(err error, msg string) error
}
