package web

import (
	"context"
	"io"
	"time"
)

// FileStore exposes media files by name.
type FileStore interface {
	Exists(ctx context.Context, name string) (bool, error)
	// Length returns the size in bytes, or *NotFoundError.
	Length(ctx context.Context, name string) (int64, error)
	// OpenRangeReader returns a reader over length bytes from byte start, or
	// to the end of the file when length is zero. The caller must Close it.
	// A missing file is *NotFoundError.
	OpenRangeReader(ctx context.Context, name string, start, length int64) (io.ReadCloser, error)
}

type MediaMetadata struct {
	Name         string    `json:"name"`
	Length       int64     `json:"length"`
	ContentType  string    `json:"content_type"`
	RegisteredAt time.Time `json:"registered_at"`
}

type MediaMetadataService interface {
	// Read returns nil, nil when nothing is registered under name.
	Read(name string) (*MediaMetadata, error)
	Upsert(meta MediaMetadata) error
	Close() error
}
