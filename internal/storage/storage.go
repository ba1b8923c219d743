package storage

import (
	"context"
	"io"
)

// Storage persists uploaded file blobs. Paths are opaque keys chosen by
// the caller; the database row keeps the key alongside the metadata.
type Storage interface {
	// Save stores a blob at the given key.
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Get opens the blob at the given key for reading.
	Get(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes the blob at the given key. Deleting a missing blob
	// is not an error.
	Delete(ctx context.Context, key string) error

	// URL returns the public URL that serves the blob.
	URL(key string) string
}
