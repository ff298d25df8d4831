// Package blobstore persists generated artifacts: database snapshots and
// archived PDF reports. The filesystem driver is the default; S3 covers
// off-site copies.
package blobstore

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrNotFound = errors.New("blob not found")

// Info describes one stored blob.
type Info struct {
	Key       string    `json:"key"`
	Size      int64     `json:"size"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Store interface {
	// Put stores the blob under key, replacing any previous content.
	Put(ctx context.Context, key string, r io.Reader) (Info, error)
	// Get opens the blob for reading. Callers close the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// List returns blobs whose key starts with prefix, newest first.
	List(ctx context.Context, prefix string) ([]Info, error)
	Delete(ctx context.Context, key string) error
}
