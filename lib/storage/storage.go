// Package storage stores uploaded evidence files by key.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrObjectNotFound is returned when no object exists under a key
var ErrObjectNotFound = errors.New("object not found")

// Storage is an object store addressed by slash-separated keys
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}
