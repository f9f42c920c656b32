// Package storage provides the backing stores for KindFile job
// resources, adapted from the teacher's adapters/storage package.
package storage

import (
	"context"
	"io"
)

// Key addresses an object within a storage backend: Bucket maps to a
// subdirectory for Local and an S3 bucket override for S3.
type Key struct {
	Bucket string
	Path   string
}

// Adapter is the storage backend interface job resources of KindFile
// are read from and written to.
type Adapter interface {
	Put(ctx context.Context, key Key, r io.Reader) error
	Get(ctx context.Context, key Key) (io.ReadCloser, error)
	Delete(ctx context.Context, key Key) error
	Exists(ctx context.Context, key Key) (bool, error)
}
