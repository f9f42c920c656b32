package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/Skryldev/imagegraph/apperrors"
)

// Local stores resources on the local filesystem.
type Local struct {
	rootDir     string
	permissions os.FileMode
}

// NewLocal creates a Local storage adapter rooted at dir.
func NewLocal(dir string, perm os.FileMode) (*Local, error) {
	if perm == 0 {
		perm = 0o644
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("local storage: mkdir %s: %w", dir, err)
	}
	return &Local{rootDir: dir, permissions: perm}, nil
}

func (l *Local) absPath(key Key) string {
	return filepath.Join(l.rootDir, filepath.Clean(key.Bucket), filepath.Clean(key.Path))
}

func (l *Local) Put(ctx context.Context, key Key, r io.Reader) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.KindIOError, "storage.local.put", err)
	}
	path := l.absPath(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return apperrors.Wrap(apperrors.KindIOError, "storage.local.put.mkdir", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, l.permissions)
	if err != nil {
		return apperrors.Wrap(apperrors.KindIOError, "storage.local.put.open", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return apperrors.Wrap(apperrors.KindIOError, "storage.local.put.copy", err)
	}
	return nil
}

func (l *Local) Get(ctx context.Context, key Key) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOError, "storage.local.get", err)
	}
	f, err := os.Open(l.absPath(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, apperrors.New(apperrors.KindIOError, "storage.local.get", fmt.Errorf("key not found: %v", key))
		}
		return nil, apperrors.Wrap(apperrors.KindIOError, "storage.local.get.open", err)
	}
	return f, nil
}

func (l *Local) Delete(ctx context.Context, key Key) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrap(apperrors.KindIOError, "storage.local.delete", err)
	}
	if err := os.Remove(l.absPath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return apperrors.Wrap(apperrors.KindIOError, "storage.local.delete", err)
	}
	return nil
}

func (l *Local) Exists(ctx context.Context, key Key) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, apperrors.Wrap(apperrors.KindIOError, "storage.local.exists", err)
	}
	_, err := os.Stat(l.absPath(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, apperrors.Wrap(apperrors.KindIOError, "storage.local.exists.stat", err)
}
