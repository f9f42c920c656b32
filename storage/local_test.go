package storage

import (
	"bytes"
	"context"
	"io"
	"testing"
)

func TestLocalPutGetDeleteExists(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, 0)
	if err != nil {
		t.Fatalf("new_local: %v", err)
	}
	ctx := context.Background()
	key := Key{Bucket: "jobs", Path: "42/output.png"}

	ok, err := l.Exists(ctx, key)
	if err != nil {
		t.Fatalf("exists: %v", err)
	}
	if ok {
		t.Fatalf("expected key to not exist yet")
	}

	want := []byte("pixel data")
	if err := l.Put(ctx, key, bytes.NewReader(want)); err != nil {
		t.Fatalf("put: %v", err)
	}

	ok, err = l.Exists(ctx, key)
	if err != nil {
		t.Fatalf("exists after put: %v", err)
	}
	if !ok {
		t.Fatalf("expected key to exist after put")
	}

	rc, err := l.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer rc.Close()
	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}

	if err := l.Delete(ctx, key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	ok, _ = l.Exists(ctx, key)
	if ok {
		t.Fatalf("expected key to be gone after delete")
	}
	// Deleting again must be a no-op, not an error.
	if err := l.Delete(ctx, key); err != nil {
		t.Fatalf("second delete should be a no-op, got %v", err)
	}
}

func TestLocalGetMissingKeyErrors(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir, 0)
	if err != nil {
		t.Fatalf("new_local: %v", err)
	}
	if _, err := l.Get(context.Background(), Key{Bucket: "b", Path: "missing"}); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
