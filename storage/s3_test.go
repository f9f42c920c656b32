package storage

import (
	"bytes"
	"context"
	"testing"
)

func TestS3PutRejectsNonSeekableReader(t *testing.T) {
	s := &S3{bucket: "default-bucket"}
	err := s.Put(context.Background(), Key{Path: "x"}, bytes.NewBufferString("not seekable"))
	if err == nil {
		t.Fatalf("expected an error for a non-io.ReadSeeker reader")
	}
}

func TestS3BucketForPrefersKeyOverride(t *testing.T) {
	s := &S3{bucket: "default-bucket"}
	if got := s.bucketFor(Key{Bucket: "override", Path: "p"}); got != "override" {
		t.Fatalf("expected key bucket override to win, got %q", got)
	}
	if got := s.bucketFor(Key{Path: "p"}); got != "default-bucket" {
		t.Fatalf("expected the adapter's default bucket, got %q", got)
	}
}
