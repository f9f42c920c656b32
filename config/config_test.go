package config

import "testing"

func TestDefaultIsValid(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("Default() failed Validate: %v", err)
	}
}

func TestValidateRejectsBadQuality(t *testing.T) {
	c := Default()
	c.DefaultQuality = 0
	if err := Validate(c); err == nil {
		t.Fatalf("expected an error for DefaultQuality=0")
	}
	c = Default()
	c.DefaultQuality = 101
	if err := Validate(c); err == nil {
		t.Fatalf("expected an error for DefaultQuality=101")
	}
}

func TestValidateRejectsNonPositiveMaxPasses(t *testing.T) {
	c := Default()
	c.MaxPasses = 0
	if err := Validate(c); err == nil {
		t.Fatalf("expected an error for MaxPasses=0")
	}
}

func TestValidateRequiresS3Bucket(t *testing.T) {
	c := Default()
	c.Storage = StorageS3
	if err := Validate(c); err == nil {
		t.Fatalf("expected an error for s3 storage without a bucket")
	}
	c.S3.Bucket = "my-bucket"
	if err := Validate(c); err != nil {
		t.Fatalf("expected no error once Bucket is set: %v", err)
	}
}
