// Package config is the top-level configuration struct, adapted from
// the teacher's config package to the job-context worker pool and
// engine fixpoint loop of spec §4.A/§4.E.
package config

import (
	"errors"
	"time"
)

// StorageBackend selects the storage adapter bound to KindFile job
// resources.
type StorageBackend string

const (
	StorageLocal StorageBackend = "local"
	StorageS3    StorageBackend = "s3"
)

// CodecBackend selects between the CGO-free stdlib/x-image codec path
// and the libvips-backed one.
type CodecBackend string

const (
	CodecStdlib CodecBackend = "stdlib"
	CodecVips   CodecBackend = "vips"
)

// Config is the root configuration. Start from Default() and override
// only what you need; the zero Config{} does not pass Validate (its
// quality and MaxPasses are 0).
type Config struct {
	// Worker pool controls (spec §4.A "one Context per job, N jobs in
	// flight across a fixed worker pool").
	WorkerCount int // default: runtime.NumCPU()
	QueueSize   int // default: 256
	JobTimeout  time.Duration

	// MaxPasses bounds the engine's propagate/flatten/optimize/execute
	// fixpoint loop before MaximumGraphPassesExceeded (spec §4.E).
	MaxPasses int // default 6

	// Default encode quality applied when a job's encode node doesn't
	// override it.
	DefaultQuality int // 1-100; default 85

	Codec   CodecBackend
	Storage StorageBackend
	Local   LocalConfig
	S3      S3Config

	Recording RecordingConfig

	LogLevel string // "debug", "info", "warn", "error"
}

// LocalConfig configures the local filesystem storage adapter.
type LocalConfig struct {
	RootDir     string
	Permissions uint32 // default 0644
}

// S3Config configures the AWS S3 storage adapter (package storage).
type S3Config struct {
	Bucket       string
	Region       string
	Endpoint     string // optional custom endpoint (MinIO, etc.)
	UsePathStyle bool
}

// RecordingConfig gates package debugdump's per-pass snapshotting. Off
// by default — recording is a diagnostic, never a correctness, concern.
type RecordingConfig struct {
	Enabled bool
	Dir     string
}

// Default returns a Config populated with sensible production defaults.
func Default() Config {
	return Config{
		QueueSize:      256,
		JobTimeout:     30 * time.Second,
		MaxPasses:      6,
		DefaultQuality: 85,
		Codec:          CodecStdlib,
		Storage:        StorageLocal,
		LogLevel:       "info",
	}
}

// Validate returns an error if the configuration is inconsistent.
func Validate(c Config) error {
	if c.DefaultQuality < 1 || c.DefaultQuality > 100 {
		return errors.New("config: DefaultQuality must be between 1 and 100")
	}
	if c.MaxPasses <= 0 {
		return errors.New("config: MaxPasses must be positive")
	}
	if c.Storage == StorageS3 && c.S3.Bucket == "" {
		return errors.New("config: S3.Bucket is required when Storage is s3")
	}
	return nil
}
