package storage

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/Skryldev/imagegraph/apperrors"
	"github.com/Skryldev/imagegraph/config"
)

// S3 is the Adapter backed by AWS S3 (or an S3-compatible store reached
// through a custom endpoint, e.g. MinIO).
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 builds an S3 adapter from cfg, resolving credentials through the
// standard AWS SDK chain (environment, shared config, IMDS, etc).
func NewS3(ctx context.Context, cfg config.S3Config) (*S3, error) {
	opts := []func(*awsconfig.LoadOptions) error{}
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindIOError, "storage.s3.load_config", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &S3{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3) bucketFor(key Key) string {
	if key.Bucket != "" {
		return key.Bucket
	}
	return s.bucket
}

func (s *S3) Put(ctx context.Context, key Key, r io.Reader) error {
	body, ok := r.(io.ReadSeeker)
	if !ok {
		return apperrors.New(apperrors.KindInvalidArgument, "storage.s3.put", errors.New("reader must be seekable for S3 upload"))
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucketFor(key)),
		Key:    aws.String(key.Path),
		Body:   body,
	})
	if err != nil {
		return apperrors.Wrap(apperrors.KindUpstreamError, "storage.s3.put", err)
	}
	return nil
}

func (s *S3) Get(ctx context.Context, key Key) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketFor(key)),
		Key:    aws.String(key.Path),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NoSuchKey" || apiErr.ErrorCode() == "NotFound") {
			return nil, apperrors.New(apperrors.KindPrimaryResourceNotFound, "storage.s3.get", err)
		}
		return nil, apperrors.Wrap(apperrors.KindUpstreamError, "storage.s3.get", err)
	}
	return out.Body, nil
}

func (s *S3) Delete(ctx context.Context, key Key) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketFor(key)),
		Key:    aws.String(key.Path),
	})
	if err != nil {
		return apperrors.Wrap(apperrors.KindUpstreamError, "storage.s3.delete", err)
	}
	return nil
}

func (s *S3) Exists(ctx context.Context, key Key) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucketFor(key)),
		Key:    aws.String(key.Path),
	})
	if err == nil {
		return true, nil
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchKey") {
		return false, nil
	}
	return false, apperrors.Wrap(apperrors.KindUpstreamError, "storage.s3.exists", err)
}
