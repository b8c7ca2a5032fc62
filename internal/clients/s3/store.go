// Package s3 reads artifacts from an S3 bucket.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aristath/readiness/internal/domain"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/rs/zerolog"
)

// Downloader is the subset of manager.Downloader the store needs.
type Downloader interface {
	Download(ctx context.Context, w io.WriterAt, input *s3.GetObjectInput, options ...func(*manager.Downloader)) (int64, error)
}

// Store fetches whole objects from one bucket.
type Store struct {
	downloader Downloader
	bucket     string
	log        zerolog.Logger
}

// NewStore creates a store backed by an S3 client.
func NewStore(client manager.DownloadAPIClient, bucket string, log zerolog.Logger) *Store {
	downloader := manager.NewDownloader(client, func(d *manager.Downloader) {
		// Artifacts are small JSON documents; one part is enough.
		d.Concurrency = 1
	})
	return NewStoreWithDownloader(downloader, bucket, log)
}

// NewStoreWithDownloader creates a store around an existing downloader.
func NewStoreWithDownloader(downloader Downloader, bucket string, log zerolog.Logger) *Store {
	return &Store{
		downloader: downloader,
		bucket:     bucket,
		log:        log.With().Str("component", "s3").Str("bucket", bucket).Logger(),
	}
}

// Bucket returns the bucket name.
func (s *Store) Bucket() string {
	return s.bucket
}

// Get returns the object body. A missing object is a NotFoundError.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	buf := manager.NewWriteAtBuffer(nil)

	n, err := s.downloader.Download(ctx, buf, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			s.log.Debug().Str("key", key).Msg("Object not found")
			return nil, domain.NewNotFoundError(fmt.Sprintf("s3://%s/%s does not exist", s.bucket, key))
		}
		return nil, fmt.Errorf("failed to download s3://%s/%s: %w", s.bucket, key, err)
	}

	s.log.Debug().Str("key", key).Int64("bytes", n).Msg("Object downloaded")
	return buf.Bytes(), nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
