package mediastore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/brightpaws/grooming-platform/internal/observability/metrics"
	"github.com/brightpaws/grooming-platform/pkg/logging"
)

// S3API is the subset of the S3 client used by Store.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// PresignAPI is the subset of the S3 presign client used by Store.
type PresignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Store keeps blog media in S3. Images are uploaded through the API; videos
// are uploaded by the browser against a presigned PUT URL.
type Store struct {
	bucket        string
	s3Client      S3API
	presigner     PresignAPI
	publicBaseURL string
	maxBytes      int64
	presignTTL    time.Duration
	logger        *logging.Logger
	metrics       *metrics.MediaMetrics
}

// Options configures a Store.
type Options struct {
	Bucket        string
	PublicBaseURL string
	MaxBytes      int64
	PresignTTL    time.Duration
	Metrics       *metrics.MediaMetrics
}

// NewStore creates a media store. If bucket is empty all operations fail with
// ErrNotConfigured so callers can surface a clear error instead of a nil panic.
func NewStore(s3Client S3API, presigner PresignAPI, opts Options, logger *logging.Logger) *Store {
	if logger == nil {
		logger = logging.Default()
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = 5 << 20
	}
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = 20 * time.Minute
	}
	return &Store{
		bucket:        opts.Bucket,
		s3Client:      s3Client,
		presigner:     presigner,
		publicBaseURL: strings.TrimRight(opts.PublicBaseURL, "/"),
		maxBytes:      opts.MaxBytes,
		presignTTL:    opts.PresignTTL,
		logger:        logger,
		metrics:       opts.Metrics,
	}
}

// Enabled reports whether a bucket is configured.
func (s *Store) Enabled() bool {
	return s != nil && s.bucket != "" && s.s3Client != nil
}

// UploadImage stores one blog image and returns its object key and public URL.
func (s *Store) UploadImage(ctx context.Context, filename, contentType string, body io.Reader, size int64) (string, string, error) {
	if !s.Enabled() {
		return "", "", ErrNotConfigured
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", ErrUnsupportedType
	}
	if size > s.maxBytes {
		s.observe("image", "too_large", 0)
		return "", "", ErrTooLarge
	}

	key := objectKey("uploads/blog/images", filename)
	_, err := s.s3Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		s.observe("image", "error", 0)
		return "", "", fmt.Errorf("mediastore: s3 put %s: %w", key, err)
	}

	s.observe("image", "ok", size)
	s.logger.Info("image uploaded", "key", key, "bytes", size)
	return key, s.PublicURL(key), nil
}

// PresignVideoUpload issues a presigned PUT URL for a private video object.
func (s *Store) PresignVideoUpload(ctx context.Context, filename, contentType string) (string, string, error) {
	if s == nil || s.bucket == "" || s.presigner == nil {
		return "", "", ErrNotConfigured
	}

	key := objectKey("videos", filename)
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(po *s3.PresignOptions) {
		po.Expires = s.presignTTL
	})
	if err != nil {
		s.observe("video", "error", 0)
		return "", "", fmt.Errorf("mediastore: presign %s: %w", key, err)
	}

	s.observe("video", "ok", 0)
	s.logger.Info("video upload presigned", "key", key, "expires_in", s.presignTTL)
	return req.URL, key, nil
}

// Delete removes stored objects. Missing keys are ignored; S3 deletes are
// idempotent.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if !s.Enabled() {
		return ErrNotConfigured
	}
	for _, key := range keys {
		if key == "" {
			continue
		}
		_, err := s.s3Client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			return fmt.Errorf("mediastore: s3 delete %s: %w", key, err)
		}
	}
	return nil
}

// PublicURL maps an object key to its public address.
func (s *Store) PublicURL(key string) string {
	if s.publicBaseURL == "" {
		return "/" + key
	}
	return s.publicBaseURL + "/" + key
}

func (s *Store) observe(kind, status string, bytes int64) {
	if s.metrics != nil {
		s.metrics.ObserveUpload(kind, status, bytes)
	}
}

func objectKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	return prefix + "/" + uuid.NewString() + ext
}
