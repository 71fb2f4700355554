package media

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/coverkeep/coverkeep/internal/bytesize"
	"github.com/coverkeep/coverkeep/internal/logger"
	"github.com/coverkeep/coverkeep/internal/telemetry"
	"github.com/coverkeep/coverkeep/pkg/metrics"
)

// DefaultMaxFileSize caps uploads at 10MiB unless configured otherwise.
const DefaultMaxFileSize = 10 * bytesize.MiB

// Config contains S3 media storage configuration.
type Config struct {
	// Endpoint is an optional custom S3 endpoint (MinIO, LocalStack, etc.)
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`

	// Region is the bucket region
	Region string `mapstructure:"region" yaml:"region"`

	// Bucket is the bucket holding warranty images
	Bucket string `mapstructure:"bucket" yaml:"bucket"`

	// AccessKeyID and SecretAccessKey are static credentials.
	// When empty, the default AWS credential chain is used.
	AccessKeyID     string `mapstructure:"access_key_id" yaml:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key" yaml:"secret_access_key"`

	// ForcePathStyle enables path-style addressing (required for MinIO)
	ForcePathStyle bool `mapstructure:"force_path_style" yaml:"force_path_style"`

	// KeyPrefix is an optional prefix for all object keys
	KeyPrefix string `mapstructure:"key_prefix" yaml:"key_prefix"`

	// PublicBaseURL is the base URL under which uploaded objects are
	// publicly reachable (CDN or bucket website endpoint)
	PublicBaseURL string `mapstructure:"public_base_url" yaml:"public_base_url"`

	// MaxFileSize is the largest accepted upload. Supports human-readable
	// values like "10Mi" or "5MB" in config files (default 10MiB)
	MaxFileSize bytesize.ByteSize `mapstructure:"max_file_size" yaml:"max_file_size"`
}

// ApplyDefaults fills in missing configuration with default values.
func (c *Config) ApplyDefaults() {
	if c.Region == "" {
		c.Region = "us-east-1"
	}
	if c.MaxFileSize == 0 {
		c.MaxFileSize = DefaultMaxFileSize
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("media bucket is required")
	}
	if c.PublicBaseURL == "" {
		return fmt.Errorf("media public base URL is required")
	}
	return nil
}

// s3API is the subset of the S3 client used by the store.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// NewClientFromConfig creates an S3 client from configuration parameters.
func NewClientFromConfig(ctx context.Context, cfg Config) (*s3.Client, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}

	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				"", // session token (empty for static credentials)
			)))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = &cfg.Endpoint
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return client, nil
}

// S3Store implements Uploader on top of S3-compatible object storage.
//
// Object keys are always freshly generated, so concurrent uploads never
// collide and client-supplied names never reach the bucket. Safe for
// concurrent use.
type S3Store struct {
	client        s3API
	bucket        string
	keyPrefix     string
	publicBaseURL string
	maxFileSize   int64
	metrics       metrics.MediaMetrics
}

// NewS3Store creates a media store and verifies bucket access.
// The bucket must already exist. The metrics parameter may be nil to
// disable collection.
func NewS3Store(ctx context.Context, client s3API, cfg Config, m metrics.MediaMetrics) (*S3Store, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if client == nil {
		return nil, fmt.Errorf("S3 client is required")
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid media configuration: %w", err)
	}

	_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && (apiErr.ErrorCode() == "NotFound" || apiErr.ErrorCode() == "NoSuchBucket") {
			return nil, fmt.Errorf("bucket %q does not exist: %w", cfg.Bucket, err)
		}
		return nil, fmt.Errorf("failed to access bucket %q: %w", cfg.Bucket, err)
	}

	return &S3Store{
		client:        client,
		bucket:        cfg.Bucket,
		keyPrefix:     cfg.KeyPrefix,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
		maxFileSize:   cfg.MaxFileSize.Int64(),
		metrics:       m,
	}, nil
}

// Upload stores a single file under the given folder and returns its
// public URL.
func (s *S3Store) Upload(ctx context.Context, folder string, file File) (url string, err error) {
	ctx, span := telemetry.StartMediaSpan(ctx, telemetry.SpanMediaUpload, folder,
		telemetry.Bucket(s.bucket),
		telemetry.Size(file.Size))
	defer span.End()
	defer func() {
		if err != nil {
			telemetry.RecordError(ctx, err)
		}
	}()

	if err = validateFile(file, s.maxFileSize); err != nil {
		return "", err
	}

	key := s.objectKey(folder, file.Filename)
	telemetry.SetAttributes(ctx, telemetry.StorageKey(key))

	// A failed put is never retried here; the error propagates to the
	// caller and the client decides whether to resubmit.
	start := time.Now()
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          file.Body,
		ContentType:   aws.String(file.ContentType),
		ContentLength: aws.Int64(file.Size),
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordUpload(folder, "error", 0, time.Since(start))
		}
		return "", fmt.Errorf("failed to upload object to S3: %w", err)
	}
	if s.metrics != nil {
		s.metrics.RecordUpload(folder, "success", file.Size, time.Since(start))
	}

	logger.DebugCtx(ctx, "uploaded media object",
		logger.KeyBucket, s.bucket,
		logger.KeyKey, key,
		logger.KeyFolder, folder,
		logger.KeySize, file.Size,
		logger.KeyDurationMs, logger.Duration(start))

	return s.publicBaseURL + "/" + key, nil
}

// UploadPair stores a receipt image and a product image concurrently.
// Both uploads run in their own goroutine; the first error cancels the
// sibling and fails the pair. Keys are independent, so a partially
// uploaded sibling never clobbers anything.
func (s *S3Store) UploadPair(ctx context.Context, receipt, product File) (string, string, error) {
	ctx, span := telemetry.StartMediaSpan(ctx, telemetry.SpanMediaUploadPair, FolderReceipts,
		telemetry.Bucket(s.bucket))
	defer span.End()

	// Validate both before either upload starts, so a bad product image
	// never costs a receipt upload.
	if err := validateFile(receipt, s.maxFileSize); err != nil {
		return "", "", fmt.Errorf("receipt image: %w", err)
	}
	if err := validateFile(product, s.maxFileSize); err != nil {
		return "", "", fmt.Errorf("product image: %w", err)
	}

	var receiptURL, productURL string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		url, err := s.Upload(gctx, FolderReceipts, receipt)
		if err != nil {
			return fmt.Errorf("receipt image: %w", err)
		}
		receiptURL = url
		return nil
	})
	g.Go(func() error {
		url, err := s.Upload(gctx, FolderProducts, product)
		if err != nil {
			return fmt.Errorf("product image: %w", err)
		}
		productURL = url
		return nil
	})

	if err := g.Wait(); err != nil {
		telemetry.RecordError(ctx, err)
		return "", "", err
	}

	return receiptURL, productURL, nil
}

// objectKey builds a collision-free object key. Only the extension of
// the client filename survives.
func (s *S3Store) objectKey(folder, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	key := folder + "/" + uuid.New().String() + ext

	if s.keyPrefix != "" {
		return strings.TrimSuffix(s.keyPrefix, "/") + "/" + key
	}
	return key
}

func validateFile(file File, maxSize int64) error {
	if file.Body == nil || file.Size == 0 {
		return ErrEmptyFile
	}
	if !strings.HasPrefix(file.ContentType, "image/") {
		return ErrNotAnImage
	}
	if maxSize > 0 && file.Size > maxSize {
		return ErrFileTooLarge
	}
	return nil
}
