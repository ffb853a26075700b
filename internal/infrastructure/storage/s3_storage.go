// Package storage archives fetched price-list documents in S3-compatible
// object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	catalogapp "github.com/marketplace/backend/internal/application/catalog"
	infraconfig "github.com/marketplace/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultPrefix      = "pricelists"
	archiveContentType = "application/yaml"
	archiveTimeLayout  = "20060102T150405.000000000Z"
)

var _ catalogapp.PriceListArchiver = (*S3PriceListArchive)(nil)

// s3API is the subset of the S3 client used by the archive
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, params *s3.CreateBucketInput, optFns ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
}

// S3PriceListArchive stores raw price lists under
// <prefix>/<shop>/<timestamp>.yaml. It works with AWS S3, MinIO and
// other S3-compatible servers.
type S3PriceListArchive struct {
	client s3API
	bucket string
	prefix string
	logger *zap.Logger
	now    func() time.Time
}

// Option configures S3PriceListArchive
type Option func(*S3PriceListArchive)

// WithLogger sets a custom logger
func WithLogger(logger *zap.Logger) Option {
	return func(s *S3PriceListArchive) {
		s.logger = logger
	}
}

// NewS3PriceListArchive creates an archive from configuration
func NewS3PriceListArchive(cfg *infraconfig.StorageConfig, opts ...Option) (*S3PriceListArchive, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid storage endpoint: %w", err)
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	return newArchive(client, cfg.Bucket, cfg.Prefix, opts...), nil
}

func newArchive(client s3API, bucket, prefix string, opts ...Option) *S3PriceListArchive {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = defaultPrefix
	}
	s := &S3PriceListArchive{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// EnsureBucket creates the bucket if it doesn't exist. Call it on startup.
func (s *S3PriceListArchive) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Archive uploads a document and returns its object key
func (s *S3PriceListArchive) Archive(ctx context.Context, shopName string, data []byte) (string, error) {
	key := s.objectKey(shopName)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(archiveContentType),
		Metadata:      map[string]string{"shop": url.QueryEscape(shopName)},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload price list: %w", err)
	}
	return key, nil
}

func (s *S3PriceListArchive) objectKey(shopName string) string {
	return fmt.Sprintf("%s/%s/%s.yaml", s.prefix, keySegment(shopName), s.now().UTC().Format(archiveTimeLayout))
}

// keySegment keeps letters and digits of any script and folds the rest
// into single dashes.
func keySegment(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.TrimSpace(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToLower(r))
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	segment := strings.TrimSuffix(b.String(), "-")
	if segment == "" {
		return "unnamed"
	}
	return segment
}

// Bucket returns the bucket name
func (s *S3PriceListArchive) Bucket() string {
	return s.bucket
}
