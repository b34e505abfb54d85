package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awscfg "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/phrazzld/catalog-api/internal/config"
)

// S3API is the subset of *s3.Client used by S3Storage.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage keeps media in an S3 (or S3-compatible) bucket.
type S3Storage struct {
	client    S3API
	bucket    string
	publicURL string
}

// NewS3Storage creates a storage over client. publicURL is the base that
// object keys are appended to when building URLs.
func NewS3Storage(client S3API, bucket, publicURL string) *S3Storage {
	return &S3Storage{client: client, bucket: bucket, publicURL: publicURL}
}

var _ Storage = (*S3Storage)(nil)

// NewS3Client builds an S3 client from cfg. Static credentials are used when
// configured, otherwise the default AWS credential chain. A custom endpoint
// switches to path-style addressing for S3-compatible servers.
func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	opts := []func(*awscfg.LoadOptions) error{
		awscfg.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" || cfg.SecretAccessKey != "" {
		opts = append(opts, awscfg.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awscfg.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// S3PublicURL returns the base URL objects in the configured bucket are
// reachable at: the explicit public URL, else the custom endpoint with the
// bucket appended, else the virtual-hosted AWS URL.
func S3PublicURL(cfg config.S3Config) string {
	switch {
	case cfg.PublicURL != "":
		return cfg.PublicURL
	case cfg.Endpoint != "":
		return joinURL(cfg.Endpoint, cfg.Bucket)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
	}
}

// Name implements Storage.
func (s *S3Storage) Name() string { return "s3" }

// Put implements Storage.
func (s *S3Storage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	clean, err := cleanKey(key)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(clean),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", clean, err)
	}
	return nil
}

// Delete implements Storage. S3 treats deleting a missing key as success.
func (s *S3Storage) Delete(ctx context.Context, keys ...string) error {
	var errs []error
	for _, key := range keys {
		clean, err := cleanKey(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(clean),
		})
		if err != nil {
			errs = append(errs, fmt.Errorf("failed to delete %s: %w", clean, err))
		}
	}
	return errors.Join(errs...)
}

// URL implements Storage.
func (s *S3Storage) URL(key string) string {
	return joinURL(s.publicURL, key)
}
