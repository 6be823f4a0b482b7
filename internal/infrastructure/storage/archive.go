package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sangkips/library-api/internal/config"
)

// ErrArchiveDisabled is returned by NewS3Archive when no bucket is configured.
var ErrArchiveDisabled = errors.New("report archive disabled")

// Archive stores generated report files.
type Archive interface {
	Put(ctx context.Context, name string, body []byte, contentType string) (string, error)
}

// objectPutter is the part of *s3.Client the archive needs.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Archive uploads reports to an S3-compatible bucket (AWS, R2, MinIO).
type S3Archive struct {
	client objectPutter
	bucket string
	prefix string
	now    func() time.Time
}

// NewS3Archive builds an archive from config. A custom Endpoint switches the
// client to path-style addressing for self-hosted stores.
func NewS3Archive(ctx context.Context, cfg *config.ArchiveConfig) (*S3Archive, error) {
	if cfg.Bucket == "" {
		return nil, ErrArchiveDisabled
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Archive(client, cfg.Bucket, cfg.Prefix), nil
}

func newS3Archive(client objectPutter, bucket, prefix string) *S3Archive {
	return &S3Archive{client: client, bucket: bucket, prefix: prefix, now: time.Now}
}

// Key returns the object key a report name is stored under:
// <prefix>/<yyyy>/<mm>/<name>.
func (a *S3Archive) Key(name string) string {
	now := a.now()
	return path.Join(a.prefix, now.Format("2006"), now.Format("01"), path.Base(name))
}

// Put uploads body and returns its object key.
func (a *S3Archive) Put(ctx context.Context, name string, body []byte, contentType string) (string, error) {
	key := a.Key(name)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return key, nil
}
