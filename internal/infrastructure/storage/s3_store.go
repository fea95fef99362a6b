// Package storage keeps attachment binaries in S3 compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/elkontrol/inspections/api/internal/checklist/application"
)

// S3API is the subset of *s3.Client the store needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store implements application.ObjectStore. Paths handed out are relative
// to Prefix so a bucket move does not invalidate stored metadata.
type S3Store struct {
	client        S3API
	bucket        string
	prefix        string
	publicBaseURL string
}

type S3StoreConfig struct {
	Bucket   string
	Region   string
	Endpoint string // MinIO, LocalStack and friends
	Prefix   string
	// PublicBaseURL is prepended to keys to form attachment URLs. When empty the
	// endpoint or the regional AWS host is used.
	PublicBaseURL string
}

func NewS3Store(ctx context.Context, cfg S3StoreConfig) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3StoreWithClient(client, cfg), nil
}

func NewS3StoreWithClient(client S3API, cfg S3StoreConfig) *S3Store {
	base := strings.TrimRight(cfg.PublicBaseURL, "/")
	if base == "" {
		if cfg.Endpoint != "" {
			base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
		} else {
			base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &S3Store{client: client, bucket: cfg.Bucket, prefix: prefix, publicBaseURL: base}
}

func (s *S3Store) key(path string) string {
	return s.prefix + strings.TrimLeft(path, "/")
}

// URL returns the public location of path.
func (s *S3Store) URL(path string) string {
	segments := strings.Split(s.key(path), "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return s.publicBaseURL + "/" + strings.Join(segments, "/")
}

func (s *S3Store) Put(ctx context.Context, obj application.Object) (application.StoredObject, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(obj.Path)),
		Body:        obj.Body,
		ContentType: aws.String(obj.ContentType),
	}
	if obj.Size > 0 {
		input.ContentLength = aws.Int64(obj.Size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return application.StoredObject{}, fmt.Errorf("s3 put failed for %s: %w", obj.Path, err)
	}
	return application.StoredObject{Path: obj.Path, URL: s.URL(obj.Path)}, nil
}

// Open streams a stored object. The caller closes the reader.
func (s *S3Store) Open(ctx context.Context, path string) (io.ReadCloser, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 get failed for %s: %w", path, err)
	}
	return result.Body, nil
}

func (s *S3Store) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(path)),
	})
	if err != nil {
		return fmt.Errorf("s3 delete failed for %s: %w", path, err)
	}
	return nil
}
