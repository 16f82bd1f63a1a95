package core

import (
	"context"
	"fmt"
	"os"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/edvin/hrbank/internal/model"
)

// ArtifactMirror copies a completed snapshot to secondary storage.
type ArtifactMirror interface {
	Mirror(ctx context.Context, a *model.Artifact) error
}

// S3MirrorConfig addresses an S3-compatible bucket.
type S3MirrorConfig struct {
	Endpoint  string
	Region    string
	Bucket    string
	Prefix    string
	AccessKey string
	SecretKey string
}

// S3Mirror uploads snapshots to an S3-compatible object store.
type S3Mirror struct {
	client *s3.Client
	bucket string
	prefix string
}

func NewS3Mirror(cfg S3MirrorConfig) *S3Mirror {
	opts := s3.Options{
		Region:       cfg.Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		UsePathStyle: true,
	}
	if opts.Region == "" {
		opts.Region = "us-east-1"
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	return &S3Mirror{client: s3.New(opts), bucket: cfg.Bucket, prefix: cfg.Prefix}
}

// Key returns the object key used for a.
func (m *S3Mirror) Key(a *model.Artifact) string {
	return path.Join(m.prefix, a.CreatedAt.UTC().Format("2006/01/02"), a.Name)
}

func (m *S3Mirror) Mirror(ctx context.Context, a *model.Artifact) error {
	f, err := os.Open(a.StoragePath)
	if err != nil {
		return fmt.Errorf("open snapshot %s: %w", a.StoragePath, err)
	}
	defer f.Close()

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(m.Key(a)),
		Body:          f,
		ContentLength: aws.Int64(a.SizeBytes),
		ContentType:   aws.String("text/csv; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", m.bucket, m.Key(a), err)
	}
	return nil
}
