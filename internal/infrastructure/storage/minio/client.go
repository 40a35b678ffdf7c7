// Package minio wraps the S3-compatible object store that holds uploaded
// spreadsheets and generated analysis artifacts.
package minio

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

// MinIOAPI is the subset of the minio-go client the platform uses; test
// doubles implement it in place of a live cluster.
type MinIOAPI interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
}

// MinIOConfig holds the object-store connection parameters.
type MinIOConfig struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Region          string
	DocumentBucket  string
	UploadBucket    string
	PresignExpiry   time.Duration
}

// MinIOClient manages the object-store connection and bucket provisioning.
type MinIOClient struct {
	client MinIOAPI
	config *MinIOConfig
	logger logging.Logger
}

// NewMinIOClient connects to the object store, verifies connectivity, and
// ensures the platform buckets exist.
func NewMinIOClient(cfg *MinIOConfig, log logging.Logger) (*MinIOClient, error) {
	applyDefaults(cfg)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create minio client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := client.ListBuckets(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeServiceUnavailable, "failed to connect to minio")
	}

	mClient := &MinIOClient{
		client: client,
		config: cfg,
		logger: log,
	}

	if err := mClient.EnsureBuckets(ctx); err != nil {
		return nil, err
	}

	log.Info("minio client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.Bool("ssl", cfg.UseSSL))
	return mClient, nil
}

// NewMinIOClientWithAPI creates a client around an existing MinIOAPI
// implementation (for testing).
func NewMinIOClientWithAPI(api MinIOAPI, cfg *MinIOConfig, log logging.Logger) *MinIOClient {
	applyDefaults(cfg)
	return &MinIOClient{
		client: api,
		config: cfg,
		logger: log,
	}
}

func applyDefaults(cfg *MinIOConfig) {
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = 24 * time.Hour
	}
	if cfg.DocumentBucket == "" {
		cfg.DocumentBucket = "lexatlas-documents"
	}
	if cfg.UploadBucket == "" {
		cfg.UploadBucket = "lexatlas-uploads"
	}
}

// EnsureBuckets creates the platform buckets when they do not already exist.
func (c *MinIOClient) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range []string{c.config.DocumentBucket, c.config.UploadBucket} {
		exists, err := c.client.BucketExists(ctx, bucket)
		if err != nil {
			return errors.Wrapf(err, errors.ErrCodeInternal, "failed to check bucket %s", bucket)
		}
		if exists {
			continue
		}
		if err := c.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.config.Region}); err != nil {
			return errors.Wrapf(err, errors.ErrCodeInternal, "failed to create bucket %s", bucket)
		}
		c.logger.Info("created bucket", logging.String("bucket", bucket))
	}
	return nil
}

// GetClient returns the underlying MinIO API.
func (c *MinIOClient) GetClient() MinIOAPI {
	return c.client
}

// Config returns the client configuration.
func (c *MinIOClient) Config() *MinIOConfig {
	return c.config
}

// GeneratePresignedGetURL returns a time-limited download link for an object.
func (c *MinIOClient) GeneratePresignedGetURL(ctx context.Context, bucket, objectKey string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = c.config.PresignExpiry
	}
	u, err := c.client.PresignedGetObject(ctx, bucket, objectKey, expiry, url.Values{})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodePresignFailed, "failed to presign download url")
	}
	return u.String(), nil
}
