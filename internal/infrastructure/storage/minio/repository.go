package minio

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/lexatlas/lexatlas/internal/infrastructure/monitoring/logging"
	"github.com/lexatlas/lexatlas/pkg/errors"
)

// ObjectStorageRepository is the object-store contract consumed by the
// interfaces layer: uploads, downloads, listings, and time-limited links.
type ObjectStorageRepository interface {
	Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error)
	Download(ctx context.Context, bucket, objectKey string) (*DownloadResult, error)
	Delete(ctx context.Context, bucket, objectKey string) error
	Exists(ctx context.Context, bucket, objectKey string) (bool, error)
	List(ctx context.Context, bucket, prefix string, maxKeys int) ([]*ObjectMetadata, error)
	GetPresignedDownloadURL(ctx context.Context, bucket, objectKey string, expiry time.Duration) (string, error)
}

// UploadRequest describes one object to store.
type UploadRequest struct {
	Bucket      string
	ObjectKey   string
	Data        []byte
	ContentType string
	Metadata    map[string]string
}

// UploadResult describes a stored object.
type UploadResult struct {
	Bucket     string
	ObjectKey  string
	ETag       string
	Size       int64
	UploadedAt time.Time
}

// DownloadResult carries a fetched object and its metadata.
type DownloadResult struct {
	Data         []byte
	ContentType  string
	Size         int64
	ETag         string
	LastModified time.Time
}

// ObjectMetadata describes one listed object.
type ObjectMetadata struct {
	ObjectKey    string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

type minioRepository struct {
	client *MinIOClient
	logger logging.Logger
}

// NewMinIORepository returns an ObjectStorageRepository backed by MinIO.
func NewMinIORepository(client *MinIOClient, log logging.Logger) ObjectStorageRepository {
	return &minioRepository{
		client: client,
		logger: log,
	}
}

func (r *minioRepository) Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	if req.Bucket == "" || req.ObjectKey == "" {
		return nil, errors.New(errors.ErrCodeValidation, "bucket and object key are required")
	}
	if req.ContentType == "" && len(req.Data) > 0 {
		n := len(req.Data)
		if n > 512 {
			n = 512
		}
		req.ContentType = http.DetectContentType(req.Data[:n])
	}

	opts := minio.PutObjectOptions{
		ContentType:  req.ContentType,
		UserMetadata: req.Metadata,
	}

	info, err := r.client.GetClient().PutObject(ctx, req.Bucket, req.ObjectKey,
		bytes.NewReader(req.Data), int64(len(req.Data)), opts)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeUploadFailed, "object upload failed")
	}

	r.logger.Debug("object uploaded",
		logging.String("bucket", req.Bucket),
		logging.String("key", req.ObjectKey),
		logging.Int64("size", info.Size))

	return &UploadResult{
		Bucket:     info.Bucket,
		ObjectKey:  info.Key,
		ETag:       info.ETag,
		Size:       info.Size,
		UploadedAt: time.Now().UTC(),
	}, nil
}

func (r *minioRepository) Download(ctx context.Context, bucket, objectKey string) (*DownloadResult, error) {
	obj, err := r.client.GetClient().GetObject(ctx, bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to open object")
	}
	defer obj.Close()

	stat, err := obj.Stat()
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.Newf(errors.ErrCodeObjectNotFound, "object %s/%s not found", bucket, objectKey)
		}
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to stat object")
	}

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to read object")
	}

	return &DownloadResult{
		Data:         data,
		ContentType:  stat.ContentType,
		Size:         stat.Size,
		ETag:         stat.ETag,
		LastModified: stat.LastModified,
	}, nil
}

func (r *minioRepository) Delete(ctx context.Context, bucket, objectKey string) error {
	err := r.client.GetClient().RemoveObject(ctx, bucket, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to delete object")
	}
	return nil
}

func (r *minioRepository) Exists(ctx context.Context, bucket, objectKey string) (bool, error) {
	_, err := r.client.GetClient().StatObject(ctx, bucket, objectKey, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return false, nil
		}
		return false, errors.Wrap(err, errors.ErrCodeInternal, "failed to stat object")
	}
	return true, nil
}

func (r *minioRepository) List(ctx context.Context, bucket, prefix string, maxKeys int) ([]*ObjectMetadata, error) {
	if maxKeys <= 0 {
		maxKeys = 1000
	}

	ch := r.client.GetClient().ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
		MaxKeys:   maxKeys,
	})

	var objects []*ObjectMetadata
	for obj := range ch {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.ErrCodeInternal, "object listing failed")
		}
		objects = append(objects, &ObjectMetadata{
			ObjectKey:    obj.Key,
			Size:         obj.Size,
			ETag:         obj.ETag,
			ContentType:  obj.ContentType,
			LastModified: obj.LastModified,
		})
		if len(objects) >= maxKeys {
			break
		}
	}
	return objects, nil
}

func (r *minioRepository) GetPresignedDownloadURL(ctx context.Context, bucket, objectKey string, expiry time.Duration) (string, error) {
	exists, err := r.Exists(ctx, bucket, objectKey)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", errors.Newf(errors.ErrCodeObjectNotFound, "object %s/%s not found", bucket, objectKey)
	}
	return r.client.GeneratePresignedGetURL(ctx, bucket, objectKey, expiry)
}
