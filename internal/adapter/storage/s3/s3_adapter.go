package s3

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/logger"
)

// RefScheme prefixes tour references stored in the bucket.
const RefScheme = "s3://"

// S3Storage resolves s3:// tour references to presigned MinIO URLs.
type S3Storage struct {
	client     *minio.Client
	bucket     string
	presignTTL time.Duration
	logger     *logger.Logger
}

func NewS3Storage(ctx context.Context, endpoint, accessKey, secretKey, bucketName string, useSSL bool, presignTTL time.Duration, log *logger.Logger) (*S3Storage, error) {
	log.Info("Initializing S3 MinIO Storage", "endpoint", endpoint, "bucket", bucketName, "use_ssl", useSSL)

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		log.Error("S3Storage: failed to create MinIO client", "endpoint", endpoint, "error", err)
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		log.Error("S3Storage: failed to check bucket", "bucket", bucketName, "error", err)
		return nil, fmt.Errorf("failed to check bucket %s: %w", bucketName, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			log.Error("S3Storage: failed to make bucket", "bucket", bucketName, "error", err)
			return nil, fmt.Errorf("failed to make bucket %s: %w", bucketName, err)
		}
		log.Info("S3Storage: bucket created", "bucket", bucketName)
	}

	return &S3Storage{
		client:     client,
		bucket:     bucketName,
		presignTTL: presignTTL,
		logger:     log,
	}, nil
}

// ObjectKey extracts the object key from an s3:// reference. It reports
// false for any other kind of reference.
func ObjectKey(ref string) (string, bool) {
	key, ok := strings.CutPrefix(ref, RefScheme)
	if !ok {
		return "", false
	}
	key = strings.TrimLeft(key, "/")
	return key, key != ""
}

// Resolve returns ref unchanged unless it is an s3:// reference, which is
// turned into a time-limited GET URL.
func (s *S3Storage) Resolve(ctx context.Context, ref string) (string, error) {
	key, ok := ObjectKey(ref)
	if !ok {
		return ref, nil
	}
	params := url.Values{}
	params.Set("response-content-type", "image/jpeg")
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, s.presignTTL, params)
	if err != nil {
		s.logger.Error("S3Storage.Resolve: presign failed", "bucket", s.bucket, "key", key, "error", err)
		return "", fmt.Errorf("presign %s/%s: %w", s.bucket, key, err)
	}
	s.logger.Debug("S3Storage.Resolve: presigned tour image", "key", key, "ttl", s.presignTTL)
	return u.String(), nil
}
