package s3

import (
	"context"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abdurahmanit/GroupProject/virtucasa-service/internal/platform/logger"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		ref    string
		key    string
		wantOK bool
	}{
		{"s3://tours/2.jpg", "tours/2.jpg", true},
		{"s3:///tours/2.jpg", "tours/2.jpg", true},
		{"s3://", "", false},
		{"https://pannellum.org/images/alma.jpg", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		key, ok := ObjectKey(tt.ref)
		assert.Equal(t, tt.wantOK, ok, tt.ref)
		assert.Equal(t, tt.key, key, tt.ref)
	}
}

// Presigning is computed locally, so no MinIO server is needed.
func TestResolve(t *testing.T) {
	client, err := minio.New("minio.local:9000", &minio.Options{
		Creds:  credentials.NewStaticV4("access", "secret", ""),
		Region: "us-east-1",
	})
	require.NoError(t, err)
	s := &S3Storage{client: client, bucket: "property-tours", presignTTL: time.Hour, logger: logger.NewNop()}

	plain, err := s.Resolve(context.Background(), "https://example.com/pano.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/pano.jpg", plain)

	signed, err := s.Resolve(context.Background(), "s3://tours/2.jpg")
	require.NoError(t, err)
	assert.Contains(t, signed, "http://minio.local:9000/property-tours/tours/2.jpg?")
	assert.Contains(t, signed, "X-Amz-Signature=")
	assert.Contains(t, signed, "X-Amz-Expires=3600")
}
