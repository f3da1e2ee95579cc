package services

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
)

// MinioImageStore uploads product images to a bucket.
type MinioImageStore struct {
	client   *minio.Client
	bucket   string
	endpoint string
	secure   bool
}

func NewMinioImageStore(client *minio.Client, endpoint, bucket string, secure bool) *MinioImageStore {
	return &MinioImageStore{client: client, bucket: bucket, endpoint: endpoint, secure: secure}
}

// Upload stores the object and returns its public URL.
func (m *MinioImageStore) Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := m.client.PutObject(ctx, m.bucket, key, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	scheme := "http"
	if m.secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, m.endpoint, m.bucket, key), nil
}
