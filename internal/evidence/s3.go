package evidence

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Store uploads evidence images to an S3-compatible bucket.
type S3Store struct {
	client   *minio.Client
	endpoint string
	bucket   string
	useSSL   bool
}

// NewS3Store creates a store for the given endpoint and bucket.
func NewS3Store(endpoint, accessKey, secretKey, bucket string, useSSL bool) (*S3Store, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating S3 client: %w", err)
	}
	return &S3Store{client: client, endpoint: endpoint, bucket: bucket, useSSL: useSSL}, nil
}

// Save uploads the image and returns its public object URL. Repeated saves
// of the same file overwrite the same object and yield the same URL.
func (s *S3Store) Save(ctx context.Context, filename string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, filename, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/jpeg"})
	if err != nil {
		return "", fmt.Errorf("uploading evidence: %w", err)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, filename), nil
}
