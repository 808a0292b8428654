package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"storygeo/internal/provider"
)

// MinIOConfig holds the object storage settings
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the base URL browsers use to fetch objects. Defaults to
	// the endpoint.
	PublicURL string
}

// MinIO uploads images to an S3 compatible bucket
type MinIO struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinIO connects to the object store and creates the bucket if needed
func NewMinIO(ctx context.Context, cfg MinIOConfig) (*MinIO, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		log.Printf("Created bucket: %s", cfg.Bucket)
	}

	return &MinIO{client: client, bucket: cfg.Bucket, baseURL: publicBase(cfg)}, nil
}

// Save uploads img as <name><ext> and returns its public URL
func (m *MinIO) Save(ctx context.Context, name string, img *provider.Image) (string, error) {
	if img == nil || len(img.Data) == 0 {
		return "", ErrEmptyImage
	}

	contentType := mimeType(img)
	objectName := name + extension(contentType)
	_, err := m.client.PutObject(ctx, m.bucket, objectName, bytes.NewReader(img.Data), int64(len(img.Data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectName, err)
	}

	return objectURL(m.baseURL, m.bucket, objectName), nil
}

func publicBase(cfg MinIOConfig) string {
	if cfg.PublicURL != "" {
		return strings.TrimSuffix(cfg.PublicURL, "/")
	}
	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + cfg.Endpoint
}

func objectURL(base, bucket, objectName string) string {
	return base + "/" + url.PathEscape(bucket) + "/" + (&url.URL{Path: objectName}).EscapedPath()
}
