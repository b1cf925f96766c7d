package filestorage

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/yigit/clubsite/internal/pkg/logger"
)

// MinIOConfig describes an S3 compatible bucket
type MinIOConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	Region        string
	PublicBaseURL string
}

// MinIOStorage stores media as objects keyed {folder}/{name}
type MinIOStorage struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinIOStorage connects to the endpoint and makes sure the bucket exists
func NewMinIOStorage(ctx context.Context, cfg MinIOConfig) (*MinIOStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		logger.Info().Str("bucket", cfg.Bucket).Msg("Created media bucket")
	}

	return &MinIOStorage{
		client:  client,
		bucket:  cfg.Bucket,
		baseURL: cfg.PublicBaseURL,
	}, nil
}

// Upload stores r under a fresh unique name inside folder and returns its public URL
func (m *MinIOStorage) Upload(ctx context.Context, folder Folder, originalName string, r io.Reader, size int64) (string, error) {
	if !folder.Valid() {
		return "", fmt.Errorf("unknown media folder %q", folder)
	}

	name := ObjectName(originalName)
	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(originalName)))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := m.client.PutObject(ctx, m.bucket, string(folder)+"/"+name, r, size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"original-filename": originalName,
			"uploaded-at":       time.Now().Format(time.RFC3339),
		},
	})
	if err != nil {
		return "", fmt.Errorf("minio upload of %s failed: %w", name, err)
	}

	return m.PublicURL(folder, name), nil
}

// Delete removes folder/name; S3 semantics make a missing key a no-op
func (m *MinIOStorage) Delete(ctx context.Context, folder Folder, name string) error {
	if err := m.client.RemoveObject(ctx, m.bucket, string(folder)+"/"+name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio delete of %s failed: %w", name, err)
	}
	return nil
}

// PublicURL returns the URL an object is served from
func (m *MinIOStorage) PublicURL(folder Folder, name string) string {
	return joinURL(m.baseURL, folder, name)
}
