package storage

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/johnquangdev/video-summarizer/pkg/config"
)

// MinIOClient publishes finished summary videos to an S3 compatible bucket
type MinIOClient struct {
	client    *minio.Client
	bucket    string
	publicURL string // e.g. https://minio.example.com when served behind a proxy
	expiry    time.Duration
}

// NewMinIOClient creates a new MinIO client and makes sure the bucket exists
func NewMinIOClient(ctx context.Context, cfg *config.StorageConfig) (*MinIOClient, error) {
	minioClient, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	expiry := cfg.URLExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}

	client := &MinIOClient{
		client:    minioClient,
		bucket:    cfg.BucketName,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		expiry:    expiry,
	}

	if err := client.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to initialize bucket: %w", err)
	}

	return client, nil
}

func (m *MinIOClient) ensureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// PublishFile uploads a local file and returns a presigned download URL
func (m *MinIOClient) PublishFile(ctx context.Context, localPath, objectName string) (string, error) {
	contentType := mime.TypeByExtension(filepath.Ext(localPath))
	if contentType == "" {
		contentType = "video/mp4"
	}

	if _, err := m.client.FPutObject(ctx, m.bucket, objectName, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectName, err)
	}

	return m.GetFileURL(ctx, objectName)
}

// GetFileURL returns a presigned GET URL, rewritten onto the public host when one is configured
func (m *MinIOClient) GetFileURL(ctx context.Context, objectName string) (string, error) {
	presigned, err := m.client.PresignedGetObject(ctx, m.bucket, objectName, m.expiry, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return rewriteHost(presigned, m.publicURL)
}

// rewriteHost keeps path and query of u but swaps scheme and host for publicURL
func rewriteHost(u *url.URL, publicURL string) (string, error) {
	if publicURL == "" {
		return u.String(), nil
	}
	pub, err := url.Parse(publicURL)
	if err != nil {
		return "", fmt.Errorf("invalid public url %q: %w", publicURL, err)
	}
	out := *u
	out.Scheme = pub.Scheme
	out.Host = pub.Host
	return out.String(), nil
}
