package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// StorageService stores airline branding assets in an S3-compatible bucket.
type StorageService interface {
	UploadLogo(ctx context.Context, airlineID uuid.UUID, filename, contentType string, reader io.Reader, size int64) (string, error)
	EnsureBucketExists(ctx context.Context) error
	Ping(ctx context.Context) error
}

var logoExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/svg+xml": ".svg",
	"image/webp":    ".webp",
}

// LogoObjectName returns the object key for an airline logo upload.
func LogoObjectName(airlineID uuid.UUID, contentType string) (string, error) {
	ext, ok := logoExtensions[strings.ToLower(contentType)]
	if !ok {
		return "", fmt.Errorf("unsupported logo content type %q", contentType)
	}
	return path.Join("airlines", airlineID.String(), "logo-"+uuid.NewString()+ext), nil
}

type minioStorage struct {
	client   *minio.Client
	bucket   string
	endpoint string
	useSSL   bool
}

func NewMinioService(endpoint, accessKey, secretKey, bucket string, useSSL bool) (StorageService, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioStorage{client: client, bucket: bucket, endpoint: endpoint, useSSL: useSSL}, nil
}

// UploadLogo stores the image and returns its public URL.
func (m *minioStorage) UploadLogo(ctx context.Context, airlineID uuid.UUID, _ string, contentType string, reader io.Reader, size int64) (string, error) {
	objectName, err := LogoObjectName(airlineID, contentType)
	if err != nil {
		return "", err
	}
	_, err = m.client.PutObject(ctx, m.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload logo: %w", err)
	}
	return m.objectURL(objectName), nil
}

func (m *minioStorage) objectURL(objectName string) string {
	scheme := "http"
	if m.useSSL {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: m.endpoint, Path: path.Join("/", m.bucket, objectName)}
	return u.String()
}

func (m *minioStorage) EnsureBucketExists(ctx context.Context) error {
	found, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return err
	}
	if !found {
		return m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{})
	}
	return nil
}

func (m *minioStorage) Ping(ctx context.Context) error {
	_, err := m.client.BucketExists(ctx, m.bucket)
	return err
}
