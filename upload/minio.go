package upload

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"
)

// MinioConfig describes the bucket uploads are kept in
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type MinioArea struct {
	client *minio.Client
	bucket string
	region string
}

// NewMinioArea stores uploads as objects of a single MinIO/S3 bucket
func NewMinioArea(cfg MinioConfig) (*MinioArea, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio: %w", err)
	}

	return &MinioArea{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

// EnsureBucket makes sure the upload bucket exists before use
func (m *MinioArea) EnsureBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.bucket, err)
	}
	if exists {
		return nil
	}

	log.WithField("prefix", logPrefix).Infof("creating bucket %s", m.bucket)
	if err := m.client.MakeBucket(ctx, m.bucket, minio.MakeBucketOptions{Region: m.region}); err != nil {
		return fmt.Errorf("make bucket %s: %w", m.bucket, err)
	}
	return nil
}

// Save uploads r as a new object. PutObject replaces silently, so an existing
// key is looked up first. Two writers racing on one key between the check and
// the put can still collide.
func (m *MinioArea) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}

	_, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{})
	if err == nil {
		return ErrExists
	}
	if !isMissing(err) {
		return fmt.Errorf("stat object: %w", err)
	}
	if contentType == "" {
		contentType = contentTypeOf(name)
	}

	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := m.client.PutObject(ctx, m.bucket, name, r, size, opts); err != nil {
		return fmt.Errorf("upload object: %w", err)
	}
	return nil
}

func (m *MinioArea) Open(ctx context.Context, name string) (io.ReadCloser, *FileInfo, error) {
	if !ValidName(name) {
		return nil, nil, ErrNotFound
	}

	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("get object: %w", err)
	}

	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		if isMissing(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("stat object: %w", err)
	}

	contentType := stat.ContentType
	if contentType == "" {
		contentType = contentTypeOf(name)
	}

	return obj, &FileInfo{
		Size:        stat.Size,
		ContentType: contentType,
		ModTime:     stat.LastModified,
	}, nil
}

// Remove deletes the object. S3 does not report deleting a missing key, so
// the object is checked first to keep the ErrNotFound contract.
func (m *MinioArea) Remove(ctx context.Context, name string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}

	if _, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{}); err != nil {
		if isMissing(err) {
			return ErrNotFound
		}
		return fmt.Errorf("stat object: %w", err)
	}

	if err := m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object: %w", err)
	}
	return nil
}

func isMissing(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NoSuchBucket"
}
