package db

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"review_spider/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore writes image artifacts and hands back time-limited retrieval
// URLs, mirroring the S3 put_object + presigned-URL pair of the original
// deployment.
type ObjectStore struct {
	client *minio.Client
	bucket string
	expiry time.Duration
}

func NewObjectStore(cfg config.ObjectsConfig) (*ObjectStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("can't create object store client: %v", err)
	}

	return &ObjectStore{
		client: client,
		bucket: cfg.Bucket,
		expiry: time.Duration(cfg.URLExpiryMin) * time.Minute,
	}, nil
}

// UploadPNG stores the buffer under key and returns a presigned GET URL.
func (o *ObjectStore) UploadPNG(ctx context.Context, key string, data []byte) (string, error) {
	_, err := o.client.PutObject(ctx, o.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "image/png"})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	presigned, err := o.client.PresignedGetObject(ctx, o.bucket, key, o.expiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}

	return presigned.String(), nil
}
