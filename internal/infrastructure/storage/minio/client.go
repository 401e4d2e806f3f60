// Package minio archives competitor reports to S3-compatible object storage.
// The archive is write-mostly: every persisted analysis is mirrored here as a
// JSON document, and the export endpoint hands out presigned download URLs so
// report payloads never stream through the API server.
package minio

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/turtacn/KeyRank-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyRank-Intelligence/pkg/errors"
)

// Config carries the connection settings for the object store.
type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PresignExpiry time.Duration
}

func applyDefaults(cfg *Config) {
	if cfg.Bucket == "" {
		cfg.Bucket = "keyrank-reports"
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = 15 * time.Minute
	}
}

// objectAPI is the slice of the minio SDK the client uses, abstracted for
// tests.
type objectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (*minio.Object, error)
	PresignedGetObject(ctx context.Context, bucket, key string, expiry time.Duration, params url.Values) (*url.URL, error)
}

// Client wraps one bucket of an S3-compatible store.
type Client struct {
	api    objectAPI
	cfg    Config
	logger logging.Logger
}

// NewClient connects to the object store.  The connection is lazy: failures
// surface on the first operation, so construction succeeds even while the
// store is still coming up.
func NewClient(cfg Config, logger logging.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.Validation("minio endpoint required")
	}
	applyDefaults(&cfg)
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeExternalService, "create object store client").
			WithDetail("endpoint=" + cfg.Endpoint)
	}

	return &Client{
		api:    api,
		cfg:    cfg,
		logger: logger.Named("minio"),
	}, nil
}

// Bucket returns the configured bucket name.
func (c *Client) Bucket() string {
	return c.cfg.Bucket
}

// PresignExpiry returns the configured default presign lifetime.
func (c *Client) PresignExpiry() time.Duration {
	return c.cfg.PresignExpiry
}

// EnsureBucket creates the configured bucket if it does not exist yet.
func (c *Client) EnsureBucket(ctx context.Context) error {
	exists, err := c.api.BucketExists(ctx, c.cfg.Bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "check bucket").
			WithDetail("bucket=" + c.cfg.Bucket)
	}
	if exists {
		return nil
	}
	if err := c.api.MakeBucket(ctx, c.cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "create bucket").
			WithDetail("bucket=" + c.cfg.Bucket)
	}
	c.logger.Info("bucket created", logging.String("bucket", c.cfg.Bucket))
	return nil
}

// HealthCheck verifies the store answers bucket metadata requests.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.api.BucketExists(ctx, c.cfg.Bucket); err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "object store unreachable")
	}
	return nil
}

// put uploads one object into the configured bucket.
func (c *Client) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := c.api.PutObject(ctx, c.cfg.Bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeObjectPutFailed, "upload object").
			WithDetail("key=" + key)
	}
	return nil
}

// get downloads one object from the configured bucket.
func (c *Client) get(ctx context.Context, key string) ([]byte, error) {
	obj, err := c.api.GetObject(ctx, c.cfg.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeObjectGetFailed, "open object").
			WithDetail("key=" + key)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil, errors.NotFound("object not found").WithDetail("key=" + key)
		}
		return nil, errors.Wrap(err, errors.ErrCodeObjectGetFailed, "read object").
			WithDetail("key=" + key)
	}
	return data, nil
}

// presignGet returns a time-limited download URL for one object.
func (c *Client) presignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	if expiry <= 0 {
		expiry = c.cfg.PresignExpiry
	}
	u, err := c.api.PresignedGetObject(ctx, c.cfg.Bucket, key, expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeObjectGetFailed, "presign object").
			WithDetail("key=" + key)
	}
	return u.String(), nil
}
