package s3store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/phrazzld/blogrelay/internal/config"
	"github.com/phrazzld/blogrelay/internal/storage"
)

// Client is a storage.ObjectStore backed by an S3-compatible endpoint.
type Client struct {
	client *miniogo.Client
	logger *slog.Logger
}

var _ storage.ObjectStore = (*Client)(nil)

// New creates a Client for cfg. Empty access keys select anonymous requests,
// which only work against buckets that allow public writes.
func New(cfg config.StorageConfig, log *slog.Logger) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("storage endpoint cannot be empty")
	}
	if log == nil {
		log = slog.Default()
	}

	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	log.Info("object store client initialized",
		slog.String("endpoint", cfg.Endpoint),
		slog.String("region", cfg.Region),
		slog.Bool("ssl", cfg.UseSSL))

	return &Client{
		client: client,
		logger: log.With(slog.String("component", "s3store")),
	}, nil
}

// PutObject uploads body in a single request.
func (c *Client) PutObject(ctx context.Context, bucket, key string, body []byte, contentType string) error {
	info, err := c.client.PutObject(
		ctx,
		bucket,
		key,
		bytes.NewReader(body),
		int64(len(body)),
		miniogo.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}

	c.logger.Debug("uploaded object",
		slog.String("bucket", bucket),
		slog.String("key", key),
		slog.String("etag", info.ETag),
		slog.Int("size", len(body)))
	return nil
}

// GetObject downloads the object at key. A missing key yields an error
// wrapping storage.ErrNotFound.
func (c *Client) GetObject(ctx context.Context, bucket, key string) (*storage.Object, error) {
	obj, err := c.client.GetObject(ctx, bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, c.translate(err, key)
	}
	defer func() {
		_ = obj.Close()
	}()

	stat, err := obj.Stat()
	if err != nil {
		return nil, c.translate(err, key)
	}

	body, err := io.ReadAll(obj)
	if err != nil {
		return nil, c.translate(err, key)
	}

	return &storage.Object{
		Body:         body,
		ContentType:  stat.ContentType,
		LastModified: stat.LastModified,
	}, nil
}

// Ping checks that bucket exists and is reachable with the configured credentials.
func (c *Client) Ping(ctx context.Context, bucket string) error {
	exists, err := c.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", bucket)
	}
	return nil
}

func (c *Client) translate(err error, key string) error {
	resp := miniogo.ToErrorResponse(err)
	if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", storage.ErrNotFound, key)
	}
	return fmt.Errorf("failed to read object: %w", err)
}
