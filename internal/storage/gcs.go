package storage

import (
	"context"
	"errors"
	"io"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"google.golang.org/api/option"
)

// GCSStore keeps attachments in a Cloud Storage bucket and addresses them
// with gs://bucket/key URLs.
type GCSStore struct {
	client *storage.Client
	bucket string
}

// GCSOption configures NewGCSStore.
type GCSOption func(*gcsConfig)

type gcsConfig struct {
	clientOpts []option.ClientOption
}

// WithEndpoint points the client at an emulator or alternative endpoint and
// disables authentication.
func WithEndpoint(endpoint string) GCSOption {
	return func(c *gcsConfig) {
		c.clientOpts = append(c.clientOpts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}
}

// WithCredentialsFile uses a service account key instead of ambient credentials.
func WithCredentialsFile(path string) GCSOption {
	return func(c *gcsConfig) {
		c.clientOpts = append(c.clientOpts, option.WithCredentialsFile(path))
	}
}

func NewGCSStore(ctx context.Context, bucket string, opts ...GCSOption) (*GCSStore, error) {
	if bucket == "" {
		return nil, goerr.New("gcs bucket is required")
	}
	var cfg gcsConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	client, err := storage.NewClient(ctx, cfg.clientOpts...)
	if err != nil {
		return nil, goerr.Wrap(err, "creating gcs client", goerr.V("bucket", bucket))
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	key := objectKey(name)
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", goerr.Wrap(err, "writing gcs object", goerr.V("bucket", s.bucket), goerr.V("key", key))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "finalising gcs object", goerr.V("bucket", s.bucket), goerr.V("key", key))
	}
	return "gs://" + s.bucket + "/" + key, nil
}

func (s *GCSStore) Delete(ctx context.Context, rawURL string) (bool, error) {
	bucket, key, err := parseGSURL(rawURL)
	if err != nil {
		return false, err
	}
	if bucket != s.bucket {
		return false, goerr.New("attachment belongs to another bucket",
			goerr.V("url", rawURL), goerr.V("bucket", s.bucket))
	}
	if err := s.client.Bucket(bucket).Object(key).Delete(ctx); err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return false, nil
		}
		return false, goerr.Wrap(err, "deleting gcs object", goerr.V("url", rawURL))
	}
	return true, nil
}

// Close releases the underlying client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}

func parseGSURL(rawURL string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(rawURL, "gs://")
	if !ok {
		return "", "", goerr.New("not a gs:// url", goerr.V("url", rawURL))
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", goerr.New("malformed gs:// url", goerr.V("url", rawURL))
	}
	return bucket, key, nil
}
