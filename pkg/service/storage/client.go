package storage

import (
	"context"
	"errors"
	"strings"

	gcs "cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/assessor/pkg/utils/safe"
	"google.golang.org/api/option"
)

// DefaultMaxSize bounds the size of a single object read
const DefaultMaxSize int64 = 8 << 20

var (
	ErrObjectNotFound = goerr.New("object not found")
	ErrObjectTooLarge = goerr.New("object exceeds size limit")
	ErrInvalidURL     = goerr.New("invalid gs:// URL")
)

// Client reads objects from Cloud Storage
type Client struct {
	gcs     *gcs.Client
	maxSize int64
	opts    []option.ClientOption
}

// Option is a functional option for Client configuration
type Option func(*Client)

// WithMaxSize sets the maximum number of bytes read from one object
func WithMaxSize(n int64) Option {
	return func(c *Client) {
		c.maxSize = n
	}
}

// WithClientOptions passes options to the underlying Cloud Storage client,
// e.g. option.WithEndpoint for an emulator
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(c *Client) {
		c.opts = append(c.opts, opts...)
	}
}

// New creates a new Cloud Storage client using Application Default Credentials
func New(ctx context.Context, opts ...Option) (*Client, error) {
	c := &Client{
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(c)
	}

	client, err := gcs.NewClient(ctx, c.opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Cloud Storage client")
	}
	c.gcs = client

	return c, nil
}

// Read returns the whole content of bucket/object
func (c *Client) Read(ctx context.Context, bucket, object string) ([]byte, error) {
	r, err := c.gcs.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) || errors.Is(err, gcs.ErrBucketNotExist) {
			return nil, goerr.Wrap(ErrObjectNotFound, err.Error(), goerr.V("bucket", bucket), goerr.V("object", object))
		}
		return nil, goerr.Wrap(err, "failed to open object", goerr.V("bucket", bucket), goerr.V("object", object))
	}
	defer safe.Close(ctx, r)

	if size := r.Attrs.Size; size > c.maxSize {
		return nil, goerr.Wrap(ErrObjectTooLarge, "object is too large",
			goerr.V("bucket", bucket),
			goerr.V("object", object),
			goerr.V("size", size),
			goerr.V("max_size", c.maxSize))
	}

	data, err := safe.ReadAll(r, c.maxSize)
	if err != nil {
		if errors.Is(err, safe.ErrTooLarge) {
			return nil, goerr.Wrap(ErrObjectTooLarge, "object is too large",
				goerr.V("bucket", bucket),
				goerr.V("object", object),
				goerr.V("max_size", c.maxSize))
		}
		return nil, goerr.Wrap(err, "failed to read object", goerr.V("bucket", bucket), goerr.V("object", object))
	}

	return data, nil
}

// Close releases the underlying client
func (c *Client) Close() error {
	if err := c.gcs.Close(); err != nil {
		return goerr.Wrap(err, "failed to close Cloud Storage client")
	}
	return nil
}

// ParseURL splits gs://bucket/path/to/object into bucket and object
func ParseURL(url string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(url, "gs://")
	if !ok {
		return "", "", goerr.Wrap(ErrInvalidURL, "missing gs:// scheme", goerr.V("url", url))
	}

	bucket, object, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || object == "" || strings.HasSuffix(object, "/") {
		return "", "", goerr.Wrap(ErrInvalidURL, "URL must be gs://bucket/object", goerr.V("url", url))
	}
	return bucket, object, nil
}
