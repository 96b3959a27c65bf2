package s3

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/bnema/notebook-runner-cli/internal/ctxlog"
	"github.com/bnema/notebook-runner-cli/internal/domain"
	"github.com/bnema/notebook-runner-cli/internal/ports"
)

const (
	scheme           = "s3://"
	contentType      = "application/x-ipynb+json"
	maxNotebookBytes = 64 << 20
	noSuchKey        = "NoSuchKey"
	noSuchBucket     = "NoSuchBucket"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Region    string
	UseSSL    bool
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoint) == "" {
		return &domain.ConfigError{Key: "s3_endpoint", Reason: "endpoint is required for s3:// locations"}
	}
	if strings.Contains(c.Endpoint, "://") {
		return &domain.ConfigError{Key: "s3_endpoint", Reason: fmt.Sprintf("endpoint must not include scheme: %q", c.Endpoint)}
	}
	if strings.TrimSpace(c.AccessKey) == "" || strings.TrimSpace(c.SecretKey) == "" {
		return &domain.ConfigError{Key: "s3_access_key", Reason: "access and secret keys are required for s3:// locations"}
	}
	return nil
}

type getFunc func(ctx context.Context, bucket, key string) (io.ReadCloser, error)
type putFunc func(ctx context.Context, bucket, key string, body io.Reader, size int64) error

// Store keeps notebooks as objects addressed by s3://bucket/key locations.
type Store struct {
	get getFunc
	put putFunc
}

var _ ports.NotebookStore = (*Store)(nil)

func NewStore(cfg Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Region:    cfg.Region,
		Transport: newTransport(),
	})
	if err != nil {
		return nil, fmt.Errorf("create s3 client: %w", err)
	}
	return NewStoreWithClient(client)
}

func NewStoreWithClient(client *minio.Client) (*Store, error) {
	if client == nil {
		return nil, errors.New("s3 client is required")
	}

	return &Store{
		get: func(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
			obj, err := client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
			if err != nil {
				return nil, err
			}
			if _, err := obj.Stat(); err != nil {
				_ = obj.Close()
				return nil, err
			}
			return obj, nil
		},
		put: func(ctx context.Context, bucket, key string, body io.Reader, size int64) error {
			_, err := client.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{ContentType: contentType})
			return err
		},
	}, nil
}

func (s *Store) Load(ctx context.Context, location string) (*domain.Notebook, error) {
	bucket, key, err := ParseLocation(location)
	if err != nil {
		return nil, err
	}

	body, err := s.get(ctx, bucket, key)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotebookNotFound, location)
		}
		return nil, &domain.TransportError{Op: "get notebook object", URL: location, Err: err}
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(io.LimitReader(body, maxNotebookBytes))
	if err != nil {
		return nil, &domain.TransportError{Op: "read notebook object", URL: location, Err: err}
	}

	nb, err := domain.ParseNotebook(data)
	if err != nil {
		return nil, &domain.ProtocolError{Op: "decode notebook " + location, Err: err}
	}
	return nb, nil
}

func (s *Store) Write(ctx context.Context, nb *domain.Notebook, location string) error {
	if nb == nil {
		return errors.New("notebook is required")
	}
	bucket, key, err := ParseLocation(location)
	if err != nil {
		return err
	}

	data, err := json.Marshal(nb)
	if err != nil {
		return fmt.Errorf("encode notebook: %w", err)
	}

	putCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := s.put(putCtx, bucket, key, bytes.NewReader(data), int64(len(data))); err != nil {
		return &domain.TransportError{Op: "put notebook object", URL: location, Err: err}
	}

	ctxlog.FromContext(ctx).Info("notebook written", "location", location)
	return nil
}

// ParseLocation splits s3://bucket/key into its bucket and object key.
func ParseLocation(location string) (string, string, error) {
	if !strings.HasPrefix(strings.ToLower(location), scheme) {
		return "", "", fmt.Errorf("s3 location %q must start with %s", location, scheme)
	}

	rest := location[len(scheme):]
	bucket, key, ok := strings.Cut(rest, "/")
	key = strings.TrimLeft(key, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", fmt.Errorf("s3 location %q must name a bucket and a key", location)
	}
	return bucket, key, nil
}

func isNotFound(err error) bool {
	code := minio.ToErrorResponse(err).Code
	return code == noSuchKey || code == noSuchBucket
}

func newTransport() *http.Transport {
	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
}
