// Package firebase uploads objects to the Firebase Storage bucket through
// the Cloud Storage client.
package firebase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	domainErrors "github.com/cassiomorais/checkout/internal/domain/errors"
	"github.com/cassiomorais/checkout/internal/domain/media"
	"github.com/cassiomorais/checkout/internal/infrastructure/config"
	"github.com/cassiomorais/checkout/internal/infrastructure/observability"
	"github.com/cassiomorais/checkout/internal/provider"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const Name = "firebase"

// downloadTokensKey is the object metadata Firebase reads download tokens from.
const downloadTokensKey = "firebaseStorageDownloadTokens"

type Storage struct {
	bucket          string
	downloadBaseURL string
	timeout         time.Duration
	client          *storage.Client
	clientOpts      []option.ClientOption
	metrics         *observability.Metrics
}

type Option func(*Storage)

// WithClientOptions is passed to storage.NewClient.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(s *Storage) { s.clientOpts = append(s.clientOpts, opts...) }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(s *Storage) { s.metrics = m }
}

// NewStorage opens a Cloud Storage client for the configured bucket using
// application default credentials. Without a bucket no client is created.
func NewStorage(ctx context.Context, cfg config.FirebaseConfig, opts ...Option) (*Storage, error) {
	s := &Storage{
		bucket:          cfg.StorageBucket,
		downloadBaseURL: strings.TrimRight(cfg.DownloadBaseURL, "/"),
		timeout:         cfg.Timeout,
	}
	for _, o := range opts {
		o(s)
	}
	if !s.Configured() {
		return s, nil
	}

	clientOpts := s.clientOpts
	if cfg.Endpoint != "" {
		clientOpts = append([]option.ClientOption{option.WithEndpoint(cfg.Endpoint)}, clientOpts...)
	}
	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	s.client = client
	return s, nil
}

func (s *Storage) Configured() bool {
	return s.bucket != ""
}

func (s *Storage) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// Upload streams body to the bucket under name. size must be the exact body
// length. progress, when set, is called as chunks are committed and once
// more when the object is finalized.
func (s *Storage) Upload(ctx context.Context, name, contentType string, size int64, body io.Reader, progress media.ProgressFunc) (*media.Object, error) {
	if s.client == nil {
		return nil, domainErrors.ErrMissingAPIKey
	}

	var cancel context.CancelFunc
	if s.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	token := uuid.NewString()
	w := s.client.Bucket(s.bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.Metadata = map[string]string{downloadTokensKey: token}
	if progress != nil {
		w.ProgressFunc = func(sent int64) { progress(sent, size) }
	}

	start := time.Now()
	if _, err := io.Copy(w, body); err != nil {
		// cancelling before Close discards the partial object
		cancel()
		_ = w.Close()
		provider.Observe(s.metrics, Name, "upload", statusOf(err), start)
		return nil, uploadError(err)
	}
	if err := w.Close(); err != nil {
		provider.Observe(s.metrics, Name, "upload", statusOf(err), start)
		return nil, uploadError(err)
	}
	provider.Observe(s.metrics, Name, "upload", http.StatusOK, start)

	attrs := w.Attrs()
	if attrs == nil || attrs.Name == "" {
		return nil, fmt.Errorf("upload: %w", domainErrors.ErrUnexpectedResponse)
	}
	if progress != nil {
		progress(size, size)
	}

	obj := &media.Object{
		Name:        attrs.Name,
		Bucket:      attrs.Bucket,
		ContentType: attrs.ContentType,
		Size:        attrs.Size,
	}
	if obj.Bucket == "" {
		obj.Bucket = s.bucket
	}
	if obj.Size == 0 {
		obj.Size = size
	}
	if tok := firstToken(attrs.Metadata[downloadTokensKey]); tok != "" {
		token = tok
	}
	obj.DownloadURL = s.downloadURL(obj.Bucket, obj.Name, token)
	return obj, nil
}

func (s *Storage) downloadURL(bucket, name, token string) string {
	u := fmt.Sprintf("%s/b/%s/o/%s?alt=media", s.downloadBaseURL, url.PathEscape(bucket), url.PathEscape(name))
	if token != "" {
		u += "&token=" + url.QueryEscape(token)
	}
	return u
}

// download tokens are a comma separated list
func firstToken(tokens string) string {
	tok, _, _ := strings.Cut(tokens, ",")
	return strings.TrimSpace(tok)
}

func statusOf(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}

func uploadError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		msg := gerr.Message
		if msg == "" {
			msg = fmt.Sprintf("upload failed with status %d", gerr.Code)
		}
		return domainErrors.NewProviderError(Name, gerr.Code, msg)
	}
	return fmt.Errorf("upload: %w: %v", domainErrors.ErrProviderUnavailable, err)
}
