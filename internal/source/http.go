package source

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/dm/eams-go/internal/model"
)

// HTTPConfig holds connection settings for an HTTPSource.
type HTTPConfig struct {
	Username           string
	Password           string
	InsecureSkipVerify bool
	RequestTimeout     time.Duration
	RetryCount         int
}

// HTTPSource fetches a JSON readings document from a historian or gateway
// endpoint with a GET request.
type HTTPSource struct {
	client *resty.Client
	url    string
	log    *zap.Logger
}

// NewHTTPSource constructs an HTTPSource for url. Basic auth is sent when
// credentials are configured.
func NewHTTPSource(url string, cfg HTTPConfig, log *zap.Logger) (*HTTPSource, error) {
	if url == "" {
		return nil, fmt.Errorf("readings URL is required")
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 10 * time.Second
	}

	client := resty.New().
		SetTimeout(cfg.RequestTimeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Accept", "application/json").
		SetTLSClientConfig(&tls.Config{InsecureSkipVerify: cfg.InsecureSkipVerify}) //nolint:gosec
	if cfg.Username != "" || cfg.Password != "" {
		client.SetBasicAuth(cfg.Username, cfg.Password)
	}

	return &HTTPSource{client: client, url: url, log: log}, nil
}

// Name returns the endpoint URL.
func (s *HTTPSource) Name() string {
	return s.url
}

// Readings performs the GET request and decodes the response body.
func (s *HTTPSource) Readings(ctx context.Context) ([]model.EquipmentReading, error) {
	resp, err := s.client.R().SetContext(ctx).Get(s.url)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.url, err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("get %s: unexpected status %d: %s", s.url, resp.StatusCode(), truncate(resp.Body(), 200))
	}

	list, err := decodeJSON(resp.Body())
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", s.url, err)
	}
	s.log.Debug("source: fetched readings", zap.String("url", s.url), zap.Int("count", len(list)))
	return list, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
