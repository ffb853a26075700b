// Package pricelist downloads and decodes partner price-list documents.
package pricelist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/marketplace/backend/internal/domain/shared"
	"github.com/marketplace/backend/internal/infrastructure/config"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultFetchTimeout     = 30 * time.Second
	defaultMaxDocumentBytes = 10 << 20
	defaultUserAgent        = "marketplace-pricelist/1.0"
)

// ErrDocumentTooLarge is returned when the body exceeds the configured cap
var ErrDocumentTooLarge = shared.NewDomainError(shared.CodeUpstream, "Price list document is too large")

// HTTPFetcher downloads price lists over HTTP. Redirects are followed,
// failures are not retried.
type HTTPFetcher struct {
	client    *http.Client
	maxBytes  int64
	userAgent string
}

// NewHTTPFetcher creates a fetcher with an instrumented client
func NewHTTPFetcher(cfg config.PriceListConfig) *HTTPFetcher {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	maxBytes := cfg.MaxDocumentBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxDocumentBytes
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		maxBytes:  maxBytes,
		userAgent: userAgent,
	}
}

// Fetch returns the document body. Transport errors and non-2xx responses
// are reported as upstream errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, upstreamError(fmt.Sprintf("invalid request: %v", err))
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "application/yaml, text/yaml, text/plain, */*")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, upstreamError(fmt.Sprintf("failed to fetch price list: %v", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, upstreamError(fmt.Sprintf("failed to fetch price list: %s", resp.Status))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, upstreamError(fmt.Sprintf("failed to read price list: %v", err))
	}
	if int64(len(body)) > f.maxBytes {
		return nil, ErrDocumentTooLarge
	}
	return body, nil
}

func upstreamError(message string) error {
	return shared.NewDomainError(shared.CodeUpstream, message)
}
