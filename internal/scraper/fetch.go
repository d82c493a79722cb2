package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cenkalti/backoff/v4"
	"golang.org/x/net/html/charset"

	"github.com/pfrederiksen/wevity-contests/internal/logger"
)

// PageSource supplies parsed search result pages
type PageSource interface {
	Fetch(ctx context.Context, url string) (*goquery.Document, error)
}

// HTTPConfig controls the plain HTTP page source
type HTTPConfig struct {
	UserAgent     string
	Timeout       time.Duration
	MaxRetries    int
	RetryInterval time.Duration
}

// HTTPSource fetches pages with net/http, retrying transient failures
type HTTPSource struct {
	client        *http.Client
	userAgent     string
	maxRetries    int
	retryInterval time.Duration
	log           *logger.Logger
}

// NewHTTPSource creates an HTTP page source. Zero values fall back to the package defaults.
func NewHTTPSource(cfg HTTPConfig, log *logger.Logger) *HTTPSource {
	if cfg.UserAgent == "" {
		cfg.UserAgent = UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = Timeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 500 * time.Millisecond
	}
	if log == nil {
		log = logger.Nop()
	}

	return &HTTPSource{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		userAgent:     cfg.UserAgent,
		maxRetries:    cfg.MaxRetries,
		retryInterval: cfg.RetryInterval,
		log:           log,
	}
}

// Fetch downloads url and parses it, decoding the body from the charset the server declares.
// Server errors and rate limiting are retried; other non-200 responses fail immediately.
func (h *HTTPSource) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	var doc *goquery.Document

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("creating request: %w", err))
		}
		req.Header.Set("User-Agent", h.userAgent)
		req.Header.Set("Accept-Language", "ko-KR,ko;q=0.9,en;q=0.8")

		resp, err := h.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return backoff.Permanent(ctx.Err())
			}
			return fmt.Errorf("fetching page: %w", err)
		}
		defer resp.Body.Close() // nolint:errcheck

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		if resp.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("unexpected status code: %d", resp.StatusCode))
		}

		body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
		if err != nil {
			return backoff.Permanent(fmt.Errorf("decoding page: %w", err))
		}

		doc, err = goquery.NewDocumentFromReader(body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("parsing HTML: %w", err))
		}
		return nil
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = h.retryInterval
	retry := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(h.maxRetries)), ctx)

	notify := func(err error, wait time.Duration) {
		h.log.Warn("Retrying page fetch", logger.Fields{
			"url":   url,
			"wait":  wait.String(),
			"error": err.Error(),
		})
		h.log.Metrics().IncrCounter("http.retries")
	}

	if err := backoff.RetryNotify(operation, retry, notify); err != nil {
		return nil, err
	}
	return doc, nil
}
