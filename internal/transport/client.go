package transport

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	errpkg "github.com/veranemoloko/vreddit-downloader/internal/errors"
)

// DefaultUserAgent is sent when no agent is configured. Reddit throttles the stock Go agent.
const DefaultUserAgent = "vreddit-downloader/1.0"

// Getter is the only capability the pipeline needs from the network.
type Getter interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Client performs plain GET requests. It never retries.
type Client struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	logger     *slog.Logger
}

// Options tunes a Client. Zero values fall back to defaults.
type Options struct {
	HTTPClient *http.Client
	UserAgent  string
	// MaxBytes caps a single response body; zero means unlimited.
	MaxBytes int64
	Logger   *slog.Logger
}

// NewClient creates a Client from opts.
func NewClient(opts Options) *Client {
	c := &Client{
		httpClient: opts.HTTPClient,
		userAgent:  opts.UserAgent,
		maxBytes:   opts.MaxBytes,
		logger:     opts.Logger,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	if c.userAgent == "" {
		c.userAgent = DefaultUserAgent
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Get fetches url and returns the whole body. Every failure is a *errpkg.TransportError.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &errpkg.TransportError{URL: url, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &errpkg.TransportError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &errpkg.TransportError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("bad status: %s", resp.Status),
		}
	}

	var body io.Reader = resp.Body
	if c.maxBytes > 0 {
		body = io.LimitReader(resp.Body, c.maxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &errpkg.TransportError{URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	if c.maxBytes > 0 && int64(len(data)) > c.maxBytes {
		return nil, &errpkg.TransportError{URL: url, Err: fmt.Errorf("body exceeds limit: %d bytes", c.maxBytes)}
	}

	c.logger.Debug("GET completed",
		"url", url,
		"bytes", len(data),
		"duration", time.Since(start),
	)
	return data, nil
}
