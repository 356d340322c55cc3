package fetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"themerr/internal/logging"
)

// ErrRetriesExhausted is returned when every attempt failed. Callers treat it
// as a transient upstream failure that outlived its retry budget.
var ErrRetriesExhausted = errors.New("retries exhausted")

const defaultMaxAttempts = 8

// Client executes HTTP requests with bounded exponential-backoff retry.
// A transport error or a disallowed status code triggers a retry after
// 2^attempt seconds, up to the attempt ceiling.
type Client struct {
	httpClient  *http.Client
	maxAttempts int
	backoff     func(attempt int) time.Duration
	logger      *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithMaxAttempts overrides the default attempt ceiling.
func WithMaxAttempts(attempts int) Option {
	return func(c *Client) {
		if attempts > 0 {
			c.maxAttempts = attempts
		}
	}
}

// WithBackoff overrides the backoff schedule. Used by tests to avoid
// multi-second sleeps.
func WithBackoff(backoff func(attempt int) time.Duration) Option {
	return func(c *Client) {
		if backoff != nil {
			c.backoff = backoff
		}
	}
}

// WithLogger attaches a logger for retry diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a retrying client.
func New(opts ...Option) *Client {
	client := &Client{
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		maxAttempts: defaultMaxAttempts,
		backoff:     exponentialBackoff,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// Request describes one retryable call.
type Request struct {
	URL    string
	Method string
	Header http.Header
	Body   []byte
	// AllowStatuses lists status codes accepted as success. Empty means 200 only.
	AllowStatuses []int
}

func (r Request) allowed(status int) bool {
	if len(r.AllowStatuses) == 0 {
		return status == http.StatusOK
	}
	for _, code := range r.AllowStatuses {
		if status == code {
			return true
		}
	}
	return false
}

// Do executes the request, retrying on transport errors and disallowed
// status codes. The caller owns the returned response body.
func (c *Client) Do(ctx context.Context, req Request) (*http.Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, bytes.NewReader(req.Body))
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		for key, values := range req.Header {
			for _, value := range values {
				httpReq.Header.Add(key, value)
			}
		}

		resp, err := c.httpClient.Do(httpReq)
		if err != nil {
			lastErr = err
			c.logger.Warn("request failed",
				logging.String("url", req.URL),
				logging.Int("attempt", attempt),
				logging.Int("max_attempts", c.maxAttempts),
				logging.Error(err),
			)
		} else if req.allowed(resp.StatusCode) {
			return resp, nil
		} else {
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("unexpected status %d", resp.StatusCode)
			c.logger.Warn("request returned disallowed status",
				logging.String("url", req.URL),
				logging.Int("status", resp.StatusCode),
				logging.Int("attempt", attempt),
				logging.Int("max_attempts", c.maxAttempts),
			)
		}

		if attempt == c.maxAttempts {
			break
		}
		if err := sleep(ctx, c.backoff(attempt)); err != nil {
			return nil, err
		}
	}

	return nil, fmt.Errorf("%w: %s %s after %d attempts: %w", ErrRetriesExhausted, method, req.URL, c.maxAttempts, lastErr)
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
