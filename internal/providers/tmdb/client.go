package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"themerr/internal/fetch"
	"themerr/internal/ratelimit"
	"themerr/internal/services"
)

// DefaultBaseURL is the production API root.
const DefaultBaseURL = "https://api.themoviedb.org/3"

// Client fetches movie, collection, and TV payloads from the TMDB API.
type Client struct {
	apiKey  string
	baseURL string
	fetcher *fetch.Client
	limiter *ratelimit.Limiter
}

// Option configures a Client.
type Option func(*Client)

// WithFetchClient overrides the default retrying HTTP client.
func WithFetchClient(fetcher *fetch.Client) Option {
	return func(c *Client) {
		if fetcher != nil {
			c.fetcher = fetcher
		}
	}
}

// WithLimiter attaches the shared per-provider rate limiter.
func WithLimiter(limiter *ratelimit.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// New creates a TMDB client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	client := &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: fetch.New(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Details fetches the full payload for one item on an endpoint ("movie",
// "collection", or "tv"). A 404 from the API is reported as a not-found
// failure rather than retried.
func (c *Client) Details(ctx context.Context, endpoint string, id int64) (map[string]any, error) {
	if endpoint == "" {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "details", "endpoint required", nil)
	}
	if id <= 0 {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "details", fmt.Sprintf("invalid id %d", id), nil)
	}

	target, err := url.Parse(fmt.Sprintf("%s/%s/%d", c.baseURL, endpoint, id))
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "tmdb", "details", "parse url", err)
	}
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	target.RawQuery = params.Encode()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := c.fetcher.Do(ctx, fetch.Request{
		URL:           target.String(),
		AllowStatuses: []int{http.StatusOK, http.StatusNotFound},
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "tmdb", "details", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, services.Wrap(services.ErrNotFound, "tmdb", "details", fmt.Sprintf("%s/%d", endpoint, id), nil)
	}

	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrData, "tmdb", "details", "decode response", err)
	}
	return payload, nil
}
