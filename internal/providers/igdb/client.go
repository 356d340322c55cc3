package igdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"themerr/internal/fetch"
	"themerr/internal/ratelimit"
	"themerr/internal/services"
)

// Default endpoints for the production API.
const (
	DefaultBaseURL  = "https://api.igdb.com/v4"
	DefaultTokenURL = "https://id.twitch.tv/oauth2/token"
)

// tokenRefreshMargin forces a refresh shortly before the upstream expiry so
// an in-flight query never carries a token that lapses mid-request.
const tokenRefreshMargin = time.Minute

// Client queries the IGDB API using Twitch client-credentials auth. The
// access token is fetched lazily on first use and refreshed when it nears
// expiry; the token lives on the client value, so two clients never share
// auth state.
type Client struct {
	clientID     string
	clientSecret string
	baseURL      string
	tokenURL     string
	fetcher      *fetch.Client
	limiter      *ratelimit.Limiter

	mu     sync.Mutex
	token  string
	expiry time.Time
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

// New creates an IGDB client.
func New(clientID, clientSecret, baseURL, tokenURL string, opts ...Option) (*Client, error) {
	clientID = strings.TrimSpace(clientID)
	if clientID == "" {
		return nil, errors.New("igdb client id required")
	}
	clientSecret = strings.TrimSpace(clientSecret)
	if clientSecret == "" {
		return nil, errors.New("igdb client secret required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	tokenURL = strings.TrimSpace(tokenURL)
	if tokenURL == "" {
		tokenURL = DefaultTokenURL
	}
	client := &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		baseURL:      strings.TrimRight(baseURL, "/"),
		tokenURL:     tokenURL,
		fetcher:      fetch.New(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Query addresses a single catalog item on one IGDB endpoint. Exactly one of
// ID and Slug must be set.
type Query struct {
	Endpoint string
	Fields   []string
	ID       int64
	Slug     string
}

func (q Query) apicalypse() (string, error) {
	if q.Endpoint == "" {
		return "", errors.New("igdb endpoint required")
	}
	if len(q.Fields) == 0 {
		return "", errors.New("igdb field projection required")
	}
	var where string
	switch {
	case q.Slug != "" && q.ID != 0:
		return "", errors.New("igdb query must address id or slug, not both")
	case q.Slug != "":
		where = fmt.Sprintf("slug = (%q)", q.Slug)
	case q.ID != 0:
		where = fmt.Sprintf("id = (%d)", q.ID)
	default:
		return "", errors.New("igdb query must address an id or slug")
	}
	return fmt.Sprintf("fields %s; where %s; limit 1; offset 0;", strings.Join(q.Fields, ", "), where), nil
}

// Lookup runs the query and returns the first matching item. A response with
// no rows is reported as a not-found failure.
func (c *Client) Lookup(ctx context.Context, query Query) (map[string]any, error) {
	body, err := query.apicalypse()
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "igdb", "lookup", "build query", err)
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	header := http.Header{}
	header.Set("Client-ID", c.clientID)
	header.Set("Authorization", "Bearer "+token)
	header.Set("Accept", "application/json")

	resp, err := c.fetcher.Do(ctx, fetch.Request{
		URL:    c.baseURL + "/" + query.Endpoint,
		Method: http.MethodPost,
		Header: header,
		Body:   []byte(body),
	})
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "igdb", "lookup", query.Endpoint, err)
	}
	defer resp.Body.Close()

	var rows []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, services.Wrap(services.ErrData, "igdb", "lookup", "decode response", err)
	}
	if len(rows) == 0 {
		return nil, services.Wrap(services.ErrNotFound, "igdb", "lookup", fmt.Sprintf("%s query matched nothing", query.Endpoint), nil)
	}
	return rows[0], nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
}

// accessToken returns a cached token, fetching a fresh one when missing or
// close to expiry.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expiry.Add(-tokenRefreshMargin)) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "client_credentials")

	header := http.Header{}
	header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.fetcher.Do(ctx, fetch.Request{
		URL:    c.tokenURL,
		Method: http.MethodPost,
		Header: header,
		Body:   []byte(form.Encode()),
	})
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "igdb", "auth", "fetch access token", err)
	}
	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return "", services.Wrap(services.ErrTransient, "igdb", "auth", "read token response", err)
	}

	var token tokenResponse
	if err := json.Unmarshal(data, &token); err != nil {
		return "", services.Wrap(services.ErrData, "igdb", "auth", "decode token response", err)
	}
	if token.AccessToken == "" {
		return "", services.Wrap(services.ErrData, "igdb", "auth", "token response missing access_token", nil)
	}

	c.token = token.AccessToken
	c.expiry = time.Now().Add(time.Duration(token.ExpiresIn) * time.Second)
	return c.token, nil
}
