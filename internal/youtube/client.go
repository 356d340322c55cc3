package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"themerr/internal/fetch"
	"themerr/internal/ratelimit"
	"themerr/internal/services"
)

// DefaultBaseURL is the production Data API root.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Client fetches video metadata from the YouTube Data API.
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

// New creates a Data API client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("youtube api key required")
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

// Video fetches contentDetails and status for one video id.
func (c *Client) Video(ctx context.Context, videoID string) (Video, error) {
	if videoID == "" {
		return Video{}, services.Wrap(services.ErrValidation, "youtube", "video", "video id required", nil)
	}

	params := url.Values{}
	params.Set("part", "contentDetails,status")
	params.Set("id", videoID)
	params.Set("key", c.apiKey)

	var payload struct {
		Items []Video `json:"items"`
	}
	if err := c.get(ctx, "/videos", params, &payload); err != nil {
		return Video{}, err
	}
	if len(payload.Items) == 0 {
		return Video{}, services.Wrap(services.ErrNotFound, "youtube", "video", fmt.Sprintf("video %s not found", videoID), nil)
	}
	return payload.Items[0], nil
}

// FirstPlaylistVideoID returns the id of the first entry in a playlist.
func (c *Client) FirstPlaylistVideoID(ctx context.Context, playlistID string) (string, error) {
	if playlistID == "" {
		return "", services.Wrap(services.ErrValidation, "youtube", "playlist", "playlist id required", nil)
	}

	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("playlistId", playlistID)
	params.Set("maxResults", "1")
	params.Set("key", c.apiKey)

	var payload struct {
		Items []struct {
			ContentDetails struct {
				VideoID string `json:"videoId"`
			} `json:"contentDetails"`
		} `json:"items"`
	}
	if err := c.get(ctx, "/playlistItems", params, &payload); err != nil {
		return "", err
	}
	if len(payload.Items) == 0 || payload.Items[0].ContentDetails.VideoID == "" {
		return "", services.Wrap(services.ErrNotFound, "youtube", "playlist", fmt.Sprintf("playlist %s is empty", playlistID), nil)
	}
	return payload.Items[0].ContentDetails.VideoID, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	resp, err := c.fetcher.Do(ctx, fetch.Request{URL: c.baseURL + path + "?" + params.Encode()})
	if err != nil {
		return services.Wrap(services.ErrTransient, "youtube", "request", path, err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return services.Wrap(services.ErrData, "youtube", "request", "decode response", err)
	}
	return nil
}
