// Package osuapi implements a rate-limited client for osu! API v1.
// The API allows a limited request rate per key; the limiter is applied inside
// every call so callers never have to pace themselves.
package osuapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"
)

// Default configuration values.
const (
	DefaultBaseURL = "https://osu.ppy.sh/api"
	DefaultTimeout = 30 * time.Second

	// osu! API v1 allows 60 requests per minute per key.
	DefaultRequestsPerSec = 1.0
	DefaultBurst          = 2
)

// ErrNotFound is returned when the API has no data for the requested id.
var ErrNotFound = errors.New("osu api: not found")

// Client is an osu! API v1 HTTP client.
type Client struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// ClientOption configures Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL (used by tests).
func WithBaseURL(u string) ClientOption {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithTimeout sets HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.client.Timeout = d
	}
}

// WithRateLimit overrides the request rate limit.
func WithRateLimit(requestsPerSec float64, burst int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSec), burst)
	}
}

// NewClient creates a new osu! API v1 client.
func NewClient(apiKey string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: DefaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(DefaultRequestsPerSec), DefaultBurst),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetMatch fetches one multiplayer match with its games and scores.
// Returns ErrNotFound when the API has no such match.
func (c *Client) GetMatch(ctx context.Context, matchID int64) (*MatchPayload, error) {
	params := url.Values{}
	params.Set("mp", strconv.FormatInt(matchID, 10))

	body, err := c.get(ctx, "get_match", params)
	if err != nil {
		return nil, err
	}

	var payload MatchPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode match %d: %w", matchID, err)
	}

	// The API reports an unknown match as a zeroed header rather than a 404.
	if payload.Match.MatchID == 0 {
		return nil, ErrNotFound
	}

	return &payload, nil
}

// GetBeatmap fetches one beatmap difficulty.
// Returns ErrNotFound when the API has no such beatmap.
func (c *Client) GetBeatmap(ctx context.Context, beatmapID int64) (*BeatmapPayload, error) {
	params := url.Values{}
	params.Set("b", strconv.FormatInt(beatmapID, 10))

	body, err := c.get(ctx, "get_beatmaps", params)
	if err != nil {
		return nil, err
	}

	var payloads []BeatmapPayload
	if err := json.Unmarshal(body, &payloads); err != nil {
		return nil, fmt.Errorf("decode beatmap %d: %w", beatmapID, err)
	}

	if len(payloads) == 0 {
		return nil, ErrNotFound
	}

	return &payloads[0], nil
}

// get performs a rate-limited GET against one API endpoint.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	params.Set("k", c.apiKey)
	reqURL := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: unexpected status %d", endpoint, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}
	return body, nil
}
