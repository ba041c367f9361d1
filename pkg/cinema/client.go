package cinema

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://cinema-api.jodu555.de"

// Sentinel errors for cinema-api responses.
var (
	ErrUnauthorized = errors.New("unauthorized: missing or invalid auth token")
	ErrNotFound     = errors.New("not found")
)

// Client is a cinema-api client. It is stateless with respect to
// authentication: every call that needs a token takes it explicitly, so
// one client can serve any number of user sessions.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithLogger sets a logger for debug output.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		c.log = log.With("component", "cinema")
	}
}

// New creates a new cinema-api client.
func New(opts ...Option) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server origin the client talks to. Locator
// addresses are derived from the same origin.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	body := map[string]string{"username": username, "password": password}
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal login body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute login request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return "", err
	}

	var loginResp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return "", fmt.Errorf("decode login response: %w", err)
	}
	if loginResp.Token == "" {
		return "", errors.New("login response missing token")
	}

	if c.log != nil {
		c.log.Debug("logged in", "username", username)
	}

	return loginResp.Token, nil
}

// AuthInfo fetches the profile for a token. The token travels in the
// auth-token header, not a query parameter, on this endpoint.
func (c *Client) AuthInfo(ctx context.Context, token string) (*AuthInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/info", nil)
	if err != nil {
		return nil, fmt.Errorf("create info request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("auth-token", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute info request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return nil, err
	}

	var info AuthInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode info response: %w", err)
	}
	return &info, nil
}

// SeriesIndex fetches the full catalog at summary level.
func (c *Client) SeriesIndex(ctx context.Context, token string) ([]Serie, error) {
	start := time.Now()

	var series []Serie
	if err := c.get(ctx, "/index?auth-token="+url.QueryEscape(token), &series); err != nil {
		return nil, err
	}

	if c.log != nil {
		c.log.Debug("fetched series index", "count", len(series), "duration_ms", time.Since(start).Milliseconds())
	}

	return series, nil
}

// SeriesDetail fetches the full record for one series. The response may
// be partial; callers merge it into what they already hold.
func (c *Client) SeriesDetail(ctx context.Context, token, seriesID string) (*Serie, error) {
	start := time.Now()

	var serie Serie
	endpoint := "/index/" + url.PathEscape(seriesID) + "?auth-token=" + url.QueryEscape(token)
	if err := c.get(ctx, endpoint, &serie); err != nil {
		if c.log != nil && errors.Is(err, ErrNotFound) {
			c.log.Debug("series not found", "id", seriesID)
		}
		return nil, err
	}

	if c.log != nil {
		c.log.Debug("fetched series detail", "id", seriesID, "duration_ms", time.Since(start).Milliseconds())
	}

	return &serie, nil
}

// WatchInfo fetches all watch records for one series.
func (c *Client) WatchInfo(ctx context.Context, token, seriesID string) ([]WatchItem, error) {
	start := time.Now()

	params := url.Values{}
	params.Set("series", seriesID)
	params.Set("auth-token", token)

	var items []WatchItem
	if err := c.get(ctx, "/watch/info?"+params.Encode(), &items); err != nil {
		return nil, err
	}

	if c.log != nil {
		c.log.Debug("fetched watch info", "series", seriesID, "count", len(items), "duration_ms", time.Since(start).Milliseconds())
	}

	return items, nil
}

// get performs a GET request and decodes the JSON response into result.
func (c *Client) get(ctx context.Context, endpoint string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkResponse(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// checkResponse maps HTTP status codes to sentinel errors.
func checkResponse(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("cinema-api error: %s", resp.Status)
	}
}
