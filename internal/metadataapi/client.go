package metadataapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"songsync/internal/config"
	"songsync/internal/logging"
	"songsync/internal/services"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "songsync/0.1.0"
	// maxBodyBytes bounds how much of a response is read into memory.
	maxBodyBytes = 4 << 20
)

// Response is a raw HTTP outcome. Status codes are left for callers to
// interpret.
type Response struct {
	StatusCode int
	Body       []byte
}

// OK reports whether the status code is 2xx.
func (r Response) OK() bool {
	return r.StatusCode >= http.StatusOK && r.StatusCode < http.StatusMultipleChoices
}

// Text returns the body as a string.
func (r Response) Text() string {
	return string(r.Body)
}

// Client issues requests against one metadata index.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
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

// WithRateLimit paces requests to perSecond with the given burst. A
// non-positive rate disables pacing.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(agent string) Option {
	return func(c *Client) {
		if agent = strings.TrimSpace(agent); agent != "" {
			c.userAgent = agent
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logging.NewComponentLogger(logger, "metadataapi")
	}
}

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("metadata index base url required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("parse metadata index base url: %w", err)
	}
	client := &Client{
		baseURL:    baseURL,
		userAgent:  defaultUserAgent,
		httpClient: &http.Client{Timeout: defaultTimeout},
		logger:     logging.NewComponentLogger(nil, "metadataapi"),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// NewFromConfig builds a client from the [remote] config section.
func NewFromConfig(cfg *config.Config, logger *slog.Logger) (*Client, error) {
	if cfg == nil {
		return nil, services.Wrap(services.ErrConfiguration, "metadataapi", "configure client", "config is required", nil)
	}
	return New(cfg.Remote.BaseURL,
		WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout()}),
		WithRateLimit(cfg.Remote.RequestsPerSecond, cfg.Remote.Burst),
		WithUserAgent(cfg.Remote.UserAgent),
		WithLogger(logger),
	)
}

// BaseURL returns the normalized index URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// PrefixLength fetches GET /v1/prefix-length.
func (c *Client) PrefixLength(ctx context.Context) (Response, error) {
	return c.do(ctx, http.MethodGet, "/v1/prefix-length", nil, "prefix length")
}

// Range fetches GET /v1/range/{prefix}.
func (c *Client) Range(ctx context.Context, prefix string) (Response, error) {
	return c.do(ctx, http.MethodGet, "/v1/range/"+url.PathEscape(prefix), nil, "range query")
}

// GetVideo fetches GET /v1/{platform}-video/{id}.
func (c *Client) GetVideo(ctx context.Context, platform, id string) (Response, error) {
	return c.do(ctx, http.MethodGet, videoPath(platform, id), nil, "fetch record")
}

// PostVideo submits payload as JSON to POST /v1/{platform}-video/{id}.
func (c *Client) PostVideo(ctx context.Context, platform, id string, payload any) (Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, services.Wrap(services.ErrValidation, "metadataapi", "submit record", "encode payload", err)
	}
	return c.do(ctx, http.MethodPost, videoPath(platform, id), body, "submit record")
}

func videoPath(platform, id string) string {
	return "/v1/" + url.PathEscape(platform) + "-video/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, operation string) (Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return Response{}, services.Wrap(services.ErrNetwork, "metadataapi", operation, "wait for request slot", err)
		}
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return Response{}, services.Wrap(services.ErrValidation, "metadataapi", operation, "build request", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return Response{}, services.Wrap(services.ErrNetwork, "metadataapi", operation, fmt.Sprintf("request failed (latency=%v)", latency), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Response{}, services.Wrap(services.ErrNetwork, "metadataapi", operation, "read response body", err)
	}

	c.logger.Debug("metadata index request",
		logging.String("method", method),
		logging.String("path", path),
		logging.Int("status", resp.StatusCode),
		logging.Duration("latency", latency))

	return Response{StatusCode: resp.StatusCode, Body: data}, nil
}
