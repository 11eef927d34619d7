package clientcli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tbxmanager/tbx"
)

// APIPrefix is prepended to every endpoint path.
const APIPrefix = "/api/v1/"

// RequestIDHeader carries a per-request id for correlating client and server logs.
const RequestIDHeader = "X-Request-ID"

// Credentials never go into the query string.
var credentialOptions = []string{tbx.OptLogin, tbx.OptPassword}

// Client performs calls against the tbxmanager API.
type Client struct {
	config     *Config
	baseURL    string
	httpClient *http.Client
	timeout    *time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithTimeout sets the request timeout, overriding Config.Timeout. Zero
// means no timeout. A client passed to WithHTTPClient is copied, not
// modified.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.timeout = &timeout
	}
}

// New creates a new Client with the given config and options.
func New(cfg *Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		return nil, ErrConfigRequired
	}

	cfg = cfg.WithDefaults()

	c := &Client{
		config:     cfg,
		baseURL:    BaseURL(cfg.Server),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	timeout := c.httpClient.Timeout
	if cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}
	if c.timeout != nil {
		timeout = *c.timeout
	}
	if timeout != c.httpClient.Timeout {
		hc := *c.httpClient
		hc.Timeout = timeout
		c.httpClient = &hc
	}

	return c, nil
}

// BaseURL turns a server setting into the API root. A bare host gets
// the http scheme; a trailing slash is removed.
func BaseURL(server string) string {
	server = strings.TrimSuffix(server, "/")
	if !strings.Contains(server, "://") {
		server = "http://" + server
	}
	return server
}

// URL returns the full request URL for path with params as query string.
func (c *Client) URL(path string, params *tbx.Options, exclude ...string) string {
	u := c.baseURL + APIPrefix + strings.TrimPrefix(path, "/")
	if q := BuildQuery(params, exclude...); q != "" {
		u += "?" + q
	}
	return u
}

// Call performs an authenticated GET on path. Every option in params except
// login, password and exclude becomes a query parameter. The response is
// returned whatever its status; err is set only when no response was read.
func (c *Client) Call(ctx context.Context, path string, params *tbx.Options, exclude ...string) (*Response, error) {
	if err := c.config.ValidateWithAuth(); err != nil {
		return nil, err
	}

	reqURL := c.URL(path, params, exclude...)
	requestID := uuid.NewString()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.SetBasicAuth(c.config.Login, c.config.Password)
	req.Header.Set(RequestIDHeader, requestID)

	slog.Debug("api request", "url", reqURL, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	slog.Debug("api response", "status", resp.StatusCode, "request_id", requestID, "bytes", len(body))

	return &Response{
		Status:     statusText(resp),
		StatusCode: resp.StatusCode,
		Body:       string(body),
		RequestID:  requestID,
	}, nil
}

// BuildQuery encodes params as a query string, leaving out login, password
// and any name in exclude. Values are percent-encoded and keys sorted.
func BuildQuery(params *tbx.Options, exclude ...string) string {
	if params == nil {
		return ""
	}

	skip := append(append([]string{}, credentialOptions...), exclude...)
	filtered := params.Without(skip...)

	keys := filtered.Keys()
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, url.QueryEscape(k)+"="+url.QueryEscape(filtered.Value(k)))
	}
	return strings.Join(parts, "&")
}

// statusText returns the reason phrase of resp, e.g. "OK" or "Not Found".
func statusText(resp *http.Response) string {
	if _, reason, ok := strings.Cut(resp.Status, " "); ok && reason != "" {
		return reason
	}
	if text := http.StatusText(resp.StatusCode); text != "" {
		return text
	}
	return "Unknown"
}
