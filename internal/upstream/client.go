package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Back-office resource paths. They are part of the external contract.
const (
	ProductsPath          = "/products/"
	OrdersPath            = "/api/v1/orders/"
	UsersPath             = "/users/"
	ShippingProvidersPath = "/api/v1/shipping/providers"
	ShippingOrdersPath    = "/api/v1/shipping/orders"
	ShippingStatsPath     = "/api/v1/shipping/stats"
)

// UserPath returns the single-user resource path.
func UserPath(id int64) string {
	return fmt.Sprintf("%s%d", UsersPath, id)
}

// Fetcher performs one authenticated request against a back-office resource
// and returns the raw body. It never retries.
type Fetcher interface {
	Fetch(ctx context.Context, auth AuthContext, path string, q Query) ([]byte, error)
	Post(ctx context.Context, auth AuthContext, path string, body interface{}) ([]byte, error)
}

// UnauthorizedHandler is notified when the back office answers 401. Session
// teardown belongs to whoever owns the session; the fetch still fails.
type UnauthorizedHandler func(ctx context.Context, auth AuthContext, path string)

// Option configures a Client
type Option func(*Client)

// WithHTTPClient overrides the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithUnauthorizedHandler registers a 401 hook.
func WithUnauthorizedHandler(h UnauthorizedHandler) Option {
	return func(c *Client) {
		c.onUnauthorized = h
	}
}

// Client is the HTTP implementation of Fetcher
type Client struct {
	baseURL        string
	http           *http.Client
	logger         *zap.Logger
	onUnauthorized UnauthorizedHandler
}

// NewClient creates a Client for the back office rooted at baseURL.
func NewClient(baseURL string, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch issues a GET for path with the query parameters of q.
func (c *Client) Fetch(ctx context.Context, auth AuthContext, path string, q Query) ([]byte, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}

	target := c.baseURL + path
	if values := q.Values(); len(values) > 0 {
		target += "?" + values.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	return c.do(ctx, auth, req, path)
}

// Post issues a POST for path with a JSON body.
func (c *Client) Post(ctx context.Context, auth AuthContext, path string, body interface{}) ([]byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	return c.do(ctx, auth, req, path)
}

func (c *Client) do(ctx context.Context, auth AuthContext, req *http.Request, path string) ([]byte, error) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if !auth.Anonymous() {
		req.Header.Set("Authorization", "Bearer "+auth.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &NetworkError{Method: req.Method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &NetworkError{Method: req.Method, Path: path, Err: err}
	}

	c.logger.Debug("Upstream request completed",
		zap.String("method", req.Method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &HTTPStatusError{
			Method:     req.Method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       body,
		}
		if statusErr.Unauthorized() && c.onUnauthorized != nil {
			c.onUnauthorized(ctx, auth, path)
		}
		return nil, statusErr
	}

	return body, nil
}
