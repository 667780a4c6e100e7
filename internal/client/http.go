package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// RequestIDHeader carries the per-request correlation ID.
const RequestIDHeader = "X-Request-ID"

// HTTPClient implements IdeasClient using the ideas HTTP/JSON REST API.
type HTTPClient struct {
	baseURL    string
	adminURL   string
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *gocache.Cache
	logger     *zap.Logger
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *HTTPClient) { c.token = token }
}

// WithAdminURL sets the base URL of the admin and admin-auth endpoints. It
// defaults to the API base URL.
func WithAdminURL(u string) Option {
	return func(c *HTTPClient) {
		if u != "" {
			c.adminURL = strings.TrimRight(u, "/")
		}
	}
}

// WithTimeout bounds each request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithRateLimit limits outbound requests to rps per second with the given
// burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *HTTPClient) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithCache caches option lists and idea details for ttl. A non-positive ttl
// disables caching.
func WithCache(ttl time.Duration) Option {
	return func(c *HTTPClient) {
		if ttl <= 0 {
			c.cache = nil
			return
		}
		c.cache = gocache.New(ttl, 2*ttl)
	}
}

// WithLogger sets the request logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *HTTPClient) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewHTTPClient creates a new HTTP client targeting the given base URL
// (e.g. "http://localhost:8080/api").
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	base := strings.TrimRight(baseURL, "/")
	c := &HTTPClient{
		baseURL:    base,
		adminURL:   base,
		httpClient: &http.Client{},
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Close flushes the response cache.
func (c *HTTPClient) Close() error {
	if c.cache != nil {
		c.cache.Flush()
	}
	return nil
}

// --- errors ---

// APIError represents an error response from the server.
type APIError struct {
	StatusCode int
	Message    string
	// Code is the machine-readable error code, when the server sends one.
	Code      string
	RequestID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// errorBody covers the error shapes the API emits: {"error": ...} from the
// catalog and dashboard endpoints, {"message": ..., "success": false} from
// auth and admin endpoints, optionally with a "code".
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

func parseAPIError(status int, body []byte, requestID string) *APIError {
	e := &APIError{StatusCode: status, RequestID: requestID}
	var eb errorBody
	if json.Unmarshal(body, &eb) == nil {
		e.Code = eb.Code
		switch {
		case eb.Error != "":
			e.Message = eb.Error
		case eb.Message != "":
			e.Message = eb.Message
		}
	}
	if e.Message == "" {
		e.Message = strings.TrimSpace(string(body))
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}
	return e
}

// --- internal helpers ---

// doJSON performs a request against the API base URL.
func (c *HTTPClient) doJSON(ctx context.Context, method, path string, body any, result any) error {
	return c.doURL(ctx, method, c.baseURL+path, body, result)
}

// doAdmin performs a request against the admin base URL.
func (c *HTTPClient) doAdmin(ctx context.Context, method, path string, body any, result any) error {
	return c.doURL(ctx, method, c.adminURL+path, body, result)
}

// doURL performs an HTTP request with optional JSON body and decodes the JSON
// response. If result is nil, the response body is discarded.
func (c *HTTPClient) doURL(ctx context.Context, method, url string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, result)
}

// send attaches auth and correlation headers, waits for the rate limiter,
// and decodes the response into result.
func (c *HTTPClient) send(req *http.Request, result any) error {
	ctx := req.Context()
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
		zap.String("request_id", requestID))

	// 204 No Content: success with no body.
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return parseAPIError(resp.StatusCode, respBody, requestID)
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// cached returns the cached value for key, or calls fetch and caches its
// result.
func cached[T any](c *HTTPClient, key string, fetch func() (T, error)) (T, error) {
	if c.cache != nil {
		if v, ok := c.cache.Get(key); ok {
			return v.(T), nil
		}
	}
	v, err := fetch()
	if err != nil {
		return v, err
	}
	if c.cache != nil {
		c.cache.SetDefault(key, v)
	}
	return v, nil
}

func (c *HTTPClient) forget(keys ...string) {
	if c.cache == nil {
		return
	}
	for _, k := range keys {
		c.cache.Delete(k)
	}
}

func (c *HTTPClient) forgetPrefix(prefix string) {
	if c.cache == nil {
		return
	}
	for k := range c.cache.Items() {
		if strings.HasPrefix(k, prefix) {
			c.cache.Delete(k)
		}
	}
}
