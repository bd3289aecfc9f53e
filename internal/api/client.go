package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AttestationHeader carries the optional attestation token on requests.
const AttestationHeader = "X-Attestation-Token"

// TokenFunc supplies an optional attestation token for outgoing requests.
// Any error means "no token available" and is never fatal to the request.
type TokenFunc func(ctx context.Context) (string, error)

// Client is the HTTP client for the versioned blob store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      *RetryConfig
	token      TokenFunc
}

// Option configures the API client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetryConfig replaces the retry configuration.
func WithRetryConfig(cfg *RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// WithTokenFunc sets the attestation token supplier.
func WithTokenFunc(fn TokenFunc) Option {
	return func(c *Client) {
		c.token = fn
	}
}

// New creates a new store client for the given base URL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry: DefaultRetryConfig(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// do performs one HTTP request with retries, marshaling body to JSON when
// non-nil and decoding a 2xx response into result when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, result any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		payload = data
	}

	url := c.baseURL + path

	var lastErr error
	for attempt := 0; ; attempt++ {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
		if err != nil {
			return &NetworkError{Err: err, URL: url, Attempt: attempt}
		}
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		c.attachToken(ctx, req)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = &NetworkError{Err: err, URL: url, Attempt: attempt}
			if attempt < c.retry.MaxRetries {
				if werr := c.retry.wait(ctx, attempt); werr != nil {
					return lastErr
				}
				continue
			}
			return lastErr
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if result == nil {
				resp.Body.Close()
				return nil
			}
			err := json.NewDecoder(resp.Body).Decode(result)
			resp.Body.Close()
			if err != nil {
				return &NetworkError{Err: fmt.Errorf("decode response: %w", err), URL: url, Attempt: attempt}
			}
			return nil
		}

		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		lastErr = &StatusError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       strings.TrimSpace(string(respBody)),
		}

		if attempt < c.retry.MaxRetries && retryableStatus(resp.StatusCode) {
			if werr := c.retry.wait(ctx, attempt); werr != nil {
				return lastErr
			}
			continue
		}
		return lastErr
	}
}

// attachToken sets the attestation header when a token is available.
// Token failures are swallowed: attestation is best-effort and its absence
// must never block a request.
func (c *Client) attachToken(ctx context.Context, req *http.Request) {
	if c.token == nil {
		return
	}
	token, err := c.token(ctx)
	if err != nil || token == "" {
		return
	}
	req.Header.Set(AttestationHeader, token)
}
