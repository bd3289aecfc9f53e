package statesync

import (
	"net/http"
	"time"

	"github.com/statesync/client-go/attest"
)

const (
	// DefaultDebounceDelay is the delay between a ScheduleSave call and
	// the network save it triggers.
	DefaultDebounceDelay = 500 * time.Millisecond

	// DefaultListLimit is the number of recent versions scanned by the
	// load fallback path.
	DefaultListLimit = 20

	// DefaultSaveTimeout bounds the network sequence of a debounced save.
	DefaultSaveTimeout = 60 * time.Second
)

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL       string
	httpClient    *http.Client
	debounceDelay time.Duration
	listLimit     int
	saveTimeout   time.Duration
	retries       int
	tokenSource   attest.TokenSource
	onSaveError   func(error)
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the store base URL.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = httpClient
	}
}

// WithDebounceDelay sets the debounce delay for ScheduleSave.
// Default: 500ms.
func WithDebounceDelay(delay time.Duration) Option {
	return func(c *clientConfig) {
		c.debounceDelay = delay
	}
}

// WithListLimit sets how many recent versions the load fallback scans.
// Default: 20.
func WithListLimit(limit int) Option {
	return func(c *clientConfig) {
		c.listLimit = limit
	}
}

// WithSaveTimeout bounds the network sequence of a debounced save.
// Default: 60s.
func WithSaveTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.saveTimeout = timeout
	}
}

// WithRetries sets the number of retries for store requests.
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = count
	}
}

// WithTokenSource sets the attestation token source. Tokens are attached
// to store requests when available; failure to obtain one never blocks a
// request.
func WithTokenSource(source attest.TokenSource) Option {
	return func(c *clientConfig) {
		c.tokenSource = source
	}
}

// WithSaveErrorCallback registers a callback invoked when a debounced save
// fails in the background. Retry policy is the caller's responsibility.
func WithSaveErrorCallback(fn func(error)) Option {
	return func(c *clientConfig) {
		c.onSaveError = fn
	}
}
