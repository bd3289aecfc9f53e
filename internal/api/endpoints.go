package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/statesync/client-go/internal/envelope"
)

// DefaultListLimit is the default number of version descriptors requested
// by ListVersions.
const DefaultListLimit = 20

// PutVersion stores an envelope under its timestamp key.
func (c *Client) PutVersion(ctx context.Context, id string, env *envelope.Envelope) error {
	path := fmt.Sprintf("/%s/v1/%d", url.PathEscape(id), env.TS)
	return c.do(ctx, "PUT", path, env, nil)
}

// PutLatest moves the latest pointer for a bucket to the given timestamp.
func (c *Client) PutLatest(ctx context.Context, id string, ts int64) error {
	path := fmt.Sprintf("/%s/v1/latest", url.PathEscape(id))
	return c.do(ctx, "PUT", path, Pointer{TS: ts}, nil)
}

// GetLatest reads the latest pointer for a bucket. A missing pointer
// surfaces as a *StatusError with status 404.
func (c *Client) GetLatest(ctx context.Context, id string) (*Pointer, error) {
	path := fmt.Sprintf("/%s/v1/latest", url.PathEscape(id))
	var result Pointer
	if err := c.do(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetVersion reads the envelope stored under the given timestamp.
func (c *Client) GetVersion(ctx context.Context, id string, ts int64) (*envelope.Envelope, error) {
	path := fmt.Sprintf("/%s/v1/%d", url.PathEscape(id), ts)
	var result envelope.Envelope
	if err := c.do(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListVersions lists up to limit recent version descriptors for a bucket.
// Order is server-defined; callers sort before use.
func (c *Client) ListVersions(ctx context.Context, id string, limit int) ([]VersionRef, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	path := fmt.Sprintf("/%s/v1?limit=%d", url.PathEscape(id), limit)
	var result []VersionRef
	if err := c.do(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
