// Package backend is the client adapter for the hosted backend service
// that supplies authentication, object storage, and the row store. It
// speaks the service's REST conventions: table-scoped reads and writes
// with equality filters under /rest/v1, objects under /storage/v1, and
// the auth provider under /auth/v1.
package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client is a configured handle to the backend service. The zero-cost
// accessors From, Storage and Auth scope requests to the row store, the
// object store and the auth provider respectively.
type Client struct {
	baseURL string
	anonKey string
	httpc   *http.Client
}

// New creates a client for the service at baseURL authenticated with the
// public (anon) key.
func New(baseURL, anonKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		anonKey: anonKey,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// From starts a query against the named table.
func (c *Client) From(table string) *QueryBuilder {
	return &QueryBuilder{client: c, table: table}
}

// Storage returns the object store interface.
func (c *Client) Storage() *Storage {
	return &Storage{client: c}
}

// Auth returns the auth provider interface.
func (c *Client) Auth() *Auth {
	return &Auth{client: c}
}

type tokenKey struct{}

// WithToken returns a context carrying the user's access token. Requests
// built from that context authenticate as the user; without it they fall
// back to the anon key, which is what the service's row-level rules see
// for unauthenticated reads.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFrom extracts the access token from ctx, if any.
func TokenFrom(ctx context.Context) string {
	if tok, ok := ctx.Value(tokenKey{}).(string); ok {
		return tok
	}
	return ""
}

// Error is a failure reported by the backend service.
type Error struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("backend: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("backend: request failed (status %d)", e.Status)
}

// newRequest builds a request with the service auth headers applied. The
// Authorization bearer is the user's token when the context carries one,
// otherwise the anon key.
func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.anonKey)
	bearer := c.anonKey
	if tok := TokenFrom(ctx); tok != "" {
		bearer = tok
	}
	req.Header.Set("Authorization", "Bearer "+bearer)
	return req, nil
}

// do executes req and decodes an error body on non-2xx statuses.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}
	defer func() { _ = resp.Body.Close() }()

	svcErr := &Error{Status: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(svcErr); err != nil {
		svcErr.Message = http.StatusText(resp.StatusCode)
	}
	return nil, svcErr
}
