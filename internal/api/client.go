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

	"intervox/internal/session"
)

const (
	userAgent  = "intervox/0.1.0"
	apiPrefix  = "/api/v1"
	maxErrBody = 64 << 10
)

// HTTPDoer describes the HTTP client used by the backend client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option customises Client construction.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client used for backend calls.
func WithHTTPClient(doer HTTPDoer) Option {
	return func(c *Client) {
		c.http = doer
	}
}

// WithTimeout overrides the default request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.http = &http.Client{Timeout: timeout}
		}
	}
}

// Client calls the pipeline backend's REST API. Every request resolves
// credentials from the session provider; ErrNotAuthenticated propagates
// unwrapped so callers can treat it as a skip condition.
type Client struct {
	baseURL string
	http    HTTPDoer
	session session.Provider
}

// New constructs a backend client rooted at baseURL.
func New(baseURL string, provider session.Provider, opts ...Option) *Client {
	client := &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		session: provider,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader, contentType string) (*http.Request, error) {
	creds, err := c.session.Credentials(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve credentials: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+apiPrefix+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+creds.Token)
	req.Header.Set("User-Agent", userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return req, nil
}

// doJSON executes the request and decodes the envelope's data field into
// out when out is non-nil.
func (c *Client) doJSON(req *http.Request, out any) (*Meta, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, nil
	}

	var wrapped envelope
	if err := json.NewDecoder(resp.Body).Decode(&wrapped); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if len(wrapped.Data) == 0 {
		return wrapped.Meta, nil
	}
	if err := json.Unmarshal(wrapped.Data, out); err != nil {
		return nil, fmt.Errorf("decode response data: %w", err)
	}
	return wrapped.Meta, nil
}

// getJSON is a convenience wrapper for simple GETs.
func (c *Client) getJSON(ctx context.Context, path string, out any) (*Meta, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	return c.doJSON(req, out)
}

// postJSON marshals body (when non-nil) and POSTs it.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	var reader io.Reader
	contentType := ""
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, reader, contentType)
	if err != nil {
		return err
	}
	_, err = c.doJSON(req, out)
	return err
}

func jsonBody(body any) (io.Reader, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return bytes.NewReader(data), nil
}

func decodeError(resp *http.Response) error {
	statusErr := &StatusError{Code: resp.StatusCode}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
	if err == nil && len(data) > 0 {
		var body errorBody
		if jsonErr := json.Unmarshal(data, &body); jsonErr == nil {
			statusErr.Detail = strings.TrimSpace(body.Detail)
		}
	}
	return statusErr
}
