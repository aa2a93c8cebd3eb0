package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// AuthScheme represents how the API key is presented to the remote service
type AuthScheme string

const (
	// RawKeyAuth sends the key as-is in the authorization header.
	// AssemblyAI expects this form.
	RawKeyAuth AuthScheme = "raw"

	// BearerAuth sends "Bearer <key>" in the Authorization header.
	// Used for OpenAI-compatible endpoints.
	BearerAuth AuthScheme = "bearer"
)

// DefaultTimeout bounds a single request/response exchange.
const DefaultTimeout = 60 * time.Second

// maxErrorBody caps how much of a failed response body is kept in errors.
const maxErrorBody = 512

// StatusError is returned when the remote responds with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("http %d: %s", e.StatusCode, e.Body)
}

// HTTPClient wraps an http.Client with a base URL and API key
type HTTPClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
	scheme  AuthScheme
}

// NewClient creates a new HTTP client for the API at baseURL
func NewClient(baseURL, apiKey string, scheme AuthScheme, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// Follow up to 10 redirects
				if len(via) >= 10 {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		scheme:  scheme,
	}
}

// BaseURL returns the API root requests are resolved against.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Do executes an HTTP request with the authorization header for the scheme
func (c *HTTPClient) Do(req *http.Request) (*http.Response, error) {
	c.setHeaders(req)
	return c.client.Do(req)
}

// PostRaw sends body as-is and decodes a JSON response into out.
func (c *HTTPClient) PostRaw(ctx context.Context, path, contentType string, body []byte, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.doJSON(req, out)
}

// PostJSON encodes in as JSON, posts it and decodes the JSON response into out.
func (c *HTTPClient) PostJSON(ctx context.Context, path string, in, out interface{}) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.PostRaw(ctx, path, "application/json", payload, out)
}

// GetJSON fetches path and decodes the JSON response into out.
func (c *HTTPClient) GetJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	return c.doJSON(req, out)
}

// doJSON runs req, turns non-2xx responses into *StatusError and decodes the body.
func (c *HTTPClient) doJSON(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Body: truncate(body, maxErrorBody)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// setHeaders sets the authorization header based on the scheme
func (c *HTTPClient) setHeaders(req *http.Request) {
	if c.apiKey == "" {
		return
	}
	switch c.scheme {
	case RawKeyAuth:
		req.Header.Set("Authorization", c.apiKey)
	case BearerAuth:
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
}

// IsStatus reports whether err is a *StatusError, returning it if so.
func IsStatus(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func truncate(b []byte, n int) string {
	s := strings.TrimSpace(string(b))
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
