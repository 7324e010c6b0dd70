// Package backend is the HTTP transport to the upstream POS REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError carries a non-2xx upstream response. Body holds the parsed JSON
// error payload when the upstream sent one, Raw the plain text otherwise.
type APIError struct {
	Status     int
	StatusText string
	Body       json.RawMessage
	Raw        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("backend: %d %s", e.Status, e.StatusText)
}

// Detail returns the most useful representation of the error payload.
func (e *APIError) Detail() string {
	if len(e.Body) > 0 {
		return string(e.Body)
	}
	return e.Raw
}

// IsClientError reports whether the status is in [400,500). Client errors
// are never retried by the query layer.
func (e *APIError) IsClientError() bool {
	return e.Status >= 400 && e.Status < 500
}

// Client issues JSON requests against a fixed base URL.
type Client struct {
	base    *url.URL
	http    *http.Client
	headers http.Header
	logger  *slog.Logger
}

// New constructs a Client. The configured timeout bounds every request,
// connection included.
func New(baseURL string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("backend: parse base url: %w", err)
	}
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	return &Client{
		base:    base,
		http:    &http.Client{Timeout: timeout},
		headers: headers,
		logger:  logger,
	}, nil
}

// buildURL joins the base with a relative endpoint and appends query params.
func (c *Client) buildURL(endpoint string, params url.Values) (string, error) {
	ref, err := url.Parse(strings.TrimPrefix(endpoint, "/"))
	if err != nil {
		return "", fmt.Errorf("backend: parse endpoint %q: %w", endpoint, err)
	}
	u := c.base.ResolveReference(ref)
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u.String(), nil
}

// Do performs one request and returns the raw success payload. A 204 or an
// empty success body yields nil. Non-2xx statuses return *APIError; network
// failures surface as the underlying transport error.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any, params url.Values) ([]byte, error) {
	u, err := c.buildURL(endpoint, params)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("backend: encode body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("backend: build request: %w", err)
	}
	for k, vals := range c.headers {
		for _, v := range vals {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("backend: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, StatusText: http.StatusText(resp.StatusCode)}
		if json.Valid(data) {
			apiErr.Body = json.RawMessage(data)
		} else {
			apiErr.Raw = string(data)
		}
		if c.logger != nil {
			c.logger.Debug("upstream error",
				slog.String("method", method),
				slog.String("endpoint", endpoint),
				slog.Int("status", resp.StatusCode))
		}
		return nil, apiErr
	}

	if resp.StatusCode == http.StatusNoContent || len(data) == 0 {
		return nil, nil
	}
	return data, nil
}

// DoJSON performs a request and decodes the success payload into T. An
// absent or malformed success body yields the zero value without error;
// the upstream is trusted to signal failure through status codes only.
func DoJSON[T any](ctx context.Context, c *Client, method, endpoint string, body any, params url.Values) (T, error) {
	var out T
	data, err := c.Do(ctx, method, endpoint, body, params)
	if err != nil {
		return out, err
	}
	if len(data) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(data, &out); err != nil {
		var zero T
		return zero, nil
	}
	return out, nil
}

// Get issues a GET for the given endpoint.
func Get[T any](ctx context.Context, c *Client, endpoint string, params url.Values) (T, error) {
	return DoJSON[T](ctx, c, http.MethodGet, endpoint, nil, params)
}

// Post issues a POST with a JSON body.
func Post[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	return DoJSON[T](ctx, c, http.MethodPost, endpoint, body, nil)
}

// Put issues a PUT with a JSON body.
func Put[T any](ctx context.Context, c *Client, endpoint string, body any) (T, error) {
	return DoJSON[T](ctx, c, http.MethodPut, endpoint, body, nil)
}

// Delete issues a DELETE. The upstream may answer with the last known
// entity state or 204.
func Delete[T any](ctx context.Context, c *Client, endpoint string) (T, error) {
	return DoJSON[T](ctx, c, http.MethodDelete, endpoint, nil, nil)
}
