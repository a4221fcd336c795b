package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Params carries query parameters for a request. Entries with empty values
// are skipped, so callers can build one bag and leave unused filters blank.
type Params map[string]string

// APIError is a failure reported by the backend: a non-2xx status, or an
// envelope carrying success=false regardless of status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.Status)
}

// Client issues authenticated JSON requests against the Lost & Found REST
// backend. The bearer token has a single writer (the session manager) and
// many readers; the unauthorized handler is a single swappable slot invoked
// once per 401 response. Both live on the client rather than in package
// state so the transport never depends on session code.
type Client struct {
	baseURL string
	httpc   *http.Client

	mu             sync.Mutex
	token          string
	onUnauthorized func()
}

// NewClient creates a client for the given base URL. A nil httpc gets a
// default client with a 30 second timeout.
func NewClient(baseURL string, httpc *http.Client) *Client {
	if httpc == nil {
		httpc = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL: baseURL,
		httpc:   httpc,
	}
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// SetToken installs the bearer token attached to subsequent requests.
// An empty token clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// ClearToken removes the bearer token.
func (c *Client) ClearToken() { c.SetToken("") }

// SetUnauthorizedHandler installs the callback fired when the backend
// answers 401. Passing nil clears the slot. At most one handler is active
// at a time; the session owner sets it on login and clears it on teardown.
func (c *Client) SetUnauthorizedHandler(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// Get issues a GET request and returns the unwrapped payload.
func (c *Client) Get(ctx context.Context, path string, params Params) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodGet, path, params, nil)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPost, path, nil, body)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPut, path, nil, body)
}

// Patch issues a PATCH request carrying its arguments as query parameters,
// which is how the backend models status-change endpoints.
func (c *Client) Patch(ctx context.Context, path string, params Params) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodPatch, path, params, nil)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

// envelope is the optional wrapper the backend may put around any payload.
type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Do issues one request and normalizes the response: 204 yields a nil
// payload, an envelope is unwrapped to its data field, and success=false or
// a non-2xx status becomes an *APIError. A 401 additionally fires the
// registered unauthorized handler before the error is returned.
func (c *Client) Do(ctx context.Context, method, path string, params Params, body any) (json.RawMessage, error) {
	u, err := c.buildURL(path, params)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request for %s: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.mu.Lock()
	token := c.token
	c.mu.Unlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.fireUnauthorized()
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	payload := json.RawMessage(raw)
	var env envelope
	envOK := json.Unmarshal(raw, &env) == nil

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if !ok || (envOK && env.Success != nil && !*env.Success) {
		message := ""
		if envOK {
			message = env.Message
		}
		log.Debug().
			Str("method", method).
			Str("path", path).
			Int("status", resp.StatusCode).
			Str("message", message).
			Msg("API request failed")
		return nil, &APIError{Status: resp.StatusCode, Message: message}
	}

	if envOK && len(env.Data) > 0 {
		return env.Data, nil
	}
	return payload, nil
}

func (c *Client) buildURL(path string, params Params) (string, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return "", fmt.Errorf("invalid request URL %s%s: %w", c.baseURL, path, err)
	}
	if len(params) > 0 {
		q := u.Query()
		for key, value := range params {
			if value == "" {
				continue
			}
			q.Set(key, value)
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// fireUnauthorized invokes the handler slot outside the client lock so the
// handler is free to clear the token or swap itself out.
func (c *Client) fireUnauthorized() {
	c.mu.Lock()
	fn := c.onUnauthorized
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}
