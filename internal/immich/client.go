package immich

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	defaultTimeout        = 20 * time.Second
	defaultFetchChunkSize = 5000
	defaultAddChunkSize   = 2000

	// The search/metadata endpoint caps its page size.
	maxSearchPageSize = 1000
)

// APIError is returned for every non-2xx response, carrying the decoded
// error payload when the server provided one.
type APIError struct {
	StatusCode int
	Method     string
	Endpoint   string
	Payload    json.RawMessage
}

func (e *APIError) Error() string {
	if len(e.Payload) > 0 {
		return fmt.Sprintf("immich: %s %s returned %d: %s", e.Method, e.Endpoint, e.StatusCode, e.Payload)
	}
	return fmt.Sprintf("immich: %s %s returned %d without a payload", e.Method, e.Endpoint, e.StatusCode)
}

// Client provides typed access to the Immich HTTP API. All calls are
// synchronous and block up to the configured timeout.
type Client struct {
	baseURL        string
	apiKey         string
	httpClient     *http.Client
	logger         *slog.Logger
	fetchChunkSize int
	addChunkSize   int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-call HTTP timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithInsecure disables TLS certificate verification.
func WithInsecure() Option {
	return func(c *Client) {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		c.httpClient.Transport = transport
	}
}

// WithChunkSizes sets the fetch page size and the membership add chunk size.
func WithChunkSizes(fetch, add int) Option {
	return func(c *Client) {
		if fetch > 0 {
			c.fetchChunkSize = fetch
		}
		if add > 0 {
			c.addChunkSize = add
		}
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates an Immich API client for the given root API URL, e.g.
// https://immich.example.com/api/.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("immich: base URL required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, fmt.Errorf("immich: API key required")
	}
	client := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		apiKey:         apiKey,
		httpClient:     &http.Client{Timeout: defaultTimeout},
		logger:         slog.New(slog.DiscardHandler),
		fetchChunkSize: defaultFetchChunkSize,
		addChunkSize:   defaultAddChunkSize,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// do issues one API request. A non-nil body is JSON-encoded; a non-nil out
// receives the decoded response. Non-2xx statuses are returned as *APIError.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s request: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+endpoint, reader)
	if err != nil {
		return fmt.Errorf("build %s %s request: %w", method, endpoint, err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if err := c.checkResponse(resp, method, endpoint); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, endpoint, err)
	}
	return nil
}

// checkResponse funnels every response through the uniform error contract:
// any non-2xx status becomes an *APIError with the decoded payload attached.
func (c *Client) checkResponse(resp *http.Response, method, endpoint string) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	payload, _ := io.ReadAll(io.LimitReader(resp.Body, 8192))
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Method:     method,
		Endpoint:   endpoint,
	}
	if json.Valid(payload) {
		apiErr.Payload = json.RawMessage(payload)
		c.logger.Error("error in API call", "method", method, "endpoint", endpoint, "status", resp.StatusCode, "payload", string(payload))
	} else {
		c.logger.Error("API response did not contain a payload", "method", method, "endpoint", endpoint, "status", resp.StatusCode)
	}
	return apiErr
}
