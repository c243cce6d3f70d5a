// internal/api/client.go
//
// Typed HTTP client for the Parallel backend. Every method takes a
// context and returns an explicit error; read paths are composed with
// WithFallback at the call site so the UI keeps working when the
// backend is down or an endpoint is not implemented yet.

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// Logger is the subset of the logbook the client needs. All methods
// must be safe to call on a nil implementation value.
type Logger interface {
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

// Error is a non-2xx backend response. Detail is the extracted
// {"detail": ...} payload when the backend sent one.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api: HTTP %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api: request failed (%d)", e.StatusCode)
}

// Client talks to one Parallel backend. The embedded cookie jar keeps
// the auth session cookie across calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     Logger
}

// Option customizes client construction.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithLogger routes client warnings into the session logbook.
func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
			Jar:     jar,
		},
		logger: nopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// BaseURL returns the backend base URL this client was built with.
func (c *Client) BaseURL() string { return c.baseURL }

// do sends one JSON request. A nil in means no body; a nil out
// discards the response body. Non-2xx responses become *Error with
// the detail payload extracted.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("api: marshal %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(buf)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("api: build %s %s: %w", method, path, err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return readError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, in, out any) error {
	return c.do(ctx, http.MethodPost, path, in, out)
}

// readError extracts the backend's {"detail": ...} payload. Detail may
// be a plain string or a nested object; both stringify. A body that is
// not JSON at all yields an empty detail, never a parse failure.
func readError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var wire struct {
		Detail json.RawMessage `json:"detail"`
	}
	detail := ""
	if json.Unmarshal(body, &wire) == nil && len(wire.Detail) > 0 {
		var s string
		if json.Unmarshal(wire.Detail, &s) == nil {
			detail = s
		} else {
			// Nested object: show it compactly rather than dropping it.
			detail = string(wire.Detail)
		}
	}
	return &Error{StatusCode: resp.StatusCode, Detail: strings.TrimSpace(detail)}
}

// WithFallback runs op and substitutes mock when it fails. Read paths
// go through this so a dead backend degrades to canned data instead of
// an error screen. The failure is logged once per call, not swallowed
// silently.
func WithFallback[T any](log Logger, name string, op func() (T, error), mock T) T {
	value, err := op()
	if err != nil {
		if log == nil {
			log = nopLogger{}
		}
		log.Warn("api: %s failed, serving fallback: %v", name, err)
		return mock
	}
	return value
}
