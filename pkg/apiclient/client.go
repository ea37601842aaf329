// Package apiclient is a thin JSON client for the Jargoyle API. Every request
// goes to the configured origin under a fixed prefix and carries the
// session cookie from the client's jar.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const DefaultBasePrefix = "/api"

// HTTPError is returned for every response outside [200, 299].
type HTTPError struct {
	Status     int
	StatusText string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http %d: %s", e.Status, e.StatusText)
}

type Client struct {
	origin *url.URL
	prefix string
	http   *http.Client
}

type config struct {
	prefix     string
	httpClient *http.Client
	timeout    time.Duration
	cookies    []*http.Cookie
}

type Option func(*config)

func WithBasePrefix(prefix string) Option {
	return func(c *config) { c.prefix = strings.TrimSuffix(prefix, "/") }
}

// WithHTTPClient sets the client requests are sent with. New copies it, so h
// itself is left untouched; a copy without a jar gets one, so cookies still
// round-trip.
func WithHTTPClient(h *http.Client) Option {
	return func(c *config) { c.httpClient = h }
}

func WithTimeout(d time.Duration) Option {
	return func(c *config) { c.timeout = d }
}

// WithSessionCookie seeds the jar, e.g. with a session copied from a browser.
func WithSessionCookie(name, value string) Option {
	return func(c *config) {
		c.cookies = append(c.cookies, &http.Cookie{Name: name, Value: value, Path: "/"})
	}
}

func New(origin string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSuffix(origin, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid origin %q: scheme and host are required", origin)
	}

	cfg := config{prefix: DefaultBasePrefix}
	for _, opt := range opts {
		opt(&cfg)
	}

	// Work on a copy so a shared client such as http.DefaultClient is never
	// changed.
	httpClient := &http.Client{}
	if cfg.httpClient != nil {
		hc := *cfg.httpClient
		httpClient = &hc
	}
	if cfg.timeout > 0 {
		httpClient.Timeout = cfg.timeout
	}
	if httpClient.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		httpClient.Jar = jar
	}
	if len(cfg.cookies) > 0 {
		httpClient.Jar.SetCookies(u, cfg.cookies)
	}

	return &Client{origin: u, prefix: cfg.prefix, http: httpClient}, nil
}

// Origin is the scheme and host requests are sent to, without the prefix.
func (c *Client) Origin() string {
	return c.origin.String()
}

// Cookies returns the jar's cookies for the origin.
func (c *Client) Cookies() []*http.Cookie {
	return c.http.Jar.Cookies(c.origin)
}

type Options struct {
	Method  string
	Headers map[string]string
	// Body is sent as JSON when non-nil.
	Body any
}

// Request performs the call and decodes a 2xx body into T. A 204 yields
// (nil, nil) without touching the body. The body is not validated against T
// beyond what encoding/json does.
func Request[T any](ctx context.Context, c *Client, path string, opts *Options) (*T, error) {
	if opts == nil {
		opts = &Options{}
	}
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if opts.Body != nil {
		data, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.origin.String()+c.prefix+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{Status: resp.StatusCode, StatusText: statusText(resp)}
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	var out T
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &out, nil
}

// statusText is the reason phrase the server actually sent, e.g.
// "Unauthorized" from "401 Unauthorized".
func statusText(resp *http.Response) string {
	if text, ok := strings.CutPrefix(resp.Status, strconv.Itoa(resp.StatusCode)+" "); ok {
		return text
	}
	return http.StatusText(resp.StatusCode)
}
