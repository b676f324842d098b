// Package jira is a small client for the Jira REST API v2.
package jira

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/net/http/httpproxy"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxAttempts = 4
	maxRetryAfter      = time.Minute
	userAgent          = "jirahhh"
)

// Options configures a Client.
type Options struct {
	BaseURL string
	Token   string

	// Email selects Basic auth (email:token). Empty means Bearer.
	Email string

	// Proxy is used for every request when set. Otherwise HTTPS_PROXY,
	// HTTP_PROXY and NO_PROXY apply.
	Proxy string

	IPv4Only bool

	Timeout     time.Duration
	MaxAttempts int

	// NewBackOff returns the delay policy between retries.
	NewBackOff func() backoff.BackOff

	// HTTPClient replaces the client built from Proxy, IPv4Only and Timeout.
	HTTPClient *http.Client

	Logger *slog.Logger
}

// Client talks to one Jira instance.
type Client struct {
	baseURL     string
	token       string
	email       string
	httpClient  *http.Client
	maxAttempts int
	newBackOff  func() backoff.BackOff
	logger      *slog.Logger
}

// NewClient builds a Client from opts.
func NewClient(opts Options) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("jira base URL is required")
	}
	if opts.Token == "" {
		return nil, fmt.Errorf("jira API token is required")
	}

	c := &Client{
		baseURL:     base,
		token:       opts.Token,
		email:       opts.Email,
		httpClient:  opts.HTTPClient,
		maxAttempts: opts.MaxAttempts,
		newBackOff:  opts.NewBackOff,
		logger:      opts.Logger,
	}
	if c.logger == nil {
		c.logger = slog.New(slog.DiscardHandler)
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = defaultMaxAttempts
	}
	if c.newBackOff == nil {
		c.newBackOff = defaultBackOff
	}
	if c.httpClient == nil {
		tr, err := newTransport(opts.Proxy, opts.IPv4Only)
		if err != nil {
			return nil, err
		}
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		c.httpClient = &http.Client{Transport: tr, Timeout: timeout}
	}
	return c, nil
}

// BaseURL returns the instance URL without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

func defaultBackOff() backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 500 * time.Millisecond
	bo.MaxInterval = 10 * time.Second
	bo.MaxElapsedTime = 2 * time.Minute
	return bo
}

func newTransport(proxy string, ipv4Only bool) (*http.Transport, error) {
	tr := http.DefaultTransport.(*http.Transport).Clone()

	if proxy != "" {
		u, err := url.Parse(proxy)
		if err != nil || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy URL %q", proxy)
		}
		tr.Proxy = http.ProxyURL(u)
	} else {
		proxyFunc := httpproxy.FromEnvironment().ProxyFunc()
		tr.Proxy = func(req *http.Request) (*url.URL, error) {
			return proxyFunc(req.URL)
		}
	}

	if ipv4Only {
		dialer := &net.Dialer{Timeout: 30 * time.Second, KeepAlive: 30 * time.Second}
		tr.DialContext = func(ctx context.Context, _, addr string) (net.Conn, error) {
			return dialer.DialContext(ctx, "tcp4", addr)
		}
	}
	return tr, nil
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// retryAfterBackOff lets a server's Retry-After replace the next computed delay.
type retryAfterBackOff struct {
	backoff.BackOff
	next time.Duration
}

func (b *retryAfterBackOff) NextBackOff() time.Duration {
	d := b.BackOff.NextBackOff()
	if d == backoff.Stop {
		return d
	}
	if b.next > 0 {
		d, b.next = b.next, 0
	}
	return d
}

// send performs one logical request, retrying 429 and 503 responses.
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body []byte) (*response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	ra := &retryAfterBackOff{BackOff: c.newBackOff()}
	policy := backoff.WithContext(backoff.WithMaxRetries(ra, uint64(c.maxAttempts-1)), ctx)

	var out *response
	attempt := 0
	op := func() error {
		attempt++
		resp, err := c.once(ctx, method, u, body)
		if err != nil {
			return backoff.Permanent(err)
		}
		if resp.status == http.StatusTooManyRequests || resp.status == http.StatusServiceUnavailable {
			ra.next = parseRetryAfter(resp.header.Get("Retry-After"))
			c.logger.Debug("retrying request",
				"method", method,
				"path", path,
				"status", resp.status,
				"attempt", attempt,
				"retry_after", ra.next,
			)
			return c.apiError(method, path, resp)
		}
		if resp.status < 200 || resp.status >= 300 {
			return backoff.Permanent(c.apiError(method, path, resp))
		}
		out = resp
		return nil
	}

	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) once(ctx context.Context, method, u string, body []byte) (*response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	c.setAuth(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%s %s: %w", method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	c.logger.Debug("jira request",
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
	return &response{status: resp.StatusCode, header: resp.Header, body: data}, nil
}

// setAuth uses Basic auth when an email is configured, Bearer otherwise.
func (c *Client) setAuth(req *http.Request) {
	if c.email != "" {
		auth := base64.StdEncoding.EncodeToString([]byte(c.email + ":" + c.token))
		req.Header.Set("Authorization", "Basic "+auth)
		return
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
}

func parseRetryAfter(v string) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	var d time.Duration
	if secs, err := strconv.Atoi(v); err == nil {
		d = time.Duration(secs) * time.Second
	} else if t, err := http.ParseTime(v); err == nil {
		d = time.Until(t)
	}
	if d < 0 {
		return 0
	}
	if d > maxRetryAfter {
		return maxRetryAfter
	}
	return d
}

// getJSON and friends decode a successful response into out (when non-nil).
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, in, out any) error {
	var body []byte
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		body = data
	}
	resp, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, out); err != nil {
		return fmt.Errorf("decoding response from %s %s: %w", method, path, err)
	}
	return nil
}
