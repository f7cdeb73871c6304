package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/curbside/pkg/logger"
	"github.com/dmitrymomot/curbside/pkg/requestid"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1 << 20

// Client is a JSON client for the backend REST API.
//
// Interceptors run in registration order. Request interceptors see every
// outgoing request; response interceptors see every outcome, including
// transport failures. The client never retries a call.
type Client struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	logger  *slog.Logger

	mu                   sync.RWMutex
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
}

// New creates a client for baseURL, which must be an absolute http(s) URL.
// The X-Request-ID interceptor is always installed first.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("%w: only http and https schemes are supported", ErrInvalidBaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("%w: host is required", ErrInvalidBaseURL)
	}

	c := &Client{
		baseURL:             strings.TrimRight(baseURL, "/"),
		http:                &http.Client{},
		timeout:             10 * time.Second,
		logger:              logger.Discard(),
		requestInterceptors: []RequestInterceptor{requestid.Attach},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// NewFromConfig resolves base URL and timeout from cfg.
func NewFromConfig(cfg Config, opts ...Option) (*Client, error) {
	return New(cfg.BaseURL(), append([]Option{WithTimeout(cfg.Timeout())}, opts...)...)
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// UseRequest appends request interceptors.
func (c *Client) UseRequest(fns ...RequestInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requestInterceptors = append(c.requestInterceptors, fns...)
}

// UseResponse appends response interceptors.
func (c *Client) UseResponse(fns ...ResponseInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responseInterceptors = append(c.responseInterceptors, fns...)
}

// Get is Do with GET and no request body.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

// Post is Do with POST.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPost, path, in, out)
}

// Put is Do with PUT.
func (c *Client) Put(ctx context.Context, path string, in, out any) error {
	return c.Do(ctx, http.MethodPut, path, in, out)
}

// Do sends a JSON request and decodes a 2xx JSON response into out (when non-nil).
// Every failure is an *Error whose kind matches one of the Err* sentinels,
// unless a response interceptor replaced it.
func (c *Client) Do(ctx context.Context, method, path string, in, out any) error {
	ctx = requestid.Ensure(ctx)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.mu.RLock()
	reqInterceptors := c.requestInterceptors
	respInterceptors := c.responseInterceptors
	c.mu.RUnlock()

	req, err := c.newRequest(ctx, method, path, in)
	if err != nil {
		return err
	}

	for _, intercept := range reqInterceptors {
		if err := intercept(req); err != nil {
			return &Error{Kind: ErrUnknown, Message: "request interceptor failed", Cause: err}
		}
	}

	start := time.Now()
	call := &Call{Method: method, Path: path, Request: req}
	callErr := c.roundTrip(ctx, req, call, out)

	c.logCall(ctx, call, callErr, time.Since(start))

	for _, intercept := range respInterceptors {
		callErr = intercept(call, callErr)
	}

	return callErr
}

func (c *Client) newRequest(ctx context.Context, method, path string, in any) (*http.Request, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return nil, &Error{Kind: ErrUnknown, Message: "failed to encode request body", Cause: err}
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/"+strings.TrimLeft(path, "/"), body)
	if err != nil {
		return nil, &Error{Kind: ErrUnknown, Message: "failed to create request", Cause: err}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return req, nil
}

func (c *Client) roundTrip(ctx context.Context, req *http.Request, call *Call, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return classifyTransport(ctx, err)
	}
	defer resp.Body.Close()

	call.StatusCode = resp.StatusCode

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return classifyTransport(ctx, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return classifyStatus(resp.StatusCode, body)
	}

	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return &Error{Kind: ErrUnknown, Status: resp.StatusCode, Message: "invalid response body", Cause: err}
		}
	}

	return nil
}

// classifyTransport maps failures without a usable response. Timeouts and
// network errors mean the backend is unreachable; a caller cancellation is not.
func classifyTransport(ctx context.Context, err error) *Error {
	if errors.Is(err, context.Canceled) && !errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &Error{Kind: ErrUnknown, Message: "request canceled", Cause: err}
	}
	return &Error{Kind: ErrUnreachable, Message: "backend unreachable", Cause: err}
}

func (c *Client) logCall(ctx context.Context, call *Call, err error, d time.Duration) {
	attrs := []any{
		logger.Method(call.Method),
		logger.Path(call.Path),
		logger.Status(call.StatusCode),
		logger.Duration(d),
	}

	switch {
	case err == nil:
		c.logger.DebugContext(ctx, "api call", attrs...)
	case errors.Is(err, ErrUnreachable), errors.Is(err, ErrServerError):
		c.logger.WarnContext(ctx, "api call failed", append(attrs, logger.Error(err))...)
	default:
		c.logger.DebugContext(ctx, "api call rejected", append(attrs, logger.Error(err))...)
	}
}
