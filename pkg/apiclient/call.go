package apiclient

import (
	"net/http"
	"sync/atomic"
)

// RequestInterceptor mutates an outgoing request before it is sent.
// A non-nil error aborts the call.
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor observes the outcome of a call. err is the classified
// error (nil on success); the returned error replaces it for the caller.
type ResponseInterceptor func(call *Call, err error) error

// Call describes one completed round trip as seen by response interceptors.
type Call struct {
	Method string
	// Path is relative to the client base URL, e.g. "/auth/me".
	Path string
	// Request is the request as sent, after request interceptors ran.
	Request *http.Request
	// StatusCode is 0 when no response was received.
	StatusCode int

	retried atomic.Bool
}

// MarkRetried flags the call as already handled once and reports whether this
// invocation was the first to do so.
func (c *Call) MarkRetried() bool {
	return c.retried.CompareAndSwap(false, true)
}

// Retried reports whether MarkRetried was called.
func (c *Call) Retried() bool {
	return c.retried.Load()
}
