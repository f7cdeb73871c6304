// Package requestid correlates front-end API calls with backend log records
// through the X-Request-ID header.
//
// The API client calls Ensure on every outgoing context and installs Attach
// as a request interceptor, so each call carries an id that also appears in
// client logs via LoggerExtractor. The development backend wraps its router
// with Middleware, which reuses a well-formed incoming id and echoes it back.
package requestid
