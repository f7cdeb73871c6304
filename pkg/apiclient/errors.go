package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Error kinds. Every error returned by Client.Do matches exactly one of them
// through errors.Is.
var (
	ErrUnreachable  = errors.New("apiclient.unreachable")
	ErrUnauthorized = errors.New("apiclient.unauthorized")
	ErrForbidden    = errors.New("apiclient.forbidden")
	ErrValidation   = errors.New("apiclient.validation")
	ErrServerError  = errors.New("apiclient.server_error")
	ErrUnknown      = errors.New("apiclient.unknown")

	ErrInvalidBaseURL = errors.New("apiclient.invalid_base_url")
)

// Error is a classified API failure.
type Error struct {
	// Kind is one of the Err* kind sentinels.
	Kind error
	// Status is the HTTP status code, 0 when no response was received.
	Status int
	// Message is the backend's message, or a status text fallback.
	Message string
	// Fields holds field-level validation messages keyed by field name.
	Fields map[string]string
	Cause  error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s: %d %s", e.Kind, e.Status, msg)
	}
	if msg == "" {
		return e.Kind.Error()
	}
	return fmt.Sprintf("%s: %s", e.Kind, msg)
}

func (e *Error) Is(target error) bool {
	return e.Kind == target
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// NewValidationError builds an ErrValidation error without a backend round trip.
func NewValidationError(message string, fields map[string]string) *Error {
	return &Error{Kind: ErrValidation, Message: message, Fields: fields}
}

// AsError extracts the classified error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	if apiErr, ok := AsError(err); ok {
		return apiErr.Status
	}
	return 0
}

// FieldErrors returns field-level validation messages carried by err.
func FieldErrors(err error) map[string]string {
	if apiErr, ok := AsError(err); ok {
		return apiErr.Fields
	}
	return nil
}

// errorBody matches the backend's error payload.
// Spring's default body uses "error" for the status reason.
type errorBody struct {
	Message string            `json:"message"`
	Reason  string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

// KindForStatus maps a non-2xx status onto an error kind.
func KindForStatus(status int) error {
	switch {
	case status == http.StatusBadRequest:
		return ErrValidation
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status >= 500 && status <= 599:
		return ErrServerError
	default:
		return ErrUnknown
	}
}

// classifyStatus builds an Error from a non-2xx response.
func classifyStatus(status int, body []byte) *Error {
	e := &Error{Kind: KindForStatus(status), Status: status}

	var parsed errorBody
	if len(body) > 0 && json.Unmarshal(body, &parsed) == nil {
		e.Message = parsed.Message
		if e.Message == "" {
			e.Message = parsed.Reason
		}
		if len(parsed.Errors) > 0 {
			e.Fields = parsed.Errors
		}
	}
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}

	return e
}
