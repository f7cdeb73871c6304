package session

import (
	"errors"

	"github.com/dmitrymomot/curbside/pkg/apiclient"
)

// ErrorMessage returns the inline message shown for a failed login or register.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, apiclient.ErrUnauthorized), errors.Is(err, apiclient.ErrForbidden):
		return "Invalid email or password"
	case errors.Is(err, apiclient.ErrUnreachable):
		return "Cannot connect to server. Please ensure the backend is running."
	case errors.Is(err, ErrMissingToken), errors.Is(err, ErrInvalidToken):
		return "The server did not return a usable session. Please try again."
	case errors.Is(err, ErrSuperseded):
		return ""
	}

	if apiErr, ok := apiclient.AsError(err); ok && apiErr.Message != "" && !errors.Is(err, apiclient.ErrServerError) {
		return apiErr.Message
	}
	return "Login failed. Please try again."
}

// ProfileErrorMessage returns the status-specific message for a failed profile update.
func ProfileErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		return "Your session has expired. Please log in again."
	case errors.Is(err, apiclient.ErrForbidden):
		return "You do not have permission to update this profile."
	case errors.Is(err, apiclient.ErrValidation):
		if apiErr, ok := apiclient.AsError(err); ok && apiErr.Message != "" {
			return apiErr.Message
		}
	}
	return "Failed to update profile"
}
