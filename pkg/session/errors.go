package session

import "errors"

var (
	// ErrSuperseded means a newer login, logout or expiry happened while the
	// call was in flight; its result was discarded.
	ErrSuperseded = errors.New("session.superseded")

	// ErrMissingToken means the backend accepted credentials without issuing a token.
	ErrMissingToken = errors.New("session.missing_token")

	// ErrInvalidToken means the issued token cannot be decoded or is already expired.
	ErrInvalidToken = errors.New("session.invalid_token")

	// ErrTokenNotFound is returned by stores when no token is persisted.
	ErrTokenNotFound = errors.New("session.token_not_found")

	// ErrEmptyKey is returned by stores for an empty storage key.
	ErrEmptyKey = errors.New("session.empty_key")

	// ErrStorage wraps store failures that prevented a login from being persisted.
	ErrStorage = errors.New("session.storage")
)
