package jwt

import "errors"

var (
	ErrInvalidToken       = errors.New("jwt: invalid token")
	ErrExpiredToken       = errors.New("jwt: token is expired")
	ErrMissingExpiry      = errors.New("jwt: token has no expiry claim")
	ErrMissingSigningKey  = errors.New("jwt: missing signing key")
	ErrMissingSubject     = errors.New("jwt: missing subject")
	ErrMissingBearerToken = errors.New("jwt: missing bearer token")
)
