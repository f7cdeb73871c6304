package jwt

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the subset of registered claims the front-end relies on.
// Profile data is never read from the token; it comes from the backend.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// Expired reports whether the token is past its expiry at now.
// A token without an expiry is treated as expired.
func (c Claims) Expired(now time.Time) bool {
	if c.ExpiresAt.IsZero() {
		return true
	}
	return !now.Before(c.ExpiresAt)
}

// Decode reads the claims of a token without verifying its signature.
// The client never holds the signing key; the backend remains the authority
// and Decode is only used to inspect expiry before adopting a stored token.
func Decode(token string) (Claims, error) {
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	var registered jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &registered); err != nil {
		return Claims{}, errors.Join(ErrInvalidToken, err)
	}

	return fromRegistered(registered), nil
}

func fromRegistered(rc jwt.RegisteredClaims) Claims {
	c := Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	return c
}
