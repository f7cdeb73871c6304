package devapi

import "errors"

var (
	ErrEmailTaken         = errors.New("devapi.email_taken")
	ErrInvalidCredentials = errors.New("devapi.invalid_credentials")
	ErrUserNotFound       = errors.New("devapi.user_not_found")
)
