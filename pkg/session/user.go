package session

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/dmitrymomot/curbside/pkg/apiclient"
)

// User is the authenticated account as reported by the backend.
type User struct {
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
}

// HasRole reports whether the user carries role.
func (u User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

func (u User) clone() *User {
	u.Roles = slices.Clone(u.Roles)
	return &u
}

// State is a point-in-time view of the session.
type State struct {
	User            *User
	IsAuthenticated bool
	IsLoading       bool
	// Generation increases on every restore, login, register, logout and expiry.
	Generation uint64
	// ExpiresAt is the expiry decoded from the current token, zero when logged out.
	ExpiresAt time.Time
}

// ProfileUpdate is the body of PUT /auth/profile.
type ProfileUpdate struct {
	FullName string `json:"fullName"`
}

// Validate applies the backend's rules so obviously invalid updates never
// leave the client.
func (p ProfileUpdate) Validate() error {
	return validationError(validation.ValidateStruct(&p,
		validation.Field(&p.FullName, validation.Required, validation.Length(2, 100)),
	))
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validationError(validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	))
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r registerRequest) Validate() error {
	return validationError(validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required),
		validation.Field(&r.Email, validation.Required),
		validation.Field(&r.Password, validation.Required),
	))
}

// authResponse is returned by login and register.
type authResponse struct {
	Token    string   `json:"token"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
}

func (r authResponse) user() User {
	return User{Email: r.Email, FullName: r.FullName, Roles: r.Roles}
}

// validationError converts ozzo-validation errors into apiclient.ErrValidation.
func validationError(err error) error {
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return &apiclient.Error{Kind: apiclient.ErrValidation, Message: err.Error(), Cause: err}
	}

	fields := make(map[string]string, len(verrs))
	names := make([]string, 0, len(verrs))
	for name, fieldErr := range verrs {
		fields[name] = fieldErr.Error()
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, fields[name]))
	}

	return apiclient.NewValidationError(strings.Join(parts, "; "), fields)
}
