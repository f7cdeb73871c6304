package devapi

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r loginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required.Error("Email is required"), is.Email.Error("Email should be valid")),
		validation.Field(&r.Password, validation.Required.Error("Password is required")),
	)
}

type registerRequest struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r registerRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required.Error("Full name is required"), fullNameLength),
		validation.Field(&r.Email, validation.Required.Error("Email is required"), is.Email.Error("Email should be valid")),
		validation.Field(&r.Password, validation.Required.Error("Password is required"),
			validation.Length(6, 0).Error("Password must be at least 6 characters")),
	)
}

type updateProfileRequest struct {
	FullName string `json:"fullName"`
}

func (r updateProfileRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required.Error("Full name is required"), fullNameLength),
	)
}

var fullNameLength = validation.Length(2, 100).Error("Full name must be between 2 and 100 characters")

type authResponse struct {
	Token    string   `json:"token"`
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
}

type profileResponse struct {
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
}

func profileOf(u User) profileResponse {
	roles := u.Roles
	if roles == nil {
		roles = []string{}
	}
	return profileResponse{Email: u.Email, FullName: u.FullName, Roles: roles}
}

type errorResponse struct {
	Message   string            `json:"message"`
	Status    int               `json:"status"`
	Timestamp string            `json:"timestamp"`
	Errors    map[string]string `json:"errors,omitempty"`
}
