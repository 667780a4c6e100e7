package model

import "time"

// AuthErrorCode classifies an authentication failure.
type AuthErrorCode string

const (
	AuthUserNotFound       AuthErrorCode = "user_not_found"
	AuthInvalidPassword    AuthErrorCode = "invalid_password"
	AuthInvalidCredentials AuthErrorCode = "invalid_credentials"
	AuthEmailTaken         AuthErrorCode = "email_taken"
	AuthAccessDenied       AuthErrorCode = "access_denied"
	AuthTokenInvalid       AuthErrorCode = "token_invalid"
	AuthTokenExpired       AuthErrorCode = "token_expired"
	AuthUnauthorized       AuthErrorCode = "unauthorized"
	AuthUnknown            AuthErrorCode = "unknown"
)

// String returns the string representation of the code.
func (c AuthErrorCode) String() string {
	return string(c)
}

// IsValid checks whether the code is a known value.
func (c AuthErrorCode) IsValid() bool {
	switch c {
	case AuthUserNotFound, AuthInvalidPassword, AuthInvalidCredentials, AuthEmailTaken,
		AuthAccessDenied, AuthTokenInvalid, AuthTokenExpired, AuthUnauthorized, AuthUnknown:
		return true
	}
	return false
}

// Hint returns a short user-facing suggestion for the code.
func (c AuthErrorCode) Hint() string {
	switch c {
	case AuthUserNotFound:
		return "no account exists for this email; sign up first"
	case AuthInvalidPassword, AuthInvalidCredentials:
		return "check your email and password"
	case AuthEmailTaken:
		return "an account already exists for this email; log in instead"
	case AuthAccessDenied:
		return "this account lacks the required role"
	case AuthTokenInvalid, AuthTokenExpired:
		return "request a new link and try again"
	case AuthUnauthorized:
		return "log in again"
	}
	return ""
}

// User is the signed-in account as reported by the API.
type User struct {
	ID              int64     `json:"userId" toml:"id"`
	FullName        string    `json:"fullName" toml:"full_name"`
	Email           string    `json:"email" toml:"email"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty" toml:"profile_image_url,omitempty"`
	Role            string    `json:"role,omitempty" toml:"role,omitempty"`
	EmailVerified   bool      `json:"emailVerified" toml:"email_verified"`
	ExpiresAt       time.Time `json:"expiresAt,omitzero" toml:"expires_at,omitempty"`
}

// AuthResponse is returned by the user signup and login endpoints.
type AuthResponse struct {
	Token           string `json:"token"`
	RefreshToken    string `json:"refreshToken,omitempty"`
	UserID          int64  `json:"userId"`
	FullName        string `json:"fullName"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
	Role            string `json:"role,omitempty"`
	EmailVerified   bool   `json:"emailVerified"`
	ExpiresAt       string `json:"expiresAt,omitempty"`
	Message         string `json:"message,omitempty"`
}

// User returns the account described by the response. ExpiresAt is parsed
// leniently since the server emits a zone-less local timestamp.
func (r *AuthResponse) User() User {
	u := User{
		ID:              r.UserID,
		FullName:        r.FullName,
		Email:           r.Email,
		ProfileImageURL: r.ProfileImageURL,
		Role:            r.Role,
		EmailVerified:   r.EmailVerified,
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, r.ExpiresAt); err == nil {
			u.ExpiresAt = t
			break
		}
	}
	return u
}

// SignupRequest registers a new user account.
type SignupRequest struct {
	FullName    string `json:"fullName"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Validate checks the signup request for missing fields.
func (r *SignupRequest) Validate() error {
	var ve ValidationError
	if isBlank(r.FullName) {
		ve.Errors = append(ve.Errors, FieldError{Field: "fullName", Message: "is required"})
	}
	if isBlank(r.Email) {
		ve.Errors = append(ve.Errors, FieldError{Field: "email", Message: "is required"})
	}
	if len(r.Password) < 6 {
		ve.Errors = append(ve.Errors, FieldError{Field: "password", Message: "must be at least 6 characters"})
	}
	if ve.HasErrors() {
		return &ve
	}
	return nil
}

// GoogleLoginRequest signs in with an identity asserted by Google.
type GoogleLoginRequest struct {
	GoogleID          string `json:"googleId"`
	Email             string `json:"email"`
	FullName          string `json:"fullName"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty"`
}

// Profile is the editable part of a user's dashboard profile.
type Profile struct {
	FullName        string `json:"fullName,omitempty"`
	Email           string `json:"email,omitempty"`
	Bio             string `json:"bio,omitempty"`
	PhoneNumber     string `json:"phoneNumber,omitempty"`
	Location        string `json:"location,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}
