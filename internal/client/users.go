package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/ideafactory/ideas/internal/model"
)

// AuthError is returned by the sign-in and account endpoints. Code is taken
// from the server's "code" field when present, otherwise from the HTTP status.
type AuthError struct {
	Code       model.AuthErrorCode
	StatusCode int
	Message    string
	err        *APIError
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return "auth: " + e.Code.String()
	}
	return fmt.Sprintf("auth: %s: %s", e.Code, e.Message)
}

func (e *AuthError) Unwrap() error { return e.err }

// IsAuthCode reports whether err is an *AuthError with the given code.
func IsAuthCode(err error, code model.AuthErrorCode) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.Code == code
}

// authError converts an API error from an auth endpoint. fallback is used
// when neither the body nor the status identifies the failure.
func authError(err error, fallback model.AuthErrorCode) error {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	code := model.AuthErrorCode(apiErr.Code)
	if !code.IsValid() {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized:
			code = model.AuthUnauthorized
		case http.StatusForbidden:
			code = model.AuthAccessDenied
		case http.StatusNotFound:
			code = model.AuthUserNotFound
		case http.StatusConflict:
			code = model.AuthEmailTaken
		case http.StatusGone:
			code = model.AuthTokenExpired
		default:
			code = fallback
		}
	}
	return &AuthError{Code: code, StatusCode: apiErr.StatusCode, Message: apiErr.Message, err: apiErr}
}

type messageResponse struct {
	Message string `json:"message"`
	Success *bool  `json:"success,omitempty"`
}

// --- Users ---

func (c *HTTPClient) Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var resp model.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/users/signup", req, &resp); err != nil {
		return nil, authError(err, model.AuthUnknown)
	}
	return &resp, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*model.AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var resp model.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/users/login", body, &resp); err != nil {
		return nil, authError(err, model.AuthInvalidCredentials)
	}
	return &resp, nil
}

func (c *HTTPClient) GoogleLogin(ctx context.Context, req *model.GoogleLoginRequest) (*model.AuthResponse, error) {
	var resp model.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/users/google-login", req, &resp); err != nil {
		return nil, authError(err, model.AuthInvalidCredentials)
	}
	return &resp, nil
}

// ForgotPassword requests a reset email and returns the server's message.
func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) (string, error) {
	var resp messageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/users/forgot-password", map[string]string{"email": email}, &resp); err != nil {
		return "", authError(err, model.AuthUnknown)
	}
	return resp.Message, nil
}

func (c *HTTPClient) ResetPassword(ctx context.Context, token, newPassword string) (string, error) {
	body := map[string]string{"token": token, "newPassword": newPassword}
	var resp messageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/users/reset-password", body, &resp); err != nil {
		return "", authError(err, model.AuthTokenInvalid)
	}
	return resp.Message, nil
}

func (c *HTTPClient) VerifyEmail(ctx context.Context, token string) (string, error) {
	var resp messageResponse
	if err := c.doJSON(ctx, http.MethodPost, "/users/verify-email", map[string]string{"token": token}, &resp); err != nil {
		return "", authError(err, model.AuthTokenInvalid)
	}
	return resp.Message, nil
}

type profileResponse struct {
	User    model.Profile `json:"user"`
	Message string        `json:"message,omitempty"`
}

func (c *HTTPClient) GetProfile(ctx context.Context) (*model.Profile, error) {
	var resp profileResponse
	if err := c.doJSON(ctx, http.MethodGet, "/dashboard/profile", nil, &resp); err != nil {
		return nil, authError(err, model.AuthUnknown)
	}
	return &resp.User, nil
}

// UpdateProfile sends the editable profile fields (bio, phone, location).
func (c *HTTPClient) UpdateProfile(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	body := map[string]string{
		"bio":         p.Bio,
		"phoneNumber": p.PhoneNumber,
		"location":    p.Location,
	}
	var resp profileResponse
	if err := c.doJSON(ctx, http.MethodPut, "/dashboard/profile", body, &resp); err != nil {
		return nil, authError(err, model.AuthUnknown)
	}
	return &resp.User, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	if err := c.doJSON(ctx, http.MethodPost, "/dashboard/logout", nil, nil); err != nil {
		return authError(err, model.AuthUnknown)
	}
	return nil
}
