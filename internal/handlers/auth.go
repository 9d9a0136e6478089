package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sbilibin2017/readify/internal/validation"
)

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=handlers

// Authenticator defines the interface that the auth service must implement.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (string, error)
	Signup(ctx context.Context, username, password string, email, fullName *string) (string, error)
}

// TokenRequest represents the JSON body for login
// swagger:model TokenRequest
type TokenRequest struct {
	// Username
	// required: true
	// default: john_doe
	Username string `json:"username" validate:"required"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password" validate:"required"`
}

// UserCreateRequest represents the JSON body for signup and user creation
// swagger:model UserCreateRequest
type UserCreateRequest struct {
	// Username
	// required: true
	// default: john_doe
	Username string `json:"username" validate:"required,max=128"`

	// Password
	// required: true
	// default: secret123
	Password string `json:"password" validate:"required"`

	// Email
	// default: john@example.com
	Email *string `json:"email" validate:"omitempty,email,max=256"`

	// Full name
	// default: John Doe
	FullName *string `json:"full_name" validate:"omitempty,max=256"`
}

// TokenResponse represents an issued access token
// swagger:model TokenResponse
type TokenResponse struct {
	// Signed JWT
	AccessToken string `json:"access_token"`

	// Token type
	// default: bearer
	TokenType string `json:"token_type"`
}

func newTokenResponse(token string) TokenResponse {
	return TokenResponse{AccessToken: token, TokenType: "bearer"}
}

// NewLoginHandler returns an HTTP handler that exchanges credentials for a token.
// @Summary Log in
// @Description Verifies the username and password and returns a bearer token. Unknown users and wrong passwords get the same response.
// @Tags auth
// @Accept json
// @Produce json
// @Param tokenRequest body handlers.TokenRequest true "User credentials"
// @Success 200 {object} handlers.TokenResponse "Access token"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 401 {object} handlers.ErrorResponse "Invalid username or password"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /auth/token [post]
func NewLoginHandler(svc Authenticator) http.HandlerFunc {
	v := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		var req TokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "Invalid request body")
			return
		}
		if err := v.Struct(req); err != nil {
			writeError(w, err)
			return
		}

		token, err := svc.Login(r.Context(), req.Username, req.Password)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, newTokenResponse(token))
	}
}

// NewSignupHandler returns an HTTP handler that registers a user and logs them in.
// @Summary Sign up
// @Description Creates a user account and returns a bearer token for it.
// @Tags auth
// @Accept json
// @Produce json
// @Param userCreateRequest body handlers.UserCreateRequest true "New user"
// @Success 201 {object} handlers.TokenResponse "Access token"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 409 {object} handlers.ErrorResponse "Username or email already taken"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /auth/signup [post]
func NewSignupHandler(svc Authenticator) http.HandlerFunc {
	v := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		var req UserCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "Invalid request body")
			return
		}
		if err := v.Struct(req); err != nil {
			writeError(w, err)
			return
		}

		token, err := svc.Signup(r.Context(), req.Username, req.Password, req.Email, req.FullName)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newTokenResponse(token))
	}
}
