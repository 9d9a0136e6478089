package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/readify/internal/jwt"
	"github.com/sbilibin2017/readify/internal/middlewares"
	"github.com/sbilibin2017/readify/internal/services"
	"github.com/sbilibin2017/readify/internal/validation"
	"github.com/stretchr/testify/assert"
)

// aliceClaims authenticates requests as alice (user 1).
var aliceClaims = &jwt.Claims{UserID: 1, Username: "alice"}

// serve routes a single request through a chi router so URL params resolve.
func serve(h http.HandlerFunc, method, pattern, target, body string) *httptest.ResponseRecorder {
	return serveAs(nil, h, method, pattern, target, body)
}

// serveAs is serve for a request authenticated with claims.
func serveAs(claims *jwt.Claims, h http.HandlerFunc, method, pattern, target, body string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Method(method, pattern, h)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if claims != nil {
		req = req.WithContext(middlewares.WithClaims(req.Context(), claims))
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody string
	}{
		{"user not found", services.ErrUserNotFound, http.StatusNotFound, "User not found"},
		{"book not found", services.ErrBookNotFound, http.StatusNotFound, "Book not found"},
		{"activity not found", services.ErrActivityNotFound, http.StatusNotFound, "Activity not found"},
		{"username taken", services.ErrUserAlreadyExists, http.StatusConflict, "Username already exists"},
		{"email taken", services.ErrEmailAlreadyExists, http.StatusConflict, "Email already registered"},
		{"book exists", services.ErrBookAlreadyExists, http.StatusConflict, "Book already exists"},
		{"activity exists", services.ErrActivityAlreadyExists, http.StatusConflict, "Book is already in the library"},
		{"invalid status", services.ErrInvalidStatus, http.StatusBadRequest, services.ErrInvalidStatus.Error()},
		{"invalid progress", services.ErrInvalidProgress, http.StatusBadRequest, services.ErrInvalidProgress.Error()},
		{"bad credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid username or password"},
		{"no caller", errNotAuthenticated, http.StatusUnauthorized, "Not authenticated"},
		{"another user's data", services.ErrForbidden, http.StatusForbidden, "Not allowed to modify another user's data"},
		{"wrapped not found", fmt.Errorf("lookup: %w", services.ErrUserNotFound), http.StatusNotFound, "User not found"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, tt.err)

			assert.Equal(t, tt.expectedCode, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, tt.expectedBody, decodeError(t, rr).Error)
		})
	}
}

func TestWriteError_Upstream(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, fmt.Errorf("%w: request to Google Books API timed out", services.ErrSearchUnavailable))

	assert.Equal(t, http.StatusBadGateway, rr.Code)
	assert.Contains(t, decodeError(t, rr).Error, "timed out")
}

func TestWriteError_Validation(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, &validation.Error{Fields: map[string]string{"q": "is required"}})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decodeError(t, rr)
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Equal(t, map[string]string{"q": "is required"}, resp.Details)
}

func TestWriteError_CredentialsChallenge(t *testing.T) {
	rr := httptest.NewRecorder()
	writeError(rr, services.ErrInvalidCredentials)

	assert.Equal(t, "Bearer", rr.Header().Get("WWW-Authenticate"))
}

func TestIDParam(t *testing.T) {
	tests := []struct {
		target  string
		want    int64
		wantErr bool
	}{
		{"/books/42", 42, false},
		{"/books/0", 0, true},
		{"/books/-3", 0, true},
		{"/books/abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			var (
				got int64
				err error
			)
			serve(func(w http.ResponseWriter, r *http.Request) {
				got, err = idParam(r, "bookID")
			}, http.MethodGet, "/books/{bookID}", tt.target, "")

			if tt.wantErr {
				var verr *validation.Error
				assert.ErrorAs(t, err, &verr)
				assert.Contains(t, verr.Fields, "bookID")
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
