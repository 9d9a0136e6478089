package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/readify/internal/logger"
	"github.com/sbilibin2017/readify/internal/middlewares"
	"github.com/sbilibin2017/readify/internal/models"
	"github.com/sbilibin2017/readify/internal/services"
	"github.com/sbilibin2017/readify/internal/validation"
)

// ErrorResponse represents an error response
// swagger:model ErrorResponse
type ErrorResponse struct {
	// Error message
	// default: User not found
	Error string `json:"error"`

	// Per-field validation messages
	Details map[string]string `json:"details,omitempty"`
}

// UserResponse represents a user
// swagger:model UserResponse
type UserResponse struct {
	ID       int64   `json:"id"`
	Username string  `json:"username"`
	Email    *string `json:"email"`
	FullName *string `json:"full_name"`
}

// BookResponse represents a stored book
// swagger:model BookResponse
type BookResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Author      *string `json:"author"`
	Description *string `json:"description"`
	CoverImage  *string `json:"cover_image"`
	Category    *string `json:"category"`
	ExternalID  *string `json:"external_id"`
}

// ActivityResponse represents a library entry
// swagger:model ActivityResponse
type ActivityResponse struct {
	ID         int64        `json:"id"`
	Status     string       `json:"status"`
	Progress   int          `json:"progress"`
	IsFavorite bool         `json:"is_favorite"`
	DateAdded  time.Time    `json:"date_added"`
	Book       BookResponse `json:"book"`
}

func newUserResponse(u *models.UserDB) UserResponse {
	return UserResponse{
		ID:       u.UserID,
		Username: u.Username,
		Email:    u.Email,
		FullName: u.FullName,
	}
}

func newBookResponse(b *models.BookDB) BookResponse {
	return BookResponse{
		ID:          b.BookID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		CoverImage:  b.CoverImage,
		Category:    b.Category,
		ExternalID:  b.ExternalID,
	}
}

func newActivityResponse(a *models.ActivityDB) ActivityResponse {
	return ActivityResponse{
		ID:         a.ActivityID,
		Status:     a.Status,
		Progress:   a.Progress,
		IsFavorite: a.IsFavorite,
		DateAdded:  a.DateAdded,
		Book:       newBookResponse(&a.Book),
	}
}

func newActivityResponses(activities []models.ActivityDB) []ActivityResponse {
	resp := make([]ActivityResponse, 0, len(activities))
	for i := range activities {
		resp = append(resp, newActivityResponse(&activities[i]))
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
}

// writeDecodeError reports a body that could not be decoded or failed validation.
func writeDecodeError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		writeError(w, err)
		return
	}
	writeBadRequest(w, "Invalid request body")
}

// writeError maps service errors to HTTP responses.
var errNotAuthenticated = errors.New("not authenticated")

// callerID returns the id of the user the request was authenticated as.
func callerID(r *http.Request) (int64, error) {
	claims := middlewares.GetClaims(r.Context())
	if claims == nil {
		return 0, errNotAuthenticated
	}
	return claims.UserID, nil
}

func writeError(w http.ResponseWriter, err error) {
	var verr *validation.Error

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Validation failed", Details: verr.Fields})
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidProgress):
		writeBadRequest(w, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Invalid username or password"})
	case errors.Is(err, errNotAuthenticated):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "Not authenticated"})
	case errors.Is(err, services.ErrForbidden):
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "Not allowed to modify another user's data"})
	case errors.Is(err, services.ErrUserNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "User not found"})
	case errors.Is(err, services.ErrBookNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Book not found"})
	case errors.Is(err, services.ErrActivityNotFound):
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "Activity not found"})
	case errors.Is(err, services.ErrUserAlreadyExists):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "Username already exists"})
	case errors.Is(err, services.ErrEmailAlreadyExists):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "Email already registered"})
	case errors.Is(err, services.ErrBookAlreadyExists):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "Book already exists"})
	case errors.Is(err, services.ErrActivityAlreadyExists):
		writeJSON(w, http.StatusConflict, ErrorResponse{Error: "Book is already in the library"})
	case errors.Is(err, services.ErrSearchUnavailable):
		writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	default:
		logger.Log.Errorw("internal server error", "err", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
	}
}

// idParam parses a positive integer URL parameter.
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, &validation.Error{Fields: map[string]string{name: "must be a positive integer"}}
	}
	return id, nil
}

// intQuery parses an optional integer query parameter.
func intQuery(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &validation.Error{Fields: map[string]string{name: "must be an integer"}}
	}
	return n, nil
}
