package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/readify/internal/models"
)

//go:generate mockgen -source=library.go -destination=library_mock.go -package=handlers

// LibraryReader defines the interface for reading a user's library.
type LibraryReader interface {
	ListForUser(ctx context.Context, username string) ([]models.ActivityDB, error)
	GetLibraryEntry(ctx context.Context, username string, bookID int64) (*models.ActivityDB, error)
}

// NewLibraryHandler returns an HTTP handler that lists a user's library.
// @Summary Get a user's library
// @Tags library
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} handlers.ActivityResponse "Library entries with their books"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /users/{username}/library [get]
func NewLibraryHandler(svc LibraryReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		activities, err := svc.ListForUser(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newActivityResponses(activities))
	}
}

// NewLibraryEntryHandler returns an HTTP handler that fetches one library entry.
// @Summary Get a library entry
// @Tags library
// @Produce json
// @Param username path string true "Username"
// @Param bookID path int true "Book ID"
// @Success 200 {object} handlers.ActivityResponse "Library entry"
// @Failure 400 {object} handlers.ErrorResponse "Invalid id"
// @Failure 404 {object} handlers.ErrorResponse "User or entry not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /users/{username}/library/{bookID} [get]
func NewLibraryEntryHandler(svc LibraryReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID, err := idParam(r, "bookID")
		if err != nil {
			writeError(w, err)
			return
		}

		activity, err := svc.GetLibraryEntry(r.Context(), chi.URLParam(r, "username"), bookID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newActivityResponse(activity))
	}
}
