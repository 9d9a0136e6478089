package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/sbilibin2017/readify/internal/models"
	"github.com/sbilibin2017/readify/internal/services"
	"github.com/sbilibin2017/readify/internal/validation"
)

//go:generate mockgen -source=activity.go -destination=activity_mock.go -package=handlers

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
)

// ActivityManager defines the interface that the activity service must implement.
type ActivityManager interface {
	AddToLibrary(ctx context.Context, callerID int64, username string, bookID int64, status string, progress int) (*models.ActivityDB, bool, error)
	Update(ctx context.Context, callerID, activityID int64, patch models.ActivityPatch) (*models.ActivityDB, error)
	Delete(ctx context.Context, callerID, activityID int64) (bool, error)
	ListRecent(ctx context.Context, limit int) ([]models.ActivityDB, error)
}

// ActivityCreateRequest represents the JSON body for adding a book to a library
// swagger:model ActivityCreateRequest
type ActivityCreateRequest struct {
	// Library owner
	// required: true
	// default: john_doe
	Username string `json:"username" validate:"required"`

	// Stored book
	// required: true
	// default: 1
	BookID int64 `json:"book_id" validate:"required,gt=0"`

	// Reading status, wishlist when omitted
	// default: reading
	Status string `json:"status" validate:"omitempty,activity_status"`

	// Reading progress
	// default: 0
	Progress int `json:"progress" validate:"gte=0"`
}

// ActivityUpdateRequest represents a partial update. Omitted fields are left unchanged.
// swagger:model ActivityUpdateRequest
type ActivityUpdateRequest struct {
	// Reading status
	// default: completed
	Status models.Optional[string] `json:"status" swaggertype:"string"`

	// Reading progress
	// default: 100
	Progress models.Optional[int] `json:"progress" swaggertype:"integer"`

	// Favorite flag
	// default: true
	IsFavorite models.Optional[bool] `json:"is_favorite" swaggertype:"boolean"`
}

// patch validates the request and converts it into a models.ActivityPatch.
func (req ActivityUpdateRequest) patch(v *validation.Validator) (models.ActivityPatch, error) {
	fields := map[string]string{}

	for name, null := range map[string]bool{
		"status":      req.Status.Null,
		"progress":    req.Progress.Null,
		"is_favorite": req.IsFavorite.Null,
	} {
		if null {
			fields[name] = "must not be null"
		}
	}
	if status, ok := req.Status.Get(); ok {
		if err := v.Var("status", status, "activity_status"); err != nil {
			mergeFields(fields, err)
		}
	}
	if progress, ok := req.Progress.Get(); ok {
		if err := v.Var("progress", progress, "gte=0"); err != nil {
			mergeFields(fields, err)
		}
	}

	if len(fields) > 0 {
		return models.ActivityPatch{}, &validation.Error{Fields: fields}
	}
	return models.ActivityPatch{
		Status:     req.Status,
		Progress:   req.Progress,
		IsFavorite: req.IsFavorite,
	}, nil
}

func mergeFields(fields map[string]string, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		for k, msg := range verr.Fields {
			fields[k] = msg
		}
	}
}

// NewCreateActivityHandler returns an HTTP handler that adds a book to a user's library.
// @Summary Add a book to a library
// @Description Creates a reading activity in the caller's own library. Depending on the configured policy an existing entry for the same book is returned (200) or rejected (409).
// @Tags activity
// @Accept json
// @Produce json
// @Param activityCreateRequest body handlers.ActivityCreateRequest true "Library entry"
// @Success 201 {object} handlers.ActivityResponse "Created entry"
// @Success 200 {object} handlers.ActivityResponse "Existing entry"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 401 {object} handlers.ErrorResponse "Not authenticated"
// @Failure 403 {object} handlers.ErrorResponse "Another user's library"
// @Failure 404 {object} handlers.ErrorResponse "User or book not found"
// @Failure 409 {object} handlers.ErrorResponse "Book is already in the library"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /activity [post]
func NewCreateActivityHandler(svc ActivityManager) http.HandlerFunc {
	v := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		var req ActivityCreateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "Invalid request body")
			return
		}
		if err := v.Struct(req); err != nil {
			writeError(w, err)
			return
		}

		activity, created, err := svc.AddToLibrary(r.Context(), caller, req.Username, req.BookID, req.Status, req.Progress)
		if err != nil {
			writeError(w, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, newActivityResponse(activity))
	}
}

// NewRecentActivityHandler returns an HTTP handler that lists the latest activities.
// @Summary Recent activity
// @Tags activity
// @Produce json
// @Param limit query int false "Number of entries (1-100)" default(10)
// @Success 200 {array} handlers.ActivityResponse "Entries, newest first"
// @Failure 400 {object} handlers.ErrorResponse "Invalid limit"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /activity/recent [get]
func NewRecentActivityHandler(svc ActivityManager) http.HandlerFunc {
	v := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := intQuery(r, "limit", defaultRecentLimit)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := v.Var("limit", limit, "gte=1,lte="+strconv.Itoa(maxRecentLimit)); err != nil {
			writeError(w, err)
			return
		}

		activities, err := svc.ListRecent(r.Context(), limit)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newActivityResponses(activities))
	}
}

// NewUpdateActivityHandler returns an HTTP handler that partially updates an activity.
// @Summary Update an activity
// @Description Applies the fields present in the body. Null values are rejected.
// @Tags activity
// @Accept json
// @Produce json
// @Param activityID path int true "Activity ID"
// @Param activityUpdateRequest body handlers.ActivityUpdateRequest true "Fields to change"
// @Success 200 {object} handlers.ActivityResponse "Updated entry"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 401 {object} handlers.ErrorResponse "Not authenticated"
// @Failure 403 {object} handlers.ErrorResponse "Another user's activity"
// @Failure 404 {object} handlers.ErrorResponse "Activity not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /activity/{activityID} [patch]
func NewUpdateActivityHandler(svc ActivityManager) http.HandlerFunc {
	v := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		activityID, err := idParam(r, "activityID")
		if err != nil {
			writeError(w, err)
			return
		}

		var req ActivityUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "Invalid request body")
			return
		}
		patch, err := req.patch(v)
		if err != nil {
			writeError(w, err)
			return
		}

		activity, err := svc.Update(r.Context(), caller, activityID, patch)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newActivityResponse(activity))
	}
}

// NewDeleteActivityHandler returns an HTTP handler that removes an activity.
// @Summary Delete an activity
// @Tags activity
// @Param activityID path int true "Activity ID"
// @Success 204 "Activity deleted"
// @Failure 400 {object} handlers.ErrorResponse "Invalid id"
// @Failure 401 {object} handlers.ErrorResponse "Not authenticated"
// @Failure 403 {object} handlers.ErrorResponse "Another user's activity"
// @Failure 404 {object} handlers.ErrorResponse "Activity not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /activity/{activityID} [delete]
func NewDeleteActivityHandler(svc ActivityManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		activityID, err := idParam(r, "activityID")
		if err != nil {
			writeError(w, err)
			return
		}

		deleted, err := svc.Delete(r.Context(), caller, activityID)
		if err != nil {
			writeError(w, err)
			return
		}
		if !deleted {
			writeError(w, services.ErrActivityNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
