package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/sbilibin2017/readify/internal/models"
	"github.com/sbilibin2017/readify/internal/validation"
)

//go:generate mockgen -source=users.go -destination=users_mock.go -package=handlers

// UserManager defines the interface that the user service must implement.
type UserManager interface {
	Create(ctx context.Context, username, password string, email, fullName *string) (*models.UserDB, error)
	Get(ctx context.Context, username string) (*models.UserDB, error)
	GetByID(ctx context.Context, userID int64) (*models.UserDB, error)
	List(ctx context.Context) ([]models.UserDB, error)
	UpdateFullName(ctx context.Context, callerID int64, username string, fullName *string) (*models.UserDB, error)
	Delete(ctx context.Context, callerID int64, username string) error
}

// UserUpdateRequest represents a profile update. An explicit null clears the name.
// swagger:model UserUpdateRequest
type UserUpdateRequest struct {
	// Full name
	// required: true
	// default: John Doe
	FullName models.Optional[string] `json:"full_name" swaggertype:"string"`
}

// NewCreateUserHandler returns an HTTP handler that creates a user.
// @Summary Create a user
// @Description Creates a user account with a hashed password.
// @Tags users
// @Accept json
// @Produce json
// @Param userCreateRequest body handlers.UserCreateRequest true "New user"
// @Success 201 {object} handlers.UserResponse "Created user"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 409 {object} handlers.ErrorResponse "Username or email already taken"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /users [post]
func NewCreateUserHandler(svc UserManager) http.HandlerFunc {
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

		user, err := svc.Create(r.Context(), req.Username, req.Password, req.Email, req.FullName)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, newUserResponse(user))
	}
}

// NewListUsersHandler returns an HTTP handler that lists users.
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} handlers.UserResponse "Users"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /users [get]
func NewListUsersHandler(svc UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := svc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		resp := make([]UserResponse, 0, len(users))
		for i := range users {
			resp = append(resp, newUserResponse(&users[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// NewGetUserHandler returns an HTTP handler that fetches a user by username.
// @Summary Get a user
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} handlers.UserResponse "User"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /users/{username} [get]
func NewGetUserHandler(svc UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := svc.Get(r.Context(), chi.URLParam(r, "username"))
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newUserResponse(user))
	}
}

// NewGetUserByIDHandler returns an HTTP handler that fetches a user by id.
// @Summary Get a user by id
// @Tags users
// @Produce json
// @Param userID path int true "User ID"
// @Success 200 {object} handlers.UserResponse "User"
// @Failure 400 {object} handlers.ErrorResponse "Invalid id"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /users/by-id/{userID} [get]
func NewGetUserByIDHandler(svc UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := idParam(r, "userID")
		if err != nil {
			writeError(w, err)
			return
		}

		user, err := svc.GetByID(r.Context(), userID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newUserResponse(user))
	}
}

// NewUpdateUserHandler returns an HTTP handler that updates the caller's full name.
// @Summary Update a user
// @Description Sets or clears (with an explicit null) the user's full name. Users can only update themselves.
// @Tags users
// @Accept json
// @Produce json
// @Param username path string true "Username"
// @Param userUpdateRequest body handlers.UserUpdateRequest true "Profile update"
// @Success 200 {object} handlers.UserResponse "Updated user"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 401 {object} handlers.ErrorResponse "Not authenticated"
// @Failure 403 {object} handlers.ErrorResponse "Another user's account"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /users/{username} [patch]
func NewUpdateUserHandler(svc UserManager) http.HandlerFunc {
	v := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		var req UserUpdateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeBadRequest(w, "Invalid request body")
			return
		}
		if !req.FullName.Set {
			writeError(w, &validation.Error{Fields: map[string]string{"full_name": "is required"}})
			return
		}

		var fullName *string
		if name, ok := req.FullName.Get(); ok {
			if err := v.Var("full_name", name, "max=256"); err != nil {
				writeError(w, err)
				return
			}
			fullName = &name
		}

		user, err := svc.UpdateFullName(r.Context(), caller, chi.URLParam(r, "username"), fullName)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newUserResponse(user))
	}
}

// NewDeleteUserHandler returns an HTTP handler that deletes the caller's account and library.
// @Summary Delete a user
// @Tags users
// @Param username path string true "Username"
// @Success 204 "User deleted"
// @Failure 401 {object} handlers.ErrorResponse "Not authenticated"
// @Failure 403 {object} handlers.ErrorResponse "Another user's account"
// @Failure 404 {object} handlers.ErrorResponse "User not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Security BearerAuth
// @Router /users/{username} [delete]
func NewDeleteUserHandler(svc UserManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := callerID(r)
		if err != nil {
			writeError(w, err)
			return
		}

		if err := svc.Delete(r.Context(), caller, chi.URLParam(r, "username")); err != nil {
			writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
