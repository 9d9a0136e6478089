package services

import "errors"

// Error variables
var (
	ErrUserAlreadyExists     = errors.New("username already exists")
	ErrEmailAlreadyExists    = errors.New("email already registered")
	ErrUserNotFound          = errors.New("user not found")
	ErrBookAlreadyExists     = errors.New("book with this external id already exists")
	ErrBookNotFound          = errors.New("book not found")
	ErrActivityNotFound      = errors.New("activity not found")
	ErrActivityAlreadyExists = errors.New("book is already in the user's library")
	ErrInvalidCredentials    = errors.New("invalid username or password")
	ErrSearchUnavailable     = errors.New("book search unavailable")
	ErrInvalidStatus         = errors.New("invalid activity status")
	ErrInvalidProgress       = errors.New("progress must not be negative")
	ErrForbidden             = errors.New("not allowed to modify another user's data")
)
