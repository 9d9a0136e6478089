package services

import (
	"context"

	"github.com/sbilibin2017/readify/internal/logger"
	"github.com/sbilibin2017/readify/internal/models"
)

//go:generate mockgen -source=resolver.go -destination=resolver_mock.go -package=services

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByUsername(ctx context.Context, username string) (*models.UserDB, error)
	GetByID(ctx context.Context, userID int64) (*models.UserDB, error)
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	List(ctx context.Context) ([]models.UserDB, error)
}

// BookReader defines read-only operations for books.
type BookReader interface {
	GetByID(ctx context.Context, bookID int64) (*models.BookDB, error)
	GetByExternalID(ctx context.Context, externalID string) (*models.BookDB, error)
	List(ctx context.Context) ([]models.BookDB, error)
}

// Resolver looks users and books up by their identifiers.
// A miss is reported as a nil record, never as an error.
type Resolver struct {
	users UserReader
	books BookReader
}

// NewResolver creates a new Resolver instance.
func NewResolver(users UserReader, books BookReader) *Resolver {
	return &Resolver{users: users, books: books}
}

// FindUserByUsername returns the user or nil.
func (r *Resolver) FindUserByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	user, err := r.users.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Errorw("failed to find user by username", "username", username, "err", err)
		return nil, err
	}
	return user, nil
}

// FindUserByID returns the user or nil.
func (r *Resolver) FindUserByID(ctx context.Context, userID int64) (*models.UserDB, error) {
	user, err := r.users.GetByID(ctx, userID)
	if err != nil {
		logger.Log.Errorw("failed to find user by id", "user_id", userID, "err", err)
		return nil, err
	}
	return user, nil
}

// FindUserByEmail returns the user or nil.
func (r *Resolver) FindUserByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	user, err := r.users.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to find user by email", "err", err)
		return nil, err
	}
	return user, nil
}

// FindBookByID returns the book or nil.
func (r *Resolver) FindBookByID(ctx context.Context, bookID int64) (*models.BookDB, error) {
	book, err := r.books.GetByID(ctx, bookID)
	if err != nil {
		logger.Log.Errorw("failed to find book by id", "book_id", bookID, "err", err)
		return nil, err
	}
	return book, nil
}

// FindBookByExternalID returns the book or nil.
func (r *Resolver) FindBookByExternalID(ctx context.Context, externalID string) (*models.BookDB, error) {
	book, err := r.books.GetByExternalID(ctx, externalID)
	if err != nil {
		logger.Log.Errorw("failed to find book by external id", "external_id", externalID, "err", err)
		return nil, err
	}
	return book, nil
}
