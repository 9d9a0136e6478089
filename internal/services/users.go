package services

import (
	"context"
	"errors"
	"strings"

	"github.com/sbilibin2017/readify/internal/logger"
	"github.com/sbilibin2017/readify/internal/models"
	"github.com/sbilibin2017/readify/internal/repositories"
)

//go:generate mockgen -source=users.go -destination=users_mock.go -package=services

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, username, passwordHash string, email, fullName *string) (*models.UserDB, error)
	UpdateFullName(ctx context.Context, userID int64, fullName *string) (*models.UserDB, error)
	Delete(ctx context.Context, userID int64) (bool, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

// UserService manages user accounts.
type UserService struct {
	resolver *Resolver
	reader   UserReader
	writer   UserWriter
	hasher   PasswordHasher
}

// NewUserService creates a new UserService instance.
func NewUserService(resolver *Resolver, reader UserReader, writer UserWriter, hasher PasswordHasher) *UserService {
	return &UserService{
		resolver: resolver,
		reader:   reader,
		writer:   writer,
		hasher:   hasher,
	}
}

// nilIfBlank treats a blank optional key as absent.
func nilIfBlank(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}

// Create registers a user. Username and email must be unused. A blank email
// is stored as no email.
func (svc *UserService) Create(ctx context.Context, username, password string, email, fullName *string) (*models.UserDB, error) {
	email = nilIfBlank(email)

	existing, err := svc.resolver.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		logger.Log.Errorw("user already exists", "username", username)
		return nil, ErrUserAlreadyExists
	}

	if email != nil {
		existing, err := svc.resolver.FindUserByEmail(ctx, *email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			logger.Log.Errorw("email already registered", "username", username)
			return nil, ErrEmailAlreadyExists
		}
	}

	hash, err := svc.hasher.Hash(password)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user, err := svc.writer.Save(ctx, username, hash, email, fullName)
	if errors.Is(err, repositories.ErrUniqueViolation) {
		// lost a race against a concurrent signup
		if repositories.ViolatedConstraint(err) == repositories.UsersEmailKey {
			logger.Log.Errorw("email already registered", "username", username)
			return nil, ErrEmailAlreadyExists
		}
		logger.Log.Errorw("user already exists", "username", username)
		return nil, ErrUserAlreadyExists
	}
	if err != nil {
		logger.Log.Errorw("failed to save user", "username", username, "err", err)
		return nil, err
	}

	return user, nil
}

// Get returns the user with the given username.
func (svc *UserService) Get(ctx context.Context, username string) (*models.UserDB, error) {
	user, err := svc.resolver.FindUserByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// GetByID returns the user with the given id.
func (svc *UserService) GetByID(ctx context.Context, userID int64) (*models.UserDB, error) {
	user, err := svc.resolver.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List returns every user.
func (svc *UserService) List(ctx context.Context) ([]models.UserDB, error) {
	users, err := svc.reader.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list users", "err", err)
		return nil, err
	}
	return users, nil
}

// owned returns the user if it is the caller, ErrForbidden otherwise.
func (svc *UserService) owned(ctx context.Context, callerID int64, username string) (*models.UserDB, error) {
	user, err := svc.Get(ctx, username)
	if err != nil {
		return nil, err
	}
	if user.UserID != callerID {
		logger.Log.Warnw("user modification by another user", "username", username, "caller_id", callerID)
		return nil, ErrForbidden
	}
	return user, nil
}

// UpdateFullName changes the caller's full name. A nil name clears it.
func (svc *UserService) UpdateFullName(ctx context.Context, callerID int64, username string, fullName *string) (*models.UserDB, error) {
	user, err := svc.owned(ctx, callerID, username)
	if err != nil {
		return nil, err
	}

	updated, err := svc.writer.UpdateFullName(ctx, user.UserID, fullName)
	if err != nil {
		logger.Log.Errorw("failed to update user", "username", username, "err", err)
		return nil, err
	}
	if updated == nil {
		return nil, ErrUserNotFound
	}
	return updated, nil
}

// Delete removes the caller's account together with their library.
func (svc *UserService) Delete(ctx context.Context, callerID int64, username string) error {
	user, err := svc.owned(ctx, callerID, username)
	if err != nil {
		return err
	}

	deleted, err := svc.writer.Delete(ctx, user.UserID)
	if err != nil {
		logger.Log.Errorw("failed to delete user", "username", username, "err", err)
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}

	logger.Log.Infow("user deleted", "username", username, "user_id", user.UserID)
	return nil
}
