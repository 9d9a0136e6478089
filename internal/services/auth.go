package services

import (
	"context"
	"sync"

	"github.com/sbilibin2017/readify/internal/logger"
	"github.com/sbilibin2017/readify/internal/models"
)

//go:generate mockgen -source=auth.go -destination=auth_mock.go -package=services

// UserCreator registers new users.
type UserCreator interface {
	Create(ctx context.Context, username, password string, email, fullName *string) (*models.UserDB, error)
}

// JWTGenerator defines an interface for generating JWT tokens.
type JWTGenerator interface {
	Generate(ctx context.Context, userID int64, username string) (string, error)
}

// AuthService handles signup and login.
type AuthService struct {
	resolver *Resolver
	creator  UserCreator
	hasher   PasswordHasher
	jwt      JWTGenerator

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(resolver *Resolver, creator UserCreator, hasher PasswordHasher, jwt JWTGenerator) *AuthService {
	return &AuthService{
		resolver: resolver,
		creator:  creator,
		hasher:   hasher,
		jwt:      jwt,
	}
}

// Signup registers a new user and returns a token for them.
func (svc *AuthService) Signup(ctx context.Context, username, password string, email, fullName *string) (string, error) {
	user, err := svc.creator.Create(ctx, username, password, email, fullName)
	if err != nil {
		return "", err
	}

	return svc.issue(ctx, user)
}

// Login authenticates a user and returns a JWT token.
// Unknown users and wrong passwords both yield ErrInvalidCredentials.
func (svc *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := svc.resolver.FindUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if user == nil {
		// keep the response time close to a real verification
		svc.hasher.Verify(password, svc.dummy())
		logger.Log.Errorw("invalid credentials", "username", username)
		return "", ErrInvalidCredentials
	}

	if !svc.hasher.Verify(password, user.PasswordHash) {
		logger.Log.Errorw("invalid credentials", "username", username)
		return "", ErrInvalidCredentials
	}

	return svc.issue(ctx, user)
}

func (svc *AuthService) issue(ctx context.Context, user *models.UserDB) (string, error) {
	token, err := svc.jwt.Generate(ctx, user.UserID, user.Username)
	if err != nil {
		logger.Log.Errorw("failed to generate JWT", "err", err)
		return "", err
	}
	return token, nil
}

func (svc *AuthService) dummy() string {
	svc.dummyOnce.Do(func() {
		hash, err := svc.hasher.Hash("readify-dummy-password")
		if err != nil {
			logger.Log.Errorw("failed to prepare dummy hash", "err", err)
			return
		}
		svc.dummyHash = hash
	})
	return svc.dummyHash
}
