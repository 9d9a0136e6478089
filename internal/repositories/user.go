package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/readify/internal/models"
)

const userColumns = `id, username, email, password_hash, full_name, created_at, updated_at`

// UserReadRepository handles user lookups
type UserReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewUserReadRepository(db *sqlx.DB, txGetter TxGetter) *UserReadRepository {
	return &UserReadRepository{db: db, txGetter: txGetter}
}

func (r *UserReadRepository) getOne(ctx context.Context, query string, arg any) (*models.UserDB, error) {
	var user models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, arg)
	logQuery(query, []any{arg}, user.UserID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByUsername returns the user with the given username, or nil if there is none.
func (r *UserReadRepository) GetByUsername(ctx context.Context, username string) (*models.UserDB, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

// GetByID returns the user with the given id, or nil if there is none.
func (r *UserReadRepository) GetByID(ctx context.Context, userID int64) (*models.UserDB, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
}

// GetByEmail returns the user with the given email, or nil if there is none.
func (r *UserReadRepository) GetByEmail(ctx context.Context, email string) (*models.UserDB, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// List returns all users ordered by id.
func (r *UserReadRepository) List(ctx context.Context) ([]models.UserDB, error) {
	const query = `SELECT ` + userColumns + ` FROM users ORDER BY id`

	users := []models.UserDB{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &users, query)
	logQuery(query, nil, len(users), err)

	return users, err
}

// UserWriteRepository handles user writes
type UserWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewUserWriteRepository(db *sqlx.DB, txGetter TxGetter) *UserWriteRepository {
	return &UserWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts a user. A duplicate username or email yields ErrUniqueViolation.
func (r *UserWriteRepository) Save(ctx context.Context, username, passwordHash string, email, fullName *string) (*models.UserDB, error) {
	const query = `
		INSERT INTO users (username, email, password_hash, full_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING ` + userColumns

	var user models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, username, email, passwordHash, fullName)
	// password_hash is never logged
	logQuery(query, []any{username, email, fullName}, user.UserID, err)

	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// UpdateFullName sets full_name and returns the updated user, or nil if it does not exist.
func (r *UserWriteRepository) UpdateFullName(ctx context.Context, userID int64, fullName *string) (*models.UserDB, error) {
	const query = `
		UPDATE users SET full_name = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var user models.UserDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &user, query, userID, fullName)
	logQuery(query, []any{userID, fullName}, user.UserID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Delete removes a user; their activities go with them through ON DELETE CASCADE.
func (r *UserWriteRepository) Delete(ctx context.Context, userID int64) (bool, error) {
	const query = `DELETE FROM users WHERE id = $1`

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, userID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, []any{userID}, rowsAffected, err)

	return rowsAffected > 0, err
}
