package repositories

import (
	"context"
	_ "embed"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/readify/internal/logger"
)

// ErrUniqueViolation is returned when an insert or update collides with a unique constraint.
var ErrUniqueViolation = errors.New("unique constraint violation")

// UsersEmailKey is the unique constraint on users.email.
const UsersEmailKey = "users_email_key"

const (
	uniqueViolationCode = "23505"
	pairIndexName       = "reading_activity_user_book_key"
)

// UniqueViolationError names the constraint behind an ErrUniqueViolation.
type UniqueViolationError struct {
	Constraint string
}

func (e *UniqueViolationError) Error() string {
	return ErrUniqueViolation.Error() + ": " + e.Constraint
}

func (e *UniqueViolationError) Is(target error) bool {
	return target == ErrUniqueViolation
}

// ViolatedConstraint returns the constraint named by a unique violation, or "".
func ViolatedConstraint(err error) string {
	var uerr *UniqueViolationError
	if errors.As(err, &uerr) {
		return uerr.Constraint
	}
	return ""
}

//go:embed schema.sql
var schema string

// Migrate creates the schema if it does not exist yet.
//
// With uniquePairs set, a unique index on reading_activity(user_id, book_id)
// is created; without it the index is dropped so that duplicate library
// entries can be inserted. If existing duplicates prevent building the index
// the error is logged and the schema is left without it.
func Migrate(ctx context.Context, db *sqlx.DB, uniquePairs bool) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.Log.Errorw("failed to apply schema", "error", err)
		return err
	}

	if !uniquePairs {
		_, err := db.ExecContext(ctx, `DROP INDEX IF EXISTS `+pairIndexName)
		return err
	}

	_, err := db.ExecContext(ctx,
		`CREATE UNIQUE INDEX IF NOT EXISTS `+pairIndexName+` ON reading_activity (user_id, book_id)`)
	if isUniqueViolation(err) {
		logger.Log.Warnw("duplicate library entries exist, unique (user_id, book_id) index not created", "error", err)
		return nil
	}
	return err
}

// TxGetter returns the transaction bound to ctx, or nil.
type TxGetter func(ctx context.Context) *sqlx.Tx

func executor(ctx context.Context, db *sqlx.DB, txGetter TxGetter) sqlx.ExtContext {
	if txGetter != nil {
		if tx := txGetter(ctx); tx != nil {
			return tx
		}
	}
	return db
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode
}

// translate maps driver errors to repository errors.
func translate(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
		return &UniqueViolationError{Constraint: pgErr.ConstraintName}
	}
	return err
}

// logQuery logs a statement on a single line together with its outcome.
func logQuery(query string, args []any, result any, err error) {
	logger.Log.Infow("query",
		"sql", strings.Join(strings.Fields(query), " "),
		"args", args,
		"result", result,
		"error", err,
	)
}
