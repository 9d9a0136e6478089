package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/readify/internal/models"
)

const activityColumns = `id, user_id, book_id, status, progress, is_favorite, date_added`

const activityJoinSelect = `
	SELECT a.id, a.user_id, a.book_id, a.status, a.progress, a.is_favorite, a.date_added,
	       b.id AS "book.id", b.title AS "book.title", b.author AS "book.author",
	       b.description AS "book.description", b.cover_image AS "book.cover_image",
	       b.category AS "book.category", b.external_id AS "book.external_id",
	       b.created_at AS "book.created_at"
	FROM reading_activity a
	JOIN books b ON b.id = a.book_id`

// ActivityReadRepository handles library entry lookups
type ActivityReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewActivityReadRepository(db *sqlx.DB, txGetter TxGetter) *ActivityReadRepository {
	return &ActivityReadRepository{db: db, txGetter: txGetter}
}

func (r *ActivityReadRepository) getOne(ctx context.Context, query string, args ...any) (*models.ActivityDB, error) {
	var activity models.ActivityDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &activity, query, args...)
	logQuery(query, args, activity.ActivityID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

func (r *ActivityReadRepository) list(ctx context.Context, query string, args ...any) ([]models.ActivityDB, error) {
	activities := []models.ActivityDB{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &activities, query, args...)
	logQuery(query, args, len(activities), err)

	return activities, err
}

// GetByID returns the activity with its book, or nil if there is none.
func (r *ActivityReadRepository) GetByID(ctx context.Context, activityID int64) (*models.ActivityDB, error) {
	return r.getOne(ctx, activityJoinSelect+` WHERE a.id = $1`, activityID)
}

// GetByUserAndBook returns the oldest activity linking the user and the book, or nil.
func (r *ActivityReadRepository) GetByUserAndBook(ctx context.Context, userID, bookID int64) (*models.ActivityDB, error) {
	return r.getOne(ctx, activityJoinSelect+` WHERE a.user_id = $1 AND a.book_id = $2 ORDER BY a.id LIMIT 1`, userID, bookID)
}

// ListByUser returns the user's library in insertion order.
func (r *ActivityReadRepository) ListByUser(ctx context.Context, userID int64) ([]models.ActivityDB, error) {
	return r.list(ctx, activityJoinSelect+` WHERE a.user_id = $1 ORDER BY a.id`, userID)
}

// ListRecent returns the most recently added activities across all users.
func (r *ActivityReadRepository) ListRecent(ctx context.Context, limit int) ([]models.ActivityDB, error) {
	return r.list(ctx, activityJoinSelect+` ORDER BY a.date_added DESC, a.id DESC LIMIT $1`, limit)
}

// ActivityWriteRepository handles library entry writes
type ActivityWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewActivityWriteRepository(db *sqlx.DB, txGetter TxGetter) *ActivityWriteRepository {
	return &ActivityWriteRepository{db: db, txGetter: txGetter}
}

// LockUser takes a row lock on the user until the surrounding transaction ends,
// serialising concurrent library changes for that user.
func (r *ActivityWriteRepository) LockUser(ctx context.Context, userID int64) error {
	const query = `SELECT id FROM users WHERE id = $1 FOR UPDATE`

	var id int64
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &id, query, userID)
	logQuery(query, []any{userID}, id, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}

// Save inserts an activity. When the (user_id, book_id) index exists a
// duplicate pair yields ErrUniqueViolation.
func (r *ActivityWriteRepository) Save(ctx context.Context, userID, bookID int64, status string, progress int, isFavorite bool) (*models.ActivityDB, error) {
	const query = `
		INSERT INTO reading_activity (user_id, book_id, status, progress, is_favorite, date_added)
		VALUES ($1, $2, $3, $4, $5, NOW())
		RETURNING ` + activityColumns

	args := []any{userID, bookID, status, progress, isFavorite}
	var activity models.ActivityDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &activity, query, args...)
	logQuery(query, args, activity.ActivityID, err)

	if err != nil {
		return nil, translate(err)
	}
	return &activity, nil
}

// Update persists status, progress and is_favorite of an existing activity.
// It reports whether the row still existed.
func (r *ActivityWriteRepository) Update(ctx context.Context, activity *models.ActivityDB) (bool, error) {
	const query = `
		UPDATE reading_activity
		SET status = $2, progress = $3, is_favorite = $4
		WHERE id = $1`

	args := []any{activity.ActivityID, activity.Status, activity.Progress, activity.IsFavorite}
	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, args...)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, args, rowsAffected, err)

	return rowsAffected > 0, err
}

// Delete removes an activity and reports whether it existed.
func (r *ActivityWriteRepository) Delete(ctx context.Context, activityID int64) (bool, error) {
	const query = `DELETE FROM reading_activity WHERE id = $1`

	res, err := executor(ctx, r.db, r.txGetter).ExecContext(ctx, query, activityID)
	var rowsAffected int64
	if res != nil {
		rowsAffected, _ = res.RowsAffected()
	}
	logQuery(query, []any{activityID}, rowsAffected, err)

	return rowsAffected > 0, err
}
