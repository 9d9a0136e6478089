package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sbilibin2017/readify/internal/models"
)

const bookColumns = `id, title, author, description, cover_image, category, external_id, created_at`

// BookReadRepository handles book lookups
type BookReadRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewBookReadRepository(db *sqlx.DB, txGetter TxGetter) *BookReadRepository {
	return &BookReadRepository{db: db, txGetter: txGetter}
}

func (r *BookReadRepository) getOne(ctx context.Context, query string, arg any) (*models.BookDB, error) {
	var book models.BookDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &book, query, arg)
	logQuery(query, []any{arg}, book.BookID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetByID returns the book with the given id, or nil if there is none.
func (r *BookReadRepository) GetByID(ctx context.Context, bookID int64) (*models.BookDB, error) {
	return r.getOne(ctx, `SELECT `+bookColumns+` FROM books WHERE id = $1`, bookID)
}

// GetByExternalID returns the book imported from the given catalog record, or nil.
func (r *BookReadRepository) GetByExternalID(ctx context.Context, externalID string) (*models.BookDB, error) {
	return r.getOne(ctx, `SELECT `+bookColumns+` FROM books WHERE external_id = $1`, externalID)
}

// List returns all books ordered by title.
func (r *BookReadRepository) List(ctx context.Context) ([]models.BookDB, error) {
	const query = `SELECT ` + bookColumns + ` FROM books ORDER BY title ASC, id ASC`

	books := []models.BookDB{}
	err := sqlx.SelectContext(ctx, executor(ctx, r.db, r.txGetter), &books, query)
	logQuery(query, nil, len(books), err)

	return books, err
}

// BookWriteRepository handles book writes
type BookWriteRepository struct {
	db       *sqlx.DB
	txGetter TxGetter
}

func NewBookWriteRepository(db *sqlx.DB, txGetter TxGetter) *BookWriteRepository {
	return &BookWriteRepository{db: db, txGetter: txGetter}
}

func bookArgs(f models.BookFields) []any {
	return []any{f.Title, f.Author, f.Description, f.CoverImage, f.Category, f.ExternalID}
}

// Save inserts a book. A duplicate external_id yields ErrUniqueViolation.
func (r *BookWriteRepository) Save(ctx context.Context, fields models.BookFields) (*models.BookDB, error) {
	const query = `
		INSERT INTO books (title, author, description, cover_image, category, external_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		RETURNING ` + bookColumns

	args := bookArgs(fields)
	var book models.BookDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &book, query, args...)
	logQuery(query, args, book.BookID, err)

	if err != nil {
		return nil, translate(err)
	}
	return &book, nil
}

// SaveIfAbsent inserts a book unless its external_id is already taken,
// in which case it returns nil without error.
func (r *BookWriteRepository) SaveIfAbsent(ctx context.Context, fields models.BookFields) (*models.BookDB, error) {
	const query = `
		INSERT INTO books (title, author, description, cover_image, category, external_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (external_id) DO NOTHING
		RETURNING ` + bookColumns

	args := bookArgs(fields)
	var book models.BookDB
	err := sqlx.GetContext(ctx, executor(ctx, r.db, r.txGetter), &book, query, args...)
	logQuery(query, args, book.BookID, err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, translate(err)
	}
	return &book, nil
}
