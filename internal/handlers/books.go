package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/sbilibin2017/readify/internal/models"
	"github.com/sbilibin2017/readify/internal/validation"
)

//go:generate mockgen -source=books.go -destination=books_mock.go -package=handlers

const (
	defaultSearchResults = 8
	maxSearchResults     = 40
)

// BookManager defines the interface that the book service must implement.
type BookManager interface {
	Create(ctx context.Context, fields models.BookFields) (*models.BookDB, error)
	GetOrCreate(ctx context.Context, fields models.BookFields) (*models.BookDB, bool, error)
	Get(ctx context.Context, bookID int64) (*models.BookDB, error)
	List(ctx context.Context) ([]models.BookDB, error)
	Search(ctx context.Context, query string, maxResults int) ([]models.BookFields, error)
}

// BookCreateRequest represents the JSON body for creating or importing a book
// swagger:model BookCreateRequest
type BookCreateRequest struct {
	// Title
	// required: true
	// default: Dune
	Title string `json:"title" validate:"required,max=512"`

	// Comma-separated authors
	// default: Frank Herbert
	Author *string `json:"author" validate:"omitempty,max=256"`

	// Description
	Description *string `json:"description"`

	// Cover image URL
	CoverImage *string `json:"cover_image" validate:"omitempty,max=512"`

	// Category
	// default: Fiction
	Category *string `json:"category" validate:"omitempty,max=128"`

	// Identifier in the external catalog
	// default: B1rnDwAAQBAJ
	ExternalID *string `json:"external_id" validate:"omitempty,max=128"`
}

func (req BookCreateRequest) fields() models.BookFields {
	return models.BookFields{
		ExternalID:  req.ExternalID,
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		CoverImage:  req.CoverImage,
		Category:    req.Category,
	}
}

func decodeBook(v *validation.Validator, r *http.Request) (BookCreateRequest, error) {
	var req BookCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, err
	}
	return req, v.Struct(req)
}

// NewSearchBooksHandler returns an HTTP handler that searches the external catalog.
// @Summary Search books
// @Description Searches Google Books. Results are candidates and are not stored.
// @Tags books
// @Produce json
// @Param q query string true "Search query"
// @Param max_results query int false "Number of results (1-40)" default(8)
// @Success 200 {array} models.BookFields "Candidates"
// @Failure 400 {object} handlers.ErrorResponse "Invalid query"
// @Failure 502 {object} handlers.ErrorResponse "Google Books unavailable"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /books/search [get]
func NewSearchBooksHandler(svc BookManager) http.HandlerFunc {
	v := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if err := v.Var("q", query, "required"); err != nil {
			writeError(w, err)
			return
		}

		maxResults, err := intQuery(r, "max_results", defaultSearchResults)
		if err != nil {
			writeError(w, err)
			return
		}
		if err := v.Var("max_results", maxResults, "gte=1,lte="+strconv.Itoa(maxSearchResults)); err != nil {
			writeError(w, err)
			return
		}

		candidates, err := svc.Search(r.Context(), query, maxResults)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, candidates)
	}
}

// NewListBooksHandler returns an HTTP handler that lists stored books.
// @Summary List books
// @Tags books
// @Produce json
// @Success 200 {array} handlers.BookResponse "Books ordered by title"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /books [get]
func NewListBooksHandler(svc BookManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		books, err := svc.List(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}

		resp := make([]BookResponse, 0, len(books))
		for i := range books {
			resp = append(resp, newBookResponse(&books[i]))
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// NewCreateBookHandler returns an HTTP handler that stores a book.
// @Summary Create a book
// @Tags books
// @Accept json
// @Produce json
// @Param bookCreateRequest body handlers.BookCreateRequest true "Book"
// @Success 201 {object} handlers.BookResponse "Created book"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 409 {object} handlers.ErrorResponse "External id already stored"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /books [post]
func NewCreateBookHandler(svc BookManager) http.HandlerFunc {
	v := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeBook(v, r)
		if err != nil {
			writeDecodeError(w, err)
			return
		}

		book, err := svc.Create(r.Context(), req.fields())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, newBookResponse(book))
	}
}

// NewImportBookHandler returns an HTTP handler that stores a search candidate
// unless a book with the same external id already exists.
// @Summary Import a book
// @Description Returns the stored book for the candidate's external id, creating it when absent.
// @Tags books
// @Accept json
// @Produce json
// @Param bookCreateRequest body handlers.BookCreateRequest true "Search candidate"
// @Success 200 {object} handlers.BookResponse "Existing book"
// @Success 201 {object} handlers.BookResponse "Created book"
// @Failure 400 {object} handlers.ErrorResponse "Invalid request"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /books/import [post]
func NewImportBookHandler(svc BookManager) http.HandlerFunc {
	v := validation.New()

	return func(w http.ResponseWriter, r *http.Request) {
		req, err := decodeBook(v, r)
		if err != nil {
			writeDecodeError(w, err)
			return
		}

		book, created, err := svc.GetOrCreate(r.Context(), req.fields())
		if err != nil {
			writeError(w, err)
			return
		}

		status := http.StatusOK
		if created {
			status = http.StatusCreated
		}
		writeJSON(w, status, newBookResponse(book))
	}
}

// NewGetBookHandler returns an HTTP handler that fetches a stored book.
// @Summary Get a book
// @Tags books
// @Produce json
// @Param bookID path int true "Book ID"
// @Success 200 {object} handlers.BookResponse "Book"
// @Failure 400 {object} handlers.ErrorResponse "Invalid id"
// @Failure 404 {object} handlers.ErrorResponse "Book not found"
// @Failure 500 {object} handlers.ErrorResponse "Internal server error"
// @Router /books/{bookID} [get]
func NewGetBookHandler(svc BookManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookID, err := idParam(r, "bookID")
		if err != nil {
			writeError(w, err)
			return
		}

		book, err := svc.Get(r.Context(), bookID)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, newBookResponse(book))
	}
}
