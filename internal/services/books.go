package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sbilibin2017/readify/internal/logger"
	"github.com/sbilibin2017/readify/internal/models"
	"github.com/sbilibin2017/readify/internal/repositories"
)

//go:generate mockgen -source=books.go -destination=books_mock.go -package=services

// BookWriter defines write operations for books.
type BookWriter interface {
	Save(ctx context.Context, fields models.BookFields) (*models.BookDB, error)
	SaveIfAbsent(ctx context.Context, fields models.BookFields) (*models.BookDB, error)
}

// BookSearcher queries the external catalog.
type BookSearcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]models.BookFields, error)
}

// SearchCache caches external search results.
type SearchCache interface {
	Get(ctx context.Context, query string, maxResults int) ([]models.BookFields, bool, error)
	Set(ctx context.Context, query string, maxResults int, candidates []models.BookFields) error
}

// BookService manages the local catalog and searches the external one.
type BookService struct {
	resolver *Resolver
	reader   BookReader
	writer   BookWriter
	searcher BookSearcher
	cache    SearchCache
}

// NewBookService creates a new BookService. cache may be nil.
func NewBookService(resolver *Resolver, reader BookReader, writer BookWriter, searcher BookSearcher, cache SearchCache) *BookService {
	return &BookService{
		resolver: resolver,
		reader:   reader,
		writer:   writer,
		searcher: searcher,
		cache:    cache,
	}
}

// Create inserts a book. A taken external id yields ErrBookAlreadyExists.
func (svc *BookService) Create(ctx context.Context, fields models.BookFields) (*models.BookDB, error) {
	fields.ExternalID = nilIfBlank(fields.ExternalID)

	book, err := svc.writer.Save(ctx, fields)
	if errors.Is(err, repositories.ErrUniqueViolation) {
		logger.Log.Errorw("book already exists", "external_id", fields.ExternalID)
		return nil, ErrBookAlreadyExists
	}
	if err != nil {
		logger.Log.Errorw("failed to save book", "title", fields.Title, "err", err)
		return nil, err
	}
	return book, nil
}

// GetOrCreate returns the book already stored under fields.ExternalID, or
// inserts a new one. An existing book is returned unchanged even when the
// other fields differ. Books without an external id, or with a blank one, are
// always inserted.
func (svc *BookService) GetOrCreate(ctx context.Context, fields models.BookFields) (*models.BookDB, bool, error) {
	fields.ExternalID = nilIfBlank(fields.ExternalID)
	if fields.ExternalID == nil {
		book, err := svc.Create(ctx, fields)
		return book, err == nil, err
	}

	externalID := *fields.ExternalID
	existing, err := svc.resolver.FindBookByExternalID(ctx, externalID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	book, err := svc.writer.SaveIfAbsent(ctx, fields)
	if err != nil {
		logger.Log.Errorw("failed to save book", "external_id", externalID, "err", err)
		return nil, false, err
	}
	if book != nil {
		return book, true, nil
	}

	// inserted concurrently between the lookup and the insert
	existing, err = svc.resolver.FindBookByExternalID(ctx, externalID)
	if err != nil {
		return nil, false, err
	}
	if existing == nil {
		logger.Log.Errorw("book vanished after conflicting insert", "external_id", externalID)
		return nil, false, ErrBookNotFound
	}
	return existing, false, nil
}

// Get returns the book with the given id.
func (svc *BookService) Get(ctx context.Context, bookID int64) (*models.BookDB, error) {
	book, err := svc.resolver.FindBookByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if book == nil {
		return nil, ErrBookNotFound
	}
	return book, nil
}

// List returns all books ordered by title.
func (svc *BookService) List(ctx context.Context) ([]models.BookDB, error) {
	books, err := svc.reader.List(ctx)
	if err != nil {
		logger.Log.Errorw("failed to list books", "err", err)
		return nil, err
	}
	return books, nil
}

// Search returns external catalog candidates for query. Candidates are not persisted.
// Cache failures are logged and otherwise ignored.
func (svc *BookService) Search(ctx context.Context, query string, maxResults int) ([]models.BookFields, error) {
	if svc.cache != nil {
		cached, ok, err := svc.cache.Get(ctx, query, maxResults)
		if err != nil {
			logger.Log.Warnw("search cache read failed", "query", query, "err", err)
		}
		if ok {
			return cached, nil
		}
	}

	candidates, err := svc.searcher.Search(ctx, query, maxResults)
	if err != nil {
		logger.Log.Errorw("external search failed", "query", query, "err", err)
		return nil, fmt.Errorf("%w: %v", ErrSearchUnavailable, err)
	}
	if candidates == nil {
		candidates = []models.BookFields{}
	}

	if svc.cache != nil {
		if err := svc.cache.Set(ctx, query, maxResults, candidates); err != nil {
			logger.Log.Warnw("search cache write failed", "query", query, "err", err)
		}
	}

	return candidates, nil
}
