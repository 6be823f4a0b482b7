package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/domain/enum"
	"github.com/sangkips/library-api/pkg/pagination"
)

// LookupRepository covers the name-only catalogue tables: book types,
// authors, publications and languages.
type LookupRepository[T entity.Lookup] interface {
	Create(ctx context.Context, item *T) error
	GetByID(ctx context.Context, id uuid.UUID) (*T, error)
	GetByName(ctx context.Context, name string) (*T, error)
	Update(ctx context.Context, item *T) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]T, int64, error)
	// All returns every row ordered by name, for dropdowns.
	All(ctx context.Context) ([]T, error)
}

// BookRepository defines the interface for book data operations
type BookRepository interface {
	Create(ctx context.Context, book *entity.Book) error
	CreateBatch(ctx context.Context, books []entity.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error)
	// GetByIDs retrieves multiple books by their IDs in a single query
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Book, error)
	Update(ctx context.Context, book *entity.Book) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *BookFilterParams) ([]entity.Book, int64, error)
	Count(ctx context.Context) (int64, error)
	// ReferencedByLookup reports whether any book points at the lookup row.
	ReferencedByLookup(ctx context.Context, column string, id uuid.UUID) (bool, error)
}

// BookFilterParams contains filtering parameters for book queries
type BookFilterParams struct {
	Pagination    *pagination.PaginationParams
	Search        string
	AuthorID      *uuid.UUID
	PublicationID *uuid.UUID
	LanguageID    *uuid.UUID
	BookTypeID    *uuid.UUID
}

// BookCopyRepository defines the interface for physical copy queries.
// Status changes happen inside the stock and circulation repositories so
// they share a transaction with the document that causes them.
type BookCopyRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.BookCopy, error)
	GetByAccessionNo(ctx context.Context, accessionNo string) (*entity.BookCopy, error)
	// GetByAccessionNos returns the copies found; missing numbers are simply absent.
	GetByAccessionNos(ctx context.Context, accessionNos []string) ([]entity.BookCopy, error)
	List(ctx context.Context, params *CopyFilterParams) ([]entity.BookCopy, int64, error)
	ListIssuedTo(ctx context.Context, memberID uuid.UUID) ([]entity.BookCopy, error)
	ListByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]entity.BookCopy, error)
	CountByBook(ctx context.Context, bookID uuid.UUID) (int64, error)
	// LastAccessionNo returns the most recently created accession number.
	LastAccessionNo(ctx context.Context) (string, error)
	// AccessionReport returns copies with Book, Author, Publication and
	// Language loaded, ordered by accession number.
	AccessionReport(ctx context.Context, filter AccessionFilter) ([]entity.BookCopy, error)
}

// CopyFilterParams contains filtering parameters for copy queries
type CopyFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	BookID     *uuid.UUID
	Status     *enum.CopyStatus
}

// AccessionFilter selects the copies of an accession report. Exactly one
// field is expected to be set.
type AccessionFilter struct {
	AuthorID        *uuid.UUID
	PublicationName string
	LanguageID      *uuid.UUID
}
