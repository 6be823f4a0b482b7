package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/domain/repository"
	"github.com/sangkips/library-api/pkg/apperror"
	"github.com/sangkips/library-api/pkg/pagination"
	"github.com/xuri/excelize/v2"
)

// Lookup service instantiations for each catalogue list.
type (
	BookTypeService    = LookupService[entity.BookType, *entity.BookType]
	AuthorService      = LookupService[entity.BookAuthor, *entity.BookAuthor]
	PublicationService = LookupService[entity.BookPublication, *entity.BookPublication]
	LanguageService    = LookupService[entity.BookLanguage, *entity.BookLanguage]
)

// BookService handles book catalogue operations
type BookService struct {
	bookRepo     repository.BookRepository
	copyRepo     repository.BookCopyRepository
	authors      *AuthorService
	publications *PublicationService
	languages    *LanguageService
	bookTypes    *BookTypeService
}

// NewBookService creates a new book service
func NewBookService(
	bookRepo repository.BookRepository,
	copyRepo repository.BookCopyRepository,
	authors *AuthorService,
	publications *PublicationService,
	languages *LanguageService,
	bookTypes *BookTypeService,
) *BookService {
	return &BookService{
		bookRepo:     bookRepo,
		copyRepo:     copyRepo,
		authors:      authors,
		publications: publications,
		languages:    languages,
		bookTypes:    bookTypes,
	}
}

// BookInput represents the create/update book input
type BookInput struct {
	Name          string
	ISBN          *string
	AuthorID      uuid.UUID
	PublicationID uuid.UUID
	LanguageID    *uuid.UUID
	BookTypeID    *uuid.UUID
}

func (s *BookService) validate(ctx context.Context, input *BookInput) error {
	var errs fieldErrors
	if strings.TrimSpace(input.Name) == "" {
		errs.add("name", "Name is required")
	}
	if err := errs.err(); err != nil {
		return err
	}
	if _, err := s.authors.Get(ctx, input.AuthorID); err != nil {
		return err
	}
	if _, err := s.publications.Get(ctx, input.PublicationID); err != nil {
		return err
	}
	if input.LanguageID != nil {
		if _, err := s.languages.Get(ctx, *input.LanguageID); err != nil {
			return err
		}
	}
	if input.BookTypeID != nil {
		if _, err := s.bookTypes.Get(ctx, *input.BookTypeID); err != nil {
			return err
		}
	}
	return nil
}

func (input *BookInput) apply(book *entity.Book) {
	book.Name = strings.TrimSpace(input.Name)
	book.ISBN = input.ISBN
	book.AuthorID = input.AuthorID
	book.PublicationID = input.PublicationID
	book.LanguageID = input.LanguageID
	book.BookTypeID = input.BookTypeID
}

// CreateBook creates a new book
func (s *BookService) CreateBook(ctx context.Context, input *BookInput) (*entity.Book, error) {
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}
	book := &entity.Book{}
	input.apply(book)
	if err := s.bookRepo.Create(ctx, book); err != nil {
		return nil, storeError("failed to create book", err, "Book already exists")
	}
	return s.GetBook(ctx, book.ID)
}

// GetBook retrieves a book by ID
func (s *BookService) GetBook(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	book, err := s.bookRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load book: %w", err)
	}
	if book == nil {
		return nil, apperror.NewNotFoundError("Book")
	}
	return book, nil
}

// UpdateBook updates a book
func (s *BookService) UpdateBook(ctx context.Context, id uuid.UUID, input *BookInput) (*entity.Book, error) {
	book, err := s.GetBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, input); err != nil {
		return nil, err
	}
	input.apply(book)
	if err := s.bookRepo.Update(ctx, book); err != nil {
		return nil, storeError("failed to update book", err, "Book already exists")
	}
	return s.GetBook(ctx, id)
}

// DeleteBook deletes a book that has no copies
func (s *BookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetBook(ctx, id); err != nil {
		return err
	}
	copies, err := s.copyRepo.CountByBook(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count copies: %w", err)
	}
	if copies > 0 {
		return apperror.NewConflictError("Book has copies and cannot be deleted")
	}
	return storeError("failed to delete book", s.bookRepo.Delete(ctx, id), "")
}

// ListBooks lists books with filtering
func (s *BookService) ListBooks(ctx context.Context, params *repository.BookFilterParams) (*pagination.PaginatedResult[entity.Book], error) {
	params.Pagination.Validate()
	books, total, err := s.bookRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}
	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(books, pag), nil
}

// ListCopies lists physical copies with filtering
func (s *BookService) ListCopies(ctx context.Context, params *repository.CopyFilterParams) (*pagination.PaginatedResult[entity.BookCopy], error) {
	params.Pagination.Validate()
	copies, total, err := s.copyRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list copies: %w", err)
	}
	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(copies, pag), nil
}

// GetCopy retrieves a copy by accession number
func (s *BookService) GetCopy(ctx context.Context, accessionNo string) (*entity.BookCopy, error) {
	c, err := s.copyRepo.GetByAccessionNo(ctx, strings.TrimSpace(accessionNo))
	if err != nil {
		return nil, fmt.Errorf("failed to load copy: %w", err)
	}
	if c == nil {
		return nil, apperror.NewNotFoundError("Copy")
	}
	return c, nil
}

// ImportRowError reports why one spreadsheet row was skipped.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes a book import.
type ImportResult struct {
	Created int              `json:"created"`
	Skipped int              `json:"skipped"`
	Errors  []ImportRowError `json:"errors"`
}

// importColumns is the expected header, case-insensitive.
var importColumns = []string{"name", "isbn", "author", "publication", "language", "book type"}

// ImportBooks reads books from the first sheet of an XLSX workbook with
// the columns Name, ISBN, Author, Publication, Language, Book Type.
// Unknown authors, publications, languages and types are created. Bad
// rows are skipped and reported; the good ones are saved together.
func (s *BookService) ImportBooks(ctx context.Context, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewBadRequestError("File is not a valid XLSX workbook")
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperror.NewBadRequestError("Workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}
	if len(rows) == 0 {
		return nil, apperror.NewBadRequestError("Sheet is empty")
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: []ImportRowError{}}
	books := make([]entity.Book, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rowNo := i + 2
		cell := func(name string) string {
			idx := cols[name]
			if idx < 0 || idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[idx])
		}
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}

		book, msg, err := s.importRow(ctx, cell)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			result.Errors = append(result.Errors, ImportRowError{Row: rowNo, Message: msg})
			result.Skipped++
			continue
		}
		books = append(books, *book)
	}

	if len(books) > 0 {
		if err := s.bookRepo.CreateBatch(ctx, books); err != nil {
			return nil, storeError("failed to import books", err, "Book already exists")
		}
	}
	result.Created = len(books)
	slog.Info("books imported", "created", result.Created, "skipped", result.Skipped)
	return result, nil
}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(importColumns))
	for _, c := range importColumns {
		cols[c] = -1
	}
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(h))
		if _, ok := cols[key]; ok {
			cols[key] = i
		}
	}
	var errs fieldErrors
	for _, required := range []string{"name", "author", "publication"} {
		if cols[required] < 0 {
			errs.add("file", "Missing column %q", required)
		}
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return cols, nil
}

// importRow builds a book from one row. A non-empty message means the row
// is invalid; an error means the import must stop.
func (s *BookService) importRow(ctx context.Context, cell func(string) string) (*entity.Book, string, error) {
	name, authorName, publicationName := cell("name"), cell("author"), cell("publication")
	switch {
	case name == "":
		return nil, "Name is required", nil
	case authorName == "":
		return nil, "Author is required", nil
	case publicationName == "":
		return nil, "Publication is required", nil
	}

	book := &entity.Book{Name: name}
	if isbn := cell("isbn"); isbn != "" {
		book.ISBN = &isbn
	}

	author, err := s.authors.FindOrCreate(ctx, authorName)
	if err != nil {
		return nil, "", err
	}
	book.AuthorID = author.ID

	publication, err := s.publications.FindOrCreate(ctx, publicationName)
	if err != nil {
		return nil, "", err
	}
	book.PublicationID = publication.ID

	if languageName := cell("language"); languageName != "" {
		language, err := s.languages.FindOrCreate(ctx, languageName)
		if err != nil {
			return nil, "", err
		}
		book.LanguageID = &language.ID
	}
	if typeName := cell("book type"); typeName != "" {
		bookType, err := s.bookTypes.FindOrCreate(ctx, typeName)
		if err != nil {
			return nil, "", err
		}
		book.BookTypeID = &bookType.ID
	}
	return book, "", nil
}
