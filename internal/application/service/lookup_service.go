package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/domain/repository"
	"github.com/sangkips/library-api/pkg/apperror"
	"github.com/sangkips/library-api/pkg/pagination"
)

// LookupService manages one of the name-only catalogue lists (book types,
// authors, publications, languages).
type LookupService[T entity.Lookup, P entity.LookupRow[T]] struct {
	repo     repository.LookupRepository[T]
	bookRepo repository.BookRepository
	column   string
	label    string
}

// NewLookupService creates a lookup service. column is the books foreign
// key that references the list; label names it in messages.
func NewLookupService[T entity.Lookup, P entity.LookupRow[T]](
	repo repository.LookupRepository[T],
	bookRepo repository.BookRepository,
	column, label string,
) *LookupService[T, P] {
	return &LookupService[T, P]{repo: repo, bookRepo: bookRepo, column: column, label: label}
}

// Label is the display name of the list, e.g. "Author".
func (s *LookupService[T, P]) Label() string {
	return s.label
}

func (s *LookupService[T, P]) checkName(ctx context.Context, name string, self uuid.UUID) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "Name is required"}})
	}
	existing, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to check %s name: %w", s.label, err)
	}
	if existing != nil && P(existing).GetID() != self {
		return "", apperror.NewConflictError(s.label + " already exists")
	}
	return name, nil
}

// Create adds a new entry
func (s *LookupService[T, P]) Create(ctx context.Context, name string) (*T, error) {
	name, err := s.checkName(ctx, name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	item := new(T)
	P(item).SetName(name)
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, storeError("failed to create "+s.label, err, s.label+" already exists")
	}
	return item, nil
}

// Get retrieves an entry by ID
func (s *LookupService[T, P]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", s.label, err)
	}
	if item == nil {
		return nil, apperror.NewNotFoundError(s.label)
	}
	return item, nil
}

// FindOrCreate returns the entry named name, creating it if needed.
func (s *LookupService[T, P]) FindOrCreate(ctx context.Context, name string) (*T, error) {
	name = strings.TrimSpace(name)
	item, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", s.label, err)
	}
	if item != nil {
		return item, nil
	}
	return s.Create(ctx, name)
}

// Update renames an entry
func (s *LookupService[T, P]) Update(ctx context.Context, id uuid.UUID, name string) (*T, error) {
	item, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err = s.checkName(ctx, name, id)
	if err != nil {
		return nil, err
	}
	P(item).SetName(name)
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, storeError("failed to update "+s.label, err, s.label+" already exists")
	}
	return item, nil
}

// Delete removes an entry no book refers to
func (s *LookupService[T, P]) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	used, err := s.bookRepo.ReferencedByLookup(ctx, s.column, id)
	if err != nil {
		return fmt.Errorf("failed to check %s usage: %w", s.label, err)
	}
	if used {
		return apperror.NewConflictError(s.label + " is used by one or more books")
	}
	return storeError("failed to delete "+s.label, s.repo.Delete(ctx, id), "")
}

// List returns a page of entries
func (s *LookupService[T, P]) List(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[T], error) {
	params.Validate()
	items, total, err := s.repo.List(ctx, params, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.label, err)
	}
	return pagination.NewPaginatedResult(items, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// All returns every entry, for dropdowns
func (s *LookupService[T, P]) All(ctx context.Context) ([]T, error) {
	items, err := s.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.label, err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}
