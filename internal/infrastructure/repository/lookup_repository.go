package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/entity"
	domainRepo "github.com/sangkips/library-api/internal/domain/repository"
	"github.com/sangkips/library-api/pkg/pagination"
	"gorm.io/gorm"
)

type lookupRepository[T entity.Lookup] struct {
	db *gorm.DB
}

// NewLookupRepository creates a repository for one of the name-only
// catalogue tables.
func NewLookupRepository[T entity.Lookup](db *gorm.DB) domainRepo.LookupRepository[T] {
	return &lookupRepository[T]{db: db}
}

func (r *lookupRepository[T]) Create(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *lookupRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *lookupRepository[T]) GetByName(ctx context.Context, name string) (*T, error) {
	var item T
	err := r.db.WithContext(ctx).First(&item, "LOWER(name) = LOWER(?)", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *lookupRepository[T]) Update(ctx context.Context, item *T) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *lookupRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	var item T
	return r.db.WithContext(ctx).Delete(&item, "id = ?", id).Error
}

func (r *lookupRepository[T]) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]T, int64, error) {
	var items []T
	var total int64
	var model T

	query := r.db.WithContext(ctx).Model(&model)
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&items).Error

	return items, total, err
}

func (r *lookupRepository[T]) All(ctx context.Context) ([]T, error) {
	var items []T
	err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error
	return items, err
}
