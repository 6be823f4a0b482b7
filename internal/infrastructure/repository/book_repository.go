package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/entity"
	domainRepo "github.com/sangkips/library-api/internal/domain/repository"
	"gorm.io/gorm"
)

// bookLookupColumns are the foreign keys ReferencedByLookup may check.
var bookLookupColumns = map[string]bool{
	"author_id":      true,
	"publication_id": true,
	"language_id":    true,
	"book_type_id":   true,
}

type bookRepository struct {
	db *gorm.DB
}

// NewBookRepository creates a new book repository
func NewBookRepository(db *gorm.DB) domainRepo.BookRepository {
	return &bookRepository{db: db}
}

func (r *bookRepository) preload(db *gorm.DB) *gorm.DB {
	return db.Preload("Author").Preload("Publication").Preload("Language").Preload("BookType")
}

func (r *bookRepository) Create(ctx context.Context, book *entity.Book) error {
	return r.db.WithContext(ctx).Create(book).Error
}

func (r *bookRepository) CreateBatch(ctx context.Context, books []entity.Book) error {
	if len(books) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(books, 100).Error
}

func (r *bookRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Book, error) {
	var book entity.Book
	err := r.preload(r.db.WithContext(ctx)).First(&book, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &book, err
}

// GetByIDs retrieves multiple books by their IDs in a single query
func (r *bookRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Book, error) {
	if len(ids) == 0 {
		return []entity.Book{}, nil
	}
	var books []entity.Book
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&books).Error
	return books, err
}

func (r *bookRepository) Update(ctx context.Context, book *entity.Book) error {
	return r.db.WithContext(ctx).Omit("Author", "Publication", "Language", "BookType").Save(book).Error
}

func (r *bookRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Book{}, "id = ?", id).Error
}

func (r *bookRepository) List(ctx context.Context, params *domainRepo.BookFilterParams) ([]entity.Book, int64, error) {
	var books []entity.Book
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Book{})

	if params.Search != "" {
		query = query.Where("name ILIKE ? OR isbn ILIKE ?", "%"+params.Search+"%", "%"+params.Search+"%")
	}
	if params.AuthorID != nil {
		query = query.Where("author_id = ?", *params.AuthorID)
	}
	if params.PublicationID != nil {
		query = query.Where("publication_id = ?", *params.PublicationID)
	}
	if params.LanguageID != nil {
		query = query.Where("language_id = ?", *params.LanguageID)
	}
	if params.BookTypeID != nil {
		query = query.Where("book_type_id = ?", *params.BookTypeID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := r.preload(query).
		Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("name ASC").
		Find(&books).Error

	return books, total, err
}

func (r *bookRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Book{}).Count(&total).Error
	return total, err
}

func (r *bookRepository) ReferencedByLookup(ctx context.Context, column string, id uuid.UUID) (bool, error) {
	if !bookLookupColumns[column] {
		return false, errors.New("unknown book lookup column " + column)
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Book{}).
		Where(column+" = ?", id).
		Limit(1).
		Count(&count).Error
	return count > 0, err
}
