package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/domain/enum"
	domainRepo "github.com/sangkips/library-api/internal/domain/repository"
	"gorm.io/gorm"
)

type bookCopyRepository struct {
	db *gorm.DB
}

// NewBookCopyRepository creates a new book copy repository
func NewBookCopyRepository(db *gorm.DB) domainRepo.BookCopyRepository {
	return &bookCopyRepository{db: db}
}

func (r *bookCopyRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.BookCopy, error) {
	var bc entity.BookCopy
	err := r.db.WithContext(ctx).Preload("Book").Preload("IssuedTo").First(&bc, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bc, err
}

func (r *bookCopyRepository) GetByAccessionNo(ctx context.Context, accessionNo string) (*entity.BookCopy, error) {
	var bc entity.BookCopy
	err := r.db.WithContext(ctx).Preload("Book").Preload("IssuedTo").
		First(&bc, "accession_no = ?", accessionNo).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &bc, err
}

func (r *bookCopyRepository) GetByAccessionNos(ctx context.Context, accessionNos []string) ([]entity.BookCopy, error) {
	if len(accessionNos) == 0 {
		return []entity.BookCopy{}, nil
	}
	var copies []entity.BookCopy
	err := r.db.WithContext(ctx).Preload("Book").
		Where("accession_no IN ?", accessionNos).
		Find(&copies).Error
	return copies, err
}

func (r *bookCopyRepository) List(ctx context.Context, params *domainRepo.CopyFilterParams) ([]entity.BookCopy, int64, error) {
	var copies []entity.BookCopy
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.BookCopy{})

	if params.Search != "" {
		query = query.Where("accession_no ILIKE ?", "%"+params.Search+"%")
	}
	if params.BookID != nil {
		query = query.Where("book_id = ?", *params.BookID)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Book").
		Order("accession_no ASC").
		Find(&copies).Error

	return copies, total, err
}

func (r *bookCopyRepository) ListIssuedTo(ctx context.Context, memberID uuid.UUID) ([]entity.BookCopy, error) {
	var copies []entity.BookCopy
	err := r.db.WithContext(ctx).Preload("Book").
		Where("issued_to_id = ? AND status = ?", memberID, enum.CopyStatusIssued).
		Order("accession_no ASC").
		Find(&copies).Error
	return copies, err
}

func (r *bookCopyRepository) ListByPurchase(ctx context.Context, purchaseID uuid.UUID) ([]entity.BookCopy, error) {
	var copies []entity.BookCopy
	err := r.db.WithContext(ctx).Preload("Book").
		Where("purchase_id = ?", purchaseID).
		Order("accession_no ASC").
		Find(&copies).Error
	return copies, err
}

func (r *bookCopyRepository) CountByBook(ctx context.Context, bookID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.BookCopy{}).Where("book_id = ?", bookID).Count(&total).Error
	return total, err
}

func (r *bookCopyRepository) LastAccessionNo(ctx context.Context) (string, error) {
	var bc entity.BookCopy
	err := r.db.WithContext(ctx).Unscoped().Order("created_at DESC, accession_no DESC").First(&bc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	return bc.AccessionNo, err
}

func (r *bookCopyRepository) AccessionReport(ctx context.Context, filter domainRepo.AccessionFilter) ([]entity.BookCopy, error) {
	var copies []entity.BookCopy

	query := r.db.WithContext(ctx).Model(&entity.BookCopy{}).
		Joins("JOIN books ON books.id = book_copies.book_id AND books.deleted_at IS NULL")

	switch {
	case filter.AuthorID != nil:
		query = query.Where("books.author_id = ?", *filter.AuthorID)
	case filter.PublicationName != "":
		query = query.
			Joins("JOIN book_publications ON book_publications.id = books.publication_id").
			Where("LOWER(book_publications.name) = LOWER(?)", filter.PublicationName)
	case filter.LanguageID != nil:
		query = query.Where("books.language_id = ?", *filter.LanguageID)
	}

	err := query.
		Preload("Book.Author").
		Preload("Book.Publication").
		Preload("Book.Language").
		Preload("IssuedTo").
		Order("book_copies.accession_no ASC").
		Find(&copies).Error
	return copies, err
}
