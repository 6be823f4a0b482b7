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

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) domainRepo.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, ledger *entity.Ledger) error {
	return r.db.WithContext(ctx).Create(ledger).Error
}

func (r *ledgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Ledger, error) {
	var ledger entity.Ledger
	err := r.db.WithContext(ctx).First(&ledger, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ledger, err
}

func (r *ledgerRepository) GetByName(ctx context.Context, name string) (*entity.Ledger, error) {
	var ledger entity.Ledger
	err := r.db.WithContext(ctx).First(&ledger, "LOWER(name) = LOWER(?)", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ledger, err
}

func (r *ledgerRepository) Update(ctx context.Context, ledger *entity.Ledger) error {
	return r.db.WithContext(ctx).Save(ledger).Error
}

func (r *ledgerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Ledger{}, "id = ?", id).Error
}

func (r *ledgerRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Ledger, int64, error) {
	var ledgers []entity.Ledger
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Ledger{})
	if search != "" {
		query = query.Where("name ILIKE ? OR phone ILIKE ? OR gstin ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("name ASC").
		Find(&ledgers).Error

	return ledgers, total, err
}

func (r *ledgerRepository) HasStock(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Stock{}).Where("ledger_id = ?", id).Limit(1).Count(&count).Error
	return count > 0, err
}

type memberRepository struct {
	db *gorm.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *gorm.DB) domainRepo.MemberRepository {
	return &memberRepository{db: db}
}

func (r *memberRepository) Create(ctx context.Context, member *entity.Member) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *memberRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	var member entity.Member
	err := r.db.WithContext(ctx).First(&member, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

func (r *memberRepository) GetByUsername(ctx context.Context, username string) (*entity.Member, error) {
	var member entity.Member
	err := r.db.WithContext(ctx).First(&member, "username = ?", username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &member, err
}

func (r *memberRepository) Update(ctx context.Context, member *entity.Member) error {
	return r.db.WithContext(ctx).Save(member).Error
}

func (r *memberRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Member{}, "id = ?", id).Error
}

func (r *memberRepository) List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Member, int64, error) {
	var members []entity.Member
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.Member{})
	if search != "" {
		query = query.Where("username ILIKE ? OR name ILIKE ? OR phone ILIKE ?",
			"%"+search+"%", "%"+search+"%", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("username ASC").
		Find(&members).Error

	return members, total, err
}

func (r *memberRepository) HasCirculation(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Circulation{}).Where("member_id = ?", id).Limit(1).Count(&count).Error
	return count > 0, err
}
