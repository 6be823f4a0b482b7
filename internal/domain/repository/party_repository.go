package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/pkg/pagination"
)

// LedgerRepository defines the interface for ledger data operations
type LedgerRepository interface {
	Create(ctx context.Context, ledger *entity.Ledger) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Ledger, error)
	GetByName(ctx context.Context, name string) (*entity.Ledger, error)
	Update(ctx context.Context, ledger *entity.Ledger) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Ledger, int64, error)
	HasStock(ctx context.Context, id uuid.UUID) (bool, error)
}

// MemberRepository defines the interface for member data operations
type MemberRepository interface {
	Create(ctx context.Context, member *entity.Member) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Member, error)
	GetByUsername(ctx context.Context, username string) (*entity.Member, error)
	Update(ctx context.Context, member *entity.Member) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams, search string) ([]entity.Member, int64, error)
	HasCirculation(ctx context.Context, id uuid.UUID) (bool, error)
}
