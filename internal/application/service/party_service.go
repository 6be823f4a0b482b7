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

// LedgerService manages the parties books are bought from
type LedgerService struct {
	ledgerRepo repository.LedgerRepository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(ledgerRepo repository.LedgerRepository) *LedgerService {
	return &LedgerService{ledgerRepo: ledgerRepo}
}

// LedgerInput represents the create/update ledger input
type LedgerInput struct {
	Name    string
	Email   *string
	Phone   *string
	Address *string
	GSTIN   *string
}

func (s *LedgerService) checkName(ctx context.Context, name string, self uuid.UUID) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.NewValidationError([]apperror.FieldError{{Field: "name", Message: "Name is required"}})
	}
	existing, err := s.ledgerRepo.GetByName(ctx, name)
	if err != nil {
		return "", fmt.Errorf("failed to check ledger name: %w", err)
	}
	if existing != nil && existing.ID != self {
		return "", apperror.NewConflictError("Ledger name already exists")
	}
	return name, nil
}

// CreateLedger creates a new ledger
func (s *LedgerService) CreateLedger(ctx context.Context, input *LedgerInput) (*entity.Ledger, error) {
	name, err := s.checkName(ctx, input.Name, uuid.Nil)
	if err != nil {
		return nil, err
	}
	ledger := &entity.Ledger{
		Name:    name,
		Email:   input.Email,
		Phone:   input.Phone,
		Address: input.Address,
		GSTIN:   input.GSTIN,
	}
	if err := s.ledgerRepo.Create(ctx, ledger); err != nil {
		return nil, storeError("failed to create ledger", err, "Ledger name already exists")
	}
	return ledger, nil
}

// GetLedger retrieves a ledger by ID
func (s *LedgerService) GetLedger(ctx context.Context, id uuid.UUID) (*entity.Ledger, error) {
	ledger, err := s.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	if ledger == nil {
		return nil, apperror.NewNotFoundError("Ledger")
	}
	return ledger, nil
}

// UpdateLedger updates a ledger
func (s *LedgerService) UpdateLedger(ctx context.Context, id uuid.UUID, input *LedgerInput) (*entity.Ledger, error) {
	ledger, err := s.GetLedger(ctx, id)
	if err != nil {
		return nil, err
	}
	name, err := s.checkName(ctx, input.Name, id)
	if err != nil {
		return nil, err
	}
	ledger.Name = name
	ledger.Email = input.Email
	ledger.Phone = input.Phone
	ledger.Address = input.Address
	ledger.GSTIN = input.GSTIN
	if err := s.ledgerRepo.Update(ctx, ledger); err != nil {
		return nil, storeError("failed to update ledger", err, "Ledger name already exists")
	}
	return ledger, nil
}

// DeleteLedger deletes a ledger with no invoices
func (s *LedgerService) DeleteLedger(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetLedger(ctx, id); err != nil {
		return err
	}
	used, err := s.ledgerRepo.HasStock(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check ledger usage: %w", err)
	}
	if used {
		return apperror.NewConflictError("Ledger has invoices and cannot be deleted")
	}
	return storeError("failed to delete ledger", s.ledgerRepo.Delete(ctx, id), "")
}

// ListLedgers lists ledgers
func (s *LedgerService) ListLedgers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Ledger], error) {
	params.Validate()
	ledgers, total, err := s.ledgerRepo.List(ctx, params, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledgers: %w", err)
	}
	return pagination.NewPaginatedResult(ledgers, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}

// MemberService manages library members
type MemberService struct {
	memberRepo repository.MemberRepository
}

// NewMemberService creates a new member service
func NewMemberService(memberRepo repository.MemberRepository) *MemberService {
	return &MemberService{memberRepo: memberRepo}
}

// MemberInput represents the create/update member input
type MemberInput struct {
	Username string
	Name     string
	Email    *string
	Phone    *string
	Address  *string
}

func (s *MemberService) validate(ctx context.Context, input *MemberInput, self uuid.UUID) error {
	var errs fieldErrors
	if strings.TrimSpace(input.Username) == "" {
		errs.add("username", "Username is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		errs.add("name", "Name is required")
	}
	if err := errs.err(); err != nil {
		return err
	}
	existing, err := s.memberRepo.GetByUsername(ctx, strings.TrimSpace(input.Username))
	if err != nil {
		return fmt.Errorf("failed to check username: %w", err)
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("Username already taken")
	}
	return nil
}

// CreateMember creates a new member
func (s *MemberService) CreateMember(ctx context.Context, input *MemberInput) (*entity.Member, error) {
	if err := s.validate(ctx, input, uuid.Nil); err != nil {
		return nil, err
	}
	member := &entity.Member{
		Username: strings.TrimSpace(input.Username),
		Name:     strings.TrimSpace(input.Name),
		Email:    input.Email,
		Phone:    input.Phone,
		Address:  input.Address,
	}
	if err := s.memberRepo.Create(ctx, member); err != nil {
		return nil, storeError("failed to create member", err, "Username already taken")
	}
	return member, nil
}

// GetMember retrieves a member by ID
func (s *MemberService) GetMember(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	if member == nil {
		return nil, apperror.NewNotFoundError("Member")
	}
	return member, nil
}

// UpdateMember updates a member
func (s *MemberService) UpdateMember(ctx context.Context, id uuid.UUID, input *MemberInput) (*entity.Member, error) {
	member, err := s.GetMember(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, input, id); err != nil {
		return nil, err
	}
	member.Username = strings.TrimSpace(input.Username)
	member.Name = strings.TrimSpace(input.Name)
	member.Email = input.Email
	member.Phone = input.Phone
	member.Address = input.Address
	if err := s.memberRepo.Update(ctx, member); err != nil {
		return nil, storeError("failed to update member", err, "Username already taken")
	}
	return member, nil
}

// DeleteMember deletes a member with no circulation history
func (s *MemberService) DeleteMember(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetMember(ctx, id); err != nil {
		return err
	}
	used, err := s.memberRepo.HasCirculation(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check member history: %w", err)
	}
	if used {
		return apperror.NewConflictError("Member has issue/return history and cannot be deleted")
	}
	return storeError("failed to delete member", s.memberRepo.Delete(ctx, id), "")
}

// ListMembers lists members
func (s *MemberService) ListMembers(ctx context.Context, params *pagination.PaginationParams, search string) (*pagination.PaginatedResult[entity.Member], error) {
	params.Validate()
	members, total, err := s.memberRepo.List(ctx, params, search)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return pagination.NewPaginatedResult(members, pagination.NewPagination(params.Page, params.PerPage, total)), nil
}
