package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/billing"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/domain/enum"
	"github.com/sangkips/library-api/internal/domain/repository"
	"github.com/sangkips/library-api/pkg/apperror"
	"github.com/sangkips/library-api/pkg/metrics"
	"github.com/sangkips/library-api/pkg/pagination"
	"gorm.io/gorm"
)

// NoOutstandingMessage is reported when a username has nothing on loan.
const NoOutstandingMessage = "This username has no issue details or does not exist."

// CirculationService issues copies to members and takes them back
type CirculationService struct {
	circulationRepo repository.CirculationRepository
	copyRepo        repository.BookCopyRepository
	memberRepo      repository.MemberRepository
	sequences       *SequenceService
	metrics         *metrics.Metrics
}

// NewCirculationService creates a new circulation service
func NewCirculationService(
	circulationRepo repository.CirculationRepository,
	copyRepo repository.BookCopyRepository,
	memberRepo repository.MemberRepository,
	sequences *SequenceService,
	m *metrics.Metrics,
) *CirculationService {
	return &CirculationService{
		circulationRepo: circulationRepo,
		copyRepo:        copyRepo,
		memberRepo:      memberRepo,
		sequences:       sequences,
		metrics:         m,
	}
}

// CirculationInput represents an issue or return
type CirculationInput struct {
	DocumentNo   string
	Date         time.Time
	MemberID     uuid.UUID
	AccessionNos []string
}

func (s *CirculationService) getMember(ctx context.Context, id uuid.UUID) (*entity.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	if member == nil {
		return nil, apperror.NewNotFoundError("Member")
	}
	return member, nil
}

// selectCopies resolves the accession numbers and applies check to each
// copy. check returns a message when the copy cannot be moved.
func (s *CirculationService) selectCopies(ctx context.Context, accessionNos []string, check func(c *entity.BookCopy) string) ([]entity.BookCopy, error) {
	numbers := make([]string, 0, len(accessionNos))
	rows := make([]int, 0, len(accessionNos))
	for i, no := range accessionNos {
		if no = strings.TrimSpace(no); no != "" {
			numbers = append(numbers, no)
			rows = append(rows, i)
		}
	}
	if len(numbers) == 0 {
		return nil, apperror.NewBadRequestError("Select at least one copy")
	}

	found, err := s.copyRepo.GetByAccessionNos(ctx, numbers)
	if err != nil {
		return nil, fmt.Errorf("failed to load copies: %w", err)
	}
	byNo := make(map[string]*entity.BookCopy, len(found))
	for i := range found {
		byNo[found[i].AccessionNo] = &found[i]
	}

	var errs fieldErrors
	seen := make(map[string]bool, len(numbers))
	copies := make([]entity.BookCopy, 0, len(numbers))
	for i, no := range numbers {
		field := fmt.Sprintf("accession_nos[%d]", rows[i])
		c, ok := byNo[no]
		switch {
		case seen[no]:
			errs.add(field, "Accession number %s is listed twice", no)
		case !ok:
			errs.add(field, "Accession number %s not found", no)
		default:
			if msg := check(c); msg != "" {
				errs.add(field, "%s", msg)
			} else {
				copies = append(copies, *c)
			}
		}
		seen[no] = true
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return copies, nil
}

// IssueBooks hands Available copies to a member
func (s *CirculationService) IssueBooks(ctx context.Context, input *CirculationInput) (*entity.Circulation, error) {
	member, err := s.getMember(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}
	copies, err := s.selectCopies(ctx, input.AccessionNos, func(c *entity.BookCopy) string {
		if !c.IsAvailable() {
			return fmt.Sprintf("Copy %s is %s", c.AccessionNo, c.Status)
		}
		return ""
	})
	if err != nil {
		return nil, err
	}
	return s.record(ctx, enum.CirculationTypeIssue, member, input, copies)
}

// ReturnBooks shelves copies that are Issued to the member
func (s *CirculationService) ReturnBooks(ctx context.Context, input *CirculationInput) (*entity.Circulation, error) {
	member, err := s.getMember(ctx, input.MemberID)
	if err != nil {
		return nil, err
	}
	copies, err := s.selectCopies(ctx, input.AccessionNos, func(c *entity.BookCopy) string {
		if c.Status != enum.CopyStatusIssued || c.IssuedToID == nil || *c.IssuedToID != member.ID {
			return fmt.Sprintf("Copy %s is not issued to %s", c.AccessionNo, member.Username)
		}
		return ""
	})
	if err != nil {
		return nil, err
	}
	return s.record(ctx, enum.CirculationTypeReturn, member, input, copies)
}

func (s *CirculationService) record(ctx context.Context, t enum.CirculationType, member *entity.Member, input *CirculationInput, copies []entity.BookCopy) (*entity.Circulation, error) {
	kind := t.SequenceKind()
	documentNo := strings.TrimSpace(input.DocumentNo)
	autoNumber := documentNo == ""

	if autoNumber {
		var err error
		if documentNo, err = s.sequences.Peek(ctx, kind); err != nil {
			return nil, err
		}
	} else {
		existing, err := s.circulationRepo.GetByDocumentNo(ctx, t, documentNo)
		if err != nil {
			return nil, fmt.Errorf("failed to check document number: %w", err)
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Document number already exists")
		}
	}

	entries := make([]entity.CirculationEntry, len(copies))
	for i, c := range copies {
		entries[i] = entity.CirculationEntry{BookID: c.BookID, BookCopyID: c.ID}
	}

	create := s.circulationRepo.CreateIssue
	if t == enum.CirculationTypeReturn {
		create = s.circulationRepo.CreateReturn
	}

	var c *entity.Circulation
	for attempt := 1; ; attempt++ {
		c = &entity.Circulation{
			Type:       t,
			DocumentNo: documentNo,
			Date:       input.Date,
			MemberID:   member.ID,
			Quantity:   len(copies),
			Entries:    append([]entity.CirculationEntry(nil), entries...),
		}
		err := create(ctx, c)
		if err == nil {
			break
		}
		if !autoNumber || !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == numberAttempts {
			return nil, storeError("failed to record "+kind, err, "Document number already exists")
		}
		documentNo = billing.NextDocumentNumber(documentNo, s.sequences.prefixes[kind])
	}

	s.sequences.Commit(ctx, kind, documentNo)
	s.metrics.DocumentCreated(kind)
	slog.Info("circulation recorded", "type", t.String(), "document_no", documentNo, "member", member.Username, "copies", len(copies))

	return s.GetCirculation(ctx, c.ID)
}

// Outstanding lists the copies currently issued to username. An unknown
// username yields an empty list, not an error.
func (s *CirculationService) Outstanding(ctx context.Context, username string) ([]entity.BookCopy, error) {
	member, err := s.memberRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, fmt.Errorf("failed to load member: %w", err)
	}
	if member == nil {
		return []entity.BookCopy{}, nil
	}
	copies, err := s.copyRepo.ListIssuedTo(ctx, member.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list issued copies: %w", err)
	}
	if copies == nil {
		copies = []entity.BookCopy{}
	}
	return copies, nil
}

// GetCirculation retrieves an issue or return by ID
func (s *CirculationService) GetCirculation(ctx context.Context, id uuid.UUID) (*entity.Circulation, error) {
	c, err := s.circulationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load circulation: %w", err)
	}
	if c == nil {
		return nil, apperror.NewNotFoundError("Issue/return")
	}
	return c, nil
}

// DeleteCirculation removes an issue or return and undoes its copy moves
func (s *CirculationService) DeleteCirculation(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCirculation(ctx, id); err != nil {
		return err
	}
	return storeError("failed to delete circulation", s.circulationRepo.Delete(ctx, id), "")
}

// ListCirculations returns entry rows grouped by issue/return, newest
// first. Pages count groups, not rows.
func (s *CirculationService) ListCirculations(ctx context.Context, params *repository.CirculationFilterParams, page *pagination.PaginationParams) (*pagination.PaginatedResult[billing.Group[repository.CirculationEntryRow]], error) {
	rows, err := s.circulationRepo.ListEntryRows(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list circulations: %w", err)
	}

	grouped := billing.GroupBy(rows, func(r repository.CirculationEntryRow) uuid.UUID { return r.CirculationID })
	return pagination.Slice(grouped.Groups(), page), nil
}
