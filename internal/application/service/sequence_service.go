package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sangkips/library-api/internal/billing"
	"github.com/sangkips/library-api/internal/domain/enum"
	"github.com/sangkips/library-api/internal/domain/repository"
	"github.com/sangkips/library-api/pkg/apperror"
)

// Sequence kinds.
const (
	KindPurchase  = "purchase"
	KindScrap     = "scrap"
	KindIssue     = "issue"
	KindReturn    = "return"
	KindAccession = "accession"
)

// LastNumberSource reports the last number actually used for a kind,
// read from the documents themselves.
type LastNumberSource func(ctx context.Context) (string, error)

// SequenceService hands out document numbers. Peek never reserves; the
// number is recorded with Commit once the document is saved.
type SequenceService struct {
	repo     repository.SequenceRepository
	prefixes map[string]string
}

// NewSequenceService creates a new sequence service
func NewSequenceService(repo repository.SequenceRepository, prefixes map[string]string) *SequenceService {
	return &SequenceService{repo: repo, prefixes: prefixes}
}

// Prefix returns the default prefix of kind.
func (s *SequenceService) Prefix(kind string) (string, error) {
	prefix, ok := s.prefixes[kind]
	if !ok {
		return "", apperror.NewBadRequestError(fmt.Sprintf("Unknown sequence kind %q", kind))
	}
	return prefix, nil
}

// Peek returns the number the next document of kind would get.
func (s *SequenceService) Peek(ctx context.Context, kind string) (string, error) {
	prefix, err := s.Prefix(kind)
	if err != nil {
		return "", err
	}
	last, err := s.repo.GetLast(ctx, kind)
	if err != nil {
		return "", fmt.Errorf("failed to read %s sequence: %w", kind, err)
	}
	return billing.NextDocumentNumber(last, prefix), nil
}

// PeekN returns the next n numbers of kind in order.
func (s *SequenceService) PeekN(ctx context.Context, kind string, n int) ([]string, error) {
	if n <= 0 {
		return nil, nil
	}
	first, err := s.Peek(ctx, kind)
	if err != nil {
		return nil, err
	}
	return s.after(kind, first, n), nil
}

// after returns n numbers starting at first.
func (s *SequenceService) after(kind, first string, n int) []string {
	prefix := s.prefixes[kind]
	numbers := make([]string, n)
	numbers[0] = first
	for i := 1; i < n; i++ {
		numbers[i] = billing.NextDocumentNumber(numbers[i-1], prefix)
	}
	return numbers
}

// Commit records number as the last issued for kind. Numbers that do not
// follow the <PREFIX><digits> form are not recorded, so a hand-typed
// invoice number cannot reset the sequence.
func (s *SequenceService) Commit(ctx context.Context, kind, number string) {
	if _, _, ok := billing.ParseDocumentNumber(number); !ok {
		slog.Debug("sequence not advanced for free-form number", "kind", kind, "number", number)
		return
	}
	if err := s.repo.SetLast(ctx, kind, number); err != nil {
		slog.Error("failed to commit sequence", "kind", kind, "number", number, "error", err)
	}
}

// Rebuild resets each kind's last number from its source. Kinds with no
// documents are left untouched.
func (s *SequenceService) Rebuild(ctx context.Context, sources map[string]LastNumberSource) (map[string]string, error) {
	rebuilt := make(map[string]string, len(sources))
	for kind, source := range sources {
		if _, err := s.Prefix(kind); err != nil {
			return rebuilt, err
		}
		last, err := source(ctx)
		if err != nil {
			return rebuilt, fmt.Errorf("failed to read last %s number: %w", kind, err)
		}
		if last == "" {
			continue
		}
		if err := s.repo.SetLast(ctx, kind, last); err != nil {
			return rebuilt, fmt.Errorf("failed to store %s sequence: %w", kind, err)
		}
		rebuilt[kind] = last
	}
	return rebuilt, nil
}

// DocumentSources reads each kind's last number from the saved documents.
func DocumentSources(
	stockRepo repository.StockRepository,
	circulationRepo repository.CirculationRepository,
	copyRepo repository.BookCopyRepository,
) map[string]LastNumberSource {
	return map[string]LastNumberSource{
		KindPurchase: func(ctx context.Context) (string, error) {
			return stockRepo.LastInvoiceNo(ctx, enum.StockTypePurchase)
		},
		KindScrap: func(ctx context.Context) (string, error) {
			return stockRepo.LastInvoiceNo(ctx, enum.StockTypeScrap)
		},
		KindIssue: func(ctx context.Context) (string, error) {
			return circulationRepo.LastDocumentNo(ctx, enum.CirculationTypeIssue)
		},
		KindReturn: func(ctx context.Context) (string, error) {
			return circulationRepo.LastDocumentNo(ctx, enum.CirculationTypeReturn)
		},
		KindAccession: copyRepo.LastAccessionNo,
	}
}
