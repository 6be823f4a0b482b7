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

// ScrapService writes copies off the catalogue
type ScrapService struct {
	stockRepo  repository.StockRepository
	copyRepo   repository.BookCopyRepository
	ledgerRepo repository.LedgerRepository
	sequences  *SequenceService
	metrics    *metrics.Metrics
}

// NewScrapService creates a new scrap service
func NewScrapService(
	stockRepo repository.StockRepository,
	copyRepo repository.BookCopyRepository,
	ledgerRepo repository.LedgerRepository,
	sequences *SequenceService,
	m *metrics.Metrics,
) *ScrapService {
	return &ScrapService{
		stockRepo:  stockRepo,
		copyRepo:   copyRepo,
		ledgerRepo: ledgerRepo,
		sequences:  sequences,
		metrics:    m,
	}
}

// ScrapInput represents the create scrap input. Blank accession numbers
// are skipped.
type ScrapInput struct {
	InvoiceNo       string
	InvoiceDate     time.Time
	LedgerID        *uuid.UUID
	DiscountPercent billing.Field
	Remarks         *string
	AccessionNos    []string
}

// resolveCopies looks up each typed accession number and checks it can be
// scrapped. Errors are reported against the row they were typed on.
func (s *ScrapService) resolveCopies(ctx context.Context, accessionNos []string) ([]entity.BookCopy, error) {
	type row struct {
		index int
		no    string
	}
	rows := make([]row, 0, len(accessionNos))
	numbers := make([]string, 0, len(accessionNos))
	for i, no := range accessionNos {
		if no = strings.TrimSpace(no); no != "" {
			rows = append(rows, row{i, no})
			numbers = append(numbers, no)
		}
	}
	if len(rows) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{
			Field:   "accession_nos",
			Message: "At least one accession number is required",
		}})
	}

	found, err := s.copyRepo.GetByAccessionNos(ctx, numbers)
	if err != nil {
		return nil, fmt.Errorf("failed to load copies: %w", err)
	}
	byNo := make(map[string]entity.BookCopy, len(found))
	for _, c := range found {
		byNo[c.AccessionNo] = c
	}

	var errs fieldErrors
	seen := make(map[string]bool, len(rows))
	copies := make([]entity.BookCopy, 0, len(rows))
	for _, r := range rows {
		field := fmt.Sprintf("accession_nos[%d]", r.index)
		c, ok := byNo[r.no]
		switch {
		case seen[r.no]:
			errs.add(field, "Accession number %s is listed twice", r.no)
		case !ok:
			errs.add(field, "Accession number %s not found", r.no)
		case !c.IsAvailable():
			errs.add(field, "Copy %s is %s", r.no, c.Status)
		default:
			copies = append(copies, c)
		}
		seen[r.no] = true
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return copies, nil
}

// CreateScrap records a scrap note and marks its copies Scrapped. Each row
// is valued at its copy's rate and totals are rounded to cents.
func (s *ScrapService) CreateScrap(ctx context.Context, input *ScrapInput) (*entity.Stock, error) {
	if input.LedgerID != nil {
		ledger, err := s.ledgerRepo.GetByID(ctx, *input.LedgerID)
		if err != nil {
			return nil, fmt.Errorf("failed to load ledger: %w", err)
		}
		if ledger == nil {
			return nil, apperror.NewNotFoundError("Ledger")
		}
	}

	copies, err := s.resolveCopies(ctx, input.AccessionNos)
	if err != nil {
		return nil, err
	}

	invoiceNo := strings.TrimSpace(input.InvoiceNo)
	autoNumber := invoiceNo == ""
	if autoNumber {
		if invoiceNo, err = s.sequences.Peek(ctx, KindScrap); err != nil {
			return nil, err
		}
	} else {
		existing, err := s.stockRepo.GetByInvoiceNo(ctx, enum.StockTypeScrap, invoiceNo)
		if err != nil {
			return nil, fmt.Errorf("failed to check scrap number: %w", err)
		}
		if existing != nil {
			return nil, apperror.NewConflictError("Scrap number already exists")
		}
	}

	items := make([]billing.LineItem, len(copies))
	details := make([]entity.StockDetail, len(copies))
	for i, c := range copies {
		copyID := c.ID
		items[i] = billing.LineItem{Quantity: billing.FieldFromInt(1), Rate: billing.NewField(c.Rate)}
		details[i] = entity.StockDetail{
			BookID:     c.BookID,
			BookCopyID: &copyID,
			Quantity:   1,
			Rate:       c.Rate,
			Amount:     c.Rate,
		}
	}
	totals := billing.Calculator{Rounding: billing.RoundCents}.Totals(items, input.DiscountPercent, billing.Blank())

	var stock *entity.Stock
	for attempt := 1; ; attempt++ {
		stock = &entity.Stock{
			Type:        enum.StockTypeScrap,
			InvoiceNo:   invoiceNo,
			InvoiceDate: input.InvoiceDate,
			LedgerID:    input.LedgerID,
			Remarks:     input.Remarks,
			Details:     append([]entity.StockDetail(nil), details...),
		}
		stock.ApplyTotals(totals)

		err = s.stockRepo.CreateScrap(ctx, stock)
		if err == nil {
			break
		}
		if !autoNumber || !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == numberAttempts {
			return nil, storeError("failed to create scrap", err, "Scrap number already exists")
		}
		invoiceNo = billing.NextDocumentNumber(invoiceNo, s.sequences.prefixes[KindScrap])
	}

	s.sequences.Commit(ctx, KindScrap, invoiceNo)
	s.metrics.DocumentCreated(KindScrap)
	slog.Info("book scrap created", "invoice_no", invoiceNo, "copies", len(copies))

	return s.GetScrap(ctx, stock.ID)
}

// GetScrap retrieves a scrap note by ID
func (s *ScrapService) GetScrap(ctx context.Context, id uuid.UUID) (*entity.Stock, error) {
	stock, err := s.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load scrap: %w", err)
	}
	if stock == nil || stock.Type != enum.StockTypeScrap {
		return nil, apperror.NewNotFoundError("Book scrap")
	}
	return stock, nil
}

// DeleteScrap restores the scrapped copies and removes the note
func (s *ScrapService) DeleteScrap(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetScrap(ctx, id); err != nil {
		return err
	}
	return storeError("failed to delete scrap", s.stockRepo.DeleteScrap(ctx, id), "")
}

// ListScraps returns scrap rows grouped by note, newest note first. Pages
// count groups, not rows.
func (s *ScrapService) ListScraps(ctx context.Context, params *repository.StockFilterParams) (*pagination.PaginatedResult[billing.Group[repository.StockDetailRow]], error) {
	params.Type = enum.StockTypeScrap

	rows, err := s.stockRepo.ListDetailRows(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list scraps: %w", err)
	}

	grouped := billing.GroupBy(rows, func(r repository.StockDetailRow) uuid.UUID { return r.StockID })
	return pagination.Slice(grouped.Groups(), params.Pagination), nil
}
