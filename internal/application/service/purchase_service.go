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
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// numberAttempts bounds how often an auto-numbered create is retried after
// losing a race for its number.
const numberAttempts = 3

// Copy limits for one purchase; each unit becomes its own copy row.
const (
	maxCopiesPerLine     = 500
	maxCopiesPerPurchase = 5000
)

// PurchaseService handles purchase invoices and the copies they bring in
type PurchaseService struct {
	stockRepo  repository.StockRepository
	bookRepo   repository.BookRepository
	ledgerRepo repository.LedgerRepository
	sequences  *SequenceService
	metrics    *metrics.Metrics
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService(
	stockRepo repository.StockRepository,
	bookRepo repository.BookRepository,
	ledgerRepo repository.LedgerRepository,
	sequences *SequenceService,
	m *metrics.Metrics,
) *PurchaseService {
	return &PurchaseService{
		stockRepo:  stockRepo,
		bookRepo:   bookRepo,
		ledgerRepo: ledgerRepo,
		sequences:  sequences,
		metrics:    m,
	}
}

// PurchaseLineInput is one purchase row as typed. Rows missing a book,
// quantity or rate are dropped.
type PurchaseLineInput struct {
	BookID   *uuid.UUID
	Quantity billing.Field
	Rate     billing.Field
}

// PurchaseInput represents the create/update purchase input
type PurchaseInput struct {
	InvoiceNo       string
	InvoiceDate     time.Time
	LedgerID        uuid.UUID
	DiscountPercent billing.Field
	GSTPercent      billing.Field
	Remarks         *string
	Lines           []PurchaseLineInput
}

// purchaseLine is a validated row.
type purchaseLine struct {
	index    int
	bookID   uuid.UUID
	quantity int
	rate     decimal.Decimal
}

// validateLines drops incomplete rows and checks the rest.
func (s *PurchaseService) validateLines(ctx context.Context, input *PurchaseInput) ([]purchaseLine, error) {
	var errs fieldErrors
	lines := make([]purchaseLine, 0, len(input.Lines))
	bookIDs := make([]uuid.UUID, 0, len(input.Lines))
	units := 0

	for i, l := range input.Lines {
		if l.BookID == nil || l.Quantity.IsBlank() || l.Rate.IsBlank() {
			continue
		}
		field := fmt.Sprintf("details[%d]", i)
		q := l.Quantity.Value
		if !q.IsInteger() || q.LessThan(decimal.NewFromInt(1)) {
			errs.add(field+".quantity", "Quantity must be a whole number of at least 1")
			continue
		}
		if q.GreaterThan(decimal.NewFromInt(maxCopiesPerLine)) {
			errs.add(field+".quantity", "Quantity cannot exceed %d", maxCopiesPerLine)
			continue
		}
		if l.Rate.Value.IsNegative() {
			errs.add(field+".rate", "Rate cannot be negative")
			continue
		}
		lines = append(lines, purchaseLine{index: i, bookID: *l.BookID, quantity: int(q.IntPart()), rate: l.Rate.Value})
		bookIDs = append(bookIDs, *l.BookID)
		units += int(q.IntPart())
	}
	if units > maxCopiesPerPurchase {
		errs.add("details", "A purchase cannot bring in more than %d copies", maxCopiesPerPurchase)
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, apperror.NewValidationError([]apperror.FieldError{{
			Field:   "details",
			Message: "At least one row with a book, quantity and rate is required",
		}})
	}

	books, err := s.bookRepo.GetByIDs(ctx, bookIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %w", err)
	}
	found := make(map[uuid.UUID]bool, len(books))
	for _, b := range books {
		found[b.ID] = true
	}
	for _, l := range lines {
		if !found[l.bookID] {
			errs.add(fmt.Sprintf("details[%d].book_id", l.index), "Book not found")
		}
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *PurchaseService) checkLedger(ctx context.Context, id uuid.UUID) error {
	ledger, err := s.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	if ledger == nil {
		return apperror.NewNotFoundError("Ledger")
	}
	return nil
}

// buildDetails computes totals and fills stock with its detail rows.
func buildDetails(stock *entity.Stock, lines []purchaseLine, input *PurchaseInput, rounding billing.Rounding) {
	items := make([]billing.LineItem, len(lines))
	stock.Details = make([]entity.StockDetail, len(lines))
	for i, l := range lines {
		items[i] = billing.LineItem{
			Quantity: billing.FieldFromInt(int64(l.quantity)),
			Rate:     billing.NewField(l.rate),
		}
		stock.Details[i] = entity.StockDetail{
			BookID:   l.bookID,
			Quantity: l.quantity,
			Rate:     l.rate,
			Amount:   l.rate.Mul(decimal.NewFromInt(int64(l.quantity))),
		}
	}
	totals := billing.Calculator{Rounding: rounding}.Totals(items, input.DiscountPercent, input.GSTPercent)
	stock.ApplyTotals(totals)
}

// buildCopies creates one copy per purchased unit, numbered from accession.
func buildCopies(lines []purchaseLine, accession []string) []entity.BookCopy {
	copies := make([]entity.BookCopy, 0, len(accession))
	n := 0
	for _, l := range lines {
		for q := 0; q < l.quantity; q++ {
			copies = append(copies, entity.BookCopy{
				BookID:      l.bookID,
				AccessionNo: accession[n],
				Rate:        l.rate,
				Status:      enum.CopyStatusAvailable,
			})
			n++
		}
	}
	return copies
}

func unitCount(lines []purchaseLine) int {
	n := 0
	for _, l := range lines {
		n += l.quantity
	}
	return n
}

// accessionNumbers peeks one accession number per purchased unit.
func (s *PurchaseService) accessionNumbers(ctx context.Context, lines []purchaseLine) ([]string, error) {
	units := unitCount(lines)
	accession, err := s.sequences.PeekN(ctx, KindAccession, units)
	if err != nil {
		return nil, err
	}
	if units <= 0 || len(accession) != units {
		return nil, fmt.Errorf("expected %d accession numbers, got %d", units, len(accession))
	}
	return accession, nil
}

func (s *PurchaseService) checkInvoiceFree(ctx context.Context, invoiceNo string, self uuid.UUID) error {
	existing, err := s.stockRepo.GetByInvoiceNo(ctx, enum.StockTypePurchase, invoiceNo)
	if err != nil {
		return fmt.Errorf("failed to check invoice number: %w", err)
	}
	if existing != nil && existing.ID != self {
		return apperror.NewConflictError("Invoice number already exists")
	}
	return nil
}

// CreatePurchase saves a purchase and its copies. Totals are always
// computed here; a blank invoice number takes the next in sequence.
func (s *PurchaseService) CreatePurchase(ctx context.Context, input *PurchaseInput) (*entity.Stock, error) {
	if err := s.checkLedger(ctx, input.LedgerID); err != nil {
		return nil, err
	}
	lines, err := s.validateLines(ctx, input)
	if err != nil {
		return nil, err
	}

	invoiceNo := strings.TrimSpace(input.InvoiceNo)
	autoNumber := invoiceNo == ""
	if autoNumber {
		if invoiceNo, err = s.sequences.Peek(ctx, KindPurchase); err != nil {
			return nil, err
		}
	} else if err := s.checkInvoiceFree(ctx, invoiceNo, uuid.Nil); err != nil {
		return nil, err
	}

	accession, err := s.accessionNumbers(ctx, lines)
	if err != nil {
		return nil, err
	}

	var stock *entity.Stock
	for attempt := 1; ; attempt++ {
		stock = &entity.Stock{
			Type:        enum.StockTypePurchase,
			InvoiceNo:   invoiceNo,
			InvoiceDate: input.InvoiceDate,
			LedgerID:    &input.LedgerID,
			Remarks:     input.Remarks,
		}
		buildDetails(stock, lines, input, billing.RoundFloorIndependent)
		copies := buildCopies(lines, accession)

		err = s.stockRepo.CreatePurchase(ctx, stock, copies)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) || attempt == numberAttempts {
			return nil, storeError("failed to create purchase", err, "Invoice or accession number already exists")
		}
		slog.Warn("purchase number taken, retrying", "invoice_no", invoiceNo, "attempt", attempt)
		if autoNumber {
			invoiceNo = billing.NextDocumentNumber(invoiceNo, s.sequences.prefixes[KindPurchase])
		}
		accession = s.sequences.after(KindAccession,
			billing.NextDocumentNumber(accession[len(accession)-1], s.sequences.prefixes[KindAccession]),
			len(accession))
	}

	s.sequences.Commit(ctx, KindPurchase, invoiceNo)
	s.sequences.Commit(ctx, KindAccession, accession[len(accession)-1])
	s.metrics.DocumentCreated(KindPurchase)
	slog.Info("purchase created", "invoice_no", invoiceNo, "copies", len(accession))

	return s.GetPurchase(ctx, stock.ID)
}

// UpdatePurchase replaces the header and rows of a purchase. Its copies
// are replaced too, so it is refused once any copy has left the shelf.
func (s *PurchaseService) UpdatePurchase(ctx context.Context, id uuid.UUID, input *PurchaseInput) (*entity.Stock, error) {
	stock, err := s.getPurchase(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkLedger(ctx, input.LedgerID); err != nil {
		return nil, err
	}
	lines, err := s.validateLines(ctx, input)
	if err != nil {
		return nil, err
	}

	if invoiceNo := strings.TrimSpace(input.InvoiceNo); invoiceNo != "" && invoiceNo != stock.InvoiceNo {
		if err := s.checkInvoiceFree(ctx, invoiceNo, stock.ID); err != nil {
			return nil, err
		}
		stock.InvoiceNo = invoiceNo
	}

	accession, err := s.accessionNumbers(ctx, lines)
	if err != nil {
		return nil, err
	}

	stock.InvoiceDate = input.InvoiceDate
	stock.LedgerID = &input.LedgerID
	stock.Ledger = nil
	stock.Remarks = input.Remarks
	buildDetails(stock, lines, input, billing.RoundFloorChained)

	if err := s.stockRepo.ReplacePurchase(ctx, stock, buildCopies(lines, accession)); err != nil {
		return nil, purchaseStoreError("failed to update purchase", err)
	}
	s.sequences.Commit(ctx, KindAccession, accession[len(accession)-1])

	return s.GetPurchase(ctx, stock.ID)
}

func (s *PurchaseService) getPurchase(ctx context.Context, id uuid.UUID) (*entity.Stock, error) {
	stock, err := s.stockRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load purchase: %w", err)
	}
	if stock == nil || stock.Type != enum.StockTypePurchase {
		return nil, apperror.NewNotFoundError("Purchase")
	}
	return stock, nil
}

// GetPurchase retrieves a purchase by ID with ledger and rows
func (s *PurchaseService) GetPurchase(ctx context.Context, id uuid.UUID) (*entity.Stock, error) {
	return s.getPurchase(ctx, id)
}

// DeletePurchase removes a purchase and its copies
func (s *PurchaseService) DeletePurchase(ctx context.Context, id uuid.UUID) error {
	if _, err := s.getPurchase(ctx, id); err != nil {
		return err
	}
	if err := s.stockRepo.DeletePurchase(ctx, id); err != nil {
		return purchaseStoreError("failed to delete purchase", err)
	}
	return nil
}

func purchaseStoreError(op string, err error) error {
	if errors.Is(err, repository.ErrCopyStateChanged) {
		return apperror.NewConflictError("Purchase has copies that are issued or scrapped")
	}
	return storeError(op, err, "Invoice or accession number already exists")
}

// ListPurchases lists purchases with filtering
func (s *PurchaseService) ListPurchases(ctx context.Context, params *repository.StockFilterParams) (*pagination.PaginatedResult[entity.Stock], error) {
	params.Type = enum.StockTypePurchase
	params.Pagination.Validate()

	stocks, total, err := s.stockRepo.List(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}

	pag := pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)
	return pagination.NewPaginatedResult(stocks, pag), nil
}
