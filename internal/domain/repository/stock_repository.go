package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/domain/enum"
	"github.com/sangkips/library-api/pkg/pagination"
	"github.com/shopspring/decimal"
)

// ErrCopyStateChanged is returned when a copy was no longer in the state a
// write expected, typically because another request moved it first.
var ErrCopyStateChanged = errors.New("book copy state changed")

// StockRepository defines the interface for purchase and scrap invoices.
// Every write that touches copies runs in one transaction.
type StockRepository interface {
	// CreatePurchase inserts the stock with its details and the new copies.
	CreatePurchase(ctx context.Context, stock *entity.Stock, copies []entity.BookCopy) error
	// ReplacePurchase swaps the details and copies of an existing purchase.
	// It fails with ErrCopyStateChanged if any old copy left the shelf.
	ReplacePurchase(ctx context.Context, stock *entity.Stock, copies []entity.BookCopy) error
	// DeletePurchase removes the purchase, its details and its copies.
	// It fails with ErrCopyStateChanged if any copy left the shelf.
	DeletePurchase(ctx context.Context, id uuid.UUID) error
	// CreateScrap inserts the scrap and marks each detail's copy Scrapped.
	// It fails with ErrCopyStateChanged if a copy is not Available.
	CreateScrap(ctx context.Context, stock *entity.Stock) error
	// DeleteScrap restores the scrapped copies and removes the scrap.
	DeleteScrap(ctx context.Context, id uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*entity.Stock, error)
	GetByInvoiceNo(ctx context.Context, stockType enum.StockType, invoiceNo string) (*entity.Stock, error)
	// LastInvoiceNo returns the most recently created invoice number of a type.
	LastInvoiceNo(ctx context.Context, stockType enum.StockType) (string, error)
	List(ctx context.Context, params *StockFilterParams) ([]entity.Stock, int64, error)
	// ListDetailRows returns one flat row per detail, newest stock first.
	ListDetailRows(ctx context.Context, params *StockFilterParams) ([]StockDetailRow, error)
}

// StockFilterParams contains filtering parameters for stock queries
type StockFilterParams struct {
	Type       enum.StockType
	Pagination *pagination.PaginationParams
	Search     string
	LedgerID   *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// StockDetailRow is a denormalized detail line used for grouped listings.
type StockDetailRow struct {
	StockID     uuid.UUID       `json:"stock_id"`
	InvoiceNo   string          `json:"invoice_no"`
	InvoiceDate time.Time       `json:"invoice_date"`
	LedgerName  *string         `json:"ledger_name,omitempty"`
	GrandTotal  decimal.Decimal `json:"grand_total"`
	DetailID    uuid.UUID       `json:"detail_id"`
	BookID      uuid.UUID       `json:"book_id"`
	BookName    string          `json:"book_name"`
	AccessionNo *string         `json:"accession_no,omitempty"`
	Quantity    int             `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}
