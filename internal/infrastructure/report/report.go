// Package report turns accession and stock records into printable PDFs.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/sangkips/library-api/internal/config"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/domain/enum"
	"github.com/sangkips/library-api/pkg/words"
	"github.com/shopspring/decimal"
)

// ContentType is the MIME type every renderer produces.
const ContentType = "application/pdf"

// Renderer produces PDF bytes for the report models.
type Renderer interface {
	Name() string
	Accession(ctx context.Context, r *AccessionReport) ([]byte, error)
	StockInvoice(ctx context.Context, inv *StockInvoice) ([]byte, error)
}

// NewRenderer picks the renderer named in config.
func NewRenderer(cfg *config.ReportConfig) (Renderer, error) {
	switch cfg.Renderer {
	case "", "gofpdf":
		return NewPDFRenderer(), nil
	case "chrome":
		return NewChromeRenderer(cfg.ChromePath, cfg.Timeout)
	default:
		return nil, fmt.Errorf("unknown report renderer %q", cfg.Renderer)
	}
}

// AccessionRow is one copy on an accession status report.
type AccessionRow struct {
	AccessionNo string
	BookName    string
	Author      string
	Publication string
	Language    string
	Rate        decimal.Decimal
	Status      string
	IssuedTo    string
}

// AccessionReport lists copies selected by author, publication or language.
type AccessionReport struct {
	Title       string
	Subtitle    string
	GeneratedAt time.Time
	Rows        []AccessionRow
}

// InvoiceLine is one row of a stock invoice.
type InvoiceLine struct {
	BookName    string
	AccessionNo string
	Quantity    int
	Rate        decimal.Decimal
	Amount      decimal.Decimal
}

// StockInvoice is the printable form of a purchase or scrap.
type StockInvoice struct {
	Title              string
	InvoiceNo          string
	InvoiceDate        time.Time
	LedgerName         string
	LedgerAddress      string
	LedgerGSTIN        string
	Lines              []InvoiceLine
	BillTotal          decimal.Decimal
	DiscountPercent    decimal.Decimal
	DiscountAmount     decimal.Decimal
	TotalAfterDiscount decimal.Decimal
	GSTPercent         decimal.Decimal
	GSTAmount          decimal.Decimal
	GrandTotal         decimal.Decimal
	AmountInWords      string
	Remarks            string
}

// ShowGST reports whether the GST rows belong on the invoice.
func (inv *StockInvoice) ShowGST() bool {
	return inv.Title != scrapTitle
}

const (
	purchaseTitle = "Purchase Invoice"
	scrapTitle    = "Book Scrap Note"
)

// NewAccessionReport builds the report model from copies loaded with their
// book relations.
func NewAccessionReport(title, subtitle string, copies []entity.BookCopy, now time.Time) *AccessionReport {
	rows := make([]AccessionRow, 0, len(copies))
	for _, c := range copies {
		row := AccessionRow{
			AccessionNo: c.AccessionNo,
			Rate:        c.Rate,
			Status:      c.Status.String(),
		}
		if b := c.Book; b != nil {
			row.BookName = b.Name
			if b.Author != nil {
				row.Author = b.Author.Name
			}
			if b.Publication != nil {
				row.Publication = b.Publication.Name
			}
			if b.Language != nil {
				row.Language = b.Language.Name
			}
		}
		if c.Status == enum.CopyStatusIssued && c.IssuedTo != nil {
			row.IssuedTo = c.IssuedTo.Username
		}
		rows = append(rows, row)
	}
	return &AccessionReport{Title: title, Subtitle: subtitle, GeneratedAt: now, Rows: rows}
}

// NewStockInvoice builds the invoice model from a stock loaded with its
// ledger, details, books and copies.
func NewStockInvoice(s *entity.Stock) *StockInvoice {
	inv := &StockInvoice{
		Title:              purchaseTitle,
		InvoiceNo:          s.InvoiceNo,
		InvoiceDate:        s.InvoiceDate,
		BillTotal:          s.BillTotal,
		DiscountPercent:    s.DiscountPercent,
		DiscountAmount:     s.DiscountAmount,
		TotalAfterDiscount: s.TotalAfterDiscount,
		GSTPercent:         s.GSTPercent,
		GSTAmount:          s.GSTAmount,
		GrandTotal:         s.GrandTotal,
		AmountInWords:      words.Rupees(s.GrandTotal),
	}
	if s.Type == enum.StockTypeScrap {
		inv.Title = scrapTitle
	}
	if s.Remarks != nil {
		inv.Remarks = *s.Remarks
	}
	if l := s.Ledger; l != nil {
		inv.LedgerName = l.Name
		if l.Address != nil {
			inv.LedgerAddress = *l.Address
		}
		if l.GSTIN != nil {
			inv.LedgerGSTIN = *l.GSTIN
		}
	}
	for _, d := range s.Details {
		line := InvoiceLine{Quantity: d.Quantity, Rate: d.Rate, Amount: d.Amount}
		if d.Book != nil {
			line.BookName = d.Book.Name
		}
		if d.BookCopy != nil {
			line.AccessionNo = d.BookCopy.AccessionNo
		}
		inv.Lines = append(inv.Lines, line)
	}
	return inv
}

// FileName is the download name for an invoice PDF.
func (inv *StockInvoice) FileName() string {
	return fmt.Sprintf("stock-%s.pdf", inv.InvoiceNo)
}

func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func percent(d decimal.Decimal) string {
	return d.String() + "%"
}
