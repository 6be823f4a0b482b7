package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/billing"
	"github.com/sangkips/library-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Stock is an invoice that moves copies in (purchase) or out (scrap).
type Stock struct {
	ID                 uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Type               enum.StockType  `gorm:"not null;uniqueIndex:idx_stocks_type_invoice" json:"type"`
	InvoiceNo          string          `gorm:"size:100;not null;uniqueIndex:idx_stocks_type_invoice" json:"invoice_no"`
	InvoiceDate        time.Time       `gorm:"type:date;not null" json:"invoice_date"`
	LedgerID           *uuid.UUID      `gorm:"type:uuid;index" json:"ledger_id,omitempty"`
	BillTotal          decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"bill_total"`
	DiscountPercent    decimal.Decimal `gorm:"type:decimal(5,2);default:0" json:"discount_percent"`
	DiscountAmount     decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"discount_amount"`
	TotalAfterDiscount decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"total_after_discount"`
	GSTPercent         decimal.Decimal `gorm:"type:decimal(5,2);default:0;column:gst_percent" json:"gst_percent"`
	GSTAmount          decimal.Decimal `gorm:"type:decimal(15,2);default:0;column:gst_amount" json:"gst_amount"`
	GrandTotal         decimal.Decimal `gorm:"type:decimal(15,2);default:0" json:"grand_total"`
	Remarks            *string         `gorm:"type:text" json:"remarks,omitempty"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Ledger  *Ledger       `gorm:"foreignKey:LedgerID" json:"ledger,omitempty"`
	Details []StockDetail `gorm:"foreignKey:StockID" json:"details,omitempty"`
}

// BeforeCreate generates a UUID before creating a new stock entry
func (s *Stock) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Stock model
func (Stock) TableName() string {
	return "stocks"
}

// ApplyTotals copies computed totals onto the stock header.
// Blank percentages are stored as zero.
func (s *Stock) ApplyTotals(t billing.Totals) {
	s.BillTotal = t.BillTotal
	s.DiscountPercent = t.DiscountPercent.OrZero()
	s.DiscountAmount = t.DiscountAmount
	s.TotalAfterDiscount = t.TotalAfterDiscount
	s.GSTPercent = t.GSTPercent.OrZero()
	s.GSTAmount = t.GSTAmount
	s.GrandTotal = t.GrandTotal
}

// StockDetail is one invoice line. Purchase lines carry a quantity; scrap
// lines name the single copy written off.
type StockDetail struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	StockID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"stock_id"`
	BookID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"book_id"`
	BookCopyID *uuid.UUID      `gorm:"type:uuid;index" json:"book_copy_id,omitempty"`
	Quantity   int             `gorm:"not null" json:"quantity"`
	Rate       decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"rate"`
	Amount     decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"amount"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`

	// Relationships
	Book     *Book     `gorm:"foreignKey:BookID" json:"book,omitempty"`
	BookCopy *BookCopy `gorm:"foreignKey:BookCopyID" json:"book_copy,omitempty"`
}

// BeforeCreate generates a UUID before creating a new stock detail
func (sd *StockDetail) BeforeCreate(tx *gorm.DB) error {
	if sd.ID == uuid.Nil {
		sd.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the StockDetail model
func (StockDetail) TableName() string {
	return "stock_details"
}
