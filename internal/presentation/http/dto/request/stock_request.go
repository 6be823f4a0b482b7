package request

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/application/service"
	"github.com/sangkips/library-api/internal/billing"
	"github.com/sangkips/library-api/pkg/apperror"
)

// PurchaseDetailRequest is one purchase row. Incomplete rows are ignored.
type PurchaseDetailRequest struct {
	BookID   *uuid.UUID    `json:"book_id"`
	Quantity billing.Field `json:"quantity"`
	Rate     billing.Field `json:"rate"`
}

// PurchaseRequest represents a purchase create/update request. Totals sent
// by the client are not read; they are recomputed on save.
type PurchaseRequest struct {
	InvoiceNo       string                  `json:"invoice_no" binding:"max=100"`
	InvoiceDate     Date                    `json:"invoice_date"`
	LedgerID        uuid.UUID               `json:"ledger_id"`
	DiscountPercent billing.Field           `json:"discount_percent"`
	GSTPercent      billing.Field           `json:"gst_percent"`
	Remarks         *string                 `json:"remarks"`
	Details         []PurchaseDetailRequest `json:"details"`
}

// Validate checks the header fields the binding tags cannot.
func (r *PurchaseRequest) Validate() error {
	var errs []apperror.FieldError
	if r.InvoiceDate.IsZero() {
		errs = append(errs, apperror.FieldError{Field: "invoice_date", Message: "Invoice date is required"})
	}
	if r.LedgerID == uuid.Nil {
		errs = append(errs, apperror.FieldError{Field: "ledger_id", Message: "Ledger is required"})
	}
	errs = append(errs, percentErrors("discount_percent", r.DiscountPercent)...)
	errs = append(errs, percentErrors("gst_percent", r.GSTPercent)...)
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// ToInput converts the request to service input
func (r *PurchaseRequest) ToInput() *service.PurchaseInput {
	lines := make([]service.PurchaseLineInput, len(r.Details))
	for i, d := range r.Details {
		lines[i] = service.PurchaseLineInput{BookID: d.BookID, Quantity: d.Quantity, Rate: d.Rate}
	}
	return &service.PurchaseInput{
		InvoiceNo:       r.InvoiceNo,
		InvoiceDate:     r.InvoiceDate.Time,
		LedgerID:        r.LedgerID,
		DiscountPercent: r.DiscountPercent,
		GSTPercent:      r.GSTPercent,
		Remarks:         r.Remarks,
		Lines:           lines,
	}
}

// ScrapDetailRequest names one copy to scrap.
type ScrapDetailRequest struct {
	AccessionNo string `json:"accession_no"`
}

// ScrapRequest represents a book scrap request
type ScrapRequest struct {
	InvoiceNo       string               `json:"invoice_no" binding:"max=100"`
	InvoiceDate     Date                 `json:"invoice_date"`
	LedgerID        *uuid.UUID           `json:"ledger_id"`
	DiscountPercent billing.Field        `json:"discount_percent"`
	Remarks         *string              `json:"remarks"`
	Details         []ScrapDetailRequest `json:"details"`
}

// Validate checks the header fields
func (r *ScrapRequest) Validate() error {
	var errs []apperror.FieldError
	if r.InvoiceDate.IsZero() {
		errs = append(errs, apperror.FieldError{Field: "invoice_date", Message: "Date is required"})
	}
	errs = append(errs, percentErrors("discount_percent", r.DiscountPercent)...)
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// ToInput converts the request to service input
func (r *ScrapRequest) ToInput() *service.ScrapInput {
	nos := make([]string, len(r.Details))
	for i, d := range r.Details {
		nos[i] = d.AccessionNo
	}
	return &service.ScrapInput{
		InvoiceNo:       r.InvoiceNo,
		InvoiceDate:     r.InvoiceDate.Time,
		LedgerID:        r.LedgerID,
		DiscountPercent: r.DiscountPercent,
		Remarks:         r.Remarks,
		AccessionNos:    nos,
	}
}

// CirculationRequest represents an issue or return request
type CirculationRequest struct {
	DocumentNo   string    `json:"document_no" binding:"max=100"`
	Date         Date      `json:"date"`
	MemberID     uuid.UUID `json:"member_id"`
	AccessionNos []string  `json:"accession_nos"`
}

// Validate checks the header fields
func (r *CirculationRequest) Validate() error {
	var errs []apperror.FieldError
	if r.Date.IsZero() {
		errs = append(errs, apperror.FieldError{Field: "date", Message: "Date is required"})
	}
	if r.MemberID == uuid.Nil {
		errs = append(errs, apperror.FieldError{Field: "member_id", Message: "Member is required"})
	}
	if len(errs) > 0 {
		return apperror.NewValidationError(errs)
	}
	return nil
}

// ToInput converts the request to service input
func (r *CirculationRequest) ToInput() *service.CirculationInput {
	return &service.CirculationInput{
		DocumentNo:   r.DocumentNo,
		Date:         r.Date.Time,
		MemberID:     r.MemberID,
		AccessionNos: r.AccessionNos,
	}
}

func percentErrors(field string, f billing.Field) []apperror.FieldError {
	if f.IsBlank() {
		return nil
	}
	if f.Value.IsNegative() || f.Value.GreaterThan(hundred) {
		return []apperror.FieldError{{Field: field, Message: fmt.Sprintf("%s must be between 0 and 100", f.Value)}}
	}
	return nil
}
