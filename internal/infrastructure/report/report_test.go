package report

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/sangkips/library-api/internal/config"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func sampleStock() *entity.Stock {
	return &entity.Stock{
		Type:               enum.StockTypePurchase,
		InvoiceNo:          "TIN7",
		InvoiceDate:        time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		BillTotal:          dec("250"),
		DiscountPercent:    dec("10"),
		DiscountAmount:     dec("25"),
		TotalAfterDiscount: dec("225"),
		GSTPercent:         dec("5"),
		GSTAmount:          dec("11"),
		GrandTotal:         dec("236"),
		Ledger:             &entity.Ledger{Name: "City Book House", GSTIN: strPtr("27ABCDE1234F1Z5")},
		Details: []entity.StockDetail{
			{Quantity: 2, Rate: dec("100"), Amount: dec("200"), Book: &entity.Book{Name: "Godan"}},
			{Quantity: 1, Rate: dec("50"), Amount: dec("50"), Book: &entity.Book{Name: "Gitanjali"}},
		},
	}
}

// pdfText extracts the plain text of a rendered document.
func pdfText(t *testing.T, b []byte) string {
	t.Helper()
	r, err := pdf.NewReader(bytes.NewReader(b), int64(len(b)))
	if err != nil {
		t.Fatalf("pdf.NewReader: %v", err)
	}
	if r.NumPage() == 0 {
		t.Fatal("pdf has no pages")
	}
	text, err := r.GetPlainText()
	if err != nil {
		t.Fatalf("GetPlainText: %v", err)
	}
	data, err := io.ReadAll(text)
	if err != nil {
		t.Fatalf("read text: %v", err)
	}
	return string(data)
}

func TestNewStockInvoice(t *testing.T) {
	inv := NewStockInvoice(sampleStock())

	if inv.Title != purchaseTitle {
		t.Errorf("Title = %q", inv.Title)
	}
	if inv.LedgerName != "City Book House" || inv.LedgerGSTIN != "27ABCDE1234F1Z5" {
		t.Errorf("ledger = %q / %q", inv.LedgerName, inv.LedgerGSTIN)
	}
	if len(inv.Lines) != 2 || inv.Lines[0].BookName != "Godan" {
		t.Fatalf("lines = %+v", inv.Lines)
	}
	if inv.AmountInWords != "Two Hundred Thirty Six Rupees Only" {
		t.Errorf("AmountInWords = %q", inv.AmountInWords)
	}
	if !inv.ShowGST() {
		t.Error("purchase invoice should show GST")
	}
	if inv.FileName() != "stock-TIN7.pdf" {
		t.Errorf("FileName = %q", inv.FileName())
	}
}

func TestNewStockInvoiceScrap(t *testing.T) {
	s := sampleStock()
	s.Type = enum.StockTypeScrap
	s.Ledger = nil
	s.Details = []entity.StockDetail{{
		Quantity: 1, Rate: dec("87.98"), Amount: dec("87.98"),
		Book:     &entity.Book{Name: "Godan"},
		BookCopy: &entity.BookCopy{AccessionNo: "ACC12"},
	}}

	inv := NewStockInvoice(s)
	if inv.Title != scrapTitle || inv.ShowGST() {
		t.Errorf("scrap invoice title %q showGST %v", inv.Title, inv.ShowGST())
	}
	if inv.Lines[0].AccessionNo != "ACC12" {
		t.Errorf("AccessionNo = %q", inv.Lines[0].AccessionNo)
	}
}

func TestNewAccessionReport(t *testing.T) {
	member := &entity.Member{Username: "asha"}
	copies := []entity.BookCopy{
		{
			AccessionNo: "ACC1",
			Rate:        dec("120"),
			Status:      enum.CopyStatusIssued,
			IssuedTo:    member,
			Book: &entity.Book{
				Name:        "Godan",
				Author:      &entity.BookAuthor{Name: "Premchand"},
				Publication: &entity.BookPublication{Name: "Rajkamal"},
				Language:    &entity.BookLanguage{Name: "Hindi"},
			},
		},
		{AccessionNo: "ACC2", Status: enum.CopyStatusAvailable, IssuedTo: member},
	}

	rep := NewAccessionReport("Accession Status", "Author: Premchand", copies, time.Now())

	if len(rep.Rows) != 2 {
		t.Fatalf("rows = %d", len(rep.Rows))
	}
	first := rep.Rows[0]
	if first.Author != "Premchand" || first.Publication != "Rajkamal" || first.Language != "Hindi" {
		t.Errorf("first row = %+v", first)
	}
	if first.IssuedTo != "asha" || first.Status != "Issued" {
		t.Errorf("first row issue = %q %q", first.IssuedTo, first.Status)
	}
	if rep.Rows[1].IssuedTo != "" {
		t.Errorf("available copy should not show a borrower, got %q", rep.Rows[1].IssuedTo)
	}
}

func TestPDFRendererStockInvoice(t *testing.T) {
	r := &PDFRenderer{compress: false}

	b, err := r.StockInvoice(context.Background(), NewStockInvoice(sampleStock()))
	if err != nil {
		t.Fatalf("StockInvoice: %v", err)
	}
	if !bytes.HasPrefix(b, []byte("%PDF")) {
		t.Fatal("output is not a PDF")
	}

	text := pdfText(t, b)
	for _, want := range []string{"TIN7", "Godan", "236.00"} {
		if !strings.Contains(text, want) {
			t.Errorf("pdf text missing %q", want)
		}
	}
}

func TestPDFRendererAccession(t *testing.T) {
	r := &PDFRenderer{compress: false}
	rep := &AccessionReport{
		Title:       "Accession Status",
		Subtitle:    "Language: Marathi",
		GeneratedAt: time.Now(),
		Rows: []AccessionRow{
			{AccessionNo: "ACC41", BookName: "Shyamchi Aai", Rate: dec("75"), Status: "Available"},
		},
	}

	b, err := r.Accession(context.Background(), rep)
	if err != nil {
		t.Fatalf("Accession: %v", err)
	}
	text := pdfText(t, b)
	if !strings.Contains(text, "ACC41") {
		t.Error("pdf text missing accession number")
	}
}

func TestPDFRendererEmptyAccession(t *testing.T) {
	r := NewPDFRenderer()
	b, err := r.Accession(context.Background(), &AccessionReport{Title: "Accession Status"})
	if err != nil {
		t.Fatalf("Accession: %v", err)
	}
	if len(b) == 0 {
		t.Fatal("empty output")
	}
}

func TestPDFRendererCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewPDFRenderer().StockInvoice(ctx, NewStockInvoice(sampleStock())); err == nil {
		t.Fatal("expected context error")
	}
}

func TestChromeTemplates(t *testing.T) {
	html, err := renderHTML("invoice.html", NewStockInvoice(sampleStock()))
	if err != nil {
		t.Fatalf("invoice.html: %v", err)
	}
	for _, want := range []string{"TIN7", "15-01-2024", "236.00", "GST (5%)", "City Book House"} {
		if !strings.Contains(html, want) {
			t.Errorf("invoice html missing %q", want)
		}
	}

	html, err = renderHTML("accession.html", &AccessionReport{Title: "Accession Status", GeneratedAt: time.Now()})
	if err != nil {
		t.Fatalf("accession.html: %v", err)
	}
	if !strings.Contains(html, "No copies found.") {
		t.Error("empty accession report should say so")
	}
}

func TestNewRenderer(t *testing.T) {
	tests := []struct {
		renderer string
		want     string
		wantErr  bool
	}{
		{"", "gofpdf", false},
		{"gofpdf", "gofpdf", false},
		{"chrome", "chrome", false},
		{"wkhtml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.renderer, func(t *testing.T) {
			r, err := NewRenderer(&config.ReportConfig{Renderer: tt.renderer})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewRenderer: %v", err)
			}
			if r.Name() != tt.want {
				t.Errorf("Name = %q, want %q", r.Name(), tt.want)
			}
		})
	}
}
