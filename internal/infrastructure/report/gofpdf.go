package report

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// PDFRenderer draws reports natively with gofpdf.
type PDFRenderer struct {
	compress bool
}

// NewPDFRenderer creates a gofpdf renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{compress: true}
}

func (r *PDFRenderer) Name() string { return "gofpdf" }

type column struct {
	title string
	width float64
	align string
}

var accessionColumns = []column{
	{"Acc. No", 24, "L"},
	{"Book", 58, "L"},
	{"Author", 36, "L"},
	{"Publication", 36, "L"},
	{"Language", 24, "L"},
	{"Rate", 22, "R"},
	{"Status", 24, "L"},
	{"Issued To", 33, "L"},
}

func (r *PDFRenderer) newDoc(orientation string) *gofpdf.Fpdf {
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetMargins(10, 12, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 8, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	return pdf
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func header(pdf *gofpdf.Fpdf, cols []column) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	for _, c := range cols {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
}

func (r *PDFRenderer) Accession(ctx context.Context, rep *AccessionReport) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := r.newDoc("L")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 8, tr(rep.Title), "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(rep.Subtitle), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 6, "Generated "+rep.GeneratedAt.Format("02-01-2006 15:04"), "", 1, "R", false, 0, "")
		header(pdf, accessionColumns)
	})
	pdf.AddPage()

	if len(rep.Rows) == 0 {
		pdf.CellFormat(0, 8, "No copies found.", "1", 1, "C", false, 0, "")
		return output(pdf)
	}

	for _, row := range rep.Rows {
		cells := []string{
			row.AccessionNo, row.BookName, row.Author, row.Publication,
			row.Language, money(row.Rate), row.Status, row.IssuedTo,
		}
		for i, c := range accessionColumns {
			pdf.CellFormat(c.width, 6, fit(pdf, tr(cells[i]), c.width), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(0, 8, "Total copies: "+strconv.Itoa(len(rep.Rows)), "", 1, "L", false, 0, "")
	return output(pdf)
}

var invoiceColumns = []column{
	{"#", 10, "C"},
	{"Book", 80, "L"},
	{"Acc. No", 30, "L"},
	{"Qty", 15, "R"},
	{"Rate", 27, "R"},
	{"Amount", 28, "R"},
}

func (r *PDFRenderer) StockInvoice(ctx context.Context, inv *StockInvoice) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := r.newDoc("P")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, inv.Title, "", 1, "C", false, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(95, 6, "Invoice No: "+inv.InvoiceNo, "", 0, "L", false, 0, "")
	pdf.CellFormat(95, 6, "Date: "+inv.InvoiceDate.Format("02-01-2006"), "", 1, "R", false, 0, "")
	if inv.LedgerName != "" {
		pdf.CellFormat(0, 6, tr("Ledger: "+inv.LedgerName), "", 1, "L", false, 0, "")
	}
	if inv.LedgerAddress != "" {
		pdf.MultiCell(0, 5, tr(inv.LedgerAddress), "", "L", false)
	}
	if inv.LedgerGSTIN != "" {
		pdf.CellFormat(0, 6, "GSTIN: "+inv.LedgerGSTIN, "", 1, "L", false, 0, "")
	}
	pdf.Ln(3)

	header(pdf, invoiceColumns)
	for i, line := range inv.Lines {
		cells := []string{
			strconv.Itoa(i + 1), line.BookName, line.AccessionNo,
			strconv.Itoa(line.Quantity), money(line.Rate), money(line.Amount),
		}
		for j, c := range invoiceColumns {
			pdf.CellFormat(c.width, 6, fit(pdf, tr(cells[j]), c.width), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	totals := [][2]string{
		{"Bill Total", money(inv.BillTotal)},
		{"Discount (" + percent(inv.DiscountPercent) + ")", money(inv.DiscountAmount)},
		{"Total After Discount", money(inv.TotalAfterDiscount)},
	}
	if inv.ShowGST() {
		totals = append(totals, [2]string{"GST (" + percent(inv.GSTPercent) + ")", money(inv.GSTAmount)})
	}
	totals = append(totals, [2]string{"Grand Total", money(inv.GrandTotal)})

	pdf.Ln(2)
	for i, t := range totals {
		if i == len(totals)-1 {
			pdf.SetFont("Arial", "B", 10)
		}
		pdf.CellFormat(135, 6, t[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(55, 6, t[1], "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 10)
	pdf.MultiCell(0, 5, "Amount in words: "+inv.AmountInWords, "", "L", false)
	if inv.Remarks != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.MultiCell(0, 5, tr("Remarks: "+inv.Remarks), "", "L", false)
	}

	return output(pdf)
}

// fit truncates s so it fits a cell of width w.
func fit(pdf *gofpdf.Fpdf, s string, w float64) string {
	limit := w - 2
	if pdf.GetStringWidth(s) <= limit {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"..") > limit {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + ".."
}
