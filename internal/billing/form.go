package billing

import (
	"errors"
	"fmt"
)

// DefaultRows is the number of blank rows a new invoice starts with.
const DefaultRows = 5

// ErrRowOutOfRange is returned for row edits past the end of the form.
var ErrRowOutOfRange = errors.New("billing: row index out of range")

// InvoiceForm is the editable state of an invoice. Every edit returns a new
// form and leaves the receiver untouched.
type InvoiceForm struct {
	Items    []LineItem `json:"items"`
	Discount Field      `json:"discount_percent"`
	GST      Field      `json:"gst_percent"`
	Rounding Rounding   `json:"rounding"`
}

// NewInvoiceForm returns a form with DefaultRows blank rows.
func NewInvoiceForm(rounding Rounding) InvoiceForm {
	return InvoiceForm{
		Items:    make([]LineItem, DefaultRows),
		Rounding: rounding,
	}
}

func (f InvoiceForm) withItems(items []LineItem) InvoiceForm {
	f.Items = items
	return f
}

func (f InvoiceForm) copyItems(extra int) []LineItem {
	items := make([]LineItem, len(f.Items), len(f.Items)+extra)
	copy(items, f.Items)
	return items
}

func (f InvoiceForm) checkRow(i int) error {
	if i < 0 || i >= len(f.Items) {
		return fmt.Errorf("%w: %d of %d", ErrRowOutOfRange, i, len(f.Items))
	}
	return nil
}

// AppendRow adds a blank row at the end.
func (f InvoiceForm) AppendRow() InvoiceForm {
	return f.withItems(append(f.copyItems(1), LineItem{}))
}

// RemoveRow drops row i.
func (f InvoiceForm) RemoveRow(i int) (InvoiceForm, error) {
	if err := f.checkRow(i); err != nil {
		return f, err
	}
	items := make([]LineItem, 0, len(f.Items)-1)
	items = append(items, f.Items[:i]...)
	items = append(items, f.Items[i+1:]...)
	return f.withItems(items), nil
}

// SetItem replaces row i.
func (f InvoiceForm) SetItem(i int, item LineItem) (InvoiceForm, error) {
	if err := f.checkRow(i); err != nil {
		return f, err
	}
	items := f.copyItems(0)
	items[i] = item
	return f.withItems(items), nil
}

// EditName sets the name of row i.
func (f InvoiceForm) EditName(i int, name string) (InvoiceForm, error) {
	if err := f.checkRow(i); err != nil {
		return f, err
	}
	item := f.Items[i]
	item.Name = name
	return f.SetItem(i, item)
}

// EditQuantity applies raw quantity text to row i. Text that is not a
// number blanks the field, which drops the row from the bill total.
func (f InvoiceForm) EditQuantity(i int, text string) (InvoiceForm, error) {
	if err := f.checkRow(i); err != nil {
		return f, err
	}
	item := f.Items[i]
	item.Quantity, _ = ParseField(text)
	return f.SetItem(i, item)
}

// EditRate applies raw rate text to row i, like EditQuantity.
func (f InvoiceForm) EditRate(i int, text string) (InvoiceForm, error) {
	if err := f.checkRow(i); err != nil {
		return f, err
	}
	item := f.Items[i]
	item.Rate, _ = ParseField(text)
	return f.SetItem(i, item)
}

// EditDiscount applies raw discount-percent text. Non-numeric text is ignored.
func (f InvoiceForm) EditDiscount(text string) InvoiceForm {
	f.Discount = f.Discount.Edit(text)
	return f
}

// EditGST applies raw GST-percent text. Non-numeric text is ignored.
func (f InvoiceForm) EditGST(text string) InvoiceForm {
	f.GST = f.GST.Edit(text)
	return f
}

// Totals derives the summary block of the form.
func (f InvoiceForm) Totals() Totals {
	return Calculator{Rounding: f.Rounding}.Totals(f.Items, f.Discount, f.GST)
}
