package billing

import (
	"errors"
	"testing"
)

func TestNewInvoiceForm(t *testing.T) {
	f := NewInvoiceForm(RoundFloorIndependent)
	if len(f.Items) != DefaultRows {
		t.Fatalf("rows = %d, want %d", len(f.Items), DefaultRows)
	}
	for i, item := range f.Items {
		if !item.Quantity.IsBlank() || !item.Rate.IsBlank() || item.Name != "" {
			t.Errorf("row %d not blank: %+v", i, item)
		}
	}
	if !f.Totals().GrandTotal.IsZero() {
		t.Errorf("fresh form grand total = %s", f.Totals().GrandTotal)
	}
}

func TestInvoiceFormEdits(t *testing.T) {
	f := NewInvoiceForm(RoundFloorIndependent)

	var err error
	steps := []func(InvoiceForm) (InvoiceForm, error){
		func(f InvoiceForm) (InvoiceForm, error) { return f.EditName(0, "Go in Action") },
		func(f InvoiceForm) (InvoiceForm, error) { return f.EditQuantity(0, "2") },
		func(f InvoiceForm) (InvoiceForm, error) { return f.EditRate(0, "100") },
		func(f InvoiceForm) (InvoiceForm, error) { return f.EditQuantity(1, "1") },
		func(f InvoiceForm) (InvoiceForm, error) { return f.EditRate(1, "50") },
	}
	for i, step := range steps {
		if f, err = step(f); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}
	f = f.EditDiscount("10").EditGST("5")

	totals := f.Totals()
	assertDecimal(t, "BillTotal", totals.BillTotal, "250")
	assertDecimal(t, "GrandTotal", totals.GrandTotal, "236")
	if f.Items[0].Name != "Go in Action" {
		t.Errorf("name = %q", f.Items[0].Name)
	}
}

func TestInvoiceFormIsImmutable(t *testing.T) {
	base := NewInvoiceForm(RoundFloorIndependent)
	edited, err := base.EditQuantity(0, "3")
	if err != nil {
		t.Fatal(err)
	}
	if !base.Items[0].Quantity.IsBlank() {
		t.Error("EditQuantity mutated the original form")
	}
	if edited.Items[0].Quantity.IsBlank() {
		t.Error("edited form lost the quantity")
	}

	appended := base.AppendRow()
	if len(base.Items) != DefaultRows || len(appended.Items) != DefaultRows+1 {
		t.Errorf("AppendRow: base %d rows, appended %d rows", len(base.Items), len(appended.Items))
	}

	removed, err := edited.RemoveRow(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(removed.Items) != DefaultRows-1 || edited.Items[0].Quantity.IsBlank() {
		t.Error("RemoveRow mutated its receiver")
	}
}

func TestInvoiceFormInvalidInput(t *testing.T) {
	f := NewInvoiceForm(RoundFloorIndependent)
	f, _ = f.EditQuantity(0, "4")
	f, _ = f.EditRate(0, "10")

	// Non-numeric quantity blanks the field and drops the row.
	f, _ = f.EditQuantity(0, "abc")
	if !f.Items[0].Quantity.IsBlank() {
		t.Errorf("quantity = %s, want blank", f.Items[0].Quantity)
	}
	assertDecimal(t, "BillTotal", f.Totals().BillTotal, "0")

	// Leading numeric text is kept.
	f, _ = f.EditQuantity(0, "3pcs")
	assertDecimal(t, "BillTotal", f.Totals().BillTotal, "30")

	// Non-numeric percent leaves the previous value.
	f = f.EditDiscount("10").EditDiscount("ten")
	assertDecimal(t, "Discount", f.Discount.OrZero(), "10")

	if _, err := f.EditRate(DefaultRows, "1"); !errors.Is(err, ErrRowOutOfRange) {
		t.Errorf("EditRate past end: err = %v", err)
	}
	if _, err := f.RemoveRow(-1); !errors.Is(err, ErrRowOutOfRange) {
		t.Errorf("RemoveRow(-1): err = %v", err)
	}
}
