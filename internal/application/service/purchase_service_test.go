package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/library-api/internal/billing"
	"github.com/sangkips/library-api/internal/domain/entity"
	"github.com/sangkips/library-api/internal/domain/enum"
	"github.com/sangkips/library-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

type purchaseFixture struct {
	store  *memStore
	svc    *PurchaseService
	ledger *entity.Ledger
	novel  *entity.Book
	atlas  *entity.Book
}

func newPurchaseFixture() *purchaseFixture {
	store := newMemStore()
	f := &purchaseFixture{
		store:  store,
		ledger: store.addLedger("City Book House"),
		novel:  store.addBook("Godan"),
		atlas:  store.addBook("School Atlas"),
	}
	f.svc = NewPurchaseService(fakeStocks{store}, fakeBooks{store}, fakeLedgers{store}, newTestSequences(store), nil)
	return f
}

func (f *purchaseFixture) input() *PurchaseInput {
	return &PurchaseInput{
		InvoiceDate:     time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		LedgerID:        f.ledger.ID,
		DiscountPercent: billing.FieldFromInt(10),
		GSTPercent:      billing.FieldFromInt(5),
		Lines: []PurchaseLineInput{
			{BookID: &f.novel.ID, Quantity: billing.FieldFromInt(2), Rate: billing.FieldFromInt(100)},
			{BookID: &f.atlas.ID, Quantity: billing.FieldFromInt(1), Rate: billing.FieldFromFloat(50.5)},
			{},
		},
	}
}

func TestCreatePurchase(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture()

	stock, err := f.svc.CreatePurchase(ctx, f.input())
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}

	if stock.InvoiceNo != "TIN1" {
		t.Errorf("InvoiceNo = %q, want TIN1", stock.InvoiceNo)
	}
	if stock.Type != enum.StockTypePurchase {
		t.Errorf("Type = %v, want Purchase", stock.Type)
	}
	if len(stock.Details) != 2 {
		t.Fatalf("got %d details, want 2 (blank row dropped)", len(stock.Details))
	}
	assertDecimal(t, "bill", stock.BillTotal, "250.5")
	assertDecimal(t, "discount", stock.DiscountAmount, "25")
	assertDecimal(t, "after discount", stock.TotalAfterDiscount, "225")
	assertDecimal(t, "gst", stock.GSTAmount, "11")
	assertDecimal(t, "grand", stock.GrandTotal, "236")

	if len(f.store.copies) != 3 {
		t.Fatalf("got %d copies, want 3", len(f.store.copies))
	}
	for i, want := range []struct {
		no   string
		book uuid.UUID
		rate string
	}{
		{"ACC1", f.novel.ID, "100"},
		{"ACC2", f.novel.ID, "100"},
		{"ACC3", f.atlas.ID, "50.5"},
	} {
		c := f.store.copies[i]
		if c.AccessionNo != want.no || c.BookID != want.book || c.Status != enum.CopyStatusAvailable {
			t.Errorf("copy %d = %s/%s/%s, want %s Available", i, c.AccessionNo, c.BookID, c.Status, want.no)
		}
		assertDecimal(t, "copy rate", c.Rate, want.rate)
		if c.PurchaseID == nil || *c.PurchaseID != stock.ID {
			t.Errorf("copy %d not linked to the purchase", i)
		}
	}

	if got := f.store.sequences[KindPurchase]; got != "TIN1" {
		t.Errorf("purchase sequence = %q, want TIN1", got)
	}
	if got := f.store.sequences[KindAccession]; got != "ACC3" {
		t.Errorf("accession sequence = %q, want ACC3", got)
	}

	second, err := f.svc.CreatePurchase(ctx, f.input())
	if err != nil {
		t.Fatalf("second CreatePurchase: %v", err)
	}
	if second.InvoiceNo != "TIN2" {
		t.Errorf("second InvoiceNo = %q, want TIN2", second.InvoiceNo)
	}
	if last := f.store.copies[len(f.store.copies)-1].AccessionNo; last != "ACC6" {
		t.Errorf("last accession = %q, want ACC6", last)
	}
}

func TestCreatePurchaseRetriesTakenNumber(t *testing.T) {
	f := newPurchaseFixture()
	f.store.duplicates = 1

	stock, err := f.svc.CreatePurchase(context.Background(), f.input())
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if stock.InvoiceNo != "TIN2" {
		t.Errorf("InvoiceNo = %q, want TIN2 after one collision", stock.InvoiceNo)
	}
	if first := f.store.copies[0].AccessionNo; first != "ACC4" {
		t.Errorf("first accession = %q, want ACC4", first)
	}
}

func TestCreatePurchaseGivesUpAfterRepeatedCollisions(t *testing.T) {
	f := newPurchaseFixture()
	f.store.duplicates = numberAttempts

	_, err := f.svc.CreatePurchase(context.Background(), f.input())
	assertKind(t, err, apperror.KindConflict)
}

func TestCreatePurchaseFreeFormNumber(t *testing.T) {
	f := newPurchaseFixture()
	in := f.input()
	in.InvoiceNo = " INV/2024/7 "

	stock, err := f.svc.CreatePurchase(context.Background(), in)
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}
	if stock.InvoiceNo != "INV/2024/7" {
		t.Errorf("InvoiceNo = %q", stock.InvoiceNo)
	}
	if got := f.store.sequences[KindPurchase]; got != "" {
		t.Errorf("free-form number advanced the sequence to %q", got)
	}
	if got := f.store.sequences[KindAccession]; got != "ACC3" {
		t.Errorf("accession sequence = %q, want ACC3", got)
	}
}

func TestCreatePurchaseRejects(t *testing.T) {
	missing := uuid.New()
	tests := []struct {
		name   string
		mutate func(f *purchaseFixture, in *PurchaseInput)
		kind   apperror.Kind
		field  string
	}{
		{
			name:   "unknown ledger",
			mutate: func(_ *purchaseFixture, in *PurchaseInput) { in.LedgerID = missing },
			kind:   apperror.KindNotFound,
		},
		{
			name:   "no complete rows",
			mutate: func(_ *purchaseFixture, in *PurchaseInput) { in.Lines = []PurchaseLineInput{{}} },
			kind:   apperror.KindValidation,
			field:  "details",
		},
		{
			name: "fractional quantity",
			mutate: func(_ *purchaseFixture, in *PurchaseInput) {
				in.Lines[0].Quantity = billing.FieldFromFloat(1.5)
			},
			kind:  apperror.KindValidation,
			field: "details[0].quantity",
		},
		{
			name: "negative rate",
			mutate: func(_ *purchaseFixture, in *PurchaseInput) {
				in.Lines[1].Rate = billing.FieldFromInt(-1)
			},
			kind:  apperror.KindValidation,
			field: "details[1].rate",
		},
		{
			name: "quantity beyond line limit",
			mutate: func(_ *purchaseFixture, in *PurchaseInput) {
				in.Lines[0].Quantity = billing.FieldFromInt(maxCopiesPerLine + 1)
			},
			kind:  apperror.KindValidation,
			field: "details[0].quantity",
		},
		{
			name: "quantity beyond int range",
			mutate: func(_ *purchaseFixture, in *PurchaseInput) {
				in.Lines[0].Quantity = billing.NewField(decimal.RequireFromString("10000000000000000000"))
			},
			kind:  apperror.KindValidation,
			field: "details[0].quantity",
		},
		{
			name: "too many copies in total",
			mutate: func(f *purchaseFixture, in *PurchaseInput) {
				in.Lines = nil
				for i := 0; i <= maxCopiesPerPurchase/maxCopiesPerLine; i++ {
					in.Lines = append(in.Lines, PurchaseLineInput{
						BookID:   &f.novel.ID,
						Quantity: billing.FieldFromInt(maxCopiesPerLine),
						Rate:     billing.FieldFromInt(10),
					})
				}
			},
			kind:  apperror.KindValidation,
			field: "details",
		},
		{
			name: "unknown book after a blank row",
			mutate: func(f *purchaseFixture, in *PurchaseInput) {
				in.Lines = []PurchaseLineInput{
					{},
					{BookID: &missing, Quantity: billing.FieldFromInt(1), Rate: billing.FieldFromInt(10)},
				}
			},
			kind:  apperror.KindValidation,
			field: "details[1].book_id",
		},
		{
			name:   "unknown book",
			mutate: func(_ *purchaseFixture, in *PurchaseInput) { in.Lines[1].BookID = &missing },
			kind:   apperror.KindValidation,
			field:  "details[1].book_id",
		},
		{
			name: "duplicate invoice number",
			mutate: func(f *purchaseFixture, in *PurchaseInput) {
				existing := f.input()
				existing.InvoiceNo = "TIN5"
				if _, err := f.svc.CreatePurchase(context.Background(), existing); err != nil {
					panic(err)
				}
				in.InvoiceNo = "TIN5"
			},
			kind: apperror.KindConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPurchaseFixture()
			in := f.input()
			tt.mutate(f, in)
			before, stocks := len(f.store.copies), len(f.store.stocks)

			_, err := f.svc.CreatePurchase(context.Background(), in)
			appErr := assertKind(t, err, tt.kind)
			if tt.field != "" {
				if len(appErr.Errors) == 0 || appErr.Errors[0].Field != tt.field {
					t.Errorf("field errors = %+v, want %s", appErr.Errors, tt.field)
				}
			}
			if len(f.store.copies) != before {
				t.Error("rejected purchase created copies")
			}
			if len(f.store.stocks) != stocks {
				t.Error("rejected purchase was stored")
			}
		})
	}
}

func TestUpdatePurchase(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture()
	stock, err := f.svc.CreatePurchase(ctx, f.input())
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}

	in := f.input()
	in.Lines = []PurchaseLineInput{
		{BookID: &f.atlas.ID, Quantity: billing.FieldFromInt(3), Rate: billing.NewField(decimal.RequireFromString("33.33"))},
	}
	updated, err := f.svc.UpdatePurchase(ctx, stock.ID, in)
	if err != nil {
		t.Fatalf("UpdatePurchase: %v", err)
	}

	if updated.InvoiceNo != "TIN1" {
		t.Errorf("blank invoice number on update should keep TIN1, got %q", updated.InvoiceNo)
	}
	assertDecimal(t, "bill", updated.BillTotal, "99")
	assertDecimal(t, "discount", updated.DiscountAmount, "9")
	assertDecimal(t, "after discount", updated.TotalAfterDiscount, "90")
	assertDecimal(t, "gst", updated.GSTAmount, "4")
	assertDecimal(t, "grand", updated.GrandTotal, "94")

	if len(f.store.copies) != 3 {
		t.Fatalf("got %d copies, want 3", len(f.store.copies))
	}
	for i, c := range f.store.copies {
		if c.BookID != f.atlas.ID {
			t.Errorf("copy %d still belongs to the old rows", i)
		}
	}
	if f.store.copies[0].AccessionNo != "ACC4" {
		t.Errorf("replacement copies reuse numbers: %s", f.store.copies[0].AccessionNo)
	}
}

func TestUpdatePurchaseRejectsOversizedQuantity(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture()
	stock, err := f.svc.CreatePurchase(ctx, f.input())
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}

	in := f.input()
	in.Lines[1].Quantity = billing.NewField(decimal.RequireFromString("10000000000000000000"))
	_, err = f.svc.UpdatePurchase(ctx, stock.ID, in)
	appErr := assertKind(t, err, apperror.KindValidation)
	if len(appErr.Errors) == 0 || appErr.Errors[0].Field != "details[1].quantity" {
		t.Errorf("field errors = %+v", appErr.Errors)
	}
	if len(f.store.copies) != 3 || f.store.copies[0].AccessionNo != "ACC1" {
		t.Error("refused update touched the copies")
	}
}

func TestPurchaseLockedOnceCopyLeavesShelf(t *testing.T) {
	ctx := context.Background()
	for _, status := range []enum.CopyStatus{enum.CopyStatusIssued, enum.CopyStatusScrapped} {
		t.Run(status.String(), func(t *testing.T) {
			f := newPurchaseFixture()
			stock, err := f.svc.CreatePurchase(ctx, f.input())
			if err != nil {
				t.Fatalf("CreatePurchase: %v", err)
			}
			f.store.copies[1].Status = status

			_, err = f.svc.UpdatePurchase(ctx, stock.ID, f.input())
			appErr := assertKind(t, err, apperror.KindConflict)
			if appErr.Message != "Purchase has copies that are issued or scrapped" {
				t.Errorf("message = %q", appErr.Message)
			}

			err = f.svc.DeletePurchase(ctx, stock.ID)
			assertKind(t, err, apperror.KindConflict)
			if len(f.store.copies) != 3 {
				t.Error("refused delete removed copies")
			}
		})
	}
}

func TestDeletePurchase(t *testing.T) {
	ctx := context.Background()
	f := newPurchaseFixture()
	stock, err := f.svc.CreatePurchase(ctx, f.input())
	if err != nil {
		t.Fatalf("CreatePurchase: %v", err)
	}

	if err := f.svc.DeletePurchase(ctx, stock.ID); err != nil {
		t.Fatalf("DeletePurchase: %v", err)
	}
	if len(f.store.copies) != 0 {
		t.Errorf("%d copies left after delete", len(f.store.copies))
	}
	_, err = f.svc.GetPurchase(ctx, stock.ID)
	assertKind(t, err, apperror.KindNotFound)
}
