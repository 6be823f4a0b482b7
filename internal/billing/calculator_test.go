package billing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(qty, rate string) LineItem {
	q, _ := ParseField(qty)
	r, _ := ParseField(rate)
	return LineItem{Quantity: q, Rate: r}
}

func assertDecimal(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestBillTotal(t *testing.T) {
	tests := []struct {
		name  string
		items []LineItem
		want  string
	}{
		{name: "no rows", items: nil, want: "0"},
		{name: "blank rows only", items: make([]LineItem, DefaultRows), want: "0"},
		{
			name:  "blank rows interspersed",
			items: []LineItem{item("2", "100"), item("", ""), item("1", "50"), item("3", ""), item("", "9")},
			want:  "250",
		},
		{name: "fractional amounts keep precision", items: []LineItem{item("3", "0.1"), item("1", "0.35")}, want: "0.65"},
		{name: "explicit zero quantity", items: []LineItem{item("0", "100"), item("1", "1")}, want: "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, "BillTotal", BillTotal(tt.items), tt.want)
		})
	}
}

func TestCalculateScenario(t *testing.T) {
	items := []LineItem{item("2", "100"), item("1", "50"), item("", "")}
	totals := Calculate(items, FieldFromInt(10), FieldFromInt(5))

	assertDecimal(t, "BillTotal", totals.BillTotal, "250")
	assertDecimal(t, "DiscountAmount", totals.DiscountAmount, "25")
	assertDecimal(t, "TotalAfterDiscount", totals.TotalAfterDiscount, "225")
	assertDecimal(t, "GSTAmount", totals.GSTAmount, "11")
	assertDecimal(t, "GrandTotal", totals.GrandTotal, "236")
}

func TestCalculateEmptyForm(t *testing.T) {
	totals := Calculate(nil, Blank(), Blank())

	for name, got := range map[string]decimal.Decimal{
		"BillTotal":          totals.BillTotal,
		"DiscountAmount":     totals.DiscountAmount,
		"TotalAfterDiscount": totals.TotalAfterDiscount,
		"GSTAmount":          totals.GSTAmount,
		"GrandTotal":         totals.GrandTotal,
	} {
		assertDecimal(t, name, got, "0")
	}
	if !totals.DiscountPercent.IsBlank() || !totals.GSTPercent.IsBlank() {
		t.Errorf("percentages should stay blank, got %q and %q", totals.DiscountPercent, totals.GSTPercent)
	}
}

func TestZeroPercentIsZeroAmount(t *testing.T) {
	for _, bill := range []string{"0", "1", "99.99", "12345.678"} {
		if got := DiscountAmount(dec(bill), FieldFromInt(0)); !got.IsZero() {
			t.Errorf("DiscountAmount(%s, 0) = %s", bill, got)
		}
		if got := GSTAmount(dec(bill), FieldFromInt(0)); !got.IsZero() {
			t.Errorf("GSTAmount(%s, 0) = %s", bill, got)
		}
		if got := DiscountAmount(dec(bill), Blank()); !got.IsZero() {
			t.Errorf("DiscountAmount(%s, blank) = %s", bill, got)
		}
	}
}

func TestGrandTotalMonotonicInGST(t *testing.T) {
	items := []LineItem{item("3", "333.33"), item("7", "12.5")}
	prev := decimal.NewFromInt(-1)
	for gst := 0; gst <= 40; gst++ {
		got := Calculate(items, FieldFromFloat(7.5), FieldFromInt(int64(gst))).GrandTotal
		if got.LessThan(prev) {
			t.Fatalf("grand total decreased at gst %d%%: %s < %s", gst, got, prev)
		}
		prev = got
	}
}

func TestIndependentFlooringDrift(t *testing.T) {
	one := decimal.NewFromInt(1)
	for _, tc := range []struct{ bill, pct string }{
		{"99", "12.5"},
		{"101", "33"},
		{"250", "10"},
		{"7", "50"},
		{"1234", "17.25"},
	} {
		pct, _ := ParseField(tc.pct)
		bill := dec(tc.bill)
		drift := bill.Sub(TotalAfterDiscount(bill, pct).Add(DiscountAmount(bill, pct))).Abs()
		if drift.GreaterThan(one) {
			t.Errorf("bill %s pct %s: drift %s exceeds one unit", tc.bill, tc.pct, drift)
		}
	}

	// 99 at 12.5% gives discount 12.375: floor(12.375)=12 but floor(86.625)=86.
	pct, _ := ParseField("12.5")
	assertDecimal(t, "DiscountAmount", DiscountAmount(dec("99"), pct), "12")
	assertDecimal(t, "TotalAfterDiscount", TotalAfterDiscount(dec("99"), pct), "86")
}

func TestCalculatorRoundingPolicies(t *testing.T) {
	items := []LineItem{item("3", "33.35"), item("1", "0.5")}
	discount, _ := ParseField("12.5")
	gst := FieldFromInt(18)

	tests := []struct {
		name     string
		rounding Rounding
		want     [5]string // bill, discount, after discount, gst, grand
	}{
		{
			name:     "floor independent",
			rounding: RoundFloorIndependent,
			want:     [5]string{"100.55", "12", "87", "15", "102"},
		},
		{
			name:     "floor chained",
			rounding: RoundFloorChained,
			want:     [5]string{"100", "12", "88", "15", "103"},
		},
		{
			name:     "cents",
			rounding: RoundCents,
			want:     [5]string{"100.55", "12.57", "87.98", "0", "87.98"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculator{Rounding: tt.rounding}.Totals(items, discount, gst)
			assertDecimal(t, "BillTotal", got.BillTotal, tt.want[0])
			assertDecimal(t, "DiscountAmount", got.DiscountAmount, tt.want[1])
			assertDecimal(t, "TotalAfterDiscount", got.TotalAfterDiscount, tt.want[2])
			assertDecimal(t, "GSTAmount", got.GSTAmount, tt.want[3])
			assertDecimal(t, "GrandTotal", got.GrandTotal, tt.want[4])
		})
	}
}

func TestRoundingJSON(t *testing.T) {
	var r Rounding
	if err := json.Unmarshal([]byte(`"floor_chained"`), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r != RoundFloorChained {
		t.Errorf("got %v, want floor_chained", r)
	}
	if err := json.Unmarshal([]byte(`"banker"`), &r); err == nil {
		t.Error("expected error for unknown rounding")
	}
	if err := json.Unmarshal([]byte(`2`), &r); err != nil || r != RoundCents {
		t.Errorf("numeric rounding = %v, %v, want cents", r, err)
	}
	for _, bad := range []string{`7`, `-1`} {
		r = RoundFloorChained
		if err := json.Unmarshal([]byte(bad), &r); err == nil {
			t.Errorf("expected error for rounding %s", bad)
		}
		if r != RoundFloorChained {
			t.Errorf("rejected rounding %s overwrote the value: %v", bad, r)
		}
	}
	out, _ := json.Marshal(RoundCents)
	if string(out) != `"cents"` {
		t.Errorf("marshal = %s", out)
	}
}
