// Package billing holds the invoice arithmetic shared by purchases, book
// scraps and the billing preview endpoints: totals, record grouping and
// document numbering. Nothing in here performs I/O.
package billing

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Rounding selects how intermediate invoice amounts are rounded.
type Rounding int

const (
	// RoundFloorIndependent floors every amount and derives the discounted
	// total from the bill total directly, not from the floored discount.
	RoundFloorIndependent Rounding = iota
	// RoundFloorChained floors the bill total first and derives each amount
	// from the previously floored one.
	RoundFloorChained
	// RoundCents rounds to two decimals and applies no GST.
	RoundCents
)

var roundingNames = [...]string{"floor_independent", "floor_chained", "cents"}

func (r Rounding) String() string {
	if int(r) < 0 || int(r) >= len(roundingNames) {
		return roundingNames[RoundFloorIndependent]
	}
	return roundingNames[r]
}

func (r Rounding) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Rounding) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if i < 0 || i >= len(roundingNames) {
			return fmt.Errorf("billing: unknown rounding %d", i)
		}
		*r = Rounding(i)
		return nil
	}
	parsed, err := ParseRounding(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRounding maps a rounding name to its value. Empty selects the default.
func ParseRounding(s string) (Rounding, error) {
	if s == "" {
		return RoundFloorIndependent, nil
	}
	for i, name := range roundingNames {
		if name == s {
			return Rounding(i), nil
		}
	}
	return RoundFloorIndependent, fmt.Errorf("billing: unknown rounding %q", s)
}

// LineItem is one editable invoice row.
type LineItem struct {
	Name     string `json:"name"`
	Quantity Field  `json:"quantity"`
	Rate     Field  `json:"rate"`
}

// Amount returns quantity × rate, or false when either is blank.
func (li LineItem) Amount() (decimal.Decimal, bool) {
	if li.Quantity.IsBlank() || li.Rate.IsBlank() {
		return decimal.Zero, false
	}
	return li.Quantity.Value.Mul(li.Rate.Value), true
}

// Totals is the derived summary block of an invoice.
type Totals struct {
	BillTotal          decimal.Decimal `json:"bill_total"`
	DiscountPercent    Field           `json:"discount_percent"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	TotalAfterDiscount decimal.Decimal `json:"total_after_discount"`
	GSTPercent         Field           `json:"gst_percent"`
	GSTAmount          decimal.Decimal `json:"gst_amount"`
	GrandTotal         decimal.Decimal `json:"grand_total"`
}

// BillTotal sums quantity × rate over the rows where both are present.
// The result is not rounded.
func BillTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if amount, ok := item.Amount(); ok {
			total = total.Add(amount)
		}
	}
	return total
}

// percentOf returns v × pct / 100, exactly.
func percentOf(v decimal.Decimal, pct Field) decimal.Decimal {
	return v.Mul(pct.OrZero()).Shift(-2)
}

// DiscountAmount is floor(bill × pct / 100).
func DiscountAmount(bill decimal.Decimal, pct Field) decimal.Decimal {
	return percentOf(bill, pct).Floor()
}

// TotalAfterDiscount is floor(bill − bill × pct / 100).
func TotalAfterDiscount(bill decimal.Decimal, pct Field) decimal.Decimal {
	return bill.Sub(percentOf(bill, pct)).Floor()
}

// GSTAmount is floor(total × pct / 100).
func GSTAmount(totalAfterDiscount decimal.Decimal, pct Field) decimal.Decimal {
	return percentOf(totalAfterDiscount, pct).Floor()
}

// GrandTotal is floor(total + total × pct / 100).
func GrandTotal(totalAfterDiscount decimal.Decimal, pct Field) decimal.Decimal {
	return totalAfterDiscount.Add(percentOf(totalAfterDiscount, pct)).Floor()
}

// Calculate derives totals with the default rounding.
func Calculate(items []LineItem, discount, gst Field) Totals {
	return Calculator{}.Totals(items, discount, gst)
}

// Calculator derives invoice totals under a rounding policy.
// The zero value uses RoundFloorIndependent.
type Calculator struct {
	Rounding Rounding
}

// Totals computes the summary block for items and the two percentages.
func (c Calculator) Totals(items []LineItem, discount, gst Field) Totals {
	bill := BillTotal(items)
	switch c.Rounding {
	case RoundFloorChained:
		bill = bill.Floor()
		disc := DiscountAmount(bill, discount)
		tad := bill.Sub(disc).Floor()
		tax := GSTAmount(tad, gst)
		return Totals{
			BillTotal:          bill,
			DiscountPercent:    discount,
			DiscountAmount:     disc,
			TotalAfterDiscount: tad,
			GSTPercent:         gst,
			GSTAmount:          tax,
			GrandTotal:         tad.Add(tax).Floor(),
		}
	case RoundCents:
		bill = bill.Round(2)
		tad := bill.Sub(percentOf(bill, discount)).Round(2)
		return Totals{
			BillTotal:          bill,
			DiscountPercent:    discount,
			DiscountAmount:     percentOf(bill, discount).Round(2),
			TotalAfterDiscount: tad,
			GSTPercent:         Blank(),
			GSTAmount:          decimal.Zero,
			GrandTotal:         tad,
		}
	default:
		tad := TotalAfterDiscount(bill, discount)
		return Totals{
			BillTotal:          bill,
			DiscountPercent:    discount,
			DiscountAmount:     DiscountAmount(bill, discount),
			TotalAfterDiscount: tad,
			GSTPercent:         gst,
			GSTAmount:          GSTAmount(tad, gst),
			GrandTotal:         GrandTotal(tad, gst),
		}
	}
}
