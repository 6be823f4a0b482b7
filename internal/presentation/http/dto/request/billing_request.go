package request

import (
	"github.com/sangkips/library-api/internal/billing"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// TotalsRequest asks for the totals of a set of rows
type TotalsRequest struct {
	Items           []billing.LineItem `json:"items"`
	DiscountPercent billing.Field      `json:"discount_percent"`
	GSTPercent      billing.Field      `json:"gst_percent"`
	Rounding        billing.Rounding   `json:"rounding"`
}

// Form edit operations.
const (
	FormOpNew          = "new"
	FormOpAppendRow    = "append_row"
	FormOpRemoveRow    = "remove_row"
	FormOpSetItem      = "set_item"
	FormOpEditName     = "edit_name"
	FormOpEditQuantity = "edit_quantity"
	FormOpEditRate     = "edit_rate"
	FormOpEditDiscount = "edit_discount"
	FormOpEditGST      = "edit_gst"
)

// FormRequest applies one edit to an invoice form. Row, Text and Item are
// read according to Op.
type FormRequest struct {
	Form billing.InvoiceForm `json:"form"`
	Op   string              `json:"op" binding:"required"`
	Row  int                 `json:"row"`
	Text string              `json:"text"`
	Item *billing.LineItem   `json:"item"`
}
