package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/library-api/internal/application/service"
	"github.com/sangkips/library-api/internal/billing"
	"github.com/sangkips/library-api/internal/presentation/http/dto/request"
	"github.com/sangkips/library-api/internal/presentation/http/dto/response"
	"github.com/sangkips/library-api/pkg/apperror"
)

// BillingHandler serves the invoice previews the billing screens call
// while a document is being edited. Nothing is saved.
type BillingHandler struct {
	sequences *service.SequenceService
}

// NewBillingHandler creates a new billing handler
func NewBillingHandler(sequences *service.SequenceService) *BillingHandler {
	return &BillingHandler{sequences: sequences}
}

// FormResponse is an edited form with its recomputed totals.
type FormResponse struct {
	Form   billing.InvoiceForm `json:"form"`
	Totals billing.Totals      `json:"totals"`
}

// Totals handles computing the totals of a set of rows
// @Summary Compute invoice totals
// @Tags billing
// @Accept json
// @Produce json
// @Param request body request.TotalsRequest true "Rows and percents"
// @Success 200 {object} response.APIResponse{data=billing.Totals}
// @Router /billing/totals [post]
func (h *BillingHandler) Totals(c *gin.Context) {
	var req request.TotalsRequest
	if !bindJSON(c, &req) {
		return
	}
	calc := billing.Calculator{Rounding: req.Rounding}
	response.OK(c, "Totals computed", calc.Totals(req.Items, req.DiscountPercent, req.GSTPercent))
}

// Form handles applying one edit to an invoice form
// @Summary Edit an invoice form
// @Tags billing
// @Accept json
// @Produce json
// @Param request body request.FormRequest true "Form and edit"
// @Success 200 {object} response.APIResponse{data=FormResponse}
// @Router /billing/form [post]
func (h *BillingHandler) Form(c *gin.Context) {
	var req request.FormRequest
	if !bindJSON(c, &req) {
		return
	}

	form, err := applyFormOp(req)
	if err != nil {
		if errors.Is(err, billing.ErrRowOutOfRange) {
			response.BadRequest(c, "Row "+strconv.Itoa(req.Row)+" does not exist")
			return
		}
		response.Error(c, err)
		return
	}
	response.OK(c, "Form updated", FormResponse{Form: form, Totals: form.Totals()})
}

func applyFormOp(req request.FormRequest) (billing.InvoiceForm, error) {
	f := req.Form
	switch req.Op {
	case request.FormOpNew:
		return billing.NewInvoiceForm(f.Rounding), nil
	case request.FormOpAppendRow:
		return f.AppendRow(), nil
	case request.FormOpRemoveRow:
		return f.RemoveRow(req.Row)
	case request.FormOpSetItem:
		if req.Item == nil {
			return f, apperror.NewValidationError([]apperror.FieldError{{Field: "item", Message: "Item is required"}})
		}
		return f.SetItem(req.Row, *req.Item)
	case request.FormOpEditName:
		return f.EditName(req.Row, req.Text)
	case request.FormOpEditQuantity:
		return f.EditQuantity(req.Row, req.Text)
	case request.FormOpEditRate:
		return f.EditRate(req.Row, req.Text)
	case request.FormOpEditDiscount:
		return f.EditDiscount(req.Text), nil
	case request.FormOpEditGST:
		return f.EditGST(req.Text), nil
	default:
		return f, apperror.NewBadRequestError("Unknown form operation " + strconv.Quote(req.Op))
	}
}

// NextNumber handles previewing the next document number of a kind
// @Summary Preview the next document number
// @Tags billing
// @Produce json
// @Param kind path string true "purchase, scrap, issue, return or accession"
// @Success 200 {object} response.APIResponse
// @Router /sequences/{kind}/next [get]
func (h *BillingHandler) NextNumber(c *gin.Context) {
	kind := c.Param("kind")
	number, err := h.sequences.Peek(c.Request.Context(), kind)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Next number retrieved", gin.H{"kind": kind, "number": number})
}
